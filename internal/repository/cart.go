package repository

import (
	"context"

	"paystack-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartLine is a cart item joined with the product it points at.
type CartLine struct {
	ProductID uint
	Title     string
	UnitPrice decimal.Decimal
	Quantity  uint
}

type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	FindByID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) (*model.Cart, error)
	UpsertItem(ctx context.Context, item *model.CartItem) error
	SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID uint, quantity uint) (bool, error)
	RemoveItem(ctx context.Context, cartID uuid.UUID, productID uint) (bool, error)
	GetLines(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]CartLine, error)
	Delete(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) (bool, error)
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := conn(ctx, r.db, tx).
		Where("id = ?", cartID).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

// UpsertItem adds item.Quantity to the existing (cart, product) row, or
// inserts it when the product is not in the cart yet.
func (r *cartRepoImpl) UpsertItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + ?", item.Quantity),
		}),
	}).Create(item).Error
}

func (r *cartRepoImpl) SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID uint, quantity uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *cartRepoImpl) RemoveItem(ctx context.Context, cartID uuid.UUID, productID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *cartRepoImpl) GetLines(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]CartLine, error) {
	var lines []CartLine
	err := conn(ctx, r.db, tx).
		Table("cart_items ci").
		Select("ci.product_id, p.title, p.unit_price, ci.quantity").
		Joins("JOIN products p ON p.id = ci.product_id").
		Where("ci.cart_id = ?", cartID).
		Order("ci.id ASC").
		Scan(&lines).Error

	if err != nil {
		return nil, err
	}

	return lines, nil
}

// Delete removes the cart together with its items.
func (r *cartRepoImpl) Delete(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) (bool, error) {
	var deleted bool
	err := conn(ctx, r.db, tx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", cartID).Delete(&model.Cart{})
		deleted = result.RowsAffected > 0
		return result.Error
	})

	return deleted, err
}
