package repository

import (
	"context"
	"fmt"

	"paystack-storefront/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error)
	FindOwned(ctx context.Context, tx *gorm.DB, orderID, pboID uint) (*model.Order, error)
	FindByReference(ctx context.Context, tx *gorm.DB, reference string) (*model.Order, error)
	ListByPbo(ctx context.Context, pboID uint) ([]*model.Order, error)
	GetOrderItems(ctx context.Context, tx *gorm.DB, orderID uint) ([]model.OrderItem, error)
	SetReference(ctx context.Context, tx *gorm.DB, orderID uint, reference string) (bool, error)
	TransitionStatus(ctx context.Context, tx *gorm.DB, orderID uint, from, to model.PaymentStatus) (bool, error)
	Delete(ctx context.Context, orderID uint) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return conn(ctx, r.db, tx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return conn(ctx, r.db, tx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order
	err := conn(ctx, r.db, tx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// FindOwned loads the order only when it belongs to pboID.
func (r *orderRepoImpl) FindOwned(ctx context.Context, tx *gorm.DB, orderID, pboID uint) (*model.Order, error) {
	var order model.Order
	err := conn(ctx, r.db, tx).
		Where("id = ? AND pbo_id = ?", orderID, pboID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// FindByReference returns the lowest-id order carrying reference.
func (r *orderRepoImpl) FindByReference(ctx context.Context, tx *gorm.DB, reference string) (*model.Order, error) {
	var order model.Order
	err := conn(ctx, r.db, tx).
		Where("reference = ?", reference).
		Order("id ASC").
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByPbo(ctx context.Context, pboID uint) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("pbo_id = ?", pboID).
		Order("placed_at DESC, id DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, tx *gorm.DB, orderID uint) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := conn(ctx, r.db, tx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// SetReference stores the gateway reference on a still-pending order and
// reports whether a row was written.
func (r *orderRepoImpl) SetReference(ctx context.Context, tx *gorm.DB, orderID uint, reference string) (bool, error) {
	result := conn(ctx, r.db, tx).Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, model.PaymentStatusPending).
		Update("reference", reference)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// TransitionStatus is a compare-and-set on payment_status: the row changes
// only if it is currently in from.
func (r *orderRepoImpl) TransitionStatus(ctx context.Context, tx *gorm.DB, orderID uint, from, to model.PaymentStatus) (bool, error) {
	result := conn(ctx, r.db, tx).Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, from).
		Update("payment_status", to)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *orderRepoImpl) Delete(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Where("id = ?", orderID).First(&model.Order{}).Error; err != nil {
			return err
		}

		items, err := countWhere(tx, &model.OrderItem{}, "order_id = ?", orderID)
		if err != nil {
			return fmt.Errorf("count order items: %w", err)
		}
		if items > 0 {
			return protected("order_items")
		}

		return tx.Delete(&model.Order{}, orderID).Error
	})
}
