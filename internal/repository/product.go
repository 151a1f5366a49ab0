package repository

import (
	"context"
	"fmt"

	"paystack-storefront/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	CreateCollection(ctx context.Context, collection *model.Collection) error
	FindCollection(ctx context.Context, collectionID uint) (*model.Collection, error)
	SetFeaturedProduct(ctx context.Context, collectionID uint, productID *uint) error
	DeleteCollection(ctx context.Context, collectionID uint) error

	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error)
	DecrementInventory(ctx context.Context, tx *gorm.DB, productID uint, quantity uint) (bool, error)
	AddImage(ctx context.Context, image *model.ProductImage) error
	AddReview(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, productID uint) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) CreateCollection(ctx context.Context, collection *model.Collection) error {
	return r.db.WithContext(ctx).Create(collection).Error
}

func (r *productRepoImpl) FindCollection(ctx context.Context, collectionID uint) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.WithContext(ctx).
		Where("id = ?", collectionID).
		First(&collection).Error

	if err != nil {
		return nil, err
	}

	return &collection, nil
}

func (r *productRepoImpl) SetFeaturedProduct(ctx context.Context, collectionID uint, productID *uint) error {
	result := r.db.WithContext(ctx).Model(&model.Collection{}).
		Where("id = ?", collectionID).
		Update("featured_product_id", productID)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *productRepoImpl) DeleteCollection(ctx context.Context, collectionID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Where("id = ?", collectionID).First(&model.Collection{}).Error; err != nil {
			return err
		}

		products, err := countWhere(tx, &model.Product{}, "collection_id = ?", collectionID)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if products > 0 {
			return protected("products")
		}

		return tx.Delete(&model.Collection{}, collectionID).Error
	})
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, productID uint) (*model.Product, error) {
	var product model.Product
	err := conn(ctx, r.db, tx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

// DecrementInventory takes quantity units out of stock only if that many are
// available, and reports whether it did.
func (r *productRepoImpl) DecrementInventory(ctx context.Context, tx *gorm.DB, productID uint, quantity uint) (bool, error) {
	result := conn(ctx, r.db, tx).Model(&model.Product{}).
		Where("id = ? AND inventory >= ?", productID, quantity).
		Update("inventory", gorm.Expr("inventory - ?", quantity))

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *productRepoImpl) AddImage(ctx context.Context, image *model.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *productRepoImpl) AddReview(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Delete removes a product that no order line references. Images, reviews
// and cart lines go with it; collections featuring it lose the feature.
func (r *productRepoImpl) Delete(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Where("id = ?", productID).First(&model.Product{}).Error; err != nil {
			return err
		}

		orderItems, err := countWhere(tx, &model.OrderItem{}, "product_id = ?", productID)
		if err != nil {
			return fmt.Errorf("count order items: %w", err)
		}
		if orderItems > 0 {
			return protected("order_items")
		}

		if err := tx.Model(&model.Collection{}).
			Where("featured_product_id = ?", productID).
			Update("featured_product_id", nil).Error; err != nil {
			return fmt.Errorf("clear featured product: %w", err)
		}

		for _, dependent := range []any{&model.ProductImage{}, &model.Review{}, &model.CartItem{}} {
			if err := tx.Where("product_id = ?", productID).Delete(dependent).Error; err != nil {
				return fmt.Errorf("delete %T: %w", dependent, err)
			}
		}

		return tx.Delete(&model.Product{}, productID).Error
	})
}
