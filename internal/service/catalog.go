package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"paystack-storefront/internal/apperr"
	"paystack-storefront/internal/model"
	"paystack-storefront/internal/repository"

	"gorm.io/gorm"
)

// CatalogService maintains collections and products for the back office.
// Shoppers only see products through carts and orders.
type CatalogService interface {
	CreateCollection(ctx context.Context, collection *model.Collection) error
	SetFeaturedProduct(ctx context.Context, collectionID uint, productID *uint) error
	DeleteCollection(ctx context.Context, collectionID uint) error

	CreateProduct(ctx context.Context, product *model.Product) error
	AddImage(ctx context.Context, productID uint, image string) (*model.ProductImage, error)
	AddReview(ctx context.Context, productID uint, name, description string) (*model.Review, error)
	DeleteProduct(ctx context.Context, productID uint) error
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

func NewCatalogService(productRepo repository.ProductRepository, logger *slog.Logger) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *catalogServiceImpl) CreateCollection(ctx context.Context, collection *model.Collection) error {
	if collection.FeaturedProductID != nil {
		if err := s.requireProduct(ctx, *collection.FeaturedProductID); err != nil {
			return err
		}
	}

	if err := s.productRepo.CreateCollection(ctx, collection); err != nil {
		return fmt.Errorf("store collection in db: %w", err)
	}
	return nil
}

// SetFeaturedProduct features productID on the collection; nil clears it.
func (s *catalogServiceImpl) SetFeaturedProduct(ctx context.Context, collectionID uint, productID *uint) error {
	if productID != nil {
		if err := s.requireProduct(ctx, *productID); err != nil {
			return err
		}
	}

	err := s.productRepo.SetFeaturedProduct(ctx, collectionID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrCollectionNotFound
		}
		return fmt.Errorf("set featured product: %w", err)
	}
	return nil
}

func (s *catalogServiceImpl) DeleteCollection(ctx context.Context, collectionID uint) error {
	err := s.productRepo.DeleteCollection(ctx, collectionID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrCollectionNotFound
	case errors.Is(err, repository.ErrProtected):
		return apperr.ErrCollectionProtected
	default:
		return fmt.Errorf("delete collection: %w", err)
	}
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, product *model.Product) error {
	if !product.UnitPrice.IsPositive() {
		return apperr.ErrInvalidPrice
	}
	if product.Inventory < 0 {
		return apperr.ErrInvalidInventory
	}

	if _, err := s.productRepo.FindCollection(ctx, product.CollectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrCollectionNotFound
		}
		return fmt.Errorf("find collection: %w", err)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return fmt.Errorf("store product in db: %w", err)
	}
	return nil
}

func (s *catalogServiceImpl) AddImage(ctx context.Context, productID uint, image string) (*model.ProductImage, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	img := &model.ProductImage{ProductID: productID, Image: image}
	if err := s.productRepo.AddImage(ctx, img); err != nil {
		return nil, fmt.Errorf("store product image: %w", err)
	}
	return img, nil
}

func (s *catalogServiceImpl) AddReview(ctx context.Context, productID uint, name, description string) (*model.Review, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}

	review := &model.Review{ProductID: productID, Name: name, Description: description}
	if err := s.productRepo.AddReview(ctx, review); err != nil {
		return nil, fmt.Errorf("store review: %w", err)
	}
	return review, nil
}

// DeleteProduct removes a product that was never ordered.
func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, productID uint) error {
	err := s.productRepo.Delete(ctx, productID)
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "product deleted", slog.Uint64("product_id", uint64(productID)))
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrProductNotFound
	case errors.Is(err, repository.ErrProtected):
		return apperr.ErrProductProtected
	default:
		return fmt.Errorf("delete product: %w", err)
	}
}

func (s *catalogServiceImpl) requireProduct(ctx context.Context, productID uint) error {
	if _, err := s.productRepo.FindByID(ctx, nil, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrProductNotFound
		}
		return fmt.Errorf("find product: %w", err)
	}
	return nil
}
