package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"paystack-storefront/internal/apperr"
	"paystack-storefront/internal/dto"
	"paystack-storefront/internal/model"
	"paystack-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService interface {
	Create(ctx context.Context) (*dto.CartResponse, error)
	Get(ctx context.Context, cartID uuid.UUID) (*dto.CartResponse, error)
	AddItem(ctx context.Context, cartID uuid.UUID, productID uint, quantity uint) (*dto.CartResponse, error)
	SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID uint, quantity uint) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, cartID uuid.UUID, productID uint) error
	Delete(ctx context.Context, cartID uuid.UUID) error
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger *slog.Logger) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

func (s *cartServiceImpl) Create(ctx context.Context) (*dto.CartResponse, error) {
	cart := &model.Cart{ID: uuid.New()}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("store cart in db: %w", err)
	}

	return &dto.CartResponse{
		ID:         cart.ID,
		CreatedAt:  cart.CreatedAt,
		Items:      []*dto.CartItemResponse{},
		TotalPrice: decimal.Zero,
	}, nil
}

func (s *cartServiceImpl) Get(ctx context.Context, cartID uuid.UUID) (*dto.CartResponse, error) {
	cart, err := s.findCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	lines, err := s.cartRepo.GetLines(ctx, nil, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart lines: %w", err)
	}

	resp := &dto.CartResponse{
		ID:         cart.ID,
		CreatedAt:  cart.CreatedAt,
		Items:      make([]*dto.CartItemResponse, len(lines)),
		TotalPrice: decimal.Zero,
	}
	for i, line := range lines {
		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		resp.Items[i] = &dto.CartItemResponse{
			ProductID:  line.ProductID,
			Title:      line.Title,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			TotalPrice: subtotal,
		}
		resp.TotalPrice = resp.TotalPrice.Add(subtotal)
	}

	return resp, nil
}

// AddItem puts quantity units of the product in the cart. A product already
// in the cart has quantity added to what is there.
func (s *cartServiceImpl) AddItem(ctx context.Context, cartID uuid.UUID, productID uint, quantity uint) (*dto.CartResponse, error) {
	if quantity < 1 {
		return nil, apperr.ErrInvalidQuantity
	}

	if _, err := s.findCart(ctx, cartID); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByID(ctx, nil, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if err := s.cartRepo.UpsertItem(ctx, &model.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}); err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	return s.Get(ctx, cartID)
}

func (s *cartServiceImpl) SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID uint, quantity uint) (*dto.CartResponse, error) {
	if quantity < 1 {
		return nil, apperr.ErrInvalidQuantity
	}

	if _, err := s.findCart(ctx, cartID); err != nil {
		return nil, err
	}

	ok, err := s.cartRepo.SetItemQuantity(ctx, cartID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	if !ok {
		return nil, apperr.ErrCartItemNotFound
	}

	return s.Get(ctx, cartID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, cartID uuid.UUID, productID uint) error {
	if _, err := s.findCart(ctx, cartID); err != nil {
		return err
	}

	ok, err := s.cartRepo.RemoveItem(ctx, cartID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if !ok {
		return apperr.ErrCartItemNotFound
	}

	return nil
}

func (s *cartServiceImpl) Delete(ctx context.Context, cartID uuid.UUID) error {
	ok, err := s.cartRepo.Delete(ctx, nil, cartID)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if !ok {
		return apperr.ErrCartNotFound
	}

	s.logger.DebugContext(ctx, "cart deleted", slog.String("cart_id", cartID.String()))
	return nil
}

func (s *cartServiceImpl) findCart(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByID(ctx, nil, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	return cart, nil
}
