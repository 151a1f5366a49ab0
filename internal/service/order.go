package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"paystack-storefront/internal/apperr"
	"paystack-storefront/internal/model"
	"paystack-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	Checkout(ctx context.Context, email string, cartID uuid.UUID) (*model.Order, error)
	Get(ctx context.Context, email string, orderID uint) (*model.Order, error)
	ListForMember(ctx context.Context, email string) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, email string, orderID uint, status model.PaymentStatus) (*model.Order, error)
	SettleStatus(ctx context.Context, orderID uint, status model.PaymentStatus) (*model.Order, error)
	Delete(ctx context.Context, email string, orderID uint) error
}

type orderServiceImpl struct {
	db          *gorm.DB
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	memberRepo  repository.MemberRepository
	logger      *slog.Logger
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	memberRepo repository.MemberRepository,
	logger *slog.Logger,
) OrderService {
	return &orderServiceImpl{
		db:          db,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		memberRepo:  memberRepo,
		logger:      logger,
	}
}

// Checkout turns the cart into a pending order for the member with email.
// Stock is taken, prices are snapshotted and the cart is removed in the same
// transaction.
func (s *orderServiceImpl) Checkout(ctx context.Context, email string, cartID uuid.UUID) (*model.Order, error) {
	pbo, err := s.memberRepo.FindPboByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}

	var order *model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.cartRepo.FindByID(ctx, tx, cartID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrCartNotFound
			}
			return fmt.Errorf("find cart: %w", err)
		}

		lines, err := s.cartRepo.GetLines(ctx, tx, cartID)
		if err != nil {
			return fmt.Errorf("get cart lines: %w", err)
		}
		if len(lines) == 0 {
			return apperr.ErrCartEmpty
		}

		total := decimal.Zero
		items := make([]*model.OrderItem, len(lines))
		for i, line := range lines {
			ok, err := s.productRepo.DecrementInventory(ctx, tx, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("decrement inventory: %w", err)
			}
			if !ok {
				return apperr.ErrInsufficientInventory.WithDetails(line.Title)
			}

			total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items[i] = &model.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			}
		}

		order = &model.Order{
			PboID:         pbo.ID,
			PaymentStatus: model.PaymentStatusPending,
			TotalAmount:   total,
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		for _, item := range items {
			item.OrderID = order.ID
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}
		for _, item := range items {
			order.Items = append(order.Items, *item)
		}

		if _, err := s.cartRepo.Delete(ctx, tx, cartID); err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.String("total", order.TotalAmount.StringFixed(2)))

	return order, nil
}

// Get returns one of the member's orders with its items. Orders of other
// members are reported as not found.
func (s *orderServiceImpl) Get(ctx context.Context, email string, orderID uint) (*model.Order, error) {
	order, err := s.ownedOrder(ctx, email, orderID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, order)
}

func (s *orderServiceImpl) ListForMember(ctx context.Context, email string) ([]*model.Order, error) {
	pbo, err := s.memberRepo.FindPboByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}

	return s.orderRepo.ListByPbo(ctx, pbo.ID)
}

// UpdateStatus lets a member abandon one of their pending orders. Completion
// only comes from a verified payment webhook or SettleStatus.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, email string, orderID uint, status model.PaymentStatus) (*model.Order, error) {
	order, err := s.ownedOrder(ctx, email, orderID)
	if err != nil {
		return nil, err
	}

	if status == model.PaymentStatusComplete {
		return nil, apperr.ErrStatusForbidden
	}

	return s.transition(ctx, order, status)
}

// SettleStatus is the back-office override: any order may move out of
// pending. Settled orders never change.
func (s *orderServiceImpl) SettleStatus(ctx context.Context, orderID uint, status model.PaymentStatus) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, nil, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	return s.transition(ctx, order, status)
}

func (s *orderServiceImpl) transition(ctx context.Context, order *model.Order, status model.PaymentStatus) (*model.Order, error) {
	if !order.PaymentStatus.CanTransitionTo(status) {
		return nil, apperr.ErrInvalidTransition.WithDetails(fmt.Sprintf("%s to %s", order.PaymentStatus, status))
	}

	changed, err := s.orderRepo.TransitionStatus(ctx, nil, order.ID, order.PaymentStatus, status)
	if err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	if !changed {
		// lost the race with a webhook or another update
		return nil, apperr.ErrInvalidTransition.WithDetails("order was settled concurrently")
	}

	s.logger.InfoContext(ctx, "order status changed",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.String("from", string(order.PaymentStatus)),
		slog.String("to", string(status)))

	updated, err := s.orderRepo.FindByID(ctx, nil, order.ID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	return s.withItems(ctx, updated)
}

func (s *orderServiceImpl) Delete(ctx context.Context, email string, orderID uint) error {
	order, err := s.ownedOrder(ctx, email, orderID)
	if err != nil {
		return err
	}

	err = s.orderRepo.Delete(ctx, order.ID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrOrderNotFound
	case errors.Is(err, repository.ErrProtected):
		return apperr.ErrOrderProtected
	default:
		return fmt.Errorf("delete order: %w", err)
	}
}

// ownedOrder resolves orderID within the orders of the member with email. A
// caller who is not a member owns no orders.
func (s *orderServiceImpl) ownedOrder(ctx context.Context, email string, orderID uint) (*model.Order, error) {
	pbo, err := s.memberRepo.FindPboByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}

	order, err := s.orderRepo.FindOwned(ctx, nil, orderID, pbo.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *orderServiceImpl) withItems(ctx context.Context, order *model.Order) (*model.Order, error) {
	items, err := s.orderRepo.GetOrderItems(ctx, nil, order.ID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	order.Items = items
	return order, nil
}
