package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"paystack-storefront/internal/apperr"
	"paystack-storefront/internal/client"
	"paystack-storefront/internal/dto"
	"paystack-storefront/internal/model"
	"paystack-storefront/internal/repository"

	"gorm.io/gorm"
)

type PaymentService interface {
	InitiatePayment(ctx context.Context, orderID uint, email string) (json.RawMessage, error)
	HandleWebhook(ctx context.Context, signature string, body []byte) (*dto.WebhookResult, error)
}

type paymentServiceImpl struct {
	db               *gorm.DB
	paystackClient   client.PaystackClient
	callbackURL      string
	orderRepo        repository.OrderRepository
	memberRepo       repository.MemberRepository
	webhookEventRepo repository.WebhookEventRepository
	logger           *slog.Logger
}

func NewPaymentService(
	db *gorm.DB,
	paystackClient client.PaystackClient,
	callbackURL string,
	orderRepo repository.OrderRepository,
	memberRepo repository.MemberRepository,
	webhookEventRepo repository.WebhookEventRepository,
	logger *slog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		db:               db,
		paystackClient:   paystackClient,
		callbackURL:      callbackURL,
		orderRepo:        orderRepo,
		memberRepo:       memberRepo,
		webhookEventRepo: webhookEventRepo,
		logger:           logger,
	}
}

// InitiatePayment opens a Paystack checkout session for one of the payer's
// pending orders and returns Paystack's response body as received. The order
// only gains its payment reference when Paystack accepts the session.
func (s *paymentServiceImpl) InitiatePayment(ctx context.Context, orderID uint, email string) (json.RawMessage, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperr.ErrEmailRequired
	}

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

	if order.PaymentStatus != model.PaymentStatusPending {
		return nil, apperr.ErrOrderNotPending.WithDetails(fmt.Sprintf("order %d is %s", order.ID, order.PaymentStatus))
	}

	amount := model.MinorUnits(order.TotalAmount)
	if amount <= 0 {
		return nil, apperr.ErrInvalidAmount
	}

	reference := model.PaymentReference(order.ID)
	raw, err := s.paystackClient.InitializeTransaction(ctx, &client.InitializeTransactionRequest{
		Email:       email,
		Amount:      amount,
		Reference:   reference,
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		return nil, s.gatewayError(order.ID, err)
	}

	stored, err := s.orderRepo.SetReference(ctx, nil, order.ID, reference)
	if err != nil {
		return nil, fmt.Errorf("store payment reference: %w", err)
	}
	if !stored {
		// mysql reports zero affected rows when the reference was already set
		current, err := s.orderRepo.FindByID(ctx, nil, order.ID)
		if err != nil {
			return nil, fmt.Errorf("reload order: %w", err)
		}
		if current.PaymentStatus != model.PaymentStatusPending {
			s.logger.WarnContext(ctx, "order settled while payment was being initiated",
				slog.Uint64("order_id", uint64(order.ID)),
				slog.String("payment_status", string(current.PaymentStatus)))
			return nil, apperr.ErrOrderNotPending
		}
	}

	s.logger.InfoContext(ctx, "paystack session initiated",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.String("reference", reference),
		slog.Int64("amount", amount))

	return raw, nil
}

func (s *paymentServiceImpl) gatewayError(orderID uint, err error) error {
	attrs := []any{slog.Uint64("order_id", uint64(orderID)), slog.Any("error", err)}

	var rejected *client.RejectedError
	switch {
	case errors.As(err, &rejected):
		s.logger.Warn("paystack rejected payment initiation", append(attrs, slog.Int("status", rejected.StatusCode))...)
		return apperr.ErrGatewayRejected.WithDetails(fmt.Sprintf("paystack responded with status %d", rejected.StatusCode))
	case errors.Is(err, client.ErrGatewayTimeout):
		s.logger.Error("paystack timed out", attrs...)
		return apperr.ErrGatewayTimeout
	default:
		s.logger.Error("paystack unreachable", attrs...)
		return apperr.ErrGatewayUnavailable
	}
}

// HandleWebhook verifies and applies a Paystack event. Only charge.success
// is acted on; it moves the matching order from pending to complete once,
// and later deliveries for the same order report Duplicate.
func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, signature string, body []byte) (*dto.WebhookResult, error) {
	if err := s.paystackClient.VerifyWebhookSignature(body, signature); err != nil {
		s.logger.WarnContext(ctx, "rejected webhook with bad signature")
		return nil, apperr.ErrInvalidSignature
	}

	var event model.PaystackWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, apperr.ErrInvalidEvent.WithDetails("malformed payload")
	}

	if event.Event != model.EventChargeSuccess {
		s.logger.InfoContext(ctx, "ignoring paystack event", slog.String("event", event.Event))
		return nil, apperr.ErrInvalidEvent.WithDetails(event.Event)
	}

	reference := event.Data.Reference
	if reference == "" {
		return nil, apperr.ErrInvalidEvent.WithDetails("missing reference")
	}

	result := &dto.WebhookResult{
		Message:       "Payment successful",
		PaymentStatus: model.PaymentStatusComplete,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByReference(ctx, tx, reference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrUnmatchedReference.WithDetails(reference)
			}
			return fmt.Errorf("find order by reference: %w", err)
		}
		result.OrderID = order.ID

		if expected := model.MinorUnits(order.TotalAmount); event.Data.Amount != expected {
			s.logger.WarnContext(ctx, "charged amount differs from order total",
				slog.Uint64("order_id", uint64(order.ID)),
				slog.Int64("charged", event.Data.Amount),
				slog.Int64("expected", expected))
		}

		changed, err := s.orderRepo.TransitionStatus(ctx, tx, order.ID, model.PaymentStatusPending, model.PaymentStatusComplete)
		if err != nil {
			return fmt.Errorf("complete order: %w", err)
		}

		if !changed {
			current, err := s.orderRepo.FindByID(ctx, tx, order.ID)
			if err != nil {
				return fmt.Errorf("reload order: %w", err)
			}
			if current.PaymentStatus != model.PaymentStatusComplete {
				return apperr.ErrInvalidTransition.WithDetails(
					fmt.Sprintf("order %d is %s", order.ID, current.PaymentStatus))
			}

			seen, err := s.webhookEventRepo.Exists(ctx, tx, event.Event, event.Data.ID, reference)
			if err != nil {
				return fmt.Errorf("lookup webhook event: %w", err)
			}
			if seen {
				s.logger.InfoContext(ctx, "duplicate paystack delivery", slog.String("reference", reference))
			} else {
				s.logger.WarnContext(ctx, "new charge for an already completed order",
					slog.String("reference", reference),
					slog.Int64("gateway_id", event.Data.ID))
			}
			result.Duplicate = true
		}

		if err := s.webhookEventRepo.MarkProcessed(ctx, tx, &model.WebhookEvent{
			Event:     event.Event,
			GatewayID: event.Data.ID,
			Reference: reference,
			OrderID:   order.ID,
		}); err != nil {
			return fmt.Errorf("record webhook event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Duplicate {
		s.logger.InfoContext(ctx, "order paid",
			slog.Uint64("order_id", uint64(result.OrderID)),
			slog.String("reference", reference))
	}

	return result, nil
}
