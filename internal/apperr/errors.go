// Package apperr defines the machine-readable errors returned to API callers.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError is an error that knows how it should be presented over HTTP.
type AppError interface {
	error
	HTTPCode() int
	ErrorCode() string
	Message() string
	Details() string
	Retryable() bool
}

type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
	retryable bool
}

func New(httpCode int, errorCode, message string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
	}
}

func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}
	return e.message
}

func (e *BaseError) HTTPCode() int { return e.httpCode }
func (e *BaseError) ErrorCode() string { return e.errorCode }
func (e *BaseError) Message() string { return e.message }
func (e *BaseError) Details() string { return e.details }
func (e *BaseError) Retryable() bool { return e.retryable }

// Is matches on error code so that a copy carrying details still matches the
// predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return t.errorCode == e.errorCode
}

// WithDetails returns a copy with detailed error information.
func (e *BaseError) WithDetails(details string) *BaseError {
	cp := *e
	cp.details = details
	return &cp
}

func (e *BaseError) asRetryable() *BaseError {
	cp := *e
	cp.retryable = true
	return &cp
}

// As extracts the AppError carried by err, if any.
func As(err error) (AppError, bool) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

var (
	ErrUnauthorized = New(http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid credentials")
	ErrForbidden    = New(http.StatusForbidden, "FORBIDDEN", "not allowed for this account")
	ErrValidation   = New(http.StatusBadRequest, "VALIDATION_FAILED", "request validation failed")

	ErrOrderNotFound     = New(http.StatusNotFound, "ORDER_NOT_FOUND", "order not found")
	ErrOrderNotPending   = New(http.StatusConflict, "ORDER_NOT_PENDING", "order is not awaiting payment")
	ErrOrderProtected    = New(http.StatusConflict, "ORDER_PROTECTED", "order has line items and cannot be deleted")
	ErrInvalidTransition = New(http.StatusConflict, "INVALID_STATUS_TRANSITION", "payment status transition not allowed")
	ErrStatusForbidden   = New(http.StatusForbidden, "STATUS_CHANGE_FORBIDDEN", "orders are completed by payment confirmation only")
	ErrInvalidStatus     = New(http.StatusBadRequest, "INVALID_PAYMENT_STATUS", "unknown payment status")

	ErrEmailRequired      = New(http.StatusBadRequest, "EMAIL_REQUIRED", "an email address is required to pay")
	ErrInvalidAmount      = New(http.StatusBadRequest, "INVALID_AMOUNT", "order amount must be positive")
	ErrGatewayRejected    = New(http.StatusBadRequest, "GATEWAY_REJECTED", "failed to initiate payment")
	ErrGatewayTimeout     = New(http.StatusGatewayTimeout, "GATEWAY_TIMEOUT", "payment gateway timed out").asRetryable()
	ErrGatewayUnavailable = New(http.StatusBadGateway, "GATEWAY_UNAVAILABLE", "payment gateway unreachable").asRetryable()

	ErrInvalidSignature   = New(http.StatusUnauthorized, "INVALID_SIGNATURE", "webhook signature verification failed")
	ErrInvalidEvent       = New(http.StatusBadRequest, "INVALID_EVENT", "invalid event")
	ErrUnmatchedReference = New(http.StatusBadRequest, "UNMATCHED_REFERENCE", "no order matches the payment reference")

	ErrCartNotFound          = New(http.StatusNotFound, "CART_NOT_FOUND", "cart not found")
	ErrCartEmpty             = New(http.StatusBadRequest, "CART_EMPTY", "cart has no items")
	ErrCartItemNotFound      = New(http.StatusNotFound, "CART_ITEM_NOT_FOUND", "product is not in the cart")
	ErrInvalidQuantity       = New(http.StatusBadRequest, "INVALID_QUANTITY", "quantity must be at least 1")
	ErrInsufficientInventory = New(http.StatusConflict, "INSUFFICIENT_INVENTORY", "not enough stock for product")

	ErrProductNotFound     = New(http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
	ErrCollectionNotFound  = New(http.StatusNotFound, "COLLECTION_NOT_FOUND", "collection not found")
	ErrInvalidPrice        = New(http.StatusBadRequest, "INVALID_PRICE", "unit price must be positive")
	ErrInvalidInventory    = New(http.StatusBadRequest, "INVALID_INVENTORY", "inventory cannot be negative")
	ErrProductProtected    = New(http.StatusConflict, "PRODUCT_PROTECTED", "product is referenced by order items")
	ErrCollectionProtected = New(http.StatusConflict, "COLLECTION_PROTECTED", "collection still has products")

	ErrMemberNotFound      = New(http.StatusNotFound, "MEMBER_NOT_FOUND", "member not found")
	ErrMemberAlreadyExists = New(http.StatusConflict, "MEMBER_ALREADY_EXISTS", "user is already a member")
	ErrInvalidMembership   = New(http.StatusBadRequest, "INVALID_MEMBERSHIP", "unknown membership tier")
	ErrMemberProtected     = New(http.StatusConflict, "MEMBER_PROTECTED", "member has orders, top-ups or complaints")
)
