package handler

import (
	"io"
	"net/http"

	"paystack-storefront/internal/apperr"
	"paystack-storefront/internal/client"
	"paystack-storefront/internal/dto"
	"paystack-storefront/internal/middleware"
	"paystack-storefront/internal/model"
	"paystack-storefront/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService   service.OrderService
	paymentService service.PaymentService
}

func NewOrderHandler(orderService service.OrderService, paymentService service.PaymentService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	var req dto.CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cartID, err := uuid.Parse(req.CartID)
	if err != nil {
		return apperr.ErrValidation.WithDetails("cart_id: uuid4")
	}

	order, err := h.orderService.Checkout(c.Request().Context(), middleware.UserEmail(c), cartID)
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "order placed", order)
}

func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orderService.ListForMember(c.Request().Context(), middleware.UserEmail(c))
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "orders", orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	orderID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(c.Request().Context(), middleware.UserEmail(c), orderID)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "order", order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, status, err := statusChange(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), middleware.UserEmail(c), orderID, status)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "order updated", order)
}

// Settle is the admin counterpart of UpdateStatus and works on any order.
func (h *OrderHandler) Settle(c echo.Context) error {
	orderID, status, err := statusChange(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.SettleStatus(c.Request().Context(), orderID, status)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "order settled", order)
}

func statusChange(c echo.Context) (uint, model.PaymentStatus, error) {
	orderID, err := uintParam(c, "id")
	if err != nil {
		return 0, "", err
	}

	var req dto.UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return 0, "", err
	}

	status, err := model.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return 0, "", apperr.ErrInvalidStatus.WithDetails(req.PaymentStatus)
	}
	return orderID, status, nil
}

func (h *OrderHandler) Delete(c echo.Context) error {
	orderID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.orderService.Delete(c.Request().Context(), middleware.UserEmail(c), orderID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// InitiatePayment answers with Paystack's own response body on success.
func (h *OrderHandler) InitiatePayment(c echo.Context) error {
	orderID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	raw, err := h.paymentService.InitiatePayment(c.Request().Context(), orderID, middleware.UserEmail(c))
	if err != nil {
		return err
	}

	return c.JSONBlob(http.StatusOK, raw)
}

// PaystackWebhook needs the body exactly as sent for signature checking, so
// it reads it raw instead of binding.
func (h *OrderHandler) PaystackWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperr.ErrInvalidEvent.WithDetails("unreadable body")
	}

	result, err := h.paymentService.HandleWebhook(c.Request().Context(), c.Request().Header.Get(client.SignatureHeader), body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
