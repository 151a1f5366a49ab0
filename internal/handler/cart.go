package handler

import (
	"net/http"

	"paystack-storefront/internal/apperr"
	"paystack-storefront/internal/dto"
	"paystack-storefront/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func cartIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.ErrCartNotFound
	}
	return id, nil
}

func (h *CartHandler) Create(c echo.Context) error {
	cart, err := h.cartService.Create(c.Request().Context())
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "cart created", cart)
}

func (h *CartHandler) Get(c echo.Context) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return err
	}

	cart, err := h.cartService.Get(c.Request().Context(), cartID)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "cart", cart)
}

func (h *CartHandler) Delete(c echo.Context) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return err
	}

	if err := h.cartService.Delete(c.Request().Context(), cartID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return err
	}

	var req dto.AddCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.cartService.AddItem(c.Request().Context(), cartID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "item added", cart)
}

func (h *CartHandler) SetItemQuantity(c echo.Context) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return err
	}
	productID, err := uintParam(c, "product_id")
	if err != nil {
		return err
	}

	var req dto.SetCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cart, err := h.cartService.SetItemQuantity(c.Request().Context(), cartID, productID, req.Quantity)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "item updated", cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	cartID, err := cartIDParam(c)
	if err != nil {
		return err
	}
	productID, err := uintParam(c, "product_id")
	if err != nil {
		return err
	}

	if err := h.cartService.RemoveItem(c.Request().Context(), cartID, productID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
