package handler

import (
	"net/http"

	"paystack-storefront/internal/dto"
	"paystack-storefront/internal/middleware"
	"paystack-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type MemberHandler struct {
	membershipService service.MembershipService
}

func NewMemberHandler(membershipService service.MembershipService) *MemberHandler {
	return &MemberHandler{
		membershipService: membershipService,
	}
}

func (h *MemberHandler) Register(c echo.Context) error {
	var req dto.RegisterMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	member, err := h.membershipService.Register(c.Request().Context(), service.RegisterMemberParams{
		Email:      middleware.UserEmail(c),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		BirthDate:  req.BirthDate,
		Membership: req.Membership,
	})
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "member registered", member)
}

func (h *MemberHandler) Me(c echo.Context) error {
	member, err := h.membershipService.Get(c.Request().Context(), middleware.UserEmail(c))
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "member", member)
}

func (h *MemberHandler) Leave(c echo.Context) error {
	if err := h.membershipService.Delete(c.Request().Context(), middleware.UserEmail(c)); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *MemberHandler) AddAddress(c echo.Context) error {
	var req dto.AddressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	address, err := h.membershipService.AddAddress(c.Request().Context(), middleware.UserEmail(c), &req)
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "address added", address)
}

func (h *MemberHandler) RecordTopUp(c echo.Context) error {
	var req dto.TopUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	topUp, err := h.membershipService.RecordTopUp(c.Request().Context(), middleware.UserEmail(c), req.AmountPaid, req.Description)
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "top-up recorded", topUp)
}

func (h *MemberHandler) FileComplaint(c echo.Context) error {
	var req dto.ComplaintRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	complaint, err := h.membershipService.FileComplaint(c.Request().Context(), middleware.UserEmail(c), req.Subject, req.Body)
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "complaint filed", complaint)
}
