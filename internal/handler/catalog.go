package handler

import (
	"net/http"

	"paystack-storefront/internal/dto"
	"paystack-storefront/internal/model"
	"paystack-storefront/internal/service"

	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the admin catalog maintenance routes.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) CreateCollection(c echo.Context) error {
	var req dto.CreateCollectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	collection := &model.Collection{
		Title:             req.Title,
		Description:       req.Description,
		FeaturedProductID: req.FeaturedProductID,
	}
	if err := h.catalogService.CreateCollection(c.Request().Context(), collection); err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "collection created", collection)
}

func (h *CatalogHandler) SetFeaturedProduct(c echo.Context) error {
	collectionID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.FeaturedProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.catalogService.SetFeaturedProduct(c.Request().Context(), collectionID, req.ProductID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) DeleteCollection(c echo.Context) error {
	collectionID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteCollection(c.Request().Context(), collectionID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req dto.CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product := &model.Product{
		Title:        req.Title,
		Slug:         req.Slug,
		Description:  req.Description,
		UnitPrice:    req.UnitPrice,
		Inventory:    req.Inventory,
		CollectionID: req.CollectionID,
	}
	if err := h.catalogService.CreateProduct(c.Request().Context(), product); err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "product created", product)
}

func (h *CatalogHandler) AddImage(c echo.Context) error {
	productID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.ProductImageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	image, err := h.catalogService.AddImage(c.Request().Context(), productID, req.Image)
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "image added", image)
}

func (h *CatalogHandler) AddReview(c echo.Context) error {
	productID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.catalogService.AddReview(c.Request().Context(), productID, req.Name, req.Description)
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated, "review added", review)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	productID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteProduct(c.Request().Context(), productID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
