package dto

import (
	"time"

	"paystack-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutRequest struct {
	CartID string `json:"cart_id" validate:"required,uuid4"`
}

type UpdateOrderStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending complete failed"`
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  uint `json:"quantity" validate:"required,min=1"`
}

type SetCartItemRequest struct {
	Quantity uint `json:"quantity" validate:"required,min=1"`
}

type RegisterMemberRequest struct {
	FirstName  string     `json:"first_name" validate:"max=255"`
	LastName   string     `json:"last_name" validate:"max=255"`
	Phone      string     `json:"phone" validate:"required,max=255"`
	BirthDate  *time.Time `json:"birth_date"`
	Membership string     `json:"membership" validate:"omitempty,oneof=affiliate bronze silver gold classic_gold"`
}

type AddressRequest struct {
	HouseNumber string `json:"house_number" validate:"required,max=10"`
	Street      string `json:"street" validate:"required,max=255"`
	City        string `json:"city" validate:"required,max=255"`
	State       string `json:"state" validate:"required,max=255"`
}

type TopUpRequest struct {
	AmountPaid  uint   `json:"amount_paid" validate:"required,min=1"`
	Description string `json:"description"`
}

type ComplaintRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Body    string `json:"body" validate:"required"`
}

type CreateCollectionRequest struct {
	Title             string `json:"title" validate:"required,max=255"`
	Description       string `json:"description"`
	FeaturedProductID *uint  `json:"featured_product_id" validate:"omitempty,min=1"`
}

// FeaturedProductRequest clears the featured product when ProductID is null.
type FeaturedProductRequest struct {
	ProductID *uint `json:"product_id" validate:"omitempty,min=1"`
}

type CreateProductRequest struct {
	Title        string          `json:"title" validate:"required,max=255"`
	Slug         string          `json:"slug" validate:"required,max=255"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Inventory    int             `json:"inventory" validate:"min=0"`
	CollectionID uint            `json:"collection_id" validate:"required"`
}

type ProductImageRequest struct {
	Image string `json:"image" validate:"required,max=512"`
}

type ReviewRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

type CartItemResponse struct {
	ProductID  uint            `json:"product_id"`
	Title      string          `json:"title"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   uint            `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartResponse struct {
	ID         uuid.UUID           `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []*CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal     `json:"total_price"`
}

type MemberResponse struct {
	*model.Pbo
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Addresses []*model.Address `json:"addresses"`
}

// WebhookResult is what the webhook endpoint reports back to Paystack.
type WebhookResult struct {
	Message       string              `json:"message"`
	OrderID       uint                `json:"order_id"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	Duplicate     bool                `json:"duplicate"`
}
