package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	FirstName string `gorm:"size:255"`
	LastName  string `gorm:"size:255"`
	CreatedAt time.Time
}

type Collection struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Title             string `gorm:"size:255;not null" json:"title"`
	Description       string `gorm:"type:text" json:"description"`
	FeaturedProductID *uint  `gorm:"index" json:"featured_product_id"` // cleared when the product is deleted
}

type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Title        string          `gorm:"size:255;not null" json:"title"`
	Slug         string          `gorm:"size:255;index;not null" json:"slug"`
	Description  string          `gorm:"type:text" json:"description"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"unit_price"`
	Inventory    int             `gorm:"not null" json:"inventory"`
	CollectionID uint            `gorm:"index;not null" json:"collection_id"` // PROTECT
	UpdatedAt    time.Time       `json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	Image     string `gorm:"size:512;not null" json:"image"`
}

type Review struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"index;not null" json:"product_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Pbo is a loyalty programme member.
type Pbo struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Phone          string          `gorm:"size:255;not null" json:"phone"`
	BirthDate      *time.Time      `gorm:"type:date" json:"birth_date,omitempty"`
	Membership     Membership      `gorm:"size:16;not null;default:bronze" json:"membership"`
	VoucherBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"voucher_balance"`
}

type Address struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PboID       uint   `gorm:"index;not null" json:"pbo_id"`
	HouseNumber string `gorm:"size:10;not null" json:"house_number"`
	Street      string `gorm:"size:255;not null" json:"street"`
	City        string `gorm:"size:255;not null" json:"city"`
	State       string `gorm:"size:255;not null" json:"state"`
}

type PboTopUp struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PboID       uint      `gorm:"index;not null" json:"pbo_id"` // PROTECT
	AmountPaid  uint      `gorm:"not null" json:"amount_paid"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Complaint struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PboID     uint      `gorm:"index;not null" json:"pbo_id"` // PROTECT
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	PlacedAt      time.Time       `gorm:"autoCreateTime;index" json:"placed_at"`
	PaymentStatus PaymentStatus   `gorm:"size:16;index;not null;default:pending" json:"payment_status"`
	PboID         uint            `gorm:"index;not null" json:"pbo_id"` // PROTECT
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	Reference     *string         `gorm:"size:100;index" json:"reference,omitempty"` // paystack payment reference
	UpdatedAt     time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"-" json:"items"`
}

// OrderItem.UnitPrice is the product price when the order was placed; it is
// never rewritten.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`   // PROTECT
	ProductID uint            `gorm:"index;not null" json:"product_id"` // PROTECT
	Quantity  uint            `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}

type Cart struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey"`
	CartID    uuid.UUID `gorm:"type:varchar(36);uniqueIndex:idx_cart_product;not null"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_product;not null"`
	Quantity  uint      `gorm:"not null"`
}

// WebhookEvent records each reconciled gateway delivery once.
type WebhookEvent struct {
	ID          uint   `gorm:"primaryKey"`
	Event       string `gorm:"size:64;uniqueIndex:idx_webhook_delivery;not null"`
	GatewayID   int64  `gorm:"uniqueIndex:idx_webhook_delivery"`
	Reference   string `gorm:"size:100;uniqueIndex:idx_webhook_delivery;not null"`
	OrderID     uint   `gorm:"index"`
	ProcessedAt time.Time
}

// All lists every table for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Collection{},
		&Product{},
		&ProductImage{},
		&Review{},
		&Pbo{},
		&Address{},
		&PboTopUp{},
		&Complaint{},
		&Order{},
		&OrderItem{},
		&Cart{},
		&CartItem{},
		&WebhookEvent{},
	}
}
