package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/enums"
)

// Order is a customer purchase moving through the admin-driven lifecycle.
type Order struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber        string            `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerName       string            `gorm:"column:customer_name;not null"`
	CustomerPhone      string            `gorm:"column:customer_phone;not null"`
	CustomerEmail      *string           `gorm:"column:customer_email"`
	ShippingAddress    string            `gorm:"column:shipping_address;not null"`
	Status             enums.OrderStatus `gorm:"column:status;type:text;not null"`
	PaymentReceived    bool              `gorm:"column:payment_received;not null"`
	Subtotal           decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingFee        decimal.Decimal   `gorm:"column:shipping_fee;type:numeric(12,2);not null"`
	Discount           decimal.Decimal   `gorm:"column:discount;type:numeric(12,2);not null"`
	Total              decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Notes              *string           `gorm:"column:notes"`
	TrackingNumber     *string           `gorm:"column:tracking_number"`
	PaymentRequestedAt *time.Time        `gorm:"column:payment_requested_at"`
	PaymentConfirmedAt *time.Time        `gorm:"column:payment_confirmed_at"`
	ApprovedAt         *time.Time        `gorm:"column:approved_at"`
	ShippedAt          *time.Time        `gorm:"column:shipped_at"`
	DeliveredAt        *time.Time        `gorm:"column:delivered_at"`
	CancelledAt        *time.Time        `gorm:"column:cancelled_at"`
	Items              []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a line on an order. Product fields are snapshotted at creation
// so later catalog edits never rewrite order history.
type OrderItem struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID        `gorm:"column:product_id;type:uuid"`
	ProductName    string            `gorm:"column:product_name;not null"`
	ProductSKU     string            `gorm:"column:product_sku;not null"`
	Material       *string           `gorm:"column:material"`
	Specifications map[string]string `gorm:"column:specifications;type:jsonb;serializer:json"`
	UnitPrice      decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity       int               `gorm:"column:quantity;not null"`
	LineTotal      decimal.Decimal   `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
