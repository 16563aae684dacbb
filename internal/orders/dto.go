package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	"github.com/gemvault/gemvault-backend/pkg/pagination"
	"github.com/gemvault/gemvault-backend/pkg/whatsapp"
)

// OrderItemInput references a catalog product and the quantity wanted.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0,lte=100"`
}

// CreateOrderInput is the checkout payload. Fee and discount are honoured for admin-created orders only.
type CreateOrderInput struct {
	CustomerName    string           `json:"customerName" validate:"required,max=120"`
	CustomerPhone   string           `json:"customerPhone" validate:"required,max=32"`
	CustomerEmail   *string          `json:"customerEmail" validate:"omitempty,email,max=254"`
	ShippingAddress string           `json:"shippingAddress" validate:"required,max=500"`
	Notes           *string          `json:"notes" validate:"omitempty,max=2000"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,max=50,dive"`
	ShippingFee     *decimal.Decimal `json:"shippingFee"`
	Discount        *decimal.Decimal `json:"discount"`
}

// UpdateOrderInput carries the editable order fields; nil leaves a field unchanged.
type UpdateOrderInput struct {
	CustomerName    *string          `json:"customerName" validate:"omitempty,min=1,max=120"`
	CustomerPhone   *string          `json:"customerPhone" validate:"omitempty,min=1,max=32"`
	CustomerEmail   *string          `json:"customerEmail" validate:"omitempty,email,max=254"`
	ShippingAddress *string          `json:"shippingAddress" validate:"omitempty,min=1,max=500"`
	Notes           *string          `json:"notes" validate:"omitempty,max=2000"`
	TrackingNumber  *string          `json:"trackingNumber" validate:"omitempty,max=120"`
	ShippingFee     *decimal.Decimal `json:"shippingFee"`
	Discount        *decimal.Decimal `json:"discount"`
}

// ApproveInput optionally asks for the payment request link in the same call.
type ApproveInput struct {
	SendPaymentRequest bool `json:"sendPaymentRequest"`
}

type ShipInput struct {
	TrackingNumber *string `json:"trackingNumber" validate:"omitempty,max=120"`
}

type CancelInput struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

type WhatsAppInput struct {
	Message string `json:"message" validate:"omitempty,max=2000"`
}

// ListOrdersInput filters the admin order list.
type ListOrdersInput struct {
	Status          *enums.OrderStatus
	PaymentReceived *bool
	Query           string
	Pagination      pagination.Params
}

type OrderItemDTO struct {
	ID             uuid.UUID         `json:"id"`
	ProductID      *uuid.UUID        `json:"productId,omitempty"`
	ProductName    string            `json:"productName"`
	ProductSKU     string            `json:"productSku"`
	Material       *string           `json:"material,omitempty"`
	Specifications map[string]string `json:"specifications"`
	UnitPrice      decimal.Decimal   `json:"unitPrice"`
	Quantity       int               `json:"quantity"`
	LineTotal      decimal.Decimal   `json:"lineTotal"`
}

// OrderDTO is the admin view of an order. Legacy "pending" rows surface as payment_pending.
type OrderDTO struct {
	ID                 uuid.UUID           `json:"id"`
	OrderNumber        string              `json:"orderNumber"`
	CustomerName       string              `json:"customerName"`
	CustomerPhone      string              `json:"customerPhone"`
	CustomerEmail      *string             `json:"customerEmail,omitempty"`
	ShippingAddress    string              `json:"shippingAddress"`
	Status             enums.OrderStatus   `json:"status"`
	PaymentReceived    bool                `json:"paymentReceived"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	ShippingFee        decimal.Decimal     `json:"shippingFee"`
	Discount           decimal.Decimal     `json:"discount"`
	Total              decimal.Decimal     `json:"total"`
	Notes              *string             `json:"notes,omitempty"`
	TrackingNumber     *string             `json:"trackingNumber,omitempty"`
	PaymentRequestedAt *time.Time          `json:"paymentRequestedAt,omitempty"`
	PaymentConfirmedAt *time.Time          `json:"paymentConfirmedAt,omitempty"`
	ApprovedAt         *time.Time          `json:"approvedAt,omitempty"`
	ShippedAt          *time.Time          `json:"shippedAt,omitempty"`
	DeliveredAt        *time.Time          `json:"deliveredAt,omitempty"`
	CancelledAt        *time.Time          `json:"cancelledAt,omitempty"`
	AllowedActions     []enums.OrderAction `json:"allowedActions"`
	Items              []OrderItemDTO      `json:"items"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func NewOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		specs := item.Specifications
		if specs == nil {
			specs = map[string]string{}
		}
		items = append(items, OrderItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			ProductSKU:     item.ProductSKU,
			Material:       item.Material,
			Specifications: specs,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			LineTotal:      item.LineTotal,
		})
	}
	return &OrderDTO{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		CustomerName:       order.CustomerName,
		CustomerPhone:      order.CustomerPhone,
		CustomerEmail:      order.CustomerEmail,
		ShippingAddress:    order.ShippingAddress,
		Status:             order.Status.Canonical(),
		PaymentReceived:    order.PaymentReceived,
		Subtotal:           order.Subtotal,
		ShippingFee:        order.ShippingFee,
		Discount:           order.Discount,
		Total:              order.Total,
		Notes:              order.Notes,
		TrackingNumber:     order.TrackingNumber,
		PaymentRequestedAt: order.PaymentRequestedAt,
		PaymentConfirmedAt: order.PaymentConfirmedAt,
		ApprovedAt:         order.ApprovedAt,
		ShippedAt:          order.ShippedAt,
		DeliveredAt:        order.DeliveredAt,
		CancelledAt:        order.CancelledAt,
		AllowedActions:     AllowedActions(order),
		Items:              items,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}

// TrackingDTO is what the storefront may see of an order.
type TrackingDTO struct {
	OrderNumber     string            `json:"orderNumber"`
	Status          enums.OrderStatus `json:"status"`
	StatusLabel     string            `json:"statusLabel"`
	PaymentReceived bool              `json:"paymentReceived"`
	TrackingNumber  *string           `json:"trackingNumber,omitempty"`
	Total           decimal.Decimal   `json:"total"`
	ItemCount       int               `json:"itemCount"`
	CreatedAt       time.Time         `json:"createdAt"`
	ShippedAt       *time.Time        `json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time        `json:"deliveredAt,omitempty"`
}

// ActionResult is an order after an admin action plus the WhatsApp link to send, if any.
type ActionResult struct {
	Order    *OrderDTO         `json:"order"`
	WhatsApp *whatsapp.Message `json:"whatsapp,omitempty"`
}

// PlacedOrder is the storefront checkout response.
type PlacedOrder struct {
	Order    *OrderDTO        `json:"order"`
	WhatsApp whatsapp.Message `json:"whatsapp"`
}

// StaleSweepResult reports a deleteStaleOrders run.
type StaleSweepResult struct {
	Deleted      int       `json:"deleted"`
	Cutoff       time.Time `json:"cutoff"`
	OrderNumbers []string  `json:"orderNumbers"`
}
