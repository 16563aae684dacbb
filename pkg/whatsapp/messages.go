package whatsapp

import (
	"fmt"
	"strings"

	"github.com/gemvault/gemvault-backend/pkg/config"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
)

// Message is a ready-to-open chat link plus the text it carries.
type Message struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Composer builds the order messages exchanged between the store and its customers.
type Composer struct {
	storeName    string
	storePhone   string
	countryCode  string
	instructions string
	qrURL        string
	format       *Formatter
}

func NewComposer(cfg config.StoreConfig) (*Composer, error) {
	phone, err := NormalizePhone(cfg.WhatsAppPhone, cfg.DefaultCountryCode)
	if err != nil {
		return nil, fmt.Errorf("store whatsapp phone: %w", err)
	}
	format, err := NewFormatter(cfg.Language, cfg.Currency)
	if err != nil {
		return nil, err
	}
	return &Composer{
		storeName:    cfg.Name,
		storePhone:   phone,
		countryCode:  cfg.DefaultCountryCode,
		instructions: cfg.PaymentInstructions,
		qrURL:        cfg.PaymentQRURL,
		format:       format,
	}, nil
}

func (c *Composer) Formatter() *Formatter {
	return c.format
}

// OrderConfirmation is sent by the customer to the store right after checkout.
func (c *Composer) OrderConfirmation(order *models.Order) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s! I just placed order %s.\n", c.storeName, order.OrderNumber)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %d x %s (%s)\n", item.Quantity, item.ProductName, c.format.Amount(item.LineTotal))
	}
	fmt.Fprintf(&b, "Total: %s\n", c.format.Amount(order.Total))
	fmt.Fprintf(&b, "Name: %s", order.CustomerName)
	text := b.String()
	return Message{Phone: c.storePhone, Text: text, URL: Link(c.storePhone, text)}
}

// PaymentRequest asks the customer to pay for an approved order.
func (c *Composer) PaymentRequest(order *models.Order) (Message, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, your order %s from %s is confirmed.\n", order.CustomerName, order.OrderNumber, c.storeName)
	fmt.Fprintf(&b, "Amount due: %s\n", c.format.Amount(order.Total))
	if c.instructions != "" {
		b.WriteString(c.instructions)
		b.WriteString("\n")
	}
	if c.qrURL != "" {
		fmt.Fprintf(&b, "Payment QR: %s\n", c.qrURL)
	}
	return c.toCustomer(order, strings.TrimRight(b.String(), "\n"))
}

func (c *Composer) PaymentConfirmed(order *models.Order) (Message, error) {
	text := fmt.Sprintf("Hi %s, we received your payment of %s for order %s. We are preparing it now. Thank you for shopping with %s!",
		order.CustomerName, c.format.Amount(order.Total), order.OrderNumber, c.storeName)
	return c.toCustomer(order, text)
}

// StatusUpdate describes the order's current status to the customer.
func (c *Composer) StatusUpdate(order *models.Order) (Message, error) {
	var text string
	switch order.Status.Canonical() {
	case enums.OrderStatusShipped:
		text = fmt.Sprintf("Hi %s, your order %s has shipped!", order.CustomerName, order.OrderNumber)
		if order.TrackingNumber != nil && *order.TrackingNumber != "" {
			text += " Tracking number: " + *order.TrackingNumber
		}
	case enums.OrderStatusDelivered:
		text = fmt.Sprintf("Hi %s, your order %s was delivered. We hope you love it!", order.CustomerName, order.OrderNumber)
	case enums.OrderStatusCancelled:
		text = fmt.Sprintf("Hi %s, your order %s has been cancelled. Reply to this message if you have any questions.", order.CustomerName, order.OrderNumber)
	default:
		text = fmt.Sprintf("Hi %s, your order %s is now: %s.", order.CustomerName, order.OrderNumber, c.format.StatusLabel(order.Status))
	}
	return c.toCustomer(order, text)
}

// Custom wraps admin-written text addressed to the order's customer.
func (c *Composer) Custom(order *models.Order, text string) (Message, error) {
	return c.toCustomer(order, strings.TrimSpace(text))
}

func (c *Composer) toCustomer(order *models.Order, text string) (Message, error) {
	phone, err := NormalizePhone(order.CustomerPhone, c.countryCode)
	if err != nil {
		return Message{}, err
	}
	return Message{Phone: phone, Text: text, URL: Link(phone, text)}, nil
}

// CustomerPhone normalizes a customer number using the store's default country code.
func (c *Composer) CustomerPhone(raw string) (string, error) {
	return NormalizePhone(raw, c.countryCode)
}
