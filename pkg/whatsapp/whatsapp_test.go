package whatsapp

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gemvault/gemvault-backend/pkg/config"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		cc   string
		want string
	}{
		{name: "international with spaces", raw: "+52 1 555 000 1111", cc: "1", want: "5215550001111"},
		{name: "local trunk prefix", raw: "0412-555-1234", cc: "58", want: "584125551234"},
		{name: "double zero prefix", raw: "0052 55 1234 5678", cc: "1", want: "525512345678"},
		{name: "plain digits", raw: "(555) 123-4567", cc: "1", want: "5551234567"},
		{name: "country code with plus", raw: "0412 555 1234", cc: "+58", want: "584125551234"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.raw, tc.cc)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePhoneRejectsShortNumbers(t *testing.T) {
	for _, raw := range []string{"", "555-1234", "+12", "abc"} {
		_, err := NormalizePhone(raw, "1")
		require.True(t, errors.Is(err, ErrInvalidPhone), raw)
	}
}

func TestLinkEscapesText(t *testing.T) {
	link := Link("+52 155 5000 1111", "Hola & bye? 100%")
	require.Equal(t, "https://wa.me/5215550001111?text=Hola+%26+bye%3F+100%25", link)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	require.Equal(t, "Hola & bye? 100%", parsed.Query().Get("text"))

	require.Equal(t, "https://wa.me/5215550001111", Link("5215550001111", "  "))
}

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("en", "USD")
	require.NoError(t, err)
	require.Equal(t, "USD 250.50", f.Amount(decimal.RequireFromString("250.5")))
	require.Equal(t, "Payment Pending", f.StatusLabel(enums.OrderStatusPending))

	_, err = NewFormatter("en", "NOPE")
	require.Error(t, err)
}

func newComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(config.StoreConfig{
		Name:                "GemVault",
		WhatsAppPhone:       "+1 555 010 9999",
		DefaultCountryCode:  "52",
		Currency:            "USD",
		Language:            "en",
		PaymentInstructions: "Transfer to account 123.",
		PaymentQRURL:        "https://cdn.example.com/qr.png",
	})
	require.NoError(t, err)
	return c
}

func sampleOrder() *models.Order {
	tracking := "TRK-42"
	return &models.Order{
		OrderNumber:    "GV-20260315-ABC123",
		CustomerName:   "Ana",
		CustomerPhone:  "0155 1234 5678",
		Status:         enums.OrderStatusShipped,
		Total:          decimal.RequireFromString("140"),
		TrackingNumber: &tracking,
		Items: []models.OrderItem{
			{ProductName: "Sapphire Ring", Quantity: 2, LineTotal: decimal.RequireFromString("100")},
		},
	}
}

func TestComposerOrderConfirmationTargetsStore(t *testing.T) {
	msg := newComposer(t).OrderConfirmation(sampleOrder())

	require.Equal(t, "15550109999", msg.Phone)
	require.Contains(t, msg.Text, "GV-20260315-ABC123")
	require.Contains(t, msg.Text, "2 x Sapphire Ring")
	require.Contains(t, msg.Text, "USD 140.00")
	require.True(t, strings.HasPrefix(msg.URL, "https://wa.me/15550109999?text="))
}

func TestComposerPaymentRequestTargetsCustomer(t *testing.T) {
	msg, err := newComposer(t).PaymentRequest(sampleOrder())
	require.NoError(t, err)

	require.Equal(t, "5215512345678", msg.Phone)
	require.Contains(t, msg.Text, "Amount due: USD 140.00")
	require.Contains(t, msg.Text, "Transfer to account 123.")
	require.Contains(t, msg.Text, "https://cdn.example.com/qr.png")
}

func TestComposerStatusUpdate(t *testing.T) {
	c := newComposer(t)
	order := sampleOrder()

	msg, err := c.StatusUpdate(order)
	require.NoError(t, err)
	require.Contains(t, msg.Text, "Tracking number: TRK-42")

	order.Status = enums.OrderStatusProcessing
	msg, err = c.StatusUpdate(order)
	require.NoError(t, err)
	require.Contains(t, msg.Text, "is now: Processing")

	order.CustomerPhone = "12"
	_, err = c.StatusUpdate(order)
	require.ErrorIs(t, err, ErrInvalidPhone)
}
