package whatsapp

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gemvault/gemvault-backend/pkg/enums"
)

// Formatter renders amounts and labels for the store's language and currency.
type Formatter struct {
	printer *message.Printer
	caser   cases.Caser
	unit    currency.Unit
	pattern string
}

func NewFormatter(lang, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}
	unit, err := currency.ParseISO(strings.TrimSpace(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return &Formatter{
		printer: message.NewPrinter(tag),
		caser:   cases.Title(tag),
		unit:    unit,
		pattern: fmt.Sprintf("%%s %%.%df", scale),
	}, nil
}

// Amount formats d with the currency code and locale digit grouping.
func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.printer.Sprintf(f.pattern, f.unit.String(), d.InexactFloat64())
}

// StatusLabel turns payment_pending into "Payment Pending".
func (f *Formatter) StatusLabel(status enums.OrderStatus) string {
	return f.caser.String(strings.ReplaceAll(status.Canonical().String(), "_", " "))
}
