// Package whatsapp builds click-to-chat links and the customer messages sent through them.
// Nothing here talks to the network; "sending" a message means handing the admin a wa.me URL.
package whatsapp

import (
	"errors"
	"net/url"
	"strings"
)

const (
	baseURL   = "https://wa.me/"
	minDigits = 8
	maxDigits = 15
)

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone reduces raw to international digits. A leading 0 is a
// national trunk prefix and is replaced by defaultCountryCode; a leading +
// or 00 marks a number that already carries its country code.
func NormalizePhone(raw, defaultCountryCode string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	international := strings.HasPrefix(trimmed, "+")

	digits := onlyDigits(trimmed)
	if !international && strings.HasPrefix(digits, "00") {
		digits = digits[2:]
		international = true
	}
	if !international && strings.HasPrefix(digits, "0") {
		digits = onlyDigits(defaultCountryCode) + strings.TrimLeft(digits, "0")
	}

	if len(digits) < minDigits || len(digits) > maxDigits {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// Link returns the click-to-chat URL for phone with text prefilled.
func Link(phone, text string) string {
	digits := onlyDigits(phone)
	if strings.TrimSpace(text) == "" {
		return baseURL + digits
	}
	return baseURL + digits + "?text=" + url.QueryEscape(text)
}

func onlyDigits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
