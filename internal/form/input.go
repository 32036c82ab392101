package form

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrInvalidPrice    = errors.New("invalid price format")
	ErrInvalidQuantity = errors.New("only numbers are allowed for quantity")
)

// ZeroPrice is what the price field shows when it holds no amount.
const ZeroPrice = "0.00"

// FormatPrice renders v with thousands separators and two decimals, e.g. 1,234.50.
func FormatPrice(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", v)
}

// ParsePrice reads a price as shown in the form, thousands separators included.
func ParsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

// PriceInput normalizes what was typed into the price field. Separators are
// dropped and the remaining digits are read as cents, so typing "1234" shows
// "12.34". Any other character is rejected with ErrInvalidPrice.
func PriceInput(raw string) (string, error) {
	digits := strings.NewReplacer(",", "", ".", "").Replace(raw)
	if digits == "" {
		return ZeroPrice, nil
	}
	if !allDigits(digits) {
		return "", ErrInvalidPrice
	}

	cents, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "", ErrInvalidPrice
	}
	if cents == 0 {
		return ZeroPrice, nil
	}
	return FormatPrice(float64(cents) / 100), nil
}

// QuantityInput normalizes what was typed into the quantity field: leading
// zeros are trimmed and an empty field becomes "0".
func QuantityInput(raw string) (string, error) {
	trimmed := strings.TrimLeft(raw, "0")
	if !allDigits(trimmed) {
		return "", ErrInvalidQuantity
	}
	if trimmed == "" {
		return "0", nil
	}
	return trimmed, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
