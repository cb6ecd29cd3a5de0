package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	NativePlaces int32 = 6
	FiatPlaces   int32 = 2
	gweiDecimals int32 = 9
)

// FormatUnits scales a smallest-unit integer string down by decimals and renders it with
// a fixed number of places.
// Example: raw="1234500000000000000", decimals=18, places=6 => "1.234500"
func FormatUnits(raw string, decimals, places int32) (string, error) {
	amount, err := parseInteger(raw)
	if err != nil {
		return "", err
	}
	return amount.Shift(-decimals).StringFixed(places), nil
}

// WeiToGwei renders a wei amount in whole gwei.
func WeiToGwei(raw string) (string, error) {
	return FormatUnits(raw, gweiDecimals, 0)
}

// FiatValue multiplies a fixed-point native amount by a unit price and renders 2 places.
func FiatValue(nativeAmount string, price float64) (string, error) {
	amount, err := decimal.NewFromString(nativeAmount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", nativeAmount, err)
	}
	return amount.Mul(decimal.NewFromFloat(price)).StringFixed(FiatPlaces), nil
}

// MulIntegers multiplies two integer strings, e.g. gasUsed × gasPrice. Empty inputs count as zero.
func MulIntegers(a, b string) (string, error) {
	x, err := parseInteger(a)
	if err != nil {
		return "", err
	}
	y, err := parseInteger(b)
	if err != nil {
		return "", err
	}
	return x.Mul(y).String(), nil
}

// IsZeroInteger reports whether raw parses to zero. Unparseable input is not zero.
func IsZeroInteger(raw string) bool {
	v, err := parseInteger(raw)
	return err == nil && v.IsZero()
}

func parseInteger(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid integer %q: %w", raw, err)
	}
	if !v.IsInteger() || v.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid integer %q", raw)
	}
	return v, nil
}
