package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a transported amount string into a decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("model, parse amount %q error: %v", s, err)
	}
	return d, nil
}

// FormatAmount renders an amount with fixed two-decimal precision.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
