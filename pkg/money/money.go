// Package money holds the currency-scale arithmetic shared by the ledger.
// Amounts are plain decimals in a single currency; there is no conversion.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by a monetary amount.
const Scale int32 = 2

// Parse parses a decimal amount string such as "1250.50".
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// HasValidScale reports whether d carries no more than Scale fractional digits.
func HasValidScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale))
}

// Sum adds all amounts. The sum of no amounts is zero.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Covers reports whether paid settles owed. Overpayment counts as settled.
func Covers(paid, owed decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(owed)
}

// Format renders d with exactly Scale fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
