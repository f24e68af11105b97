// Package format renders values for chat messages.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount renders a user-entered amount without trailing zeros: 1200.50 -> "1200.5".
func Amount(d decimal.Decimal) string {
	return d.String()
}

// Fixed renders d rounded half away from zero to places decimals.
func Fixed(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

// ParseAmount parses a non-negative decimal typed by a user. Spaces are
// ignored anywhere and "," works as the decimal separator.
func ParseAmount(text string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.Replace(s, ",", ".", 1)
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
