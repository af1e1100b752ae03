// Package money renders monetary values for user-facing text. Amounts are
// held as float64 in the ledger; formatting goes through shopspring/decimal
// so rounding stays exact, and currency metadata (symbol, separators,
// fraction digits) comes from the go-money currency table.
package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = "MXN"

// Format renders an amount like "$1,500" or "-$230.50" in the given
// currency. Whole amounts drop the fraction entirely; fractional amounts
// keep the currency's full fraction digits.
func Format(amount float64, code string) string {
	cur := currency(code)

	d := decimal.NewFromFloat(amount).Round(int32(cur.Fraction))
	neg := d.IsNegative()
	d = d.Abs()

	whole := d.Truncate(0)
	frac := d.Sub(whole)

	out := group(whole.String(), cur.Thousand)
	if !frac.IsZero() {
		digits := frac.StringFixed(int32(cur.Fraction))
		// StringFixed yields "0.50"; keep everything after the leading zero.
		out += cur.Decimal + digits[2:]
	}

	out = cur.Grapheme + out
	if neg {
		out = "-" + out
	}
	return out
}

func currency(code string) *gomoney.Currency {
	if c := gomoney.GetCurrency(code); c != nil {
		return c
	}
	return gomoney.GetCurrency(DefaultCurrency)
}

// group inserts the thousands separator into a plain digit string.
func group(digits, sep string) string {
	if len(digits) <= 3 || sep == "" {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
