// Package money holds the decimal helpers shared by the balance and
// aggregation code. Amounts stay in decimal.Decimal until they are formatted
// for display.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Places is the number of fractional digits kept for stored balances.
const Places = 2

var printer = message.NewPrinter(language.English)

// Round rounds d to two decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Sum adds up amounts exactly.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Format renders d with thousands separators and two decimals, e.g.
// "1,234.56". The digits come from the decimal itself, never a float.
func Format(d decimal.Decimal) string {
	rounded := Round(d)
	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(Places), ".")

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + group(whole) + "." + frac
}

// group inserts thousands separators into a run of digits.
func group(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return printer.Sprintf("%d", n)
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Parse reads a decimal amount from user input.
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
