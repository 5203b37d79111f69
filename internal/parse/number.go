// Package parse converts raw spreadsheet cells into canonical scalar values.
//
// Uploads come from heterogeneous ERP exports: numbers may use US ("1,234.56")
// or European ("1.234,56") separators and may carry currency symbols; dates
// arrive in several encodings. Parsing here is deliberately lossy-but-safe:
// an unparseable number resolves to 0 and an unparseable date to an explicit
// fallback, never to a panic or an error that would block ingestion.
package parse

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencyStripper removes currency symbols and whitespace before numeric parsing.
var currencyStripper = strings.NewReplacer(
	"$", "",
	"€", "",
	"£", "",
	"S/.", "",
	"s/.", "",
	"%", "",
	" ", "",
	"\t", "",
	" ", "",
)

// Number converts an arbitrary cell value into a float64. Garbage input yields
// 0; this function never panics and never returns NaN. When the string carries
// both ',' and '.', the rightmost symbol is the decimal separator. A lone
// comma is treated as decimal ("1,234" -> 1.234) -- a known heuristic
// limitation kept for compatibility, not a bug to fix silently.
func Number(v any) float64 {
	f, _ := TryNumber(v)
	return f
}

// TryNumber is the strict variant of Number used by validators: the second
// return is false when no numeric interpretation of the value exists.
func TryNumber(v any) (float64, bool) {
	d, ok := TryDecimal(v)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// Decimal converts a cell value into an exact decimal, zero on garbage.
// Currency fields go through here so cost arithmetic stays exact until the
// canonical float64 record is built.
func Decimal(v any) decimal.Decimal {
	d, _ := TryDecimal(v)
	return d
}

// TryDecimal normalizes separators and parses the result as a decimal.
func TryDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case bool:
		return decimal.Zero, false
	case string:
		return parseDecimalString(t)
	default:
		return decimal.Zero, false
	}
}

func parseDecimalString(s string) (decimal.Decimal, bool) {
	s = currencyStripper.Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, false
	}

	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// normalizeSeparators rewrites locale-dependent thousand/decimal separators
// into canonical '.' decimal form. Rule: when both ',' and '.' appear, the
// rightmost occurrence is the decimal separator and every occurrence of the
// other symbol is a thousands separator. A lone ',' is decimal; lone '.'
// (or neither) means any remaining ',' are thousands separators.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma < 0:
		// '.' already canonical (or no separator at all)
		return s
	case lastDot < 0 || lastComma > lastDot:
		// European style ("1.234,56") or lone comma ("10,00"): comma is the
		// decimal separator, everything before it is grouping.
		intPart := strings.NewReplacer(",", "", ".", "").Replace(s[:lastComma])
		return intPart + "." + s[lastComma+1:]
	default:
		// US style: "1,234.56"
		return strings.ReplaceAll(s, ",", "")
	}
}
