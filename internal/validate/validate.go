package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxStock bounds stock levels and quantities to a 32-bit INTEGER column.
const MaxStock = math.MaxInt32

var (
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSKU      = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)
	reCurrency = regexp.MustCompile(`^[A-Z]{3}$`)
	reHSN      = regexp.MustCompile(`^[0-9]{2,8}$`)
	reUnitName = regexp.MustCompile(`^[\p{L}0-9 ._/-]{1,32}$`)
)

// ID validates a simple resource identifier (uuid or slug).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > max {
		return "", false
	}
	return s, true
}

func SKU(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reSKU.MatchString(s)
}

// Currency upper-cases and checks an ISO-4217 style code.
func Currency(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reCurrency.MatchString(s)
}

// HSN accepts an empty code or 2-8 digits.
func HSN(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s == "" || reHSN.MatchString(s)
}

func UnitName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUnitName.MatchString(s)
}

// Limit parses a page size, falling back to def and clamping to max.
func Limit(s string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	} // clamp to avoid abuse
	return n
}

// Numeric reports whether d is representable as NUMERIC(precision, scale)
// without rounding: at most scale fractional digits and precision-scale
// integer digits.
func Numeric(d decimal.Decimal, precision, scale int32) bool {
	if !d.Equal(d.Truncate(scale)) {
		return false
	}
	limit := decimal.New(1, precision-scale)
	return d.Abs().LessThan(limit)
}

// Quantity accepts 0..MaxStock.
func Quantity(n int) bool {
	return n >= 0 && n <= MaxStock
}
