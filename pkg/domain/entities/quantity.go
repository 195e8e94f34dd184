package entities

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseQuantity parses a decimal literal such as "1.5" or "4" into a float64.
// Exponents and surrounding whitespace are accepted; NaN and infinities are not.
func ParseQuantity(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	v, _ := d.Float64()
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q: out of range", s)
	}
	return v, nil
}

// FormatQuantity renders v rounded to places decimal digits without trailing
// zeros, so 1.3333333 with places 3 is "1.333" and 2.0 is "2"
func FormatQuantity(v float64, places int32) string {
	return decimal.NewFromFloat(v).Round(places).String()
}
