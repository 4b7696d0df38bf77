// Package money handles monetary amounts as integer cents to avoid
// accumulating floating point error in aggregation sums.
package money

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Cents is a monetary amount in integer cents.
type Cents int64

// FromFloat converts a currency-unit amount (e.g. a JSON number) to cents with
// half-up rounding on the fractional cent.
func FromFloat(units float64) Cents {
	return Cents(math.Round(units * 100))
}

// Units returns the amount in currency units for presentation.
func (c Cents) Units() float64 {
	return float64(c) / 100
}

// RoundToUnits returns the amount rounded to the nearest whole currency unit.
func (c Cents) RoundToUnits() int64 {
	return int64(math.Round(float64(c) / 100))
}

// Units is a currency-unit amount in JSON DTOs. It unmarshals from a JSON
// number or from a decimal string ("12.34", "12,34") via ParseDecimal.
type Units float64

func (u *Units) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c, err := ParseDecimal(s)
		if err != nil {
			return err
		}
		*u = Units(c.Units())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*u = Units(f)
	return nil
}

// Cents converts the amount to integer cents with half-up rounding.
func (u Units) Cents() Cents {
	return FromFloat(float64(u))
}

// ParseDecimal converts a decimal string to cents with half-up rounding on the
// third decimal place. Both dot (12.34) and comma (12,34) separators are
// accepted. Only positive amounts are valid.
func ParseDecimal(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	total := iv*100 + fracCents
	if total <= 0 {
		return 0, ErrInvalidAmount
	}
	return Cents(total), nil
}
