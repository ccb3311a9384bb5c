package pricing

import (
	"fmt"
	"math"
	"strconv"
)

// Amount is a price in cents. Nightly prices are rounded to the cent once,
// then summed, so a quote never drifts from the sum of its lines.
type Amount int64

// FromFloat converts a decimal price to cents, rounding half away from zero.
func FromFloat(f float64) Amount {
	return Amount(math.Round(f * 100))
}

func (a Amount) Float() float64 {
	return float64(a) / 100
}

func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a plain decimal number (562.5, not 56250).
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(a.Float(), 'f', -1, 64)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*a = FromFloat(f)
	return nil
}
