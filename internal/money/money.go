package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount stored as integer cents so that balance
// arithmetic in the database stays exact. JSON carries plain decimal
// numbers (100.50), conversion goes through shopspring/decimal.
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromFloat converts a JSON/request amount to cents, rounding to the
// nearest cent.
func FromFloat(v float64) Cents {
	return Cents(decimal.NewFromFloat(v).Mul(hundred).Round(0).IntPart())
}

// Decimal returns the amount in currency units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) Float() float64 {
	return c.Decimal().InexactFloat64()
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().String()), nil
}

func (c *Cents) UnmarshalJSON(b []byte) error {
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", string(b), err)
	}
	*c = Cents(d.Mul(hundred).Round(0).IntPart())
	return nil
}
