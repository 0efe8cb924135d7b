package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a DECIMAL(10,2) amount held as whole cents.
// It is rendered in JSON as a two-decimal string ("15.50"), which is how
// PostgreSQL numeric values reach API clients.
type Money int64

// maxMoney is the first value DECIMAL(10,2) cannot hold.
var maxMoney = decimal.New(1, 8)

// ParseMoney parses a decimal string such as "10", "5.5" or "1.005" and
// rounds it half away from zero to whole cents, the way PostgreSQL numeric does.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return moneyFromDecimal(d)
}

// NewMoneyFromFloat converts a driver float to Money. NaN and infinities are rejected.
func NewMoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid amount %v", f)
	}
	return moneyFromDecimal(decimal.NewFromFloat(f))
}

func moneyFromDecimal(d decimal.Decimal) (Money, error) {
	rounded := d.Round(2)
	if rounded.Abs().GreaterThanOrEqual(maxMoney) {
		return 0, fmt.Errorf("amount %s is out of range", d.String())
	}
	return Money(rounded.Shift(2).IntPart()), nil
}

// Decimal returns the amount as a decimal with two places.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String formats the amount with exactly two decimals.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	parsed, err := ParseMoney(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner. Drivers hand numeric columns back as text
// (pgx) or as floats/integers (sqlite).
func (m *Money) Scan(value any) error {
	var (
		parsed Money
		err    error
	)
	switch v := value.(type) {
	case nil:
		*m = 0
		return nil
	case float64:
		parsed, err = NewMoneyFromFloat(v)
	case int64:
		parsed, err = moneyFromDecimal(decimal.NewFromInt(v))
	case []byte:
		parsed, err = ParseMoney(string(v))
	case string:
		parsed, err = ParseMoney(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
