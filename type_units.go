package navsim

import "github.com/shopspring/decimal"

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Units is a number of fund units, kept with full decimal precision.
type Units struct {
	value decimal.Decimal
}

func U[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Units {
	return Units{value: newDecimal(value)}
}

func (u Units) Decimal() decimal.Decimal     { return u.value }
func (u Units) Equal(v Units) bool           { return u.value.Equal(v.value) }
func (u Units) LessThan(v Units) bool        { return u.value.LessThan(v.value) }
func (u Units) GreaterThan(v Units) bool     { return u.value.GreaterThan(v.value) }
func (u Units) Add(v Units) Units            { return Units{value: u.value.Add(v.value)} }
func (u Units) Sub(v Units) Units            { return Units{value: u.value.Sub(v.value)} }
func (u Units) IsZero() bool                 { return u.value.IsZero() }
func (u Units) IsPositive() bool             { return u.value.IsPositive() }
func (u Units) String() string               { return u.value.StringFixed(4) }
func (u Units) AsFloat() float64             { return u.value.InexactFloat64() }
func (u Units) At(nav decimal.Decimal) Money { return Money{value: u.value.Mul(nav)} }

// MarshalJSON writes units as a plain JSON number, with all the digits.
func (u Units) MarshalJSON() ([]byte, error) {
	return []byte(u.value.String()), nil
}

func (u *Units) UnmarshalJSON(decimalBytes []byte) error {
	return u.value.UnmarshalJSON(decimalBytes)
}
