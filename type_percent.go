package navsim

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Percent is a ratio expressed in percent: 12.5 means 12.5%.
type Percent float64

// percentOf returns num/den in percent.
func percentOf(num, den decimal.Decimal) Percent {
	return Percent(num.Mul(decimal.NewFromInt(100)).Div(den).InexactFloat64())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// MarshalJSON writes the percent as a number with four decimals.
func (p Percent) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: percent %v is not a number", ErrInternal, f)
	}
	return []byte(decimal.NewFromFloat(f).Round(4).String()), nil
}

// annualized returns the compound annual growth rate of ratio over years, or nil when
// years is under 1: a CAGR is not meaningful for sub-year periods.
func annualized(ratio float64, years float64) *Percent {
	if years < 1 || ratio <= 0 {
		return nil
	}
	p := Percent((math.Pow(ratio, 1/years) - 1) * 100)
	return &p
}

// cagr returns the compound annual growth rate from start to end over years.
func cagr(start, end decimal.Decimal, years float64) Percent {
	return Percent((math.Pow(end.Div(start).InexactFloat64(), 1/years) - 1) * 100)
}
