package navsim

import (
	"github.com/etnz/navsim/date"
	"github.com/shopspring/decimal"
)

// lot represents a single purchase of units, used for cost basis calculations.
type lot struct {
	Date    date.Date
	Units   decimal.Decimal // units still held
	Cost    decimal.Decimal // principal attributed to the units still held
	perUnit decimal.Decimal // purchase NAV
}

// buy returns the lot bought with amount at p.
func buy(amount decimal.Decimal, p NavPoint) lot {
	return lot{
		Date:    p.Date,
		Units:   amount.Div(p.NAV),
		Cost:    amount,
		perUnit: p.NAV,
	}
}

// redeem sells units from the lot. The principal is reduced at the purchase cost per unit,
// and never goes below zero.
func (l *lot) redeem(units decimal.Decimal) {
	l.Units = l.Units.Sub(units)
	l.Cost = decimal.Max(decimal.Zero, l.Cost.Sub(l.perUnit.Mul(units)))
}

// liquidate sells every unit left and returns how many were sold.
func (l *lot) liquidate() decimal.Decimal {
	sold := l.Units
	l.Units = decimal.Zero
	l.Cost = decimal.Zero
	return sold
}
