package navsim

import (
	"fmt"

	"github.com/etnz/navsim/date"
)

// LumpsumResult is the valuation of a single investment.
type LumpsumResult struct {
	SimulationResult
	Start, End NavPoint // NAV used to buy and to value
}

func (r LumpsumResult) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(r.SimulationResult)
	w.Append("startDateNav", r.Start)
	w.Append("endDateNav", r.End)
	return w.MarshalJSON()
}

// Lumpsum values amount invested on from, as of to.
func Lumpsum(s Series, amount Money, from, to date.Date) (LumpsumResult, error) {
	if !amount.IsPositive() {
		return LumpsumResult{}, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidInput, amount)
	}
	ret, err := PointToPoint(s, from, to)
	if err != nil {
		return LumpsumResult{}, err
	}
	units := amount.Units(ret.Start.NAV)
	final := amount.with(amount.value.Mul(ret.End.NAV).Div(ret.Start.NAV))
	profit := final.Sub(amount)

	return LumpsumResult{
		SimulationResult: SimulationResult{
			TotalInvested:    amount,
			FinalValue:       final,
			Profit:           profit,
			AbsoluteReturn:   percentOf(profit.value, amount.value),
			AnnualizedReturn: annualized(final.value.Div(amount.value).InexactFloat64(), date.YearsBetween(from, to)),
			Installments:     1,
			TotalUnits:       units,
			Growth: []GrowthPoint{
				{Date: from, Invested: amount, Value: amount},
				{Date: to, Invested: amount, Value: final},
			},
		},
		Start: ret.Start,
		End:   ret.End,
	}, nil
}
