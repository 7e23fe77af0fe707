package navsim

import (
	"fmt"

	"github.com/etnz/navsim/date"
	"github.com/shopspring/decimal"
)

// GrowthPoint is the state of an accumulating investment after one installment.
type GrowthPoint struct {
	Date     date.Date `json:"date"`
	Invested Money     `json:"invested"`
	Value    Money     `json:"value"`
}

// SimulationResult is the outcome of investing into a scheme.
type SimulationResult struct {
	TotalInvested    Money
	FinalValue       Money
	Profit           Money
	AbsoluteReturn   Percent
	AnnualizedReturn *Percent // nil under one year
	Installments     int      // installments actually invested
	TotalUnits       Units
	Growth           []GrowthPoint
}

func (r SimulationResult) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("totalInvested", r.TotalInvested)
	w.Append("finalValue", r.FinalValue)
	w.Append("absoluteReturn", r.AbsoluteReturn)
	w.Append("profit", r.Profit)
	w.Append("annualizedReturn", r.AnnualizedReturn)
	w.Append("installments", r.Installments)
	w.Append("totalUnits", r.TotalUnits)
	growth := r.Growth
	if growth == nil {
		growth = []GrowthPoint{}
	}
	w.Append("investmentGrowth", growth)
	return w.MarshalJSON()
}

// SimulateContributions runs a systematic investment plan (SIP) against s.
//
// Installment k is due on plan.Frequency.Step(plan.From, k), always computed from the
// start date so that month-end dates are clamped and never drift. An installment due before
// the first NAV of the series is skipped: nothing is invested, but the trajectory still gets
// a point. The final value uses the NAV in effect on plan.To.
func SimulateContributions(s Series, plan InvestmentPlan) (SimulationResult, error) {
	if err := plan.Validate(); err != nil {
		return SimulationResult{}, err
	}
	if err := s.valid(); err != nil {
		return SimulationResult{}, err
	}
	r := date.Range{From: plan.From, To: plan.To}
	latest := s.Latest()

	var (
		invested     = decimal.Zero
		units        = decimal.Zero
		installments int
		growth       []GrowthPoint
	)
	for _, on := range r.Dates(plan.Frequency) {
		nav := latest.NAV
		if p, ok := s.FindOnOrBefore(on); ok {
			amount := plan.Installment(on)
			invested = invested.Add(amount.value)
			units = units.Add(amount.value.Div(p.NAV))
			installments++
			nav = p.NAV
		}
		growth = append(growth, GrowthPoint{
			Date:     on,
			Invested: plan.Amount.with(invested),
			Value:    plan.Amount.with(units.Mul(nav)),
		})
	}
	if installments == 0 {
		return SimulationResult{}, fmt.Errorf("%w: no NAV before %s, history starts on %s", ErrInsufficientData, plan.To, s.First().Date)
	}
	end, err := s.lookup(plan.To)
	if err != nil {
		return SimulationResult{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	final := units.Mul(end.NAV)
	profit := final.Sub(invested)
	return SimulationResult{
		TotalInvested:    plan.Amount.with(invested),
		FinalValue:       plan.Amount.with(final),
		Profit:           plan.Amount.with(profit),
		AbsoluteReturn:   percentOf(profit, invested),
		AnnualizedReturn: annualized(final.Div(invested).InexactFloat64(), r.Years()),
		Installments:     installments,
		TotalUnits:       Units{value: units},
		Growth:           growth,
	}, nil
}
