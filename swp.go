package navsim

import (
	"github.com/etnz/navsim/date"
	"github.com/shopspring/decimal"
)

// PortfolioPoint is the state of a decumulating investment after one withdrawal.
type PortfolioPoint struct {
	Date               date.Date `json:"date"`
	Value              Money     `json:"value"`
	RemainingPrincipal Money     `json:"remainingPrincipal"`
	Profit             Money     `json:"profit"`
}

// WithdrawalResult is the outcome of withdrawing from an investment.
type WithdrawalResult struct {
	InitialInvestment Money
	TotalWithdrawn    Money
	FinalValue        Money
	Profit            Money // withdrawn plus final value, minus the initial investment
	InitialUnits      Units
	UnitsRedeemed     Units
	RemainingUnits    Units
	Withdrawals       int
	Exhausted         bool
	ExhaustedOn       date.Date // zero unless Exhausted
	Growth            []PortfolioPoint
}

func (r WithdrawalResult) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("initialInvestment", r.InitialInvestment)
	w.Append("totalWithdrawn", r.TotalWithdrawn)
	w.Append("finalValue", r.FinalValue)
	w.Append("profit", r.Profit)
	w.Append("initialUnits", r.InitialUnits)
	w.Append("unitsRedeemed", r.UnitsRedeemed)
	w.Append("remainingUnits", r.RemainingUnits)
	w.Append("withdrawals", r.Withdrawals)
	w.Append("exhausted", r.Exhausted)
	w.Optional("exhaustedOn", r.ExhaustedOn)
	w.Append("portfolioGrowth", r.Growth)
	return w.MarshalJSON()
}

// SimulateWithdrawals runs a systematic withdrawal plan (SWP) against s.
//
// The initial investment buys units at the NAV in effect on plan.From, then each period
// redeems the installment's worth of units. When an installment needs all the units left,
// the portfolio is exhausted: the remaining value is withdrawn instead of the installment
// and the simulation stops.
//
// It fails with ErrInsufficientData when no NAV is known on or before plan.From.
func SimulateWithdrawals(s Series, plan WithdrawalPlan) (WithdrawalResult, error) {
	if err := plan.Validate(); err != nil {
		return WithdrawalResult{}, err
	}
	if err := s.valid(); err != nil {
		return WithdrawalResult{}, err
	}
	first, err := s.lookup(plan.From)
	if err != nil {
		return WithdrawalResult{}, err
	}
	m := plan.InitialInvestment
	holding := buy(m.value, first)

	res := WithdrawalResult{
		InitialInvestment: m,
		InitialUnits:      Units{value: holding.Units},
		Growth:            []PortfolioPoint{{Date: plan.From, Value: m, RemainingPrincipal: m, Profit: m.with(decimal.Zero)}},
	}
	var (
		withdrawn = decimal.Zero
		redeemed  = decimal.Zero
	)
	r := date.Range{From: plan.From, To: plan.To}
	for _, on := range r.Dates(plan.Frequency) {
		p, ok := s.FindOnOrBefore(on)
		if !ok {
			continue
		}
		amount := plan.Installment(on).value
		units := amount.Div(p.NAV)
		if units.GreaterThanOrEqual(holding.Units) {
			sold := holding.liquidate()
			redeemed = redeemed.Add(sold)
			withdrawn = withdrawn.Add(sold.Mul(p.NAV))
			res.Withdrawals++
			res.Exhausted, res.ExhaustedOn = true, on
			res.Growth = append(res.Growth, PortfolioPoint{Date: on, Value: m.with(decimal.Zero), RemainingPrincipal: m.with(decimal.Zero), Profit: m.with(decimal.Zero)})
			break
		}
		holding.redeem(units)
		redeemed = redeemed.Add(units)
		withdrawn = withdrawn.Add(amount)
		res.Withdrawals++

		value := holding.Units.Mul(p.NAV)
		res.Growth = append(res.Growth, PortfolioPoint{
			Date:               on,
			Value:              m.with(value),
			RemainingPrincipal: m.with(holding.Cost),
			Profit:             m.with(decimal.Max(decimal.Zero, value.Sub(holding.Cost))),
		})
	}

	final := decimal.Zero
	if !holding.Units.IsZero() {
		end, err := s.lookup(plan.To)
		if err != nil {
			return WithdrawalResult{}, err
		}
		final = holding.Units.Mul(end.NAV)
	}
	res.TotalWithdrawn = m.with(withdrawn)
	res.FinalValue = m.with(final)
	res.Profit = m.with(withdrawn.Add(final).Sub(m.value))
	res.UnitsRedeemed = Units{value: redeemed}
	res.RemainingUnits = Units{value: holding.Units}
	return res, nil
}
