package navsim

import (
	"fmt"

	"github.com/etnz/navsim/date"
	"github.com/shopspring/decimal"
)

// StepUp increases a plan's installment once per elapsed plan-year.
//
// Percent compounds: after k years the installment is base*(1+Percent/100)^k.
// Amount is additive: after k years the installment is base + k*Amount.
// Only one of them can be set.
type StepUp struct {
	Percent decimal.Decimal
	Amount  decimal.Decimal
	// AppliesAnnually counts plan-years as calendar-year boundaries crossed since the start
	// (a plan started in December steps up in January). Otherwise plan-years are full
	// 12-month anniversaries of the start date.
	AppliesAnnually bool
}

func (u *StepUp) validate() error {
	if u == nil {
		return nil
	}
	if u.Percent.IsNegative() || u.Amount.IsNegative() {
		return fmt.Errorf("%w: step-up cannot be negative", ErrInvalidInput)
	}
	if !u.Percent.IsZero() && !u.Amount.IsZero() {
		return fmt.Errorf("%w: step-up is either a percent or an amount, not both", ErrInvalidInput)
	}
	return nil
}

// years returns the number of plan-years elapsed on day for a plan started on start.
func (u *StepUp) years(start, day date.Date) int {
	years := day.Year() - start.Year()
	if !u.AppliesAnnually && start.AddMonths(12*years).After(day) {
		years--
	}
	return max(years, 0)
}

// apply returns the installment due on day.
func (u *StepUp) apply(base decimal.Decimal, start, day date.Date) decimal.Decimal {
	if u == nil {
		return base
	}
	k := u.years(start, day)
	if k == 0 {
		return base
	}
	if !u.Amount.IsZero() {
		return base.Add(u.Amount.Mul(decimal.NewFromInt(int64(k))))
	}
	factor := decimal.NewFromInt(1).Add(u.Percent.Div(decimal.NewFromInt(100)))
	amount := base
	for range k {
		amount = amount.Mul(factor)
	}
	return amount
}

// schedule is the calendar of a plan's installments.
type schedule struct {
	Frequency date.Period
	From, To  date.Date
}

func (s schedule) validate() error {
	if !s.Frequency.IsPlanFrequency() {
		return fmt.Errorf("%w: frequency must be monthly, quarterly or yearly, got %s", ErrInvalidInput, s.Frequency)
	}
	if s.From.IsZero() || s.To.IsZero() {
		return fmt.Errorf("%w: fromDate and toDate are required", ErrInvalidInput)
	}
	if s.To.Before(s.From) {
		return fmt.Errorf("%w: toDate %s is before fromDate %s", ErrInvalidInput, s.To, s.From)
	}
	return nil
}

// InvestmentPlan is a systematic investment: Amount invested every Frequency period from
// From to To inclusive.
type InvestmentPlan struct {
	Amount    Money
	Frequency date.Period
	From, To  date.Date
	StepUp    *StepUp
}

// Validate checks that the plan can be simulated.
func (p InvestmentPlan) Validate() error {
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: investment amount must be positive, got %s", ErrInvalidInput, p.Amount)
	}
	if err := p.schedule().validate(); err != nil {
		return err
	}
	return p.StepUp.validate()
}

func (p InvestmentPlan) schedule() schedule {
	return schedule{Frequency: p.Frequency, From: p.From, To: p.To}
}

// Installment returns the amount invested on day.
func (p InvestmentPlan) Installment(day date.Date) Money {
	return p.Amount.with(p.StepUp.apply(p.Amount.value, p.From, day))
}

// WithdrawalPlan is a systematic withdrawal: InitialInvestment bought on From, then
// Withdrawal redeemed every Frequency period from From to To inclusive.
type WithdrawalPlan struct {
	InitialInvestment Money
	Withdrawal        Money
	Frequency         date.Period
	From, To          date.Date
	StepUp            *StepUp
}

// Validate checks that the plan can be simulated.
func (p WithdrawalPlan) Validate() error {
	if !p.InitialInvestment.IsPositive() {
		return fmt.Errorf("%w: initial investment must be positive, got %s", ErrInvalidInput, p.InitialInvestment)
	}
	if !p.Withdrawal.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive, got %s", ErrInvalidInput, p.Withdrawal)
	}
	if p.InitialInvestment.cur != "" && p.Withdrawal.cur != "" && p.InitialInvestment.cur != p.Withdrawal.cur {
		return fmt.Errorf("%w: investment in %s and withdrawal in %s", ErrInvalidInput, p.InitialInvestment.cur, p.Withdrawal.cur)
	}
	if err := p.schedule().validate(); err != nil {
		return err
	}
	return p.StepUp.validate()
}

func (p WithdrawalPlan) schedule() schedule {
	return schedule{Frequency: p.Frequency, From: p.From, To: p.To}
}

// Installment returns the amount withdrawn on day.
func (p WithdrawalPlan) Installment(day date.Date) Money {
	return p.Withdrawal.with(p.StepUp.apply(p.Withdrawal.value, p.From, day))
}
