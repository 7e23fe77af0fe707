package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/date"
	"github.com/shopspring/decimal"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// decode reads the JSON body of r into v. Unknown fields are rejected.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", navsim.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid request body: %v", navsim.ErrInvalidInput, err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", navsim.ErrInvalidInput, fmt.Sprintf(format, args...))
}

type dateRange struct {
	FromDate date.Date `json:"fromDate"`
	ToDate   date.Date `json:"toDate"`
}

func (r dateRange) validate() error {
	if r.FromDate.IsZero() || r.ToDate.IsZero() {
		return invalid("fromDate and toDate are required")
	}
	if r.ToDate.Before(r.FromDate) {
		return invalid("toDate %s is before fromDate %s", r.ToDate, r.FromDate)
	}
	return nil
}

// frequency parses a plan frequency, monthly when empty.
func frequency(str string) (date.Period, error) {
	if str == "" {
		return date.Monthly, nil
	}
	p, err := date.ParsePeriod(str)
	if err != nil {
		return p, invalid("%v", err)
	}
	return p, nil
}

// stepUp is the annual increase of a step-up plan.
type stepUp struct {
	AnnualIncrease       decimal.Decimal `json:"annualIncrease"`       // percent
	AnnualIncreaseAmount decimal.Decimal `json:"annualIncreaseAmount"` // currency
	CalendarYearStepUp   *bool           `json:"calendarYearStepUp"`   // true when missing
}

func (s stepUp) stepUp() (*navsim.StepUp, error) {
	if s.AnnualIncrease.IsZero() && s.AnnualIncreaseAmount.IsZero() {
		return nil, invalid("annualIncrease or annualIncreaseAmount is required")
	}
	calendar := true
	if s.CalendarYearStepUp != nil {
		calendar = *s.CalendarYearStepUp
	}
	return &navsim.StepUp{
		Percent:         s.AnnualIncrease,
		Amount:          s.AnnualIncreaseAmount,
		AppliesAnnually: calendar,
	}, nil
}

type lumpsumRequest struct {
	Amount decimal.Decimal `json:"amount"`
	dateRange
}

type sipRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency"`
	dateRange
}

func (r sipRequest) plan() (navsim.InvestmentPlan, error) {
	if err := r.validate(); err != nil {
		return navsim.InvestmentPlan{}, err
	}
	freq, err := frequency(r.Frequency)
	if err != nil {
		return navsim.InvestmentPlan{}, err
	}
	p := navsim.InvestmentPlan{Amount: navsim.INR(r.Amount), Frequency: freq, From: r.FromDate, To: r.ToDate}
	return p, p.Validate()
}

type stepUpSIPRequest struct {
	sipRequest
	stepUp
}

func (r stepUpSIPRequest) plan() (navsim.InvestmentPlan, error) {
	p, err := r.sipRequest.plan()
	if err != nil {
		return p, err
	}
	if p.StepUp, err = r.stepUp.stepUp(); err != nil {
		return p, err
	}
	return p, p.Validate()
}

type swpRequest struct {
	InitialInvestment decimal.Decimal `json:"initialInvestment"`
	WithdrawalAmount  decimal.Decimal `json:"withdrawalAmount"`
	Frequency         string          `json:"frequency"`
	dateRange
}

func (r swpRequest) plan() (navsim.WithdrawalPlan, error) {
	if err := r.validate(); err != nil {
		return navsim.WithdrawalPlan{}, err
	}
	freq, err := frequency(r.Frequency)
	if err != nil {
		return navsim.WithdrawalPlan{}, err
	}
	p := navsim.WithdrawalPlan{
		InitialInvestment: navsim.INR(r.InitialInvestment),
		Withdrawal:        navsim.INR(r.WithdrawalAmount),
		Frequency:         freq,
		From:              r.FromDate,
		To:                r.ToDate,
	}
	return p, p.Validate()
}

type stepUpSWPRequest struct {
	swpRequest
	stepUp
}

func (r stepUpSWPRequest) plan() (navsim.WithdrawalPlan, error) {
	p, err := r.swpRequest.plan()
	if err != nil {
		return p, err
	}
	if p.StepUp, err = r.stepUp.stepUp(); err != nil {
		return p, err
	}
	return p, p.Validate()
}

type rollingRequest struct {
	PeriodYears   float64 `json:"periodYears"`
	FrequencyDays int     `json:"frequencyDays"`
}

type riskRequest struct {
	BenchmarkCode string    `json:"benchmarkCode"`
	FromDate      date.Date `json:"fromDate"`
	ToDate        date.Date `json:"toDate"`
	Frequency     string    `json:"frequency"`
	RiskFreeRate  *float64  `json:"riskFreeRate"` // percent per year
}

type compareRequest struct {
	SchemeCodes []string `json:"schemeCodes"`
}
