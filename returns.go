package navsim

import (
	"fmt"
	"strings"

	"github.com/etnz/navsim/date"
)

// PointReturn is the return of holding a scheme between two dates.
type PointReturn struct {
	StartDate, EndDate date.Date // as requested
	Start, End         NavPoint  // NAV in effect on each requested date
	SimpleReturn       Percent
	AnnualizedReturn   *Percent // nil under one year
}

// PointToPoint computes the simple and annualized return between start and end, using the
// NAV in effect on each date. Years are measured between the requested dates.
func PointToPoint(s Series, start, end date.Date) (PointReturn, error) {
	if err := s.valid(); err != nil {
		return PointReturn{}, err
	}
	if start.IsZero() || end.IsZero() {
		return PointReturn{}, fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if end.Before(start) {
		return PointReturn{}, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidInput, end, start)
	}
	startNav, err := s.lookup(start)
	if err != nil {
		return PointReturn{}, err
	}
	endNav, err := s.lookup(end)
	if err != nil {
		return PointReturn{}, err
	}
	return newPointReturn(start, end, startNav, endNav, date.YearsBetween(start, end)), nil
}

func newPointReturn(start, end date.Date, startNav, endNav NavPoint, years float64) PointReturn {
	return PointReturn{
		StartDate:        start,
		EndDate:          end,
		Start:            startNav,
		End:              endNav,
		SimpleReturn:     percentOf(endNav.NAV.Sub(startNav.NAV), startNav.NAV),
		AnnualizedReturn: annualized(endNav.NAV.Div(startNav.NAV).InexactFloat64(), years),
	}
}

func (r PointReturn) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("startDate", r.StartDate)
	w.Append("endDate", r.EndDate)
	w.Append("startDateNav", r.Start)
	w.Append("endDateNav", r.End)
	w.Append("simpleReturn", r.SimpleReturn)
	w.Append("annualizedReturn", r.AnnualizedReturn)
	return w.MarshalJSON()
}

// TrailingPeriod is a lookback window ending on the latest NAV, in months.
type TrailingPeriod int

const (
	OneMonth    TrailingPeriod = 1
	ThreeMonths TrailingPeriod = 3
	SixMonths   TrailingPeriod = 6
	OneYear     TrailingPeriod = 12
	ThreeYears  TrailingPeriod = 36
	FiveYears   TrailingPeriod = 60
	TenYears    TrailingPeriod = 120
)

// TrailingPeriods lists the standard trailing periods, shortest first.
var TrailingPeriods = []TrailingPeriod{OneMonth, ThreeMonths, SixMonths, OneYear, ThreeYears, FiveYears, TenYears}

func (p TrailingPeriod) String() string {
	if p%12 == 0 {
		return fmt.Sprintf("%dy", p/12)
	}
	return fmt.Sprintf("%dm", int(p))
}

// ParseTrailingPeriod parses "1m", "3m", "6m", "1y", "3y", "5y" or "10y".
func ParseTrailingPeriod(str string) (TrailingPeriod, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	for _, p := range TrailingPeriods {
		if p.String() == str {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown period %q", ErrInvalidInput, str)
}

func (p TrailingPeriod) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// PeriodReturn is the trailing return for one period. Return is nil when the history is
// too short for the period, Err tells why.
type PeriodReturn struct {
	Period TrailingPeriod
	Return *PointReturn
	Err    error
}

func (r PeriodReturn) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("period", r.Period)
	if r.Return == nil {
		w.Append("simpleReturn", nil)
		w.Append("annualizedReturn", nil)
		return w.MarshalJSON()
	}
	w.Append("startDate", r.Return.Start.Date)
	w.Append("startNav", r.Return.Start.NAV.InexactFloat64())
	w.Append("endDate", r.Return.End.Date)
	w.Append("endNav", r.Return.End.NAV.InexactFloat64())
	w.Append("simpleReturn", r.Return.SimpleReturn)
	w.Append("annualizedReturn", r.Return.AnnualizedReturn)
	return w.MarshalJSON()
}

// TrailingReturn computes the return over period p ending on the latest NAV.
//
// The start date is the latest date minus p months, clamped to the end of a shorter month.
// Years are measured from the date of the start point actually found.
func TrailingReturn(s Series, p TrailingPeriod) (PointReturn, error) {
	if err := s.valid(); err != nil {
		return PointReturn{}, err
	}
	if p <= 0 {
		return PointReturn{}, fmt.Errorf("%w: trailing period must be positive", ErrInvalidInput)
	}
	end := s.Latest()
	start := end.Date.AddMonths(-int(p))
	startNav, err := s.lookup(start)
	if err != nil {
		return PointReturn{}, fmt.Errorf("not enough history for the %s period: %w", p, err)
	}
	return newPointReturn(start, end.Date, startNav, end, date.YearsBetween(startNav.Date, end.Date)), nil
}

// TrailingReturns computes the trailing return for all the standard periods.
func TrailingReturns(s Series) []PeriodReturn {
	res := make([]PeriodReturn, 0, len(TrailingPeriods))
	for _, p := range TrailingPeriods {
		r, err := TrailingReturn(s, p)
		if err != nil {
			res = append(res, PeriodReturn{Period: p, Err: err})
			continue
		}
		res = append(res, PeriodReturn{Period: p, Return: &r})
	}
	return res
}
