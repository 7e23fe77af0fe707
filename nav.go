package navsim

import (
	"fmt"

	"github.com/etnz/navsim/date"
	"github.com/shopspring/decimal"
)

// RawPoint is a NAV record as served by a provider: a day-first date ("31-01-2024") and
// a decimal string.
type RawPoint struct {
	Date string `json:"date"`
	NAV  string `json:"nav"`
}

// NavPoint is the NAV of a scheme on a given day.
type NavPoint struct {
	Date date.Date
	NAV  decimal.Decimal
}

func (p NavPoint) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", p.Date)
	w.Append("nav", p.NAV.InexactFloat64())
	return w.MarshalJSON()
}

// Series is a NAV history sorted by ascending, unique dates.
//
// A Series is immutable once built and can be shared by concurrent readers.
type Series struct {
	h *date.History[decimal.Decimal]
}

// minPoints is the shortest usable series: a start and an end.
const minPoints = 2

// Normalize cleans raw provider records into a Series.
//
// Records with an unparsable date or NAV, or a NAV that is not strictly positive, are
// dropped; their count is returned so that callers can report it. When several records
// share a date the last one wins.
// It fails with ErrMalformedSeries when fewer than two points remain.
func Normalize(raw []RawPoint) (Series, int, error) {
	days := make([]date.Date, 0, len(raw))
	navs := make([]decimal.Decimal, 0, len(raw))
	for _, r := range raw {
		on, err := date.ParseProvider(r.Date)
		if err != nil {
			continue
		}
		nav, err := decimal.NewFromString(r.NAV)
		if err != nil || !nav.IsPositive() {
			continue
		}
		days = append(days, on)
		navs = append(navs, nav)
	}
	dropped := len(raw) - len(days)
	s, err := newSeries(days, navs)
	return s, dropped, err
}

// NewSeries builds a Series from already parsed points, with the same rules as Normalize.
func NewSeries(points ...NavPoint) (Series, error) {
	days := make([]date.Date, 0, len(points))
	navs := make([]decimal.Decimal, 0, len(points))
	for _, p := range points {
		if !p.NAV.IsPositive() || p.Date.IsZero() {
			continue
		}
		days = append(days, p.Date)
		navs = append(navs, p.NAV)
	}
	return newSeries(days, navs)
}

func newSeries(days []date.Date, navs []decimal.Decimal) (Series, error) {
	h := date.NewHistory(days, navs)
	if h.Len() < minPoints {
		return Series{}, fmt.Errorf("%w: %d usable NAV points, at least %d are required", ErrMalformedSeries, h.Len(), minPoints)
	}
	return Series{h: h}, nil
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	if s.h == nil {
		return 0
	}
	return s.h.Len()
}

// At returns the i-th point in chronological order.
func (s Series) At(i int) NavPoint {
	on, nav := s.h.At(i)
	return NavPoint{Date: on, NAV: nav}
}

// First returns the oldest point of the series.
func (s Series) First() NavPoint { return s.At(0) }

// Latest returns the most recent point of the series.
func (s Series) Latest() NavPoint { return s.At(s.Len() - 1) }

// Points returns a copy of all the points in chronological order.
func (s Series) Points() []NavPoint {
	points := make([]NavPoint, 0, s.Len())
	for i := range s.Len() {
		points = append(points, s.At(i))
	}
	return points
}

// FindOnOrBefore returns the point with the greatest date on or before day.
//
// It returns false when day precedes the first point; any day on or after the last point
// gets the last point.
func (s Series) FindOnOrBefore(day date.Date) (NavPoint, bool) {
	if s.h == nil {
		return NavPoint{}, false
	}
	on, nav, ok := s.h.AsOf(day)
	return NavPoint{Date: on, NAV: nav}, ok
}

// lookup is FindOnOrBefore as an error.
func (s Series) lookup(day date.Date) (NavPoint, error) {
	p, ok := s.FindOnOrBefore(day)
	if !ok {
		return p, fmt.Errorf("%w: no NAV on or before %s, history starts on %s", ErrInsufficientData, day, s.first())
	}
	return p, nil
}

// first returns the first date, or the zero date of an empty series.
func (s Series) first() date.Date {
	if s.Len() == 0 {
		return date.Date{}
	}
	return s.First().Date
}

// valid checks that s has been built by Normalize or NewSeries.
func (s Series) valid() error {
	if s.Len() < minPoints {
		return fmt.Errorf("%w: %d NAV points, at least %d are required", ErrMalformedSeries, s.Len(), minPoints)
	}
	return nil
}
