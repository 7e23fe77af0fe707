package navsim

import (
	"testing"

	"github.com/etnz/navsim/date"
	"github.com/shopspring/decimal"
)

// pt is a helper for test to create a NAV point from const.
func pt(day string, nav float64) NavPoint {
	return NavPoint{Date: date.MustParse(day), NAV: decimal.NewFromFloat(nav)}
}

// mustSeries builds a series or fails the test.
func mustSeries(t *testing.T, points ...NavPoint) Series {
	t.Helper()
	s, err := NewSeries(points...)
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}
	return s
}

// constantSeries returns a daily series from 'from' to 'to' with the same nav every day.
func constantSeries(t *testing.T, from, to string, nav float64) Series {
	t.Helper()
	return dailySeries(t, from, to, func(int) float64 { return nav })
}

// dailySeries returns a daily series from 'from' to 'to' where the i-th day has nav(i).
func dailySeries(t *testing.T, from, to string, nav func(i int) float64) Series {
	t.Helper()
	start, end := date.MustParse(from), date.MustParse(to)
	var points []NavPoint
	for i, on := 0, start; !on.After(end); i, on = i+1, on.Add(1) {
		points = append(points, NavPoint{Date: on, NAV: decimal.NewFromFloat(nav(i))})
	}
	return mustSeries(t, points...)
}

// d is a shortcut for date.MustParse.
func d(s string) date.Date { return date.MustParse(s) }

// dec is a shortcut for decimal.RequireFromString.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
