package navsim

import (
	"errors"
	"math"
	"testing"
)

func TestRollingReturns(t *testing.T) {
	s := mustSeries(t,
		pt("2020-01-01", 100),
		pt("2021-01-01", 110),
		pt("2022-01-01", 121),
		pt("2023-01-01", 100),
	)
	got, err := RollingReturns(s, 1, 1)
	if err != nil {
		t.Fatalf("RollingReturns() error = %v", err)
	}
	// 2020 is a leap year: the window from 2020-01-01 ends on 2020-12-31 and finds no later
	// point. The last point has no window at all.
	c1 := 100 * (math.Pow(1.1, 365.25/365) - 1)
	c2 := 100 * (math.Pow(100.0/121, 365.25/365) - 1)

	if got.Count != 2 || len(got.Observations) != 2 {
		t.Fatalf("RollingReturns() = %+v want 2 observations", got)
	}
	if got.Observations[0].Date != d("2021-01-01") || got.Observations[1].Date != d("2022-01-01") {
		t.Errorf("RollingReturns() observations = %v", got.Observations)
	}
	checks := []struct {
		name      string
		got, want Percent
	}{
		{"first", got.Observations[0].CAGR, Percent(c1)},
		{"second", got.Observations[1].CAGR, Percent(c2)},
		{"average", got.Average, Percent((c1 + c2) / 2)},
		{"median", got.Median, Percent((c1 + c2) / 2)},
		{"min", got.Min, Percent(c2)},
		{"max", got.Max, Percent(c1)},
		{"volatility", got.Volatility, Percent(math.Abs(c1-c2) / 2)},
	}
	for _, c := range checks {
		if !c.got.Equal(c.want) {
			t.Errorf("RollingReturns() %s = %v want %v", c.name, c.got, c.want)
		}
	}
}

// The reported average is the mean of the reported observations.
func TestRollingReturnsAverage(t *testing.T) {
	s := dailySeries(t, "2010-01-01", "2016-12-31", func(i int) float64 {
		return 100 * math.Pow(1.12, float64(i)/365.25) * (1 + 0.05*math.Sin(float64(i)/40))
	})
	for _, stride := range []int{1, 7, 30, 365} {
		got, err := RollingReturns(s, 3, stride)
		if err != nil {
			t.Fatalf("RollingReturns(3, %d) error = %v", stride, err)
		}
		var sum float64
		for _, o := range got.Observations {
			sum += float64(o.CAGR)
		}
		mean := sum / float64(len(got.Observations))
		if math.Abs(mean-float64(got.Average)) > 1e-9 {
			t.Errorf("RollingReturns(3, %d).Average = %v want %v", stride, got.Average, mean)
		}
		if got.Min > got.Median || got.Median > got.Max {
			t.Errorf("RollingReturns(3, %d) min %v, median %v, max %v are not ordered", stride, got.Min, got.Median, got.Max)
		}
		if got.Count != len(got.Observations) {
			t.Errorf("RollingReturns(3, %d).Count = %d want %d", stride, got.Count, len(got.Observations))
		}
	}
}

func TestRollingReturnsTolerance(t *testing.T) {
	// 354 days is more than 95% of a year.
	s := mustSeries(t, pt("2020-01-01", 100), pt("2020-12-20", 110))
	got, err := RollingReturns(s, 1, 1)
	if err != nil {
		t.Fatalf("RollingReturns() error = %v", err)
	}
	if got.Count != 1 || got.Volatility != 0 || got.Median != got.Average {
		t.Errorf("RollingReturns() = %+v want a single observation", got)
	}

	// 305 days is not.
	s = mustSeries(t, pt("2020-01-01", 100), pt("2020-11-01", 110))
	if _, err := RollingReturns(s, 1, 1); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("RollingReturns() error = %v want %v", err, ErrInsufficientData)
	}
}

func TestRollingReturnsErrors(t *testing.T) {
	s := constantSeries(t, "2020-01-01", "2021-12-31", 10)
	testCases := []struct {
		name   string
		period float64
		stride int
		want   error
	}{
		{"zero period", 0, 1, ErrInvalidInput},
		{"negative period", -1, 1, ErrInvalidInput},
		{"NaN period", math.NaN(), 1, ErrInvalidInput},
		{"zero stride", 1, 0, ErrInvalidInput},
		{"too long", 5, 1, ErrInsufficientData},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := RollingReturns(s, tc.period, tc.stride); !errors.Is(err, tc.want) {
				t.Errorf("RollingReturns() error = %v want %v", err, tc.want)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	testCases := []struct {
		in   []float64
		want float64
	}{
		{[]float64{4}, 4},
		{[]float64{1, 2, 3}, 2},
		{[]float64{1, 2, 3, 4}, 2.5},
		{[]float64{-3, -1, 5, 9}, 2},
	}
	for _, tc := range testCases {
		if got := median(tc.in); got != tc.want {
			t.Errorf("median(%v) = %v want %v", tc.in, got, tc.want)
		}
	}
}
