package navsim

import (
	"fmt"
	"math"
	"slices"

	"github.com/etnz/navsim/date"
	"gonum.org/v1/gonum/stat"
)

// windowTolerance accepts windows slightly shorter than requested, near the end of a
// sparse history.
const windowTolerance = 0.95

// RollingObservation is the CAGR of one window starting on Date.
type RollingObservation struct {
	Date date.Date `json:"date"`
	CAGR Percent   `json:"cagr"`
}

// RollingReturnSet is the distribution of CAGR over every window of a series.
type RollingReturnSet struct {
	PeriodYears  float64
	StrideDays   int
	Observations []RollingObservation
	Average      Percent
	Median       Percent
	Min, Max     Percent
	Volatility   Percent // population standard deviation of the observations
	Count        int
}

func (r RollingReturnSet) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("periodYears", r.PeriodYears)
	w.Append("frequencyDays", r.StrideDays)
	w.Append("average", r.Average)
	w.Append("max", r.Max)
	w.Append("min", r.Min)
	w.Append("median", r.Median)
	w.Append("volatility", r.Volatility)
	w.Append("count", r.Count)
	w.Append("returnsData", r.Observations)
	return w.MarshalJSON()
}

// RollingReturns computes the CAGR of every window of periodYears that starts on a point
// of s, taking one point every strideDays points.
//
// A window ends on the NAV in effect periodYears*365.25 days after its start. It is kept
// only if that NAV is after the start and covers at least 95% of the requested period.
// It fails with ErrInsufficientData when no window is kept.
func RollingReturns(s Series, periodYears float64, strideDays int) (RollingReturnSet, error) {
	if periodYears <= 0 || math.IsNaN(periodYears) || math.IsInf(periodYears, 0) {
		return RollingReturnSet{}, fmt.Errorf("%w: period must be a positive number of years, got %v", ErrInvalidInput, periodYears)
	}
	if strideDays <= 0 {
		return RollingReturnSet{}, fmt.Errorf("%w: frequency must be a positive number of days, got %d", ErrInvalidInput, strideDays)
	}
	if err := s.valid(); err != nil {
		return RollingReturnSet{}, err
	}
	window := int(math.Floor(periodYears * date.DaysPerYear))

	var observations []RollingObservation
	for i := 0; i < s.Len(); i += strideDays {
		start := s.At(i)
		end, ok := s.FindOnOrBefore(start.Date.Add(window))
		if !ok || !end.Date.After(start.Date) {
			continue
		}
		years := date.YearsBetween(start.Date, end.Date)
		if years < windowTolerance*periodYears {
			continue
		}
		observations = append(observations, RollingObservation{Date: start.Date, CAGR: cagr(start.NAV, end.NAV, years)})
	}
	if len(observations) == 0 {
		return RollingReturnSet{}, fmt.Errorf("%w: no %v-year window in a history from %s to %s", ErrInsufficientData, periodYears, s.First().Date, s.Latest().Date)
	}

	values := make([]float64, len(observations))
	for i, o := range observations {
		values[i] = float64(o.CAGR)
	}
	mean, sd := popMeanStdDev(values)
	slices.Sort(values)
	return RollingReturnSet{
		PeriodYears:  periodYears,
		StrideDays:   strideDays,
		Observations: observations,
		Average:      Percent(mean),
		Median:       Percent(median(values)),
		Min:          Percent(values[0]),
		Max:          Percent(values[len(values)-1]),
		Volatility:   Percent(sd),
		Count:        len(observations),
	}, nil
}

// median returns the middle of sorted values, averaging the two middle values of an even
// count.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// popMeanStdDev returns the mean and the population standard deviation (divided by N) of x.
func popMeanStdDev(x []float64) (mean, sd float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.PopMeanStdDev(x, nil)
}
