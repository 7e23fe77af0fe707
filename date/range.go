package date

import (
	"fmt"
	"iter"
)

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the range [from, to]. It fails if to is before from.
func NewRange(from, to Date) (Range, error) {
	if to.Before(from) {
		return Range{}, fmt.Errorf("end date %s is before start date %s", to, from)
	}
	return Range{From: from, To: to}, nil
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Years returns the length of the range in years of 365.25 days.
func (r Range) Years() float64 { return YearsBetween(r.From, r.To) }

// Dates iterates over the schedule From, p.Step(From, 1), ... while it stays within the range.
func (r Range) Dates(p Period) iter.Seq2[int, Date] {
	return func(yield func(int, Date) bool) {
		for k := 0; ; k++ {
			on := p.Step(r.From, k)
			if on.After(r.To) {
				return
			}
			if !yield(k, on) {
				return
			}
		}
	}
}

func (r Range) String() string { return fmt.Sprintf("%s_%s", r.From, r.To) }
