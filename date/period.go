package date

import (
	"fmt"
	"strings"
)

// Period is the recurrence of a schedule (installments, return sampling).
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// Months returns the number of calendar months in one period, 0 for day based periods.
func (p Period) Months() int {
	switch p {
	case Monthly:
		return 1
	case Quarterly:
		return 3
	case Yearly:
		return 12
	default:
		return 0
	}
}

// PerYear returns how many periods fit in a year.
func (p Period) PerYear() float64 {
	switch p {
	case Daily:
		return DaysPerYear
	case Weekly:
		return DaysPerYear / 7
	default:
		return 12 / float64(p.Months())
	}
}

// IsPlanFrequency reports whether p can schedule investment or withdrawal installments.
func (p Period) IsPlanFrequency() bool { return p.Months() > 0 }

// Step returns the n-th occurrence after start.
//
// Month based periods are always computed from start's day of month, so a schedule
// starting on the 31st lands on every month end and comes back to the 31st.
func (p Period) Step(start Date, n int) Date {
	switch p {
	case Daily:
		return start.Add(n)
	case Weekly:
		return start.Add(7 * n)
	default:
		return start.AddMonths(n * p.Months())
	}
}

func (p Period) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Period) UnmarshalText(text []byte) error {
	v, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(strings.TrimSpace(p))
	switch p {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year", "annual", "annually":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %q", p)
	}
}
