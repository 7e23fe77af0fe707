package navsim

import (
	"math"
	"slices"

	"github.com/etnz/navsim/date"
	"github.com/shopspring/decimal"
)

// Trading days used to scale the volatility of consecutive NAV returns.
const (
	tradingDaysPerMonth = 21
	tradingDaysPerYear  = 252
)

// Summary describes a whole NAV history.
type Summary struct {
	FirstNAV    decimal.Decimal
	CurrentNAV  decimal.Decimal
	MinNAV      decimal.Decimal
	MaxNAV      decimal.Decimal
	AverageNAV  decimal.Decimal
	TotalReturn Percent
	CAGR        Percent // 0 for a history of a single day
	TotalYears  float64
}

func (s Summary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currentNav", s.CurrentNAV.InexactFloat64())
	w.Append("firstNav", s.FirstNAV.InexactFloat64())
	w.Append("totalReturn", s.TotalReturn)
	w.Append("cagr", s.CAGR)
	w.Append("totalYears", math.Round(s.TotalYears*100)/100)
	w.Append("maxNav", s.MaxNAV.InexactFloat64())
	w.Append("minNav", s.MinNAV.InexactFloat64())
	w.Append("averageNav", s.AverageNAV.Round(4).InexactFloat64())
	return w.MarshalJSON()
}

// Volatility describes the dispersion of returns between consecutive NAV points.
// Values are ratios, not percents.
type Volatility struct {
	Mean           float64 `json:"mean"`
	Daily          float64 `json:"daily"`
	Monthly        float64 `json:"monthly"`
	Annualized     float64 `json:"annualized"`
	MaxDailyReturn float64 `json:"maxDailyReturn"`
	MinDailyReturn float64 `json:"minDailyReturn"`
}

// Trend describes the most recent points of a history.
type Trend struct {
	Name        string  `json:"name"`
	Points      int     `json:"dataPoints"`
	TotalReturn Percent `json:"totalReturn"`
	Strength    float64 `json:"trendStrength"` // share of points up from the previous one
	Upward      bool    `json:"upward"`
}

// trendWindows are the number of most recent points of each trend.
var trendWindows = []struct {
	name   string
	points int
}{
	{"shortTerm", 30},
	{"mediumTerm", 90},
	{"longTerm", 365},
}

// Analysis is a description of a whole NAV history.
type Analysis struct {
	Points     int
	Range      date.Range
	Summary    Summary
	Volatility Volatility
	Trends     []Trend
	Trailing   []PeriodReturn
}

func (a Analysis) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("totalDataPoints", a.Points)
	w.Append("dateRange", map[string]date.Date{"start": a.Range.From, "end": a.Range.To})
	w.Append("summary", a.Summary)
	w.Append("volatility", a.Volatility)
	w.Append("trends", a.Trends)
	w.Append("returns", a.Trailing)
	return w.MarshalJSON()
}

// Analyze describes the whole history of s.
func Analyze(s Series) (Analysis, error) {
	if err := s.valid(); err != nil {
		return Analysis{}, err
	}
	first, last := s.First(), s.Latest()
	return Analysis{
		Points:     s.Len(),
		Range:      date.Range{From: first.Date, To: last.Date},
		Summary:    summarize(s),
		Volatility: volatility(s),
		Trends:     trends(s),
		Trailing:   TrailingReturns(s),
	}, nil
}

func summarize(s Series) Summary {
	first, last := s.First(), s.Latest()
	sum := Summary{
		FirstNAV:   first.NAV,
		CurrentNAV: last.NAV,
		MinNAV:     first.NAV,
		MaxNAV:     first.NAV,
		TotalYears: date.YearsBetween(first.Date, last.Date),
	}
	total := decimal.Zero
	for i := range s.Len() {
		nav := s.At(i).NAV
		sum.MinNAV = decimal.Min(sum.MinNAV, nav)
		sum.MaxNAV = decimal.Max(sum.MaxNAV, nav)
		total = total.Add(nav)
	}
	sum.AverageNAV = total.Div(decimal.NewFromInt(int64(s.Len())))
	sum.TotalReturn = percentOf(last.NAV.Sub(first.NAV), first.NAV)
	if sum.TotalYears > 0 {
		sum.CAGR = cagr(first.NAV, last.NAV, sum.TotalYears)
	}
	return sum
}

// dailyReturns returns the ratio change between consecutive points of s[from:].
func dailyReturns(s Series, from int) []float64 {
	returns := make([]float64, 0, s.Len()-from)
	for i := max(from, 0) + 1; i < s.Len(); i++ {
		prev, cur := s.At(i-1).NAV, s.At(i).NAV
		returns = append(returns, cur.Sub(prev).Div(prev).InexactFloat64())
	}
	return returns
}

func volatility(s Series) Volatility {
	returns := dailyReturns(s, 0)
	mean, sd := popMeanStdDev(returns)
	return Volatility{
		Mean:           mean,
		Daily:          sd,
		Monthly:        sd * math.Sqrt(tradingDaysPerMonth),
		Annualized:     sd * math.Sqrt(tradingDaysPerYear),
		MaxDailyReturn: slices.Max(returns),
		MinDailyReturn: slices.Min(returns),
	}
}

func trends(s Series) []Trend {
	var res []Trend
	for _, tw := range trendWindows {
		from := max(s.Len()-tw.points, 0)
		returns := dailyReturns(s, from)
		if len(returns) == 0 {
			continue
		}
		up := 0
		for _, r := range returns {
			if r > 0 {
				up++
			}
		}
		start, end := s.At(from).NAV, s.Latest().NAV
		res = append(res, Trend{
			Name:        tw.name,
			Points:      s.Len() - from,
			TotalReturn: percentOf(end.Sub(start), start),
			Strength:    float64(up) / float64(len(returns)),
			Upward:      end.GreaterThan(start),
		})
	}
	return res
}
