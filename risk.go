package navsim

import (
	"fmt"
	"math"

	"github.com/etnz/navsim/date"
	"gonum.org/v1/gonum/stat"
)

// RiskMetrics relates the periodic returns of a fund to those of a benchmark.
//
// Means, volatilities, alpha and the risk-free rate are in percent per sampling period.
type RiskMetrics struct {
	Alpha               float64 `json:"alpha"`
	Beta                float64 `json:"beta"`
	Correlation         float64 `json:"correlation"` // signed, in [-1, 1]
	RSquared            float64 `json:"rSquared"`
	FundVolatility      float64 `json:"schemeVolatility"`
	BenchmarkVolatility float64 `json:"benchmarkVolatility"`
	SharpeRatio         float64 `json:"sharpeRatio"`
	FundMean            float64 `json:"schemeMeanReturn"`
	BenchmarkMean       float64 `json:"benchmarkMeanReturn"`
	RiskFreeRate        float64 `json:"riskFreeRate"`
	Periods             int     `json:"dataPoints"`
}

// ComputeRisk computes alpha, beta and correlation of fund against benchmark.
//
// fund and benchmark are percent returns over the same periods, riskFreeRate is in percent
// per period (see PeriodRiskFreeRate).
//
//	beta  = cov(fund, benchmark) / var(benchmark), 0 when the benchmark does not move
//	alpha = mean(fund) - (rf + beta*(mean(benchmark) - rf))
//	correlation = cov(fund, benchmark) / (sd(fund)*sd(benchmark)), 0 when undefined
//
// The correlation keeps its sign: a fund moving against its benchmark has a negative one.
func ComputeRisk(fund, benchmark []float64, riskFreeRate float64) (RiskMetrics, error) {
	if len(fund) != len(benchmark) {
		return RiskMetrics{}, fmt.Errorf("%w: %d fund returns and %d benchmark returns", ErrInvalidInput, len(fund), len(benchmark))
	}
	if len(fund) < 2 {
		return RiskMetrics{}, fmt.Errorf("%w: %d periodic returns, at least 2 are required", ErrInsufficientData, len(fund))
	}
	for i := range fund {
		if !finite(fund[i]) || !finite(benchmark[i]) {
			return RiskMetrics{}, fmt.Errorf("%w: return #%d is not a number", ErrInvalidInput, i)
		}
	}

	fundMean, fundVol := popMeanStdDev(fund)
	benchMean, benchVol := popMeanStdDev(benchmark)
	cov := stat.Covariance(fund, benchmark, nil)
	benchVar := stat.Variance(benchmark, nil)
	fundVar := stat.Variance(fund, nil)

	m := RiskMetrics{
		FundVolatility:      fundVol,
		BenchmarkVolatility: benchVol,
		FundMean:            fundMean,
		BenchmarkMean:       benchMean,
		RiskFreeRate:        riskFreeRate,
		Periods:             len(fund),
	}
	if benchVar > 0 {
		m.Beta = cov / benchVar
	}
	m.Alpha = fundMean - (riskFreeRate + m.Beta*(benchMean-riskFreeRate))
	if fundVar > 0 && benchVar > 0 {
		m.Correlation = cov / math.Sqrt(fundVar*benchVar)
	}
	m.RSquared = m.Correlation * m.Correlation
	if fundVol > 0 {
		m.SharpeRatio = (fundMean - riskFreeRate) / fundVol
	}
	return m, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// PeriodRiskFreeRate converts an annual rate in percent into a rate per period p.
func PeriodRiskFreeRate(annual float64, p date.Period) float64 {
	return annual / p.PerYear()
}

// PeriodicReturns samples s every period p over r and returns the percent change between
// consecutive samples. Dates before the first NAV are not sampled.
func PeriodicReturns(s Series, r date.Range, p date.Period) ([]float64, error) {
	if err := s.valid(); err != nil {
		return nil, err
	}
	var (
		returns []float64
		prev    NavPoint
		started bool
	)
	for _, on := range r.Dates(p) {
		cur, ok := s.FindOnOrBefore(on)
		if !ok {
			continue
		}
		if started {
			returns = append(returns, float64(percentOf(cur.NAV.Sub(prev.NAV), prev.NAV)))
		}
		prev, started = cur, true
	}
	if len(returns) == 0 {
		return nil, fmt.Errorf("%w: no %s return between %s and %s", ErrInsufficientData, p, r.From, r.To)
	}
	return returns, nil
}

// AlignedReturns samples fund and benchmark on the same calendar grid and returns their
// parallel percent returns. Only dates where both series have a NAV are sampled.
func AlignedReturns(fund, benchmark Series, r date.Range, p date.Period) (fundReturns, benchReturns []float64, err error) {
	if err := fund.valid(); err != nil {
		return nil, nil, err
	}
	if err := benchmark.valid(); err != nil {
		return nil, nil, fmt.Errorf("benchmark: %w", err)
	}
	var prevFund, prevBench NavPoint
	started := false
	for _, on := range r.Dates(p) {
		f, ok := fund.FindOnOrBefore(on)
		if !ok {
			continue
		}
		b, ok := benchmark.FindOnOrBefore(on)
		if !ok {
			continue
		}
		if started {
			fundReturns = append(fundReturns, float64(percentOf(f.NAV.Sub(prevFund.NAV), prevFund.NAV)))
			benchReturns = append(benchReturns, float64(percentOf(b.NAV.Sub(prevBench.NAV), prevBench.NAV)))
		}
		prevFund, prevBench, started = f, b, true
	}
	if len(fundReturns) == 0 {
		return nil, nil, fmt.Errorf("%w: no common %s return between %s and %s", ErrInsufficientData, p, r.From, r.To)
	}
	return fundReturns, benchReturns, nil
}

// Risk samples fund and benchmark every period p over r and computes their risk metrics
// with an annual risk-free rate in percent.
func Risk(fund, benchmark Series, r date.Range, p date.Period, annualRiskFreeRate float64) (RiskMetrics, error) {
	f, b, err := AlignedReturns(fund, benchmark, r, p)
	if err != nil {
		return RiskMetrics{}, err
	}
	return ComputeRisk(f, b, PeriodRiskFreeRate(annualRiskFreeRate, p))
}

// LastCommonYear returns the year ending on the last day both fund and benchmark have a
// NAV. It is the default range of Risk.
func LastCommonYear(fund, benchmark Series) date.Range {
	to := fund.Latest().Date
	if b := benchmark.Latest().Date; b.Before(to) {
		to = b
	}
	return date.Range{From: to.AddMonths(-12), To: to}
}
