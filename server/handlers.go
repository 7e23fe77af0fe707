package server

import (
	"net/http"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/date"
	"github.com/etnz/navsim/mfapi"
	"golang.org/x/sync/errgroup"
)

type schemeSummary struct {
	FirstNAV       navsim.NavPoint `json:"firstNav"`
	LatestNAV      navsim.NavPoint `json:"latestNav"`
	TotalNavPoints int             `json:"totalNavPoints"`
	Dropped        int             `json:"droppedRecords"`
}

type schemeResponse struct {
	Meta       mfapi.Meta        `json:"meta"`
	NavHistory []navsim.NavPoint `json:"navHistory"`
	Summary    schemeSummary     `json:"summary"`
}

func (s *Server) handleScheme(r *http.Request) (any, error) {
	e, err := s.scheme(r)
	if err != nil {
		return nil, err
	}
	return schemeResponse{
		Meta:       e.Meta,
		NavHistory: e.Series.Points(),
		Summary: schemeSummary{
			FirstNAV:       e.Series.First(),
			LatestNAV:      e.Series.Latest(),
			TotalNavPoints: e.Series.Len(),
			Dropped:        e.Dropped,
		},
	}, nil
}

func (s *Server) handleTrailingReturn(r *http.Request) (any, error) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = navsim.OneYear.String()
	}
	p, err := navsim.ParseTrailingPeriod(period)
	if err != nil {
		return nil, err
	}
	e, err := s.scheme(r)
	if err != nil {
		return nil, err
	}
	ret, err := navsim.TrailingReturn(e.Series, p)
	if err != nil {
		return nil, err
	}
	return navsim.PeriodReturn{Period: p, Return: &ret}, nil
}

func (s *Server) handlePointToPoint(r *http.Request) (any, error) {
	var req dateRange
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	e, err := s.scheme(r)
	if err != nil {
		return nil, err
	}
	return navsim.PointToPoint(e.Series, req.FromDate, req.ToDate)
}

func (s *Server) handleLumpsum(r *http.Request) (any, error) {
	var req lumpsumRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	e, err := s.scheme(r)
	if err != nil {
		return nil, err
	}
	return navsim.Lumpsum(e.Series, navsim.INR(req.Amount), req.FromDate, req.ToDate)
}

func (s *Server) handleSIP(r *http.Request) (any, error) {
	var req sipRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	plan, err := req.plan()
	if err != nil {
		return nil, err
	}
	return s.simulateContributions(r, plan)
}

func (s *Server) handleStepUpSIP(r *http.Request) (any, error) {
	var req stepUpSIPRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	plan, err := req.plan()
	if err != nil {
		return nil, err
	}
	return s.simulateContributions(r, plan)
}

func (s *Server) simulateContributions(r *http.Request, plan navsim.InvestmentPlan) (any, error) {
	e, err := s.scheme(r)
	if err != nil {
		return nil, err
	}
	return navsim.SimulateContributions(e.Series, plan)
}

func (s *Server) handleSWP(r *http.Request) (any, error) {
	var req swpRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	plan, err := req.plan()
	if err != nil {
		return nil, err
	}
	return s.simulateWithdrawals(r, plan)
}

func (s *Server) handleStepUpSWP(r *http.Request) (any, error) {
	var req stepUpSWPRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	plan, err := req.plan()
	if err != nil {
		return nil, err
	}
	return s.simulateWithdrawals(r, plan)
}

func (s *Server) simulateWithdrawals(r *http.Request, plan navsim.WithdrawalPlan) (any, error) {
	e, err := s.scheme(r)
	if err != nil {
		return nil, err
	}
	return navsim.SimulateWithdrawals(e.Series, plan)
}

func (s *Server) handleRolling(r *http.Request) (any, error) {
	var req rollingRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if req.FrequencyDays == 0 {
		req.FrequencyDays = 1
	}
	e, err := s.scheme(r)
	if err != nil {
		return nil, err
	}
	return navsim.RollingReturns(e.Series, req.PeriodYears, req.FrequencyDays)
}

type riskResponse struct {
	navsim.RiskMetrics
	BenchmarkCode string    `json:"benchmarkCode"`
	FromDate      date.Date `json:"fromDate"`
	ToDate        date.Date `json:"toDate"`
	Frequency     string    `json:"frequency"`
}

// handleRisk compares the scheme to an explicit benchmark scheme. The range defaults to the
// year ending on the last day both have a NAV.
func (s *Server) handleRisk(r *http.Request) (any, error) {
	var req riskRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if req.BenchmarkCode == "" {
		req.BenchmarkCode = s.opts.BenchmarkCode
	}
	if req.BenchmarkCode == "" {
		return nil, invalid("benchmarkCode is required")
	}
	rf := s.opts.RiskFreeRate
	if req.RiskFreeRate != nil {
		rf = *req.RiskFreeRate
	}
	freq, err := frequency(req.Frequency)
	if err != nil {
		return nil, err
	}

	fund, err := s.scheme(r)
	if err != nil {
		return nil, err
	}
	bench, err := s.cache.Get(r.Context(), req.BenchmarkCode)
	if err != nil {
		return nil, err
	}

	rng := date.Range{From: req.FromDate, To: req.ToDate}
	if rng.To.IsZero() {
		rng.To = navsim.LastCommonYear(fund.Series, bench.Series).To
	}
	if rng.From.IsZero() {
		rng.From = rng.To.AddMonths(-12)
	}
	if rng.To.Before(rng.From) {
		return nil, invalid("toDate %s is before fromDate %s", rng.To, rng.From)
	}

	m, err := navsim.Risk(fund.Series, bench.Series, rng, freq, rf)
	if err != nil {
		return nil, err
	}
	return riskResponse{
		RiskMetrics:   m,
		BenchmarkCode: req.BenchmarkCode,
		FromDate:      rng.From,
		ToDate:        rng.To,
		Frequency:     freq.String(),
	}, nil
}

type analysisResponse struct {
	Meta     mfapi.Meta      `json:"meta"`
	Analysis navsim.Analysis `json:"analysis"`
}

func (s *Server) handleAnalysis(r *http.Request) (any, error) {
	e, err := s.scheme(r)
	if err != nil {
		return nil, err
	}
	a, err := navsim.Analyze(e.Series)
	if err != nil {
		return nil, err
	}
	return analysisResponse{Meta: e.Meta, Analysis: a}, nil
}

type comparison struct {
	Meta       mfapi.Meta            `json:"meta"`
	Returns    []navsim.PeriodReturn `json:"returns"`
	NavHistory []navsim.NavPoint     `json:"navHistory"`
}

// handleCompare fetches every scheme concurrently. It fails when any of them fails.
func (s *Server) handleCompare(r *http.Request) (any, error) {
	var req compareRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if len(req.SchemeCodes) == 0 {
		return nil, invalid("schemeCodes must be a non-empty array")
	}
	if len(req.SchemeCodes) > maxCompare {
		return nil, invalid("at most %d schemes can be compared, got %d", maxCompare, len(req.SchemeCodes))
	}

	results := make([]comparison, len(req.SchemeCodes))
	g, ctx := errgroup.WithContext(r.Context())
	for i, code := range req.SchemeCodes {
		g.Go(func() error {
			e, err := s.cache.Get(ctx, code)
			if err != nil {
				return err
			}
			results[i] = comparison{
				Meta:       e.Meta,
				Returns:    navsim.TrailingReturns(e.Series),
				NavHistory: e.Series.Points(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := make(map[string]comparison, len(results))
	for i, code := range req.SchemeCodes {
		res[code] = results[i]
	}
	return res, nil
}
