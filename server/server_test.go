package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/date"
	"github.com/etnz/navsim/mfapi"
	"github.com/etnz/navsim/navcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// daily returns one record per day, newest first as the provider does.
func daily(from date.Date, days int, nav func(i int) float64) []navsim.RawPoint {
	raw := make([]navsim.RawPoint, days)
	for i := range days {
		raw[days-1-i] = navsim.RawPoint{
			Date: from.Add(i).Format(date.ProviderFormat),
			NAV:  fmt.Sprintf("%.4f", nav(i)),
		}
	}
	return raw
}

// fakeProvider serves a few synthetic schemes.
type fakeProvider map[string][]navsim.RawPoint

func (p fakeProvider) Fetch(ctx context.Context, code string) (*mfapi.Scheme, error) {
	data, ok := p[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", mfapi.ErrSchemeNotFound, code)
	}
	return &mfapi.Scheme{Meta: mfapi.Meta{Code: code, Name: "Scheme " + code}, Data: data}, nil
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	provider := fakeProvider{
		"100":  daily(date.New(2017, 1, 1), 5*365, func(i int) float64 { return 10 + float64(i)*0.01 }),
		"200":  daily(date.New(2017, 1, 1), 5*365, func(i int) float64 { return 20 + float64(i%30)*0.1 + float64(i)*0.005 }),
		"flat": daily(date.New(2019, 1, 1), 3*365, func(int) float64 { return 10 }),
		"pair": {
			{Date: "01-01-2022", NAV: "15"},
			{Date: "01-01-2020", NAV: "10"},
		},
		"short": {{Date: "01-01-2020", NAV: "10"}, {Date: "02-01-2020", NAV: "0"}},
	}
	cache := navcache.New(provider, time.Hour, 0, zap.NewNop())
	srv := httptest.NewServer(New(cache, opts, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// call sends body (when not nil) and decodes the JSON response.
func call(t *testing.T, srv *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		content, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(content)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var res map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return resp.StatusCode, res
}

func TestScheme(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, res := call(t, srv, http.MethodGet, "/api/scheme/pair", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pair", res["meta"].(map[string]any)["schemeCode"])
	summary := res["summary"].(map[string]any)
	assert.Equal(t, 2.0, summary["totalNavPoints"])
	assert.Equal(t, map[string]any{"date": "2022-01-01", "nav": 15.0}, summary["latestNav"])
	assert.Len(t, res["navHistory"], 2)
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown scheme", http.MethodGet, "/api/scheme/999", nil, http.StatusNotFound},
		{"short history", http.MethodGet, "/api/scheme/short/nav-analysis", nil, http.StatusUnprocessableEntity},
		{"unknown period", http.MethodGet, "/api/scheme/100/returns?period=2w", nil, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/api/scheme/100/calculate/lumpsum", "", http.StatusBadRequest},
		{"not json", http.MethodPost, "/api/scheme/100/calculate/lumpsum", "amount=1", http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/scheme/100/calculate/lumpsum", `{"amount":1,"fromDate":"2020-01-01","toDate":"2021-01-01","extra":1}`, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/scheme/100/calculate/lumpsum", `{"amount":1,"fromDate":"01/01/2020","toDate":"2021-01-01"}`, http.StatusBadRequest},
		{"missing dates", http.MethodPost, "/api/scheme/100/calculate/lumpsum", map[string]any{"amount": 1000}, http.StatusBadRequest},
		{"reversed dates", http.MethodPost, "/api/scheme/100/calculate/lumpsum", map[string]any{"amount": 1000, "fromDate": "2021-01-01", "toDate": "2020-01-01"}, http.StatusBadRequest},
		{"negative amount", http.MethodPost, "/api/scheme/100/calculate/lumpsum", map[string]any{"amount": -1, "fromDate": "2020-01-01", "toDate": "2021-01-01"}, http.StatusBadRequest},
		{"before history", http.MethodPost, "/api/scheme/100/calculate/lumpsum", map[string]any{"amount": 1000, "fromDate": "2010-01-01", "toDate": "2021-01-01"}, http.StatusUnprocessableEntity},
		{"daily sip", http.MethodPost, "/api/scheme/100/calculate/sip", map[string]any{"amount": 1000, "frequency": "daily", "fromDate": "2020-01-01", "toDate": "2021-01-01"}, http.StatusBadRequest},
		{"unknown frequency", http.MethodPost, "/api/scheme/100/calculate/sip", map[string]any{"amount": 1000, "frequency": "hourly", "fromDate": "2020-01-01", "toDate": "2021-01-01"}, http.StatusBadRequest},
		{"step-up without increase", http.MethodPost, "/api/scheme/100/calculate/stepup-sip", map[string]any{"amount": 1000, "fromDate": "2020-01-01", "toDate": "2021-01-01"}, http.StatusBadRequest},
		{"step-up both increases", http.MethodPost, "/api/scheme/100/calculate/stepup-swp", map[string]any{"initialInvestment": 100000, "withdrawalAmount": 1000, "fromDate": "2020-01-01", "toDate": "2021-01-01", "annualIncrease": 5, "annualIncreaseAmount": 100}, http.StatusBadRequest},
		{"rolling period", http.MethodPost, "/api/scheme/100/calculate/rolling", map[string]any{"periodYears": 0}, http.StatusBadRequest},
		{"rolling too long", http.MethodPost, "/api/scheme/100/calculate/rolling", map[string]any{"periodYears": 10}, http.StatusUnprocessableEntity},
		{"no benchmark", http.MethodPost, "/api/scheme/100/alpha-beta", map[string]any{}, http.StatusBadRequest},
		{"unknown benchmark", http.MethodPost, "/api/scheme/100/alpha-beta", map[string]any{"benchmarkCode": "999"}, http.StatusNotFound},
		{"empty compare", http.MethodPost, "/api/compare", map[string]any{"schemeCodes": []string{}}, http.StatusBadRequest},
		{"compare unknown", http.MethodPost, "/api/compare", map[string]any{"schemeCodes": []string{"100", "999"}}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := call(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, res["error"])
		})
	}
}

func TestReturns(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, res := call(t, srv, http.MethodGet, "/api/scheme/pair/returns?period=1y", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1y", res["period"])
	assert.Equal(t, "2020-01-01", res["startDate"]) // the NAV in effect a year ago
	assert.Equal(t, 10.0, res["startNav"])
	assert.Equal(t, 50.0, res["simpleReturn"])

	status, res = call(t, srv, http.MethodPost, "/api/scheme/pair/returns", map[string]any{"fromDate": "2020-01-01", "toDate": "2022-01-01"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 50.0, res["simpleReturn"])
	assert.InDelta(t, 22.47, res["annualizedReturn"], 0.05)
}

func TestLumpsum(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, res := call(t, srv, http.MethodPost, "/api/scheme/pair/calculate/lumpsum", map[string]any{
		"amount":   10000,
		"fromDate": "2020-01-01",
		"toDate":   "2022-01-01",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 10000.0, res["totalInvested"])
	assert.Equal(t, 15000.0, res["finalValue"])
	assert.Equal(t, 5000.0, res["profit"])
	assert.Equal(t, 50.0, res["absoluteReturn"])
	assert.InDelta(t, 22.47, res["annualizedReturn"], 0.05)
}

func TestSIP(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, res := call(t, srv, http.MethodPost, "/api/scheme/flat/calculate/sip", map[string]any{
		"amount":   1000,
		"fromDate": "2020-01-31",
		"toDate":   "2020-04-30",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4000.0, res["totalInvested"])
	assert.Equal(t, 4000.0, res["finalValue"])
	assert.Equal(t, 4.0, res["installments"])
	assert.Nil(t, res["annualizedReturn"])
	assert.Len(t, res["investmentGrowth"], 4)
}

func TestStepUpSIP(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, res := call(t, srv, http.MethodPost, "/api/scheme/flat/calculate/stepup-sip", map[string]any{
		"amount":         1000,
		"frequency":      "yearly",
		"fromDate":       "2019-06-01",
		"toDate":         "2021-06-01",
		"annualIncrease": 10,
	})
	require.Equal(t, http.StatusOK, status)
	// 1000 + 1100 + 1210, calendar years
	assert.Equal(t, 3310.0, res["totalInvested"])
}

func TestSWP(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, res := call(t, srv, http.MethodPost, "/api/scheme/flat/calculate/swp", map[string]any{
		"initialInvestment": 100000,
		"withdrawalAmount":  12000,
		"fromDate":          "2020-01-01",
		"toDate":            "2020-12-31",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, res["exhausted"])
	assert.Equal(t, 100000.0, res["totalWithdrawn"])
	assert.Equal(t, 0.0, res["finalValue"])
	assert.Equal(t, 9.0, res["withdrawals"])
}

func TestStepUpSWP(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, res := call(t, srv, http.MethodPost, "/api/scheme/flat/calculate/stepup-swp", map[string]any{
		"initialInvestment":    100000,
		"withdrawalAmount":     1000,
		"frequency":            "yearly",
		"fromDate":             "2019-06-01",
		"toDate":               "2021-06-01",
		"annualIncreaseAmount": 500,
	})
	require.Equal(t, http.StatusOK, status)
	// 1000 + 1500 + 2000
	assert.Equal(t, 4500.0, res["totalWithdrawn"])
	assert.Equal(t, 95500.0, res["finalValue"])
	assert.Equal(t, false, res["exhausted"])
}

func TestRolling(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, res := call(t, srv, http.MethodPost, "/api/scheme/flat/calculate/rolling", map[string]any{
		"periodYears":   1,
		"frequencyDays": 30,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0.0, res["average"])
	assert.Equal(t, 0.0, res["volatility"])
	assert.Greater(t, res["count"], 0.0)
}

func TestRisk(t *testing.T) {
	srv := newTestServer(t, Options{BenchmarkCode: "100", RiskFreeRate: 6})

	status, res := call(t, srv, http.MethodPost, "/api/scheme/100/alpha-beta", map[string]any{})
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 1, res["beta"], 1e-9)
	assert.InDelta(t, 1, res["correlation"], 1e-9)
	assert.InDelta(t, 0, res["alpha"], 1e-9)
	assert.Equal(t, 0.5, res["riskFreeRate"])
	assert.Equal(t, "monthly", res["frequency"])
	assert.Equal(t, "2021-12-30", res["toDate"])
	assert.Equal(t, "2020-12-30", res["fromDate"])
	assert.Equal(t, 12.0, res["dataPoints"])

	status, res = call(t, srv, http.MethodPost, "/api/scheme/200/alpha-beta", map[string]any{
		"benchmarkCode": "100",
		"fromDate":      "2018-01-01",
		"toDate":        "2020-01-01",
		"frequency":     "quarterly",
		"riskFreeRate":  4,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, res["riskFreeRate"])
	assert.Equal(t, 8.0, res["dataPoints"])
}

func TestAnalysis(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, res := call(t, srv, http.MethodGet, "/api/scheme/100/nav-analysis", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "100", res["meta"].(map[string]any)["schemeCode"])
	analysis := res["analysis"].(map[string]any)
	assert.Equal(t, float64(5*365), analysis["totalDataPoints"])
	assert.Len(t, analysis["trends"], 3)
}

func TestCompare(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, res := call(t, srv, http.MethodPost, "/api/compare", map[string]any{"schemeCodes": []string{"100", "200", "pair"}})
	require.Equal(t, http.StatusOK, status)
	require.Len(t, res, 3)
	pair := res["pair"].(map[string]any)
	returns := pair["returns"].([]any)
	require.Len(t, returns, len(navsim.TrailingPeriods))
	tenYears := returns[len(returns)-1].(map[string]any)
	assert.Equal(t, "10y", tenYears["period"])
	assert.Nil(t, tenYears["simpleReturn"])
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, Options{Metrics: true})

	status, res := call(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", res["status"])

	call(t, srv, http.MethodGet, "/api/scheme/pair", nil)
	call(t, srv, http.MethodGet, "/api/scheme/pair", nil)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "navsim_http_requests_total")
	assert.Contains(t, string(body), `navsim_navcache_lookups_total{result="hit"} 1`)
	assert.Contains(t, string(body), `navsim_navcache_lookups_total{result="miss"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
