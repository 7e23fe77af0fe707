// Package server exposes the NAV simulation engine as a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/mfapi"
	"github.com/etnz/navsim/navcache"
	"go.uber.org/zap"
)

// maxCompare bounds the number of schemes compared in a single request.
const maxCompare = 10

// Options tune the server.
type Options struct {
	RiskFreeRate  float64 // annual, in percent, when a request does not set one
	BenchmarkCode string  // when a request does not set one
	Metrics       bool    // serve /metrics
}

// Server serves the API. Schemes are read through a NAV cache.
type Server struct {
	cache   *navcache.Cache
	opts    Options
	logger  *zap.Logger
	metrics *metrics
}

// New returns a server reading schemes from cache.
func New(cache *navcache.Cache, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cache: cache, opts: opts, logger: logger, metrics: newMetrics()}
	cache.SetObserver(s.metrics)
	return s
}

// Handler returns the HTTP handler with all API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.handle(mux, "GET /api/scheme/{code}", "", s.handleScheme)
	s.handle(mux, "GET /api/scheme/{code}/returns", "trailing", s.handleTrailingReturn)
	s.handle(mux, "POST /api/scheme/{code}/returns", "point-to-point", s.handlePointToPoint)
	s.handle(mux, "POST /api/scheme/{code}/calculate/lumpsum", "lumpsum", s.handleLumpsum)
	s.handle(mux, "POST /api/scheme/{code}/calculate/sip", "sip", s.handleSIP)
	s.handle(mux, "POST /api/scheme/{code}/calculate/stepup-sip", "stepup-sip", s.handleStepUpSIP)
	s.handle(mux, "POST /api/scheme/{code}/calculate/swp", "swp", s.handleSWP)
	s.handle(mux, "POST /api/scheme/{code}/calculate/stepup-swp", "stepup-swp", s.handleStepUpSWP)
	s.handle(mux, "POST /api/scheme/{code}/calculate/rolling", "rolling", s.handleRolling)
	s.handle(mux, "POST /api/scheme/{code}/alpha-beta", "alpha-beta", s.handleRisk)
	s.handle(mux, "GET /api/scheme/{code}/nav-analysis", "nav-analysis", s.handleAnalysis)
	s.handle(mux, "POST /api/compare", "compare", s.handleCompare)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.opts.Metrics {
		mux.Handle("GET /metrics", s.metrics.handler())
	}
	return mux
}

// apiFunc computes the response to a request.
type apiFunc func(r *http.Request) (any, error)

// handle registers h on pattern. Requests are counted by pattern and status, successful
// calculations are timed by calculator.
func (s *Server) handle(mux *http.ServeMux, pattern, calculator string, h apiFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		var body []byte
		v, err := h(r)
		if err == nil {
			body, err = json.Marshal(v)
		}
		status := http.StatusOK
		if err != nil {
			var msg string
			status, msg = s.failure(r, err)
			body, _ = json.Marshal(map[string]string{"error": msg})
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(append(body, '\n'))
		s.metrics.observe(pattern, status, calculator, time.Since(start))
	})
}

// failure maps err to an HTTP status and a message for the client.
func (s *Server) failure(r *http.Request, err error) (int, string) {
	switch {
	case errors.Is(err, mfapi.ErrSchemeNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, navsim.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case navsim.NotEnoughHistory(err):
		return http.StatusUnprocessableEntity, "not enough history: " + err.Error()
	case errors.Is(err, context.Canceled):
		// the client is gone, nobody reads this.
		return 499, "request canceled"
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("kind", navsim.ErrorKind(err)),
			zap.Error(err),
		)
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// scheme returns the scheme named in the request path.
func (s *Server) scheme(r *http.Request) (*navcache.Entry, error) {
	code := strings.TrimSpace(r.PathValue("code"))
	if code == "" {
		return nil, invalid("scheme code is required")
	}
	e, err := s.cache.Get(r.Context(), code)
	if err != nil {
		return nil, fmt.Errorf("scheme %s: %w", code, err)
	}
	return e, nil
}
