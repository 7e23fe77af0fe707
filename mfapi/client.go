// Package mfapi fetches mutual fund schemes and their NAV history from mfapi.in.
package mfapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/navsim"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public mfapi.in endpoint.
const DefaultBaseURL = "https://api.mfapi.in/mf"

// ErrSchemeNotFound reports a scheme code unknown to the provider.
var ErrSchemeNotFound = errors.New("scheme not found")

// Meta describes a scheme.
type Meta struct {
	Code             string `json:"schemeCode"`
	Name             string `json:"schemeName"`
	FundHouse        string `json:"fundHouse"`
	Type             string `json:"schemeType"`
	Category         string `json:"schemeCategory"`
	ISINGrowth       string `json:"isinGrowth,omitempty"`
	ISINReinvestment string `json:"isinDivReinvestment,omitempty"`
}

// metaPaths locates each Meta field in a provider payload.
var metaPaths = []struct {
	path  string
	field func(*Meta) *string
}{
	{"$.meta.scheme_code", func(m *Meta) *string { return &m.Code }},
	{"$.meta.scheme_name", func(m *Meta) *string { return &m.Name }},
	{"$.meta.fund_house", func(m *Meta) *string { return &m.FundHouse }},
	{"$.meta.scheme_type", func(m *Meta) *string { return &m.Type }},
	{"$.meta.scheme_category", func(m *Meta) *string { return &m.Category }},
	{"$.meta.isin_growth", func(m *Meta) *string { return &m.ISINGrowth }},
	{"$.meta.isin_div_reinvestment", func(m *Meta) *string { return &m.ISINReinvestment }},
}

// Scheme is a provider payload: metadata and raw NAV records, newest first.
type Scheme struct {
	Meta   Meta
	Data   []navsim.RawPoint
	Status string
}

// Series normalizes the raw NAV records. Dropped records are logged.
func (s *Scheme) Series(logger *zap.Logger) (navsim.Series, error) {
	series, dropped, err := navsim.Normalize(s.Data)
	if dropped > 0 && logger != nil {
		logger.Warn("dropped invalid NAV records",
			zap.String("code", s.Meta.Code),
			zap.Int("dropped", dropped),
			zap.Int("records", len(s.Data)),
		)
	}
	if err != nil {
		return navsim.Series{}, fmt.Errorf("scheme %s: %w", s.Meta.Code, err)
	}
	return series, nil
}

// Decode reads a provider payload.
func Decode(r io.Reader) (*Scheme, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Data   []navsim.RawPoint `json:"data"`
		Status string            `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	s := &Scheme{Data: payload.Data, Status: payload.Status}
	for _, m := range metaPaths {
		*m.field(&s.Meta) = lookup(doc, m.path)
	}
	if s.Meta.Code == "" && len(s.Data) == 0 {
		return nil, ErrSchemeNotFound
	}
	if s.Status != "" && !strings.EqualFold(s.Status, "SUCCESS") {
		return nil, fmt.Errorf("provider status %q", s.Status)
	}
	return s, nil
}

// lookup returns the value at path as a string, or "" when there is none.
func lookup(doc any, path string) string {
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return ""
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return ""
		}
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// LoadFile reads a provider payload saved on disk.
func LoadFile(path string) (*Scheme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Client fetches schemes from the provider.
// Its zero value uses DefaultBaseURL, http.DefaultClient and no logs.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *zap.Logger
}

// NewClient returns a client on baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{BaseURL: baseURL, HTTP: httpClient, Logger: logger}
}

// NewDailyCachingClient returns a client that keeps responses on disk, in dir, for the day.
// An empty dir is the system temporary directory.
func NewDailyCachingClient(baseURL, dir string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := &http.Client{Transport: newDiskCache(http.DefaultTransport, dir, logger)}
	return NewClient(baseURL, httpClient, logger)
}

func (c *Client) base() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(c.BaseURL, "/")
}

func (c *Client) http() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Fetch gets the scheme identified by code.
//
// It fails with ErrSchemeNotFound when the provider does not know the code. There are no
// retries.
func (c *Client) Fetch(ctx context.Context, code string) (*Scheme, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty scheme code", navsim.ErrInvalidInput)
	}
	addr := c.base() + "/" + url.PathEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http().Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch scheme %s: %w", code, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrSchemeNotFound, code)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read scheme %s: %w", code, err)
	}
	s, err := Decode(&buf)
	if errors.Is(err, ErrSchemeNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSchemeNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("scheme %s: %w", code, err)
	}
	if s.Meta.Code == "" {
		s.Meta.Code = code
	}
	c.logger().Debug("fetched scheme", zap.String("code", code), zap.Int("records", len(s.Data)))
	return s, nil
}
