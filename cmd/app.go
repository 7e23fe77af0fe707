// Package cmd implements the mfc command line tool, simulating investments in mutual fund
// schemes.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/navsim"
	"github.com/etnz/navsim/config"
	"github.com/etnz/navsim/date"
	"github.com/etnz/navsim/mfapi"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// group is a set of subcommands listed together in the help.
type group struct {
	name     string
	commands []subcommands.Command
}

func groups() []group {
	return []group{
		{"calculators", []subcommands.Command{
			&lumpsumCmd{},
			&sipCmd{},
			&swpCmd{},
			&returnsCmd{},
			&rollingCmd{},
			&riskCmd{},
			&analyzeCmd{},
			&compareCmd{},
		}},
		{"server", []subcommands.Command{&serveCmd{}}},
		{"documentation", []subcommands.Command{&topicCmd{}}},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups() {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (YAML, JSON or TOML). Environment variables NAVSIM_* override it.")

// stdout and stderr are swapped by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// setup loads the configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newClient returns a provider client keeping responses on disk for the day.
func newClient(cfg *config.Config, logger *zap.Logger) *mfapi.Client {
	c := mfapi.NewDailyCachingClient(cfg.Provider.BaseURL, cfg.Provider.CacheDir, logger)
	c.HTTP.Timeout = cfg.Provider.Timeout
	return c
}

// schemeFlags selects the scheme a calculator runs on, and how the result is printed.
type schemeFlags struct {
	code string
	file string
	json bool
}

func (s *schemeFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.code, "code", "", "Scheme code to fetch from the provider.")
	f.StringVar(&s.file, "f", "", "Scheme payload file, as saved from the provider. Takes precedence over -code.")
	f.BoolVar(&s.json, "json", false, "Print the result as JSON instead of markdown.")
}

// load returns the selected scheme and its NAV series.
func (s *schemeFlags) load(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*mfapi.Scheme, navsim.Series, error) {
	return loadScheme(ctx, cfg, logger, s.code, s.file)
}

func loadScheme(ctx context.Context, cfg *config.Config, logger *zap.Logger, code, file string) (*mfapi.Scheme, navsim.Series, error) {
	var (
		scheme *mfapi.Scheme
		err    error
	)
	switch {
	case file != "":
		scheme, err = mfapi.LoadFile(file)
	case code != "":
		scheme, err = newClient(cfg, logger).Fetch(ctx, code)
	default:
		return nil, navsim.Series{}, fmt.Errorf("%w: one of -code or -f is required", navsim.ErrInvalidInput)
	}
	if err != nil {
		return nil, navsim.Series{}, err
	}
	series, err := scheme.Series(logger)
	if err != nil {
		return nil, navsim.Series{}, err
	}
	return scheme, series, nil
}

// print writes v as indented JSON, or the markdown md.
func (s *schemeFlags) print(v any, md func() string) subcommands.ExitStatus {
	if s.json {
		return printJSON(v)
	}
	printMarkdown(md())
	return subcommands.ExitSuccess
}

func printJSON(v any) subcommands.ExitStatus {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return failure(err)
	}
	fmt.Fprintln(stdout, string(data))
	return subcommands.ExitSuccess
}

// printMarkdown renders md for the terminal. The raw markdown is printed when it cannot be
// rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			md = out
		}
	}
	fmt.Fprint(stdout, md)
}

// failure prints err and returns the matching exit status.
func failure(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, navsim.ErrInvalidInput) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", navsim.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// parseDate parses a date flag. An empty value is the zero date.
func parseDate(name, value string) (date.Date, error) {
	if value == "" {
		return date.Date{}, nil
	}
	d, err := date.Parse(value)
	if err != nil {
		return date.Date{}, invalid("-%s: %v", name, err)
	}
	return d, nil
}

// parseAmount parses a decimal flag. An empty value is zero.
func parseAmount(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, invalid("-%s: %q is not a number", name, value)
	}
	return d, nil
}

func parseFrequency(value string) (date.Period, error) {
	p, err := date.ParsePeriod(value)
	if err != nil {
		return 0, invalid("-freq: %v", err)
	}
	return p, nil
}

// stepUpFlags describe the yearly increase of an installment.
type stepUpFlags struct {
	percent     string
	amount      string
	anniversary bool
}

func (s *stepUpFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.percent, "stepup", "", "Yearly increase of the installment, in percent.")
	f.StringVar(&s.amount, "stepup-amount", "", "Yearly increase of the installment, as an amount.")
	f.BoolVar(&s.anniversary, "anniversary", false, "Step up on each anniversary of the start date instead of every calendar year.")
}

// stepUp returns the step-up, nil when none is requested.
func (s *stepUpFlags) stepUp() (*navsim.StepUp, error) {
	if s.percent == "" && s.amount == "" {
		return nil, nil
	}
	pct, err := parseAmount("stepup", s.percent)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount("stepup-amount", s.amount)
	if err != nil {
		return nil, err
	}
	return &navsim.StepUp{Percent: pct, Amount: amount, AppliesAnnually: !s.anniversary}, nil
}
