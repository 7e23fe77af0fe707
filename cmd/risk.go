package cmd

import (
	"context"
	"flag"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/date"
	"github.com/etnz/navsim/mfapi"
	"github.com/etnz/navsim/renderer"
	"github.com/google/subcommands"
)

type riskCmd struct {
	schemeFlags
	benchmark     string
	benchmarkFile string
	from          string
	to            string
	freq          string
	rf            float64
}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "alpha, beta and correlation against a benchmark scheme" }
func (*riskCmd) Usage() string {
	return `mfc risk (-code <code> | -f <file>) (-benchmark <code> | -bf <file>) [-from <date>] [-to <date>] [-freq <frequency>] [-rf <percent>] [-json]

  Samples the scheme and the benchmark on the same calendar every period, and compares
  their returns. The benchmark defaults to risk.benchmark_code from the configuration.

  The range defaults to the year ending on the last day both have a NAV. The annual
  risk-free rate defaults to risk.risk_free_rate from the configuration.
`
}

func (c *riskCmd) SetFlags(f *flag.FlagSet) {
	c.schemeFlags.SetFlags(f)
	f.StringVar(&c.benchmark, "benchmark", "", "Scheme code of the benchmark.")
	f.StringVar(&c.benchmarkFile, "bf", "", "Benchmark payload file. Takes precedence over -benchmark.")
	f.StringVar(&c.from, "from", "", "Start of the range.")
	f.StringVar(&c.to, "to", "", "End of the range.")
	f.StringVar(&c.freq, "freq", "monthly", "Sampling frequency (daily, weekly, monthly, quarterly, yearly).")
	f.Float64Var(&c.rf, "rf", 0, "Annual risk-free rate, in percent.")
}

func (c *riskCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	freq, err := parseFrequency(c.freq)
	if err != nil {
		return failure(err)
	}
	rng := date.Range{}
	if rng.From, err = parseDate("from", c.from); err != nil {
		return failure(err)
	}
	if rng.To, err = parseDate("to", c.to); err != nil {
		return failure(err)
	}

	cfg, logger, err := setup()
	if err != nil {
		return failure(err)
	}
	defer logger.Sync()

	rf := cfg.Risk.RiskFreeRate
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == "rf" {
			rf = c.rf
		}
	})
	benchmark := c.benchmark
	if benchmark == "" {
		benchmark = cfg.Risk.BenchmarkCode
	}
	if benchmark == "" && c.benchmarkFile == "" {
		return failure(invalid("a benchmark is required, use -benchmark, -bf or risk.benchmark_code"))
	}

	scheme, series, err := c.load(ctx, cfg, logger)
	if err != nil {
		return failure(err)
	}
	bench, benchSeries, err := loadScheme(ctx, cfg, logger, benchmark, c.benchmarkFile)
	if err != nil {
		return failure(err)
	}

	if rng.To.IsZero() {
		rng.To = navsim.LastCommonYear(series, benchSeries).To
	}
	if rng.From.IsZero() {
		rng.From = rng.To.AddMonths(-12)
	}
	if rng.To.Before(rng.From) {
		return failure(invalid("-to %s is before -from %s", rng.To, rng.From))
	}

	res, err := navsim.Risk(series, benchSeries, rng, freq, rf)
	if err != nil {
		return failure(err)
	}
	report := riskReport{RiskMetrics: res, Benchmark: bench.Meta, FromDate: rng.From, ToDate: rng.To, Frequency: freq}
	return c.print(report, func() string { return renderer.RiskMarkdown(scheme.Meta, bench.Meta, res) })
}

type riskReport struct {
	navsim.RiskMetrics
	Benchmark mfapi.Meta  `json:"benchmark"`
	FromDate  date.Date   `json:"fromDate"`
	ToDate    date.Date   `json:"toDate"`
	Frequency date.Period `json:"frequency"`
}
