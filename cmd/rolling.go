package cmd

import (
	"context"
	"flag"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/renderer"
	"github.com/google/subcommands"
)

type rollingCmd struct {
	schemeFlags
	years float64
	every int
}

func (*rollingCmd) Name() string     { return "rolling" }
func (*rollingCmd) Synopsis() string { return "distribution of rolling returns" }
func (*rollingCmd) Usage() string {
	return `mfc rolling (-code <code> | -f <file>) [-years <years>] [-every <points>] [-json]

  Computes the CAGR of every window of -years starting on a NAV point, taking one point
  every -every points, and prints their average, median, extremes and volatility.
`
}

func (c *rollingCmd) SetFlags(f *flag.FlagSet) {
	c.schemeFlags.SetFlags(f)
	f.Float64Var(&c.years, "years", 1, "Length of a window, in years.")
	f.IntVar(&c.every, "every", 1, "Number of NAV points between two window starts.")
}

func (c *rollingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		return failure(err)
	}
	defer logger.Sync()

	scheme, series, err := c.load(ctx, cfg, logger)
	if err != nil {
		return failure(err)
	}
	res, err := navsim.RollingReturns(series, c.years, c.every)
	if err != nil {
		return failure(err)
	}
	return c.print(res, func() string { return renderer.RollingMarkdown(scheme.Meta, res) })
}
