package cmd

import (
	"context"
	"flag"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/renderer"
	"github.com/google/subcommands"
)

type returnsCmd struct {
	schemeFlags
	period string
	from   string
	to     string
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "trailing and point-to-point returns" }
func (*returnsCmd) Usage() string {
	return `mfc returns (-code <code> | -f <file>) [-period <period> | -from <date> [-to <date>]] [-json]

  Without flags, prints the trailing returns over every period (1m, 3m, 6m, 1y, 3y, 5y, 10y)
  ending on the latest NAV. A period not covered by the history has no return.

  -period prints a single trailing return, -from and -to the return between two dates.
  Returns over less than a year are not annualized.
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	c.schemeFlags.SetFlags(f)
	f.StringVar(&c.period, "period", "", "Trailing period (1m, 3m, 6m, 1y, 3y, 5y, 10y).")
	f.StringVar(&c.from, "from", "", "Start of a point-to-point return.")
	f.StringVar(&c.to, "to", "", "End of a point-to-point return. Defaults to the latest NAV.")
}

func (c *returnsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.period != "" && c.from != "" {
		return failure(invalid("-period and -from cannot be used together"))
	}
	from, err := parseDate("from", c.from)
	if err != nil {
		return failure(err)
	}
	to, err := parseDate("to", c.to)
	if err != nil {
		return failure(err)
	}
	var period navsim.TrailingPeriod
	if c.period != "" {
		if period, err = navsim.ParseTrailingPeriod(c.period); err != nil {
			return failure(err)
		}
	}

	cfg, logger, err := setup()
	if err != nil {
		return failure(err)
	}
	defer logger.Sync()

	scheme, series, err := c.load(ctx, cfg, logger)
	if err != nil {
		return failure(err)
	}

	switch {
	case !from.IsZero():
		if to.IsZero() {
			to = series.Latest().Date
		}
		res, err := navsim.PointToPoint(series, from, to)
		if err != nil {
			return failure(err)
		}
		return c.print(res, func() string { return renderer.PointReturnMarkdown(scheme.Meta, res) })

	case c.period != "":
		ret, err := navsim.TrailingReturn(series, period)
		if err != nil {
			return failure(err)
		}
		res := []navsim.PeriodReturn{{Period: period, Return: &ret}}
		return c.print(res[0], func() string { return renderer.ReturnsMarkdown(scheme.Meta, res) })

	default:
		res := navsim.TrailingReturns(series)
		return c.print(res, func() string { return renderer.ReturnsMarkdown(scheme.Meta, res) })
	}
}
