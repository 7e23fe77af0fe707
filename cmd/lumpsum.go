package cmd

import (
	"context"
	"flag"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/renderer"
	"github.com/google/subcommands"
)

type lumpsumCmd struct {
	schemeFlags
	amount string
	from   string
	to     string
}

func (*lumpsumCmd) Name() string     { return "lumpsum" }
func (*lumpsumCmd) Synopsis() string { return "value a single investment" }
func (*lumpsumCmd) Usage() string {
	return `mfc lumpsum (-code <code> | -f <file>) -amount <amount> -from <date> [-to <date>] [-json]

  Values an amount invested in the scheme on -from, as of -to.
  The NAV used on each date is the last one published on or before it.
`
}

func (c *lumpsumCmd) SetFlags(f *flag.FlagSet) {
	c.schemeFlags.SetFlags(f)
	f.StringVar(&c.amount, "amount", "", "Amount invested.")
	f.StringVar(&c.from, "from", "", "Investment date.")
	f.StringVar(&c.to, "to", "", "Valuation date. Defaults to the latest NAV.")
}

func (c *lumpsumCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		return failure(err)
	}
	from, err := parseDate("from", c.from)
	if err != nil {
		return failure(err)
	}
	to, err := parseDate("to", c.to)
	if err != nil {
		return failure(err)
	}
	if from.IsZero() {
		return failure(invalid("-from is required"))
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
	if to.IsZero() {
		to = series.Latest().Date
	}
	res, err := navsim.Lumpsum(series, navsim.INR(amount), from, to)
	if err != nil {
		return failure(err)
	}
	return c.print(res, func() string { return renderer.LumpsumMarkdown(scheme.Meta, res) })
}
