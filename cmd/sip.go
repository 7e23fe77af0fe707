package cmd

import (
	"context"
	"flag"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/renderer"
	"github.com/google/subcommands"
)

type sipCmd struct {
	schemeFlags
	stepUpFlags
	amount string
	freq   string
	from   string
	to     string
}

func (*sipCmd) Name() string     { return "sip" }
func (*sipCmd) Synopsis() string { return "simulate a systematic investment plan" }
func (*sipCmd) Usage() string {
	return `mfc sip (-code <code> | -f <file>) -amount <amount> -from <date> [-to <date>] [-freq <frequency>] [-stepup <percent> | -stepup-amount <amount>] [-anniversary] [-json]

  Invests -amount every period from -from to -to, and values the units bought as of -to.
  Frequency is monthly, quarterly or yearly.

  With -stepup or -stepup-amount the installment increases once a year: every calendar
  year by default, on each anniversary of -from with -anniversary.
`
}

func (c *sipCmd) SetFlags(f *flag.FlagSet) {
	c.schemeFlags.SetFlags(f)
	c.stepUpFlags.SetFlags(f)
	f.StringVar(&c.amount, "amount", "", "Amount invested every period.")
	f.StringVar(&c.freq, "freq", "monthly", "Installment frequency (monthly, quarterly, yearly).")
	f.StringVar(&c.from, "from", "", "Date of the first installment.")
	f.StringVar(&c.to, "to", "", "End of the plan. Defaults to the latest NAV.")
}

func (c *sipCmd) plan() (navsim.InvestmentPlan, error) {
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		return navsim.InvestmentPlan{}, err
	}
	freq, err := parseFrequency(c.freq)
	if err != nil {
		return navsim.InvestmentPlan{}, err
	}
	from, err := parseDate("from", c.from)
	if err != nil {
		return navsim.InvestmentPlan{}, err
	}
	to, err := parseDate("to", c.to)
	if err != nil {
		return navsim.InvestmentPlan{}, err
	}
	if from.IsZero() {
		return navsim.InvestmentPlan{}, invalid("-from is required")
	}
	stepUp, err := c.stepUp()
	if err != nil {
		return navsim.InvestmentPlan{}, err
	}
	return navsim.InvestmentPlan{Amount: navsim.INR(amount), Frequency: freq, From: from, To: to, StepUp: stepUp}, nil
}

func (c *sipCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	plan, err := c.plan()
	if err != nil {
		return failure(err)
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
	if plan.To.IsZero() {
		plan.To = series.Latest().Date
	}
	res, err := navsim.SimulateContributions(series, plan)
	if err != nil {
		return failure(err)
	}
	return c.print(res, func() string { return renderer.SIPMarkdown(scheme.Meta, plan, res) })
}
