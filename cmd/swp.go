package cmd

import (
	"context"
	"flag"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/renderer"
	"github.com/google/subcommands"
)

type swpCmd struct {
	schemeFlags
	stepUpFlags
	initial    string
	withdrawal string
	freq       string
	from       string
	to         string
}

func (*swpCmd) Name() string     { return "swp" }
func (*swpCmd) Synopsis() string { return "simulate a systematic withdrawal plan" }
func (*swpCmd) Usage() string {
	return `mfc swp (-code <code> | -f <file>) -initial <amount> -withdraw <amount> -from <date> [-to <date>] [-freq <frequency>] [-stepup <percent> | -stepup-amount <amount>] [-anniversary] [-json]

  Invests -initial on -from, then redeems -withdraw every period until -to.
  When a withdrawal needs more than what is left, the rest is withdrawn and the plan stops.

  Step-up flags increase the withdrawal once a year, like for the sip command.
`
}

func (c *swpCmd) SetFlags(f *flag.FlagSet) {
	c.schemeFlags.SetFlags(f)
	c.stepUpFlags.SetFlags(f)
	f.StringVar(&c.initial, "initial", "", "Amount invested on the start date.")
	f.StringVar(&c.withdrawal, "withdraw", "", "Amount withdrawn every period.")
	f.StringVar(&c.freq, "freq", "monthly", "Withdrawal frequency (monthly, quarterly, yearly).")
	f.StringVar(&c.from, "from", "", "Start of the plan.")
	f.StringVar(&c.to, "to", "", "End of the plan. Defaults to the latest NAV.")
}

func (c *swpCmd) plan() (navsim.WithdrawalPlan, error) {
	initial, err := parseAmount("initial", c.initial)
	if err != nil {
		return navsim.WithdrawalPlan{}, err
	}
	withdrawal, err := parseAmount("withdraw", c.withdrawal)
	if err != nil {
		return navsim.WithdrawalPlan{}, err
	}
	freq, err := parseFrequency(c.freq)
	if err != nil {
		return navsim.WithdrawalPlan{}, err
	}
	from, err := parseDate("from", c.from)
	if err != nil {
		return navsim.WithdrawalPlan{}, err
	}
	to, err := parseDate("to", c.to)
	if err != nil {
		return navsim.WithdrawalPlan{}, err
	}
	if from.IsZero() {
		return navsim.WithdrawalPlan{}, invalid("-from is required")
	}
	stepUp, err := c.stepUp()
	if err != nil {
		return navsim.WithdrawalPlan{}, err
	}
	return navsim.WithdrawalPlan{
		InitialInvestment: navsim.INR(initial),
		Withdrawal:        navsim.INR(withdrawal),
		Frequency:         freq,
		From:              from,
		To:                to,
		StepUp:            stepUp,
	}, nil
}

func (c *swpCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	res, err := navsim.SimulateWithdrawals(series, plan)
	if err != nil {
		return failure(err)
	}
	return c.print(res, func() string { return renderer.SWPMarkdown(scheme.Meta, plan, res) })
}
