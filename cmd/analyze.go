package cmd

import (
	"context"
	"flag"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/renderer"
	"github.com/google/subcommands"
)

type analyzeCmd struct {
	schemeFlags
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "describe the whole NAV history" }
func (*analyzeCmd) Usage() string {
	return `mfc analyze (-code <code> | -f <file>) [-json]

  Summarizes the NAV history of a scheme: NAV extremes, CAGR, volatility of consecutive
  NAV returns, recent trends and trailing returns.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) { c.schemeFlags.SetFlags(f) }

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		return failure(err)
	}
	defer logger.Sync()

	scheme, series, err := c.load(ctx, cfg, logger)
	if err != nil {
		return failure(err)
	}
	res, err := navsim.Analyze(series)
	if err != nil {
		return failure(err)
	}
	return c.print(res, func() string { return renderer.AnalysisMarkdown(scheme.Meta, res) })
}
