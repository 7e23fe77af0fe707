package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/renderer"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

type compareCmd struct {
	json bool
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare the trailing returns of schemes" }
func (*compareCmd) Usage() string {
	return `mfc compare [-json] <scheme>...

  Prints the trailing returns of each scheme side by side. A scheme is either a code
  fetched from the provider, or a payload file ending in .json.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the result as JSON instead of markdown.")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) == 0 {
		return failure(invalid("at least one scheme is required"))
	}

	cfg, logger, err := setup()
	if err != nil {
		return failure(err)
	}
	defer logger.Sync()

	schemes := make([]renderer.Compared, len(args))
	g, ctx := errgroup.WithContext(ctx)
	for i, arg := range args {
		g.Go(func() error {
			code, file := arg, ""
			if strings.HasSuffix(arg, ".json") {
				code, file = "", arg
			}
			scheme, series, err := loadScheme(ctx, cfg, logger, code, file)
			if err != nil {
				return err
			}
			schemes[i] = renderer.Compared{Meta: scheme.Meta, Returns: navsim.TrailingReturns(series)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return failure(err)
	}

	if c.json {
		res := make(map[string]any, len(schemes))
		for i, s := range schemes {
			key := s.Meta.Code
			if key == "" {
				key = args[i]
			}
			res[key] = map[string]any{"meta": s.Meta, "returns": s.Returns}
		}
		return printJSON(res)
	}
	printMarkdown(renderer.CompareMarkdown(schemes))
	return subcommands.ExitSuccess
}
