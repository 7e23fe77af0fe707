package cmd

import (
	"flag"

	"github.com/etnz/navsim"
	"github.com/etnz/navsim/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the subcommands and their flags.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: map[string]complete.Predictor{"config": predict.Files("*")},
	}
	for _, g := range groups() {
		for _, c := range g.commands {
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(f)
			sub := &complete.Command{Flags: make(map[string]complete.Predictor)}
			f.VisitAll(func(fl *flag.Flag) { sub.Flags[fl.Name] = predictFlag(fl) })
			root.Sub[c.Name()] = sub
		}
	}
	root.Sub["topic"].Args = complete.PredictFunc(func(string) []string {
		topics, _ := docs.GetAllTopics()
		return topics
	})
	root.Sub["compare"].Args = predict.Files("*.json")
	return root
}

func predictFlag(fl *flag.Flag) complete.Predictor {
	if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch fl.Name {
	case "f", "bf":
		return predict.Files("*.json")
	case "freq":
		return predict.Set{"daily", "weekly", "monthly", "quarterly", "yearly"}
	case "period":
		var periods predict.Set
		for _, p := range navsim.TrailingPeriods {
			periods = append(periods, p.String())
		}
		return periods
	default:
		return predict.Something
	}
}
