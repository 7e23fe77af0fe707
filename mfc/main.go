// Command mfc simulates investments in mutual fund schemes from their NAV history.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/navsim/cmd"
	"github.com/google/subcommands"
)

func main() {
	// run as a shell completion when COMP_LINE is set, no-op otherwise.
	cmd.Completion().Complete("mfc")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
