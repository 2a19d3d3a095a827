// Command pkb is the pocketbook CLI: accounts, pockets, subpockets and
// the movements between them.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/pocketbook/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion: a no-op unless invoked by the shell completion
	// hook (install with COMP_INSTALL=1 pkb).
	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{}
	}
	completer := &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"book-file": predict.Files("*.jsonl"),
			"config":    predict.Files("*.toml"),
		},
	}
	completer.Complete("pkb")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
