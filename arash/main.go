// Command arash is the terminal UI of the finance assistant.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/assist/cmd"
)

func main() {
	// Shell completion, only active when invoked by the completion hooks.
	completion().Complete("arash")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	langs := predict.Set{"pt", "en"}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"chat": {},
			"ask":  {},
			"analyze": {Flags: map[string]complete.Predictor{
				"s": predict.Something,
				"e": predict.Something,
				"q": predict.Nothing,
			}},
			"topic": {Args: predict.Set{"readme", "tickers", "languages"}},
		},
		Flags: map[string]complete.Predictor{
			"lang":  langs,
			"model": predict.Nothing,
		},
	}
}
