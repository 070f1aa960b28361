package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type askCmd struct{}

func (*askCmd) Name() string     { return "ask" }
func (*askCmd) Synopsis() string { return "ask the assistant a single question" }
func (*askCmd) Usage() string {
	return `arash ask <question...>

  Run one question through the pipeline and print the answer. The turn is
  recorded in the history file, so a follow-up 'ask' can refer to it.

Usage Examples:
$ arash ask "How is NVDA doing compared to AMD?"
$ arash ask -lang en "Is PETR4.SA worth holding?"
`
}

func (*askCmd) SetFlags(_ *flag.FlagSet) {}

func (c *askCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	question := strings.TrimSpace(strings.Join(f.Args(), " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "Error: no question given")
		return subcommands.ExitUsageError
	}

	g, err := newGateway(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	conv, err := DecodeConversation()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	answer, err := handleTurn(ctx, g, newAssembler(), conv, question)
	if err != nil {
		reportEngineError(err)
		return subcommands.ExitFailure
	}
	printMarkdown(answer)
	return subcommands.ExitSuccess
}
