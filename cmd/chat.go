package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type chatCmd struct{}

func (*chatCmd) Name() string     { return "chat" }
func (*chatCmd) Synopsis() string { return "start an interactive session with the assistant" }
func (*chatCmd) Usage() string {
	return `arash chat

  Start an interactive session. Each message goes through the whole
  pipeline: tickers are extracted, market data and news are fetched, and the
  answer is grounded in them. The conversation is persisted in the history
  file, so a later session picks up where this one stopped.

  Type 'bye' (or Ctrl+D) to exit.
`
}

func (*chatCmd) SetFlags(_ *flag.FlagSet) {}

func (c *chatCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	asm := newAssembler()

	fmt.Println("Welcome to Arash financial assist. Type 'bye' to exit.")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("arash> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return subcommands.ExitSuccess // Clean exit on Ctrl+D
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "bye" {
			return subcommands.ExitSuccess
		}

		answer, err := handleTurn(ctx, g, asm, conv, input)
		if err != nil {
			reportEngineError(err)
			continue
		}
		printMarkdown(answer)
	}
}
