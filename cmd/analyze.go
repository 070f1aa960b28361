package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/assist"
	"github.com/etnz/assist/date"
	"github.com/etnz/assist/ddg"
	"github.com/etnz/assist/renderer"
	"github.com/etnz/assist/yahoo"
)

type analyzeCmd struct {
	start    string
	end      string
	question string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "detailed analysis of one asset over a date range" }
func (*analyzeCmd) Usage() string {
	return `arash analyze [-s <start_date>] [-e <end_date>] [-q <question>] <ticker>

  Fetch the price history of one asset over an explicit date range and print
  its statistics. The ticker is taken as given, no extraction involved.
  With -q, the loaded data is handed to the assistant along with the question.

Usage Examples:
$ arash analyze PETR4.SA
$ arash analyze -s 2025-01-01 -e 2025-06-30 -q "What is the price trend?" NVDA
`
}

func (p *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.start, "s", "", "Start date of the range (defaults to one year ago).")
	f.StringVar(&p.end, "e", "", "End date of the range (defaults to today).")
	f.StringVar(&p.question, "q", "", "Optional question to ask the assistant about the loaded data.")
}

func (p *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one ticker expected")
		return subcommands.ExitUsageError
	}
	id := assist.Identifier(strings.ToUpper(f.Arg(0)))
	if !id.Valid() {
		fmt.Fprintf(os.Stderr, "Error: %q does not look like a ticker, see 'arash topic tickers'\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	rng, err := p.parseRange()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	snapshot, unavailable := yahoo.New().Fetch(ctx, id, rng)
	if unavailable != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", unavailable)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderAnalysis(snapshot))

	if p.question == "" {
		return subcommands.ExitSuccess
	}

	// Hand the already-fetched data to the assistant, with fresh news for
	// the asset. This is a one-shot analysis, it is not recorded as a chat turn.
	g, err := newGateway(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	sctx := &assist.StructuredContext{
		Lang:    language(),
		Query:   p.question,
		IDs:     []assist.Identifier{id},
		Entries: map[assist.Identifier]*assist.Entry{id: {Snapshot: snapshot}},
	}
	cctx, cancel := context.WithTimeout(ctx, *timeoutFlag)
	sctx.Entries[id].News = ddg.New().Search(cctx, id.String()+" stock", *newsMaxFlag)
	cancel()

	answer, err := g.Answer(ctx, sctx, p.question, nil)
	if err != nil {
		reportEngineError(err)
		return subcommands.ExitFailure
	}
	printMarkdown(answer)
	return subcommands.ExitSuccess
}

// parseRange resolves the explicit range flags, defaulting to the last year.
func (p *analyzeCmd) parseRange() (date.Range, error) {
	rng := date.LastDays(365)
	if p.start != "" {
		from, err := date.Parse(p.start)
		if err != nil {
			return rng, fmt.Errorf("invalid start date: %w", err)
		}
		rng.From = from
	}
	if p.end != "" {
		to, err := date.Parse(p.end)
		if err != nil {
			return rng, fmt.Errorf("invalid end date: %w", err)
		}
		rng.To = to
	}
	if rng.To.Before(rng.From) {
		return rng, fmt.Errorf("end date %s is before start date %s", rng.To, rng.From)
	}
	return rng, nil
}
