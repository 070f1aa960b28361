// Package cmd implements the CLI application of the assistant.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/assist"
	"github.com/etnz/assist/agent"
	"github.com/etnz/assist/ddg"
	"github.com/etnz/assist/yahoo"
)

// Commands lists the subcommands of the application. A main package
// registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&chatCmd{},
	&askCmd{},
	&analyzeCmd{},
	&topicCmd{},
}

const geminiKeyEnv = "GEMINI_API_KEY"

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	geminiKeyFlag = flag.String("gemini-api-key", "", "Gemini API key used by the reasoning engine.\n If missing it will read the environment variable \""+geminiKeyEnv+"\". You can get one at https://aistudio.google.com/")
	modelFlag     = flag.String("model", agent.DefaultModel, "Reasoning model identifier.")
	langFlag      = flag.String("lang", string(assist.Portuguese), "Answer language (pt, en).")
	historyFlag   = flag.String("history-file", "conversation.jsonl", "Path to the conversation history file (JSONL format).")
	newsMaxFlag   = flag.Int("news-max", assist.DefaultMaxNews, "Maximum news items fetched per query.")
	budgetFlag    = flag.Int("context-budget", assist.DefaultBudget, "Maximum size in characters of the context sent to the model.")
	timeoutFlag   = flag.Duration("fetch-timeout", assist.DefaultTimeout, "Timeout applied to each market data or news call.")
	stopWordsFlag = flag.String("stop-words", "", "Comma separated extra words to never take for a ticker.")
)

func geminiAPIKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *geminiKeyFlag == "" {
		*geminiKeyFlag = os.Getenv(geminiKeyEnv)
	}
	return *geminiKeyFlag
}

func language() assist.Language { return assist.Language(*langFlag) }

// newAssembler wires the pipeline with the live providers and the configured knobs.
func newAssembler() *assist.Assembler {
	var extra []string
	for _, w := range strings.Split(*stopWordsFlag, ",") {
		if w = strings.TrimSpace(w); w != "" {
			extra = append(extra, w)
		}
	}
	return &assist.Assembler{
		Extractor: assist.NewExtractor(extra...),
		Market:    yahoo.New(),
		News:      ddg.New(),
		Budget:    *budgetFlag,
		MaxNews:   *newsMaxFlag,
		Timeout:   *timeoutFlag,
	}
}

// newGateway creates the reasoning gateway, or fails fast on a missing key
// before any provider call is made.
func newGateway(ctx context.Context) (*agent.Gateway, error) {
	return agent.New(ctx, geminiAPIKey(), *modelFlag)
}

// DecodeConversation loads the conversation history from the app history file.
// If the file does not exist, it returns a new empty conversation.
func DecodeConversation() (*assist.Conversation, error) {
	f, err := os.Open(*historyFlag)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return assist.NewConversation(), nil
		}
		return nil, fmt.Errorf("could not open history file %q: %w", *historyFlag, err)
	}
	defer f.Close()

	conv, err := assist.DecodeConversation(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode history file %q: %w", *historyFlag, err)
	}
	return conv, nil
}

// AppendTurn appends a single turn to the app history file.
func AppendTurn(t assist.ConversationTurn) error {
	f, err := os.OpenFile(*historyFlag, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open history file %q: %w", *historyFlag, err)
	}
	defer f.Close()
	return assist.EncodeTurn(f, t)
}

// handleTurn runs the whole pipeline for one user message: assemble the
// context, ask the engine, and record both turns in the history.
func handleTurn(ctx context.Context, g *agent.Gateway, asm *assist.Assembler, conv *assist.Conversation, text string) (string, error) {
	lang := language()
	sctx := asm.Assemble(ctx, text, lang, conv)
	answer, err := g.Answer(ctx, sctx, text, conv)
	if err != nil {
		return "", err
	}

	now := time.Now()
	for _, turn := range []assist.ConversationTurn{
		{Role: assist.RoleUser, Text: text, Lang: lang, Time: now},
		{Role: assist.RoleAssistant, Text: answer, Lang: lang, Time: now},
	} {
		conv.Append(turn)
		if err := AppendTurn(turn); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not persist the conversation: %v\n", err)
			break
		}
	}
	return answer, nil
}

// reportEngineError prints a reasoning failure with its user-facing hint.
func reportEngineError(err error) {
	var engineErr *agent.EngineError
	if errors.As(err, &engineErr) {
		fmt.Fprintf(os.Stderr, "Error: %v (%s)\n", engineErr, engineErr.Hint())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
