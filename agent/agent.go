// Package agent is the gateway to the reasoning engine. It renders a
// language-specific prompt embedding the structured context and the recent
// conversation, sends it to Gemini and returns the raw answer text.
package agent

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/etnz/assist"
)

// DefaultModel is the reasoning model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultMaxHistory bounds how many trailing conversation turns make it into
// the prompt.
const DefaultMaxHistory = 10

// retryBackoff is the single pause before the one bounded retry. This is an
// interactive chat: failures must surface promptly, so there is no retry loop.
const retryBackoff = 2 * time.Second

// Gateway holds the reasoning engine client and its generation settings.
type Gateway struct {
	Model      string
	MaxHistory int
	client     *genai.Client
}

// New creates a Gateway. An empty API key is a configuration error, reported
// before any network call is attempted.
func New(ctx context.Context, apiKey, model string) (*Gateway, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot initialize the reasoning client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gateway{Model: model, MaxHistory: DefaultMaxHistory, client: client}, nil
}

// Answer renders the prompt for the context's language and asks the engine.
// It retries once, after a short pause, on transient failures (rate limit,
// timeout), and returns a typed *EngineError otherwise. Only the model's
// response text is returned: the prompt internals never leak to the caller.
func (g *Gateway) Answer(ctx context.Context, sctx *assist.StructuredContext, text string, history *assist.Conversation) (string, error) {
	prompt, err := renderPrompt(sctx, text, history, g.maxHistory())
	if err != nil {
		return "", fmt.Errorf("cannot render prompt: %w", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt(sctx.Lang)}}},
		Temperature:       genai.Ptr[float32](0.7),
	}

	answer, err := g.generate(ctx, prompt, config)
	if err == nil {
		return answer, nil
	}
	engineErr := asEngineError(err)
	if !engineErr.Transient() {
		return "", engineErr
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return "", engineErr
	}
	answer, err = g.generate(ctx, prompt, config)
	if err != nil {
		return "", asEngineError(err)
	}
	return answer, nil
}

// generate performs one engine call.
func (g *Gateway) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &EngineError{Kind: KindMalformed, Err: fmt.Errorf("empty response from model %s", g.Model)}
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", &EngineError{Kind: KindMalformed, Err: fmt.Errorf("no text in response from model %s", g.Model)}
	}
	return text, nil
}

func (g *Gateway) maxHistory() int {
	if g.MaxHistory > 0 {
		return g.MaxHistory
	}
	return DefaultMaxHistory
}
