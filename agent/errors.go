package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrMissingKey is the configuration error for an absent API key. It is
// fatal for the turn: no external call is attempted.
var ErrMissingKey = errors.New("no API key configured, set GEMINI_API_KEY or pass -gemini-api-key")

// Kind classifies reasoning engine failures.
type Kind string

const (
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindTimeout   Kind = "timeout"
	KindMalformed Kind = "malformed"
)

// EngineError is a reasoning engine failure surfaced to the caller. Its
// message carries enough to let the user correct the situation but never the
// prompt content.
type EngineError struct {
	Kind Kind
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("reasoning engine failure (%s): %v", e.Kind, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// Transient reports whether a single bounded retry makes sense.
func (e *EngineError) Transient() bool {
	return e.Kind == KindRateLimit || e.Kind == KindTimeout
}

// Hint returns a user-facing suggestion for the failure.
func (e *EngineError) Hint() string {
	switch e.Kind {
	case KindAuth:
		return "check your API key"
	case KindRateLimit:
		return "the model is rate limited, wait a moment and try again"
	case KindTimeout:
		return "the model did not answer in time, try again"
	default:
		return "the model returned an unusable answer, try rephrasing"
	}
}

// asEngineError classifies an engine call failure.
func asEngineError(err error) *EngineError {
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr
	}
	return &EngineError{Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return KindAuth
		case 429:
			return KindRateLimit
		case 408, 504:
			return KindTimeout
		}
	}
	// last resort, the transport does not always surface structured errors
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "permission"):
		return KindAuth
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate") || strings.Contains(msg, "429"):
		return KindRateLimit
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return KindTimeout
	}
	return KindMalformed
}
