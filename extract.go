package assist

import "strings"

// DefaultMaxCandidates caps how many identifiers a single turn can carry.
// More than that and the context would blow the budget on price data alone.
const DefaultMaxCandidates = 5

// Extractor parses free text into candidate instrument identifiers using
// lexical heuristics and a stop-word filter. It is a pure function of its
// configuration and input: no network, no shared state.
type Extractor struct {
	Stop StopWords
	Max  int // maximum number of candidates returned, DefaultMaxCandidates if 0
}

// NewExtractor returns an extractor carrying the built-in stop words plus the
// given extra ones.
func NewExtractor(extra ...string) *Extractor {
	stop := DefaultStopWords()
	for _, w := range extra {
		stop.Add(w)
	}
	return &Extractor{Stop: stop, Max: DefaultMaxCandidates}
}

// Extract returns the candidate identifiers found in text, deduplicated, in
// first-seen order. Only tokens already written in uppercase qualify, so
// "hello world" yields nothing while "NVDA and AMD" yields both tickers.
// An empty input is a valid input with an empty result.
func (e *Extractor) Extract(text string) []Identifier {
	max := e.Max
	if max <= 0 {
		max = DefaultMaxCandidates
	}

	var found []Identifier
	seen := make(map[Identifier]bool)
	for _, tok := range strings.Fields(text) {
		id, ok := e.candidate(tok)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		found = append(found, id)
		if len(found) == max {
			break
		}
	}
	return found
}

// candidate normalizes one whitespace-separated token and decides whether it
// looks like a ticker.
func (e *Extractor) candidate(tok string) (Identifier, bool) {
	// Strip the cash-tag prefix ($AAPL) and any trailing punctuation left by
	// the whitespace split ("AAPL," "PETR4.SA?").
	tok = strings.TrimPrefix(tok, "$")
	tok = strings.TrimRight(tok, ".,;:!?)]}\"'")
	tok = strings.TrimLeft(tok, "([{\"'")
	if tok == "" {
		return "", false
	}
	id := Identifier(tok)
	if !id.Valid() {
		return "", false
	}
	if e.Stop.Contains(tok) {
		return "", false
	}
	return id, true
}
