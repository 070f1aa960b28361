package assist

import (
	"regexp"
	"strings"
)

// Identifier is a normalized instrument symbol: a plain ticker ("NVDA"), an
// exchange-qualified ticker ("PETR4.SA"), a crypto pair ("BTC-USD") or an
// index ("^GSPC"). Immutable once produced by the Extractor.
type Identifier string

func (id Identifier) String() string { return string(id) }

// IsPair reports whether the identifier is a dash separated base-quote pair.
func (id Identifier) IsPair() bool { return strings.Contains(string(id), "-") }

// core identifier shape: optional index caret, an uppercase alphanumeric core
// starting with a letter, and at most one dot or dash qualified suffix.
var identifierRe = regexp.MustCompile(`^\^?[A-Z][A-Z0-9]{0,9}([.-][A-Z0-9]{1,6})?$`)

// minCore and maxCore bound the length of the symbol before any suffix.
// Shorter is too ambiguous to be a ticker, longer is not a real one.
const (
	minCore = 2
	maxCore = 6
)

// Valid reports whether the identifier has the shape of an instrument symbol.
func (id Identifier) Valid() bool {
	s := string(id)
	if !identifierRe.MatchString(s) {
		return false
	}
	core := strings.TrimPrefix(s, "^")
	if i := strings.IndexAny(core, ".-"); i >= 0 {
		core = core[:i]
	}
	return len(core) >= minCore && len(core) <= maxCore
}

// StopWords is a set of words that must never be taken for a ticker, matched
// case-insensitively. It is an explicit configuration value, not a shared
// global, so two extractors can carry different sets.
type StopWords map[string]struct{}

// NewStopWords builds a stop-word set from the given words.
func NewStopWords(words ...string) StopWords {
	s := make(StopWords, len(words))
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add inserts a word in the set.
func (s StopWords) Add(w string) {
	w = strings.ToUpper(strings.TrimSpace(w))
	if w != "" {
		s[w] = struct{}{}
	}
}

// Contains reports whether the word belongs to the set, case-insensitively.
func (s StopWords) Contains(w string) bool {
	_, ok := s[strings.ToUpper(w)]
	return ok
}

// DefaultStopWords returns the built-in stop-word set: common English and
// Portuguese words that show up all-caps when the user shouts.
func DefaultStopWords() StopWords {
	return NewStopWords(
		// English
		"AND", "OR", "THE", "FOR", "NEWS", "STOCK", "PRICE", "TODAY", "WITH",
		"ABOUT", "WHAT", "TELL", "ME", "HOW", "WHY", "BUY", "SELL",
		// Portuguese
		"QUE", "PODE", "DISSE", "DA", "DE", "DO", "DAS", "DOS", "EM", "NO",
		"NA", "NOS", "NAS", "UM", "UMA", "PARA", "POR", "COM", "ACOES",
		"ATIVO", "ATIVOS", "EMPRESA", "PRECO", "HOJE",
	)
}
