package assist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/etnz/assist/date"
)

// Defaults for the assembler knobs, used when the corresponding field is zero.
const (
	DefaultBudget    = 6000 // characters of serialized context
	DefaultMaxNews   = 5
	DefaultTimeout   = 8 * time.Second
	DefaultLookback  = 3 // user turns consulted for follow-up extraction
	DefaultRangeDays = 30
)

// minExcerpt is the floor under which a news excerpt is dropped rather than
// truncated further.
const minExcerpt = 80

// Entry is the per-identifier slot of the structured context: either a price
// snapshot or an explicit unavailable marker, plus the news found for it.
type Entry struct {
	Snapshot    *PriceSnapshot
	Unavailable *Unavailable
	News        []NewsItem
}

// StructuredContext is the bounded fan-in object fed to the reasoning engine.
// It is owned by the assembler for the duration of one query and discarded
// after the answer: prices are time-sensitive, so nothing is kept across turns.
type StructuredContext struct {
	Lang  Language
	Query string
	// IDs keeps the extraction order, which is also the fetch order.
	IDs     []Identifier
	Entries map[Identifier]*Entry
	// General holds the news found for the raw user query.
	General []NewsItem
}

// HasData reports whether any market data or news made it into the context.
func (sc *StructuredContext) HasData() bool {
	for _, e := range sc.Entries {
		if e.Snapshot != nil || len(e.News) > 0 {
			return true
		}
	}
	return len(sc.General) > 0
}

// Markdown serializes the context for the prompt. It is never empty, even
// when no identifier was extracted: the reasoning engine always receives a
// statement of what is, or is not, attached.
func (sc *StructuredContext) Markdown() string {
	var b strings.Builder
	for _, id := range sc.IDs {
		e := sc.Entries[id]
		fmt.Fprintf(&b, "### %s\n", id)
		switch {
		case e.Unavailable != nil:
			fmt.Fprintf(&b, "- %s\n", e.Unavailable)
		case e.Snapshot != nil:
			writeSnapshot(&b, e.Snapshot)
		}
		writeNews(&b, e.News)
		b.WriteString("\n")
	}
	if len(sc.General) > 0 {
		b.WriteString("### Recent news\n")
		writeNews(&b, sc.General)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "No market data or news was attached to this question.\n"
	}
	return b.String()
}

func writeSnapshot(b *strings.Builder, s *PriceSnapshot) {
	fmt.Fprintf(b, "- period: %s\n", s.Range)
	fmt.Fprintf(b, "- last close: %s (%s)\n", s.LastClose(), s.Last().Day)
	fmt.Fprintf(b, "- change over period: %s\n", s.Change().SignedString())
	fmt.Fprintf(b, "- high: %s, low: %s, mean: %s, volatility: %s\n",
		s.High(), s.Low(), s.Mean(), s.Volatility())
	tail := s.Tail(5)
	if len(tail) > 0 {
		b.WriteString("- last days (open/high/low/close/volume):\n")
		for _, bar := range tail {
			fmt.Fprintf(b, "  - %s: %s/%s/%s/%s/%d\n",
				bar.Day, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		}
	}
}

func writeNews(b *strings.Builder, items []NewsItem) {
	for _, n := range items {
		fmt.Fprintf(b, "- [%s](%s): %s\n", n.Title, n.Link, n.Excerpt)
	}
}

// Assembler orchestrates one user turn: extract identifiers, fan out to the
// providers, merge into a StructuredContext and enforce the size budget.
type Assembler struct {
	Extractor *Extractor
	Market    MarketProvider
	News      NewsProvider

	Budget   int           // max serialized size in characters, DefaultBudget if 0
	MaxNews  int           // max news items per query, DefaultMaxNews if 0
	Timeout  time.Duration // per provider call, DefaultTimeout if 0
	Lookback int           // user turns re-scanned for follow-ups, DefaultLookback if 0
}

// Assemble builds the structured context for one user turn.
//
// When the turn itself yields no identifier, the extractor is re-run over the
// last few user turns of the history, so a follow-up like "and what about
// now?" reuses the previously mentioned ticker. Zero identifiers overall is
// still a valid outcome: the context then carries only general news, which
// supports questions like "how is the market today?".
func (a *Assembler) Assemble(ctx context.Context, text string, lang Language, history *Conversation) *StructuredContext {
	ids := a.Extractor.Extract(text)
	if len(ids) == 0 && history != nil {
		for _, prev := range history.LastUserTexts(a.lookback()) {
			if ids = a.Extractor.Extract(prev); len(ids) > 0 {
				break
			}
		}
	}

	sc := &StructuredContext{
		Lang:    lang,
		Query:   text,
		IDs:     ids,
		Entries: make(map[Identifier]*Entry, len(ids)),
	}
	for _, id := range ids {
		sc.Entries[id] = &Entry{}
	}

	// Fan out one task per identifier plus one for the general news search.
	// Each task writes to its own slot, so the only synchronization needed is
	// the final join.
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id Identifier, e *Entry) {
			defer wg.Done()
			a.fill(ctx, id, e)
		}(id, sc.Entries[id])
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		sc.General = a.search(ctx, text)
	}()
	wg.Wait()

	a.enforceBudget(sc)
	return sc
}

// fill fetches market data and news for one identifier into its slot.
func (a *Assembler) fill(ctx context.Context, id Identifier, e *Entry) {
	cctx, cancel := context.WithTimeout(ctx, a.timeout())
	defer cancel()

	snapshot, unavailable := a.Market.Fetch(cctx, id, date.Range{})
	e.Snapshot, e.Unavailable = snapshot, unavailable

	// A domain hint improves relevance on ambiguous symbols.
	hint := " stock"
	if id.IsPair() {
		hint = " crypto"
	}
	e.News = a.search(ctx, id.String()+hint)
}

// search runs one bounded news search, with its own timeout.
func (a *Assembler) search(ctx context.Context, query string) []NewsItem {
	cctx, cancel := context.WithTimeout(ctx, a.timeout())
	defer cancel()
	return a.News.Search(cctx, query, a.maxNews())
}

// enforceBudget trims the context until its serialization fits the character
// budget. Price data has the highest priority and is always kept: news
// excerpts are truncated longest first, then whole news lists are dropped in
// fetch order, general news last.
func (a *Assembler) enforceBudget(sc *StructuredContext) {
	budget := a.budget()
	for len(sc.Markdown()) > budget {
		if !truncateLongestExcerpt(sc) {
			break
		}
	}
	for i := 0; len(sc.Markdown()) > budget && i < len(sc.IDs); i++ {
		sc.Entries[sc.IDs[i]].News = nil
	}
	if len(sc.Markdown()) > budget {
		sc.General = nil
	}
}

const ellipsis = "…"

// truncateLongestExcerpt halves the longest excerpt still above the floor.
// It reports false when no excerpt can shrink further.
func truncateLongestExcerpt(sc *StructuredContext) bool {
	var longest *NewsItem
	visit := func(items []NewsItem) {
		for i := range items {
			// the ellipsis allowance keeps already-truncated excerpts out
			if len(items[i].Excerpt) <= minExcerpt+len(ellipsis) {
				continue
			}
			if longest == nil || len(items[i].Excerpt) > len(longest.Excerpt) {
				longest = &items[i]
			}
		}
	}
	for _, id := range sc.IDs {
		visit(sc.Entries[id].News)
	}
	visit(sc.General)
	if longest == nil {
		return false
	}
	cut := max(len(longest.Excerpt)/2, minExcerpt)
	// do not cut a utf-8 rune in half
	for cut > 0 && longest.Excerpt[cut-1]&0xC0 == 0x80 {
		cut--
	}
	longest.Excerpt = longest.Excerpt[:cut] + ellipsis
	return true
}

func (a *Assembler) budget() int {
	if a.Budget > 0 {
		return a.Budget
	}
	return DefaultBudget
}

func (a *Assembler) maxNews() int {
	if a.MaxNews > 0 {
		return a.MaxNews
	}
	return DefaultMaxNews
}

func (a *Assembler) timeout() time.Duration {
	if a.Timeout > 0 {
		return a.Timeout
	}
	return DefaultTimeout
}

func (a *Assembler) lookback() int {
	if a.Lookback > 0 {
		return a.Lookback
	}
	return DefaultLookback
}
