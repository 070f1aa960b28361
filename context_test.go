package assist

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/assist/date"
)

// fakeMarket serves a canned snapshot, or an Unavailable for ids listed in
// fail. With a delay it only returns once the context expires.
type fakeMarket struct {
	fail  map[Identifier]string
	delay time.Duration
}

func (f *fakeMarket) Fetch(ctx context.Context, id Identifier, rng date.Range) (*PriceSnapshot, *Unavailable) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, &Unavailable{Source: SourceMarket, ID: id, Reason: ctx.Err().Error()}
		case <-time.After(f.delay):
		}
	}
	if reason, ok := f.fail[id]; ok {
		return nil, &Unavailable{Source: SourceMarket, ID: id, Reason: reason}
	}
	return testSnapshot(id), nil
}

type fakeNews struct{ items []NewsItem }

func (f *fakeNews) Search(_ context.Context, query string, max int) []NewsItem {
	var out []NewsItem
	for _, n := range f.items {
		if len(out) == max {
			break
		}
		n.Query = query
		out = append(out, n)
	}
	return out
}

func testSnapshot(id Identifier) *PriceSnapshot {
	h := &date.History[Bar]{}
	day := date.New(2025, 1, 2)
	for i, close := range []int64{100, 110, 120, 130, 140} {
		h.Append(day.Add(i), Bar{
			Day:    day.Add(i),
			Open:   newDecimal(close - 1),
			High:   newDecimal(close + 5),
			Low:    newDecimal(close - 5),
			Close:  newDecimal(close),
			Volume: 1000,
		})
	}
	return NewPriceSnapshot(id, "USD", date.NewRange(day, day.Add(4)), h)
}

func newsItems(n, excerptLen int) []NewsItem {
	items := make([]NewsItem, n)
	for i := range items {
		items[i] = NewsItem{
			Title:   "headline",
			Link:    "https://example.com/article",
			Excerpt: strings.Repeat("x", excerptLen),
		}
	}
	return items
}

func TestAssemblePartialFailure(t *testing.T) {
	a := &Assembler{
		Extractor: NewExtractor(),
		Market:    &fakeMarket{fail: map[Identifier]string{"AMD": "no such symbol"}},
		News:      &fakeNews{items: newsItems(2, 50)},
	}
	sc := a.Assemble(context.Background(), "Compare NVDA and AMD for investment", English, nil)

	// one failing identifier must not evict the other from the context
	if len(sc.IDs) != 2 {
		t.Fatalf("got %d identifiers, want 2", len(sc.IDs))
	}
	nvda, amd := sc.Entries["NVDA"], sc.Entries["AMD"]
	if nvda == nil || amd == nil {
		t.Fatalf("both identifiers must keep a slot, got %v", sc.Entries)
	}
	if nvda.Snapshot == nil || nvda.Unavailable != nil {
		t.Errorf("NVDA must carry a snapshot")
	}
	if amd.Snapshot != nil || amd.Unavailable == nil {
		t.Errorf("AMD must carry an unavailable marker")
	}
	md := sc.Markdown()
	if !strings.Contains(md, "market data unavailable for AMD: no such symbol") {
		t.Errorf("the failure must be stated in the serialized context:\n%s", md)
	}
	if !strings.Contains(md, "### NVDA") || !strings.Contains(md, "last close") {
		t.Errorf("NVDA prices missing from the serialized context:\n%s", md)
	}
}

func TestAssembleBudgetPreservesPrices(t *testing.T) {
	a := &Assembler{
		Extractor: NewExtractor(),
		Market:    &fakeMarket{},
		News:      &fakeNews{items: newsItems(3, 1200)},
		Budget:    900,
	}
	sc := a.Assemble(context.Background(), "what about NVDA?", English, nil)

	md := sc.Markdown()
	if len(md) > a.Budget {
		t.Errorf("serialized context is %d chars, budget is %d", len(md), a.Budget)
	}
	if sc.Entries["NVDA"].Snapshot == nil {
		t.Errorf("truncation must never drop price data")
	}
	if !strings.Contains(md, "last close") {
		t.Errorf("price data missing after truncation:\n%s", md)
	}
}

func TestAssembleFollowUp(t *testing.T) {
	a := &Assembler{
		Extractor: NewExtractor(),
		Market:    &fakeMarket{},
		News:      &fakeNews{},
	}
	history := NewConversation()
	history.Append(ConversationTurn{Role: RoleUser, Text: "how is NVDA doing?"})
	history.Append(ConversationTurn{Role: RoleAssistant, Text: "NVDA closed up."})

	sc := a.Assemble(context.Background(), "and what about now?", English, history)
	if len(sc.IDs) != 1 || sc.IDs[0] != "NVDA" {
		t.Errorf("follow-up must reuse the previous ticker, got %v", sc.IDs)
	}
}

func TestAssembleNoIdentifier(t *testing.T) {
	a := &Assembler{
		Extractor: NewExtractor(),
		Market:    &fakeMarket{},
		News:      &fakeNews{items: newsItems(2, 60)},
	}
	sc := a.Assemble(context.Background(), "how is the market doing?", English, nil)

	if len(sc.IDs) != 0 {
		t.Errorf("no identifier expected, got %v", sc.IDs)
	}
	if len(sc.General) == 0 {
		t.Errorf("general news must still be searched")
	}
	if md := sc.Markdown(); !strings.Contains(md, "### Recent news") {
		t.Errorf("general news missing from the serialized context:\n%s", md)
	}
}

func TestAssembleTimeout(t *testing.T) {
	a := &Assembler{
		Extractor: NewExtractor(),
		Market:    &fakeMarket{delay: time.Second},
		News:      &fakeNews{},
		Timeout:   20 * time.Millisecond,
	}
	start := time.Now()
	sc := a.Assemble(context.Background(), "NVDA?", English, nil)
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("a slow provider must be cut off by the timeout, took %v", elapsed)
	}
	e := sc.Entries["NVDA"]
	if e.Snapshot != nil || e.Unavailable == nil {
		t.Errorf("a timed out fetch must be recorded as unavailable, got %+v", e)
	}
}

func TestMarkdownNeverEmpty(t *testing.T) {
	sc := &StructuredContext{Lang: English, Query: "hello"}
	if md := sc.Markdown(); md == "" {
		t.Errorf("serialized context must never be empty")
	}
	if sc.HasData() {
		t.Errorf("an empty context has no data")
	}
}

func TestTruncateLongestExcerpt(t *testing.T) {
	sc := &StructuredContext{
		IDs:     []Identifier{"NVDA"},
		Entries: map[Identifier]*Entry{"NVDA": {News: newsItems(1, 400)}},
	}
	for truncateLongestExcerpt(sc) {
	}
	got := sc.Entries["NVDA"].News[0].Excerpt
	if len(got) > minExcerpt+len(ellipsis) {
		t.Errorf("excerpt not reduced to the floor, %d chars left", len(got))
	}
	if !strings.HasSuffix(got, ellipsis) {
		t.Errorf("truncated excerpt must end with the ellipsis: %q", got)
	}
}
