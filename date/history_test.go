package date

import "testing"

func TestHistorySorted(t *testing.T) {
	var h History[float64]
	h.Append(MustParse("2025-01-03"), 3)
	h.Append(MustParse("2025-01-01"), 1)
	h.Append(MustParse("2025-01-02"), 2)

	if h.Len() != 3 {
		t.Fatalf("got %d items want 3", h.Len())
	}
	var prev Date
	for day := range h.Values() {
		if !prev.IsZero() && !prev.Before(day) {
			t.Errorf("history is not chronological: %s then %s", prev, day)
		}
		prev = day
	}
	if day, v := h.First(); day != MustParse("2025-01-01") || v != 1 {
		t.Errorf("First() = %s %v", day, v)
	}
	if day, v := h.Latest(); day != MustParse("2025-01-03") || v != 3 {
		t.Errorf("Latest() = %s %v", day, v)
	}
}

func TestHistoryAppendOverwrites(t *testing.T) {
	var h History[string]
	h.Append(MustParse("2025-01-01"), "a")
	h.Append(MustParse("2025-01-01"), "b")
	if h.Len() != 1 {
		t.Fatalf("duplicate day must not grow the history, got %d", h.Len())
	}
	if v, ok := h.Get(MustParse("2025-01-01")); !ok || v != "b" {
		t.Errorf("last value must win, got %q", v)
	}
}
