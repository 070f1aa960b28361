package date

import "testing"

func TestRangeContains(t *testing.T) {
	r := NewRange(MustParse("2025-01-10"), MustParse("2025-01-20"))

	cases := []struct {
		day  string
		want bool
	}{
		{"2025-01-10", true}, // boundaries included
		{"2025-01-20", true},
		{"2025-01-15", true},
		{"2025-01-09", false},
		{"2025-01-21", false},
	}
	for _, c := range cases {
		if got := r.Contains(MustParse(c.day)); got != c.want {
			t.Errorf("Contains(%s) = %v, want %v", c.day, got, c.want)
		}
	}
}

func TestRangeDays(t *testing.T) {
	r := NewRange(MustParse("2025-01-10"), MustParse("2025-01-10"))
	if got := r.Days(); got != 1 {
		t.Errorf("single day range: got %d days want 1", got)
	}
	r = NewRange(MustParse("2025-01-10"), MustParse("2025-01-20"))
	if got := r.Days(); got != 11 {
		t.Errorf("got %d days want 11", got)
	}
}

func TestLastDays(t *testing.T) {
	r := LastDays(30)
	if r.To != Today() {
		t.Errorf("LastDays must end today")
	}
	if got := r.Days(); got != 30 {
		t.Errorf("got %d days want 30", got)
	}
}

func TestRangeIsZero(t *testing.T) {
	var r Range
	if !r.IsZero() {
		t.Errorf("zero range must report IsZero")
	}
	if LastDays(7).IsZero() {
		t.Errorf("LastDays(7) must not report IsZero")
	}
}
