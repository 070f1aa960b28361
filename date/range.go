package date

import "fmt"

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange returns the range between two dates, boundaries included.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// LastDays returns the range covering the n days up to today, today included.
// It is the default window used by the chat flow when the user gives no range.
func LastDays(n int) Range {
	today := Today()
	return Range{From: today.Add(-(n - 1)), To: today}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// Days returns the number of days covered by the range, boundaries included.
func (r Range) Days() int {
	return int(r.To.time().Sub(r.From.time())/Day) + 1
}

// IsZero reports whether the range is the zero value, meaning "no range given".
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// String formats the range in its standard "from..to" form.
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
