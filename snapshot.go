package assist

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/etnz/assist/date"
)

// Money represents a monetary value in a given currency.
type Money struct {
	value decimal.Decimal
	cur   string
}

// M builds a Money from a numeric value and an ISO currency code.
func M[T float32 | float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

func newDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case float32:
		return decimal.NewFromFloat32(x)
	case float64:
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	default:
		panic(fmt.Sprintf("unsupported decimal source %T", v))
	}
}

// currency returns the money's currency, never nil.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the money formatted with its currency symbol.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string   { return m.cur }
func (m Money) IsZero() bool       { return m.value.IsZero() }
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) && m.cur == n.cur }

// AsFloat returns the inexact float value, for display-only computations.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// Percent is a percentage value, e.g. 4.2 means 4.2%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", p) }

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// Bar is one day of open/high/low/close prices and traded volume.
type Bar struct {
	Day    date.Date
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// PriceSnapshot holds the price series fetched for one identifier over one
// range, plus everything the prompt derives from it. Bars ascend by day and
// days are unique: the snapshot is built from a date.History. A snapshot is
// read-only once built and lives for a single pipeline cycle.
type PriceSnapshot struct {
	ID       Identifier
	Currency string
	Range    date.Range
	Bars     []Bar
}

// NewPriceSnapshot flattens a chronological history of bars into a snapshot.
func NewPriceSnapshot(id Identifier, currency string, rng date.Range, bars *date.History[Bar]) *PriceSnapshot {
	s := &PriceSnapshot{ID: id, Currency: currency, Range: rng}
	for _, bar := range bars.Values() {
		s.Bars = append(s.Bars, bar)
	}
	return s
}

// Empty reports whether the snapshot carries no bar at all.
func (s *PriceSnapshot) Empty() bool { return len(s.Bars) == 0 }

// Last returns the most recent bar. Callers must check Empty first.
func (s *PriceSnapshot) Last() Bar { return s.Bars[len(s.Bars)-1] }

// LastClose returns the most recent closing price.
func (s *PriceSnapshot) LastClose() Money {
	if s.Empty() {
		return M(0, s.Currency)
	}
	return M(s.Last().Close, s.Currency)
}

// High returns the highest high over the whole range.
func (s *PriceSnapshot) High() Money {
	var high decimal.Decimal
	for _, b := range s.Bars {
		if b.High.GreaterThan(high) {
			high = b.High
		}
	}
	return M(high, s.Currency)
}

// Low returns the lowest low over the whole range.
func (s *PriceSnapshot) Low() Money {
	if s.Empty() {
		return M(0, s.Currency)
	}
	low := s.Bars[0].Low
	for _, b := range s.Bars[1:] {
		if b.Low.LessThan(low) {
			low = b.Low
		}
	}
	return M(low, s.Currency)
}

// Change returns the percentage change between the first and last close of
// the range.
func (s *PriceSnapshot) Change() Percent {
	if len(s.Bars) < 2 {
		return 0
	}
	first := s.Bars[0].Close
	if first.IsZero() {
		return 0
	}
	last := s.Last().Close
	change := last.Sub(first).Div(first).Mul(decimal.NewFromInt(100))
	return Percent(change.InexactFloat64())
}

// Mean returns the average closing price over the range.
func (s *PriceSnapshot) Mean() Money {
	if s.Empty() {
		return M(0, s.Currency)
	}
	var sum decimal.Decimal
	for _, b := range s.Bars {
		sum = sum.Add(b.Close)
	}
	return M(sum.Div(decimal.NewFromInt(int64(len(s.Bars)))), s.Currency)
}

// Volatility returns the standard deviation of the closing prices.
// It is display-only, so the inexact float square root is fine.
func (s *PriceSnapshot) Volatility() Money {
	if len(s.Bars) < 2 {
		return M(0, s.Currency)
	}
	mean := s.Mean().value
	var sum decimal.Decimal
	for _, b := range s.Bars {
		d := b.Close.Sub(mean)
		sum = sum.Add(d.Mul(d))
	}
	variance := sum.Div(decimal.NewFromInt(int64(len(s.Bars) - 1)))
	return M(math.Sqrt(variance.InexactFloat64()), s.Currency)
}

// Tail returns the n most recent bars (all of them if fewer).
func (s *PriceSnapshot) Tail(n int) []Bar {
	if len(s.Bars) <= n {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}
