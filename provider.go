package assist

import (
	"context"
	"fmt"

	"github.com/etnz/assist/date"
)

// Source identifies the kind of external provider a failure came from.
type Source string

const (
	SourceMarket Source = "market"
	SourceNews   Source = "news"
)

// Unavailable is the explicit marker recorded when an external fetch fails
// for one identifier. It is a soft signal, not an error: one bad identifier
// must never abort the whole turn, and the reasoning engine must be able to
// tell the user the data could not be retrieved.
type Unavailable struct {
	Source Source
	ID     Identifier
	Reason string
}

func (u *Unavailable) String() string {
	return fmt.Sprintf("%s data unavailable for %s: %s", u.Source, u.ID, u.Reason)
}

// MarketProvider fetches the price series for one identifier over one range.
// Implementations return either a snapshot or an Unavailable marker, never
// both, and must honor ctx cancellation as a per-call timeout.
//
// A zero range asks for the provider's default recent window.
type MarketProvider interface {
	Fetch(ctx context.Context, id Identifier, rng date.Range) (*PriceSnapshot, *Unavailable)
}

// NewsProvider searches recent news snippets for a query, an identifier or
// free text. News is supplementary: on any failure implementations return an
// empty slice, never an error.
type NewsProvider interface {
	Search(ctx context.Context, query string, max int) []NewsItem
}
