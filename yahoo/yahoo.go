// Package yahoo implements the market data provider over the Yahoo Finance
// v8 chart API. Exchange-suffixed tickers ("PETR4.SA"), index symbols
// ("^GSPC") and crypto pairs ("BTC-USD") are native Yahoo forms and pass
// through untouched.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/etnz/assist"
	"github.com/etnz/assist/date"
)

// cacheTTL bounds how stale a served quote can be. Two fetches of the same
// identifier and range within the TTL return identical snapshots.
const cacheTTL = time.Minute

// Provider fetches daily OHLCV bars from Yahoo Finance.
type Provider struct {
	Client  *http.Client
	BaseURL string // overridable for tests
}

// New returns a provider with a short-lived response cache, so the repeated
// fetches of a busy chat session don't hammer the API.
func New() *Provider {
	return &Provider{
		Client:  assist.CachedClient(cacheTTL),
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

var _ assist.MarketProvider = (*Provider)(nil)

// chart is the response structure of the v8 chart endpoint. Quote arrays
// carry nulls on holidays, hence the pointer elements.
type chart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch retrieves the daily bars for id over rng. A zero rng means the
// default recent window used by the chat flow. Failures never abort the
// pipeline: they come back as an explicit Unavailable marker.
func (p *Provider) Fetch(ctx context.Context, id assist.Identifier, rng date.Range) (*assist.PriceSnapshot, *assist.Unavailable) {
	if rng.IsZero() {
		rng = date.LastDays(assist.DefaultRangeDays)
	}
	unavailable := func(reason string) (*assist.PriceSnapshot, *assist.Unavailable) {
		return nil, &assist.Unavailable{Source: assist.SourceMarket, ID: id, Reason: reason}
	}

	addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		p.BaseURL, url.PathEscape(id.String()), rng.From.Unix(), rng.To.Add(1).Unix())

	// Yahoo rejects the default Go user agent.
	header := http.Header{"User-Agent": []string{"Mozilla/5.0"}}
	body, err := assist.Get(ctx, p.Client, addr, header)
	if err != nil {
		return unavailable(err.Error())
	}

	var c chart
	if err := json.Unmarshal(body, &c); err != nil {
		return unavailable(fmt.Sprintf("cannot decode chart response: %v", err))
	}
	if c.Chart.Error != nil {
		return unavailable(c.Chart.Error.Description)
	}
	if len(c.Chart.Result) == 0 || len(c.Chart.Result[0].Indicators.Quote) == 0 {
		return unavailable("no data returned")
	}

	result := c.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	var bars date.History[assist.Bar]
	for i, ts := range result.Timestamp {
		day := date.FromTime(time.Unix(ts, 0))
		if !rng.Contains(day) {
			continue
		}
		o, h, l, cl := deref(quote.Open, i), deref(quote.High, i), deref(quote.Low, i), deref(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // null bar (holiday etc.)
		}
		var volume int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		bars.Append(day, assist.Bar{
			Day:    day,
			Open:   decimal.NewFromFloat(o),
			High:   decimal.NewFromFloat(h),
			Low:    decimal.NewFromFloat(l),
			Close:  decimal.NewFromFloat(cl),
			Volume: volume,
		})
	}
	if bars.Len() == 0 {
		return unavailable(fmt.Sprintf("no data for %s over %s", id, rng))
	}

	return assist.NewPriceSnapshot(id, currency(body), rng, &bars), nil
}

// currency digs the quote currency out of the chart meta block. The meta
// shape varies across asset classes, so a jsonpath probe beats a full struct.
func currency(body []byte) string {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return "USD"
	}
	jval, err := jsonpath.Get("$.chart.result[0].meta.currency", jobj)
	if err != nil {
		return "USD"
	}
	if cur, ok := jval.(string); ok && cur != "" {
		return cur
	}
	return "USD"
}

func deref(vs []*float64, i int) float64 {
	if i >= len(vs) || vs[i] == nil {
		return 0
	}
	return *vs[i]
}
