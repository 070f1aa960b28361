// Package ddg implements the news provider over the DuckDuckGo html
// endpoint. News is supplementary to the pipeline: every failure degrades to
// an empty result, never to an error.
package ddg

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/etnz/assist"
)

const cacheTTL = time.Minute

// Provider searches DuckDuckGo and scrapes the result list.
type Provider struct {
	Client  *http.Client
	BaseURL string // overridable for tests
}

// New returns a provider with a short-lived response cache, so the identifier
// and free-text searches of one turn don't duplicate calls.
func New() *Provider {
	return &Provider{
		Client:  assist.CachedClient(cacheTTL),
		BaseURL: "https://html.duckduckgo.com",
	}
}

var _ assist.NewsProvider = (*Provider)(nil)

// Search returns up to max news items for the query, in the order DuckDuckGo
// ranked them. On any failure it logs and returns nil.
func (p *Provider) Search(ctx context.Context, query string, max int) []assist.NewsItem {
	addr := p.BaseURL + "/html/?q=" + url.QueryEscape(query)
	header := http.Header{"User-Agent": []string{"Mozilla/5.0"}}

	body, err := assist.Get(ctx, p.Client, addr, header)
	if err != nil {
		log.Printf("news search %q failed (ignored): %v", query, err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		log.Printf("news search %q: cannot parse response (ignored): %v", query, err)
		return nil
	}

	var items []assist.NewsItem
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := s.Find("a.result__a")
		link, _ := title.Attr("href")
		item := assist.NewsItem{
			Title:   strings.TrimSpace(title.Text()),
			Link:    resolveLink(link),
			Excerpt: strings.TrimSpace(s.Find(".result__snippet").Text()),
			Query:   query,
		}
		if item.Title == "" {
			return true // ads and separators have no title link
		}
		items = append(items, item)
		return len(items) < max
	})
	return items
}

// resolveLink unwraps the DuckDuckGo redirect ("/l/?uddg=<target>") back to
// the target url.
func resolveLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
