package assist

// NewsItem is one news snippet returned by a news provider. Items keep the
// provider's order, which is its relevance order.
type NewsItem struct {
	Title   string
	Link    string
	Excerpt string
	// Query is the identifier or free-text query that produced the item.
	Query string
}
