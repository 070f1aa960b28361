package renderer

import "github.com/etnz/assist"

// RecentBars is how many bars the analysis report shows in its table.
const RecentBars = 20

// RenderAnalysis renders the detailed asset analysis report for a snapshot.
func RenderAnalysis(s *assist.PriceSnapshot) string {
	partials := map[string]string{
		"analysis_bars": "analysis_bars.md",
	}
	return renderTemplate("analysis", "analysis.md", partials, s)
}

// RenderNews renders a news list as a markdown bullet list.
func RenderNews(items []assist.NewsItem) string {
	return renderTemplate("news", "news.md", nil, items)
}
