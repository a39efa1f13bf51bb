package relevance

import (
	"sort"

	"github.com/Johnnenna2/weekly-news/internal/domain"
)

// TopArticles is how many ranked articles are handed to the outlook stage.
const TopArticles = 15

// Rank deduplicates articles, orders them by score (ties keep input order)
// and keeps the first limit entries.
func Rank(articles []domain.Article, limit int) []domain.Article {
	ranked := Deduplicate(articles)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
