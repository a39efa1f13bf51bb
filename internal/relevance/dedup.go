package relevance

import (
	"strings"

	"github.com/Johnnenna2/weekly-news/internal/domain"
)

// duplicateOverlap is the title word overlap above which an article counts as a repeat.
const duplicateOverlap = 0.7

type wordSet map[string]struct{}

// Deduplicate drops articles whose title mostly repeats an earlier accepted title.
// The first occurrence wins and input order is preserved.
func Deduplicate(articles []domain.Article) []domain.Article {
	unique := make([]domain.Article, 0, len(articles))
	accepted := make([]wordSet, 0, len(articles))

	for _, article := range articles {
		words := titleWords(article.Title)

		duplicate := false
		for _, seen := range accepted {
			if overlap(words, seen) > duplicateOverlap {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		unique = append(unique, article)
		accepted = append(accepted, words)
	}

	return unique
}

func titleWords(title string) wordSet {
	fields := strings.Fields(strings.ToLower(title))
	words := make(wordSet, len(fields))
	for _, f := range fields {
		words[f] = struct{}{}
	}
	return words
}

// overlap is |a∩b| / max(|a|,|b|), zero when both sets are empty.
func overlap(a, b wordSet) float64 {
	larger := max(len(a), len(b))
	if larger == 0 {
		return 0
	}

	shared := 0
	for w := range a {
		if _, ok := b[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(larger)
}
