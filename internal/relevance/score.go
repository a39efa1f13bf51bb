// Package relevance scores, deduplicates and ranks news articles for the weekly outlook.
package relevance

import "strings"

const (
	highWeight   = 4
	mediumWeight = 2
	weeklyWeight = 3
	symbolWeight = 3
)

var (
	highPriority = []string{
		"federal reserve", "fed", "interest rate", "inflation", "gdp", "unemployment",
		"earnings", "guidance", "outlook", "forecast", "economic data", "jobs report",
		"fomc", "ppi", "cpi", "retail sales", "manufacturing", "consumer confidence",
	}

	mediumPriority = []string{
		"merger", "acquisition", "ipo", "analyst", "upgrade", "downgrade",
		"dividend", "split", "buyback", "guidance", "revenue", "profit",
	}

	weeklyTerms = []string{
		"week ahead", "outlook", "forecast", "preview", "expectations",
		"trend", "momentum", "technical analysis", "support", "resistance",
	}
)

// Watchlist holds the ticker symbols whose mention boosts an article.
var Watchlist = []string{
	"SPY", "QQQ", "IWM", "DIA",
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "META",
	"XLF", "XLE", "XLK", "XLV", "XLI",
}

// Score rates how useful an article is for a week-ahead outlook.
// Every keyword or symbol counts once no matter how often it appears.
func Score(title, description string) int {
	text := strings.ToLower(title + " " + description)

	score := weightedMatches(text, highPriority, highWeight)
	score += weightedMatches(text, mediumPriority, mediumWeight)
	score += weightedMatches(text, weeklyTerms, weeklyWeight)

	for _, symbol := range Watchlist {
		lower := strings.ToLower(symbol)
		if strings.Contains(text, lower) || strings.Contains(text, "$"+lower) {
			score += symbolWeight
		}
	}

	return score
}

func weightedMatches(text string, keywords []string, weight int) int {
	score := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			score += weight
		}
	}
	return score
}
