// Package analysis ranks securities across the whole aggregated dataset.
package analysis

import (
	"sort"

	"smartflow/internal/model"
	"smartflow/internal/sentiment"
)

// RankedSignal is one security's latest signal snapshot plus its rank.
type RankedSignal struct {
	Rank int `json:"rank"`
	*sentiment.Report
}

// RankByPatternScore derives the signal snapshot for every security with
// aggregated history and sorts descending by pattern strength, breaking ties
// by more negative smart sentiment first (the screener surfaces distribution
// candidates).
func RankByPatternScore(entries map[string]*model.SentimentEntry, limit int) []RankedSignal {
	byISIN := make(map[string][]*model.SentimentEntry)
	for _, e := range entries {
		byISIN[e.ISIN] = append(byISIN[e.ISIN], e)
	}

	out := make([]RankedSignal, 0, len(byISIN))
	for _, history := range byISIN {
		sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })
		if report := sentiment.Snapshot(history); report != nil {
			out = append(out, RankedSignal{Report: report})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Report, out[j].Report
		if a.Pattern.Score != b.Pattern.Score {
			return a.Pattern.Score > b.Pattern.Score
		}
		return smartOrZero(a) < smartOrZero(b)
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func smartOrZero(r *sentiment.Report) float64 {
	if r.SmartSentiment == nil {
		return 0
	}
	return *r.SmartSentiment
}
