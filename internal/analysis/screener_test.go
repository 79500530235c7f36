package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartflow/internal/model"
	"smartflow/internal/sentiment"
)

func addHistory(entries map[string]*model.SentimentEntry, isin string, smarts ...float64) {
	for i, s := range smarts {
		date := fmt.Sprintf("2024-02-%02d", i+1)
		buy := 100 * (1 + s) / 2
		entries[sentiment.Key(isin, date)] = &model.SentimentEntry{
			ISIN:    isin,
			Date:    date,
			ByClass: map[string]model.Turnover{model.ClassProvident: {Buy: buy, Sell: 100 - buy}},
			Total:   model.Turnover{Buy: buy, Sell: 100 - buy},
			Smart:   model.Turnover{Buy: buy, Sell: 100 - buy},
		}
	}
}

func TestRankByPatternScore(t *testing.T) {
	entries := make(map[string]*model.SentimentEntry)
	// Five-day sell streak with deep sentiment: top pattern score.
	addHistory(entries, "IL0001000001", -0.4, -0.5, -0.6, -0.7, -0.8)
	// Mild two-day streak.
	addHistory(entries, "IL0002000002", 0.1, -0.2, -0.2)
	// Buyer: no distribution pattern.
	addHistory(entries, "IL0003000003", 0.5, 0.6)

	ranked := RankByPatternScore(entries, 0)
	require.Len(t, ranked, 3)

	assert.Equal(t, "IL0001000001", ranked[0].ISIN)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "IL0002000002", ranked[1].ISIN)
	assert.Equal(t, "IL0003000003", ranked[2].ISIN)

	assert.Greater(t, ranked[0].Pattern.Score, ranked[1].Pattern.Score)
	assert.Equal(t, 0, ranked[2].Pattern.Score)
}

func TestRankLimit(t *testing.T) {
	entries := make(map[string]*model.SentimentEntry)
	addHistory(entries, "IL0001000001", -0.8)
	addHistory(entries, "IL0002000002", -0.8)
	addHistory(entries, "IL0003000003", -0.8)

	ranked := RankByPatternScore(entries, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankTieBreaksOnSmartSentiment(t *testing.T) {
	entries := make(map[string]*model.SentimentEntry)
	// Same streak length and no volume history: tied scores; the deeper
	// seller ranks first.
	addHistory(entries, "IL0001000001", -0.35)
	addHistory(entries, "IL0002000002", -0.45)

	ranked := RankByPatternScore(entries, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, ranked[0].Pattern.Score, ranked[1].Pattern.Score)
	assert.Equal(t, "IL0002000002", ranked[0].ISIN)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, RankByPatternScore(map[string]*model.SentimentEntry{}, 10))
}
