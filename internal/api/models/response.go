package models

import (
	"smartflow/internal/ingest"
	"smartflow/internal/join"
	"smartflow/internal/model"
)

// LoadResponse reports what an archive load produced.
type LoadResponse struct {
	Status string         `json:"status"`
	Counts map[string]int `json:"counts"`
	// Missing lists required sources that produced no rows, when the load
	// failed.
	Missing []string `json:"missing,omitempty"`
}

// CountsFromBatch converts per-type ingest counts for the wire.
func CountsFromBatch(counts map[ingest.FileType]int) map[string]int {
	out := make(map[string]int, len(counts))
	for t, n := range counts {
		out[string(t)] = n
	}
	return out
}

// SessionResponse is the result of starting or recomputing a session.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Trader    string `json:"trader,omitempty"`
	AsOfDate  string `json:"as_of_date,omitempty"`

	Stats  join.Stats                `json:"stats"`
	Merged []model.MergedTransaction `json:"merged,omitempty"`

	Portfolios map[string][]string `json:"portfolios,omitempty"`
}

// SentimentResponse wraps one aggregated entry with its derived sentiments.
type SentimentResponse struct {
	ISIN string `json:"isin"`
	Date string `json:"date"`

	TotalBuy  float64 `json:"total_buy"`
	TotalSell float64 `json:"total_sell"`
	SmartBuy  float64 `json:"smart_buy"`
	SmartSell float64 `json:"smart_sell"`

	TotalSentiment *float64            `json:"total_sentiment"`
	SmartSentiment *float64            `json:"smart_sentiment"`
	TypeSentiments map[string]*float64 `json:"type_sentiments"`
}

// SentimentFromEntry flattens a SentimentEntry for the wire.
func SentimentFromEntry(e *model.SentimentEntry) *SentimentResponse {
	if e == nil {
		return nil
	}
	return &SentimentResponse{
		ISIN:           e.ISIN,
		Date:           e.Date,
		TotalBuy:       e.Total.Buy,
		TotalSell:      e.Total.Sell,
		SmartBuy:       e.Smart.Buy,
		SmartSell:      e.Smart.Sell,
		TotalSentiment: e.TotalSentiment(),
		SmartSentiment: e.SmartSentiment(),
		TypeSentiments: e.TypeSentiments(),
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
