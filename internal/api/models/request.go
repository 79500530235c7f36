package models

// LoadArchiveRequest asks the engine to fetch and ingest a remote archive.
type LoadArchiveRequest struct {
	// ArchivePath is resolved against the configured source base URL.
	ArchivePath string `json:"archive_path" binding:"required"`
}

// StartSessionRequest scopes a session to one trader and as-of date.
type StartSessionRequest struct {
	Trader string `json:"trader,omitempty"`
	// AsOfDate is a YYYY-MM-DD ceiling simulating a past "present day".
	AsOfDate string `json:"as_of_date,omitempty"`
	IndexID  string `json:"index_id,omitempty"`
}

// PatternOutcomesRequest parameterizes the threshold backtest.
type PatternOutcomesRequest struct {
	ISIN        string  `form:"isin" binding:"required"`
	Threshold   float64 `form:"threshold"`
	ForwardDays int     `form:"forward_days"`
}

// PerformanceRequest parameterizes the own-history backtest.
type PerformanceRequest struct {
	HoldingDays int `form:"holding_days"`
}
