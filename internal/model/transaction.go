package model

// Transaction is one personal trade as it appears in the broker export,
// after normalization. InstrumentID is upper-cased and trimmed; OrderDate is
// kept in source format until join time because two incompatible encodings
// exist in the wild (DD/MM/YYYY and ISO-with-time).
type Transaction struct {
	InstrumentID string
	Action       string
	OrderDate    string
	TraderID     string
}

// MergedTransaction is a Transaction enriched with resolved market context.
// It is produced by the join engine and recomputed on every session pass,
// never persisted on its own.
type MergedTransaction struct {
	Transaction

	// TradeDate is the order date normalized to YYYY-MM-DD.
	TradeDate string

	Side          Side
	IsBuy         bool
	MarketChange  float64
	HasMarketData bool

	// IsCounter is true when the trade direction opposes the concurrent
	// market/index movement.
	IsCounter bool
}
