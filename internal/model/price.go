package model

// PriceRow is one end-of-day quote for one instrument.
// PercentChange is read directly from the trading file.
type PriceRow struct {
	InstrumentID  string
	TradeDate     string
	PercentChange float64
	Symbol        string
}

// IndexRow is one end-of-day observation for a market index.
//
// PercentChange is derived, not read from source: it is computed per index
// over the chronologically sorted series as
// (close_t - close_{t-1}) / close_{t-1} * 100, with the first observation of
// each series defined to have zero change (no prior reference).
type IndexRow struct {
	IndexID       string
	TradeDate     string
	ClosingPrice  float64
	PercentChange float64
}

// PriceKey builds the composite lookup key used by the join engine and the
// backtester. Both sides of every join go through this one function.
func PriceKey(instrumentID, date string) string {
	return instrumentID + "_" + date
}
