package model

// Turnover accumulates buy and sell monetary volume.
type Turnover struct {
	Buy  float64
	Sell float64
}

// Sentiment computes normalized net pressure (buy-sell)/(buy+sell).
// The result is in [-1,1]; nil means "no signal" (zero total turnover).
func (t Turnover) Sentiment() *float64 {
	total := t.Buy + t.Sell
	if total == 0 {
		return nil
	}
	s := (t.Buy - t.Sell) / total
	return &s
}

// SentimentEntry is the aggregated institutional flow for one (isin, date)
// key. Exactly one entry exists per key; all sums are plain additions, so
// re-aggregating the same raw rows in any order yields the same entry.
type SentimentEntry struct {
	ISIN string
	Date string

	ByClass map[string]Turnover
	Total   Turnover
	Smart   Turnover
}

// TotalSentiment is the composite sentiment over all investor classes.
func (e *SentimentEntry) TotalSentiment() *float64 {
	return e.Total.Sentiment()
}

// SmartSentiment is the sentiment over the smart-money subset only.
// It is nil when no smart-money class traded the security that day.
func (e *SentimentEntry) SmartSentiment() *float64 {
	return e.Smart.Sentiment()
}

// ClassSentiment is the sentiment of a single investor class, nil when the
// class has no turnover for this key.
func (e *SentimentEntry) ClassSentiment(class string) *float64 {
	t, ok := e.ByClass[class]
	if !ok {
		return nil
	}
	return t.Sentiment()
}

// TypeSentiments returns the per-class sentiment map (nil values for classes
// with zero turnover are preserved so callers can distinguish "no signal"
// from "flat").
func (e *SentimentEntry) TypeSentiments() map[string]*float64 {
	out := make(map[string]*float64, len(e.ByClass))
	for class, t := range e.ByClass {
		out[class] = t.Sentiment()
	}
	return out
}

// Volume is the entry's total monetary turnover, used for spike detection.
func (e *SentimentEntry) Volume() float64 {
	return e.Total.Buy + e.Total.Sell
}
