package backtest

// Occurrence is one historical threshold-crossing event for an instrument.
type Occurrence struct {
	ISIN          string  `json:"isin"`
	Date          string  `json:"date"`
	Sentiment     float64 `json:"sentiment"`
	ForwardChange float64 `json:"forward_change"`
	DaysWithData  int     `json:"days_with_data"`
	Positive      bool    `json:"positive"`
}

// PatternOutcome summarizes how an instrument's price behaved after its
// smart-money sentiment crossed a threshold.
type PatternOutcome struct {
	ISIN        string  `json:"isin"`
	Threshold   float64 `json:"threshold"`
	ForwardDays int     `json:"forward_days"`

	Occurrences   int     `json:"occurrences"`
	Positive      int     `json:"positive"`
	Negative      int     `json:"negative"`
	DeclineRate   float64 `json:"decline_rate"`
	AverageChange float64 `json:"average_change"`

	// Recent holds the five most recent occurrences, newest last.
	Recent []Occurrence `json:"recent"`
}

// BucketPerf is the win/loss record of one alignment bucket.
type BucketPerf struct {
	Trades     int     `json:"trades"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	AvgOutcome float64 `json:"avg_outcome"`

	sum float64
}

func (b *BucketPerf) add(outcome float64) {
	b.Trades++
	b.sum += outcome
	if outcome > 0 {
		b.Wins++
	}
}

func (b *BucketPerf) finalize() {
	if b.Trades > 0 {
		b.WinRate = float64(b.Wins) / float64(b.Trades)
		b.AvgOutcome = b.sum / float64(b.Trades)
	}
}

// Performance measures the user's own trade history against institutional
// sentiment over a fixed holding period.
type Performance struct {
	HoldingDays int `json:"holding_days"`
	Total       int `json:"total"`
	Evaluated   int `json:"evaluated"`

	WithSmart    BucketPerf `json:"with_smart"`
	AgainstSmart BucketPerf `json:"against_smart"`
	Neutral      BucketPerf `json:"neutral"`

	// ByClass repeats the bucketing per individual investor class.
	ByClass map[string]*ClassPerf `json:"by_class"`
}

// ClassPerf is the per-investor-class alignment breakdown.
type ClassPerf struct {
	With    BucketPerf `json:"with"`
	Against BucketPerf `json:"against"`
	Neutral BucketPerf `json:"neutral"`
}
