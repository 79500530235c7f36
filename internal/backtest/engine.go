package backtest

import (
	"sort"

	"smartflow/internal/join"
	"smartflow/internal/model"
	"smartflow/internal/sentiment"
)

// Fixed backtest parameters. The alignment threshold applies to
// trade-direction x smart-sentiment when bucketing trades.
const (
	DefaultForwardDays  = 5
	DefaultHoldingDays  = 5
	alignmentThreshold  = 0.1
	recentOccurrenceCap = 5
)

// Engine scans aggregated sentiment history against forward price movement.
// It reads from a snapshot of the session's derived state and computes
// everything in a single pass per call.
type Engine struct {
	entries map[string]*model.SentimentEntry
	prices  *join.Engine
	dates   []string // distinct trading dates, ascending
}

func New(entries map[string]*model.SentimentEntry, prices *join.Engine, tradeDates []string) *Engine {
	return &Engine{entries: entries, prices: prices, dates: tradeDates}
}

// PatternOutcomes finds every entry for the instrument whose smart-money
// sentiment is at or below the threshold and measures the price change over
// the following forward window. Trading days without price data inside the
// window are skipped, not zero-filled.
func (e *Engine) PatternOutcomes(isin string, threshold float64, forwardDays int) *PatternOutcome {
	if forwardDays <= 0 {
		forwardDays = DefaultForwardDays
	}
	out := &PatternOutcome{ISIN: isin, Threshold: threshold, ForwardDays: forwardDays}

	history := sentiment.History(e.entries, isin)
	var sum float64
	for _, entry := range history {
		s := entry.SmartSentiment()
		if s == nil || *s > threshold {
			continue
		}
		change, days := e.forwardChange(isin, entry.Date, forwardDays)
		occ := Occurrence{
			ISIN:          isin,
			Date:          entry.Date,
			Sentiment:     *s,
			ForwardChange: change,
			DaysWithData:  days,
			Positive:      change > 0,
		}
		out.Occurrences++
		if occ.Positive {
			out.Positive++
		} else {
			out.Negative++
		}
		sum += change
		out.Recent = append(out.Recent, occ)
	}

	if out.Occurrences > 0 {
		out.DeclineRate = float64(out.Negative) / float64(out.Occurrences)
		out.AverageChange = sum / float64(out.Occurrences)
	}
	if len(out.Recent) > recentOccurrenceCap {
		out.Recent = out.Recent[len(out.Recent)-recentOccurrenceCap:]
	}
	return out
}

// forwardChange sums the instrument's percent change over the next n trading
// days after `after`, returning the sum and how many of those days actually
// had price data.
func (e *Engine) forwardChange(isin, after string, n int) (float64, int) {
	idx := sort.SearchStrings(e.dates, after)
	// Skip the occurrence date itself if present.
	if idx < len(e.dates) && e.dates[idx] == after {
		idx++
	}

	var sum float64
	days := 0
	for i := idx; i < len(e.dates) && i < idx+n; i++ {
		if p, ok := e.prices.PriceAt(isin, e.dates[i]); ok {
			sum += p.PercentChange
			days++
		}
	}
	return sum, days
}

// Performance evaluates the full transaction history against institutional
// sentiment. A transaction is evaluated only when it resolves against both a
// sentiment entry and at least one day of forward price data; the outcome is
// the holding-period cumulative change signed by trade direction, so positive
// means the trade direction matched subsequent movement.
func (e *Engine) Performance(txs []model.Transaction, mapping *model.SecurityMapping, holdingDays int) *Performance {
	if holdingDays <= 0 {
		holdingDays = DefaultHoldingDays
	}
	perf := &Performance{
		HoldingDays: holdingDays,
		ByClass:     make(map[string]*ClassPerf),
	}

	for _, tx := range txs {
		perf.Total++

		isin := tx.InstrumentID
		if mapped, ok := mapping.ISINFor(tx.InstrumentID); ok {
			isin = mapped
		}
		date := model.NormalizeDate(tx.OrderDate)

		entry, ok := e.entries[sentiment.Key(isin, date)]
		if !ok {
			continue
		}
		change, days := e.forwardChange(isin, date, holdingDays)
		if days == 0 {
			continue
		}

		direction := model.SideFromAction(tx.Action).Direction()
		outcome := direction * change
		perf.Evaluated++

		bucketFor(&perf.WithSmart, &perf.AgainstSmart, &perf.Neutral,
			direction, entry.SmartSentiment()).add(outcome)

		for class := range entry.ByClass {
			cp, ok := perf.ByClass[class]
			if !ok {
				cp = &ClassPerf{}
				perf.ByClass[class] = cp
			}
			bucketFor(&cp.With, &cp.Against, &cp.Neutral,
				direction, entry.ClassSentiment(class)).add(outcome)
		}
	}

	perf.WithSmart.finalize()
	perf.AgainstSmart.finalize()
	perf.Neutral.finalize()
	for _, cp := range perf.ByClass {
		cp.With.finalize()
		cp.Against.finalize()
		cp.Neutral.finalize()
	}
	return perf
}

// bucketFor picks the alignment bucket: direction x sentiment above the
// threshold means the trade went with the flow, below the negated threshold
// against it, otherwise neutral. A nil sentiment is neutral by definition.
func bucketFor(with, against, neutral *BucketPerf, direction float64, s *float64) *BucketPerf {
	if s == nil {
		return neutral
	}
	alignment := direction * *s
	switch {
	case alignment > alignmentThreshold:
		return with
	case alignment < -alignmentThreshold:
		return against
	default:
		return neutral
	}
}
