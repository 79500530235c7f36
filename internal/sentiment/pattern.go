package sentiment

import "smartflow/internal/model"

// PatternLevel buckets the 0-100 pattern strength score.
type PatternLevel string

const (
	PatternCritical PatternLevel = "CRITICAL"
	PatternHigh     PatternLevel = "HIGH"
	PatternModerate PatternLevel = "MODERATE"
	PatternLow      PatternLevel = "LOW"
	PatternNone     PatternLevel = "NONE"
)

// AlertLevel is the multi-factor alert classification.
type AlertLevel string

const (
	AlertHigh    AlertLevel = "HIGH"
	AlertMedium  AlertLevel = "MEDIUM"
	AlertBullish AlertLevel = "BULLISH"
	AlertLow     AlertLevel = "LOW"
	AlertNone    AlertLevel = "NONE"
)

// Volume-spike thresholds: a spike is latest turnover at 2x the trailing
// average; 3x upgrades the score contribution.
const (
	spikeRatio       = 2.0
	strongSpikeRatio = 3.0
)

// ConsecutiveSellDays counts, walking back from the latest entry of a
// chronologically sorted history, how many days in a row smart money was a
// net seller. A day without a smart-money signal breaks the streak.
func ConsecutiveSellDays(history []*model.SentimentEntry) int {
	streak := 0
	for i := len(history) - 1; i >= 0; i-- {
		s := history[i].SmartSentiment()
		if s == nil || *s >= 0 {
			break
		}
		streak++
	}
	return streak
}

// VolumeRatio compares the latest entry's turnover to the trailing average
// (latest excluded). Returns 0 when there is no trailing history.
func VolumeRatio(history []*model.SentimentEntry) float64 {
	if len(history) < 2 {
		return 0
	}
	latest := history[len(history)-1].Volume()
	var sum float64
	for _, e := range history[:len(history)-1] {
		sum += e.Volume()
	}
	avg := sum / float64(len(history)-1)
	if avg == 0 {
		return 0
	}
	return latest / avg
}

// PatternScore is the bounded 0-100 distribution-pattern strength.
type PatternScore struct {
	Score int          `json:"score"`
	Level PatternLevel `json:"level"`

	SellStreak   int     `json:"sell_streak"`
	VolumeRatio  float64 `json:"volume_ratio"`
	StreakPoints int     `json:"streak_points"`
	VolumePoints int     `json:"volume_points"`
	FlowPoints   int     `json:"flow_points"`
}

// ScorePattern combines the three fixed components: sell streak (up to 50),
// volume spike (up to 25), and sentiment magnitude at or below -0.3 (up to
// 25). The total is capped at 100.
func ScorePattern(sellStreak int, volumeRatio float64, sentiment *float64) PatternScore {
	ps := PatternScore{SellStreak: sellStreak, VolumeRatio: volumeRatio}

	switch {
	case sellStreak >= 5:
		ps.StreakPoints = 50
	case sellStreak >= 3:
		ps.StreakPoints = 30
	case sellStreak >= 2:
		ps.StreakPoints = 15
	}

	if volumeRatio >= strongSpikeRatio {
		ps.VolumePoints = 25
	} else if volumeRatio >= spikeRatio {
		ps.VolumePoints = 15
	}

	if sentiment != nil {
		switch s := *sentiment; {
		case s <= -0.7:
			ps.FlowPoints = 25
		case s <= -0.5:
			ps.FlowPoints = 15
		case s <= -0.3:
			ps.FlowPoints = 10
		}
	}

	ps.Score = ps.StreakPoints + ps.VolumePoints + ps.FlowPoints
	if ps.Score > 100 {
		ps.Score = 100
	}

	switch {
	case ps.Score >= 70:
		ps.Level = PatternCritical
	case ps.Score >= 50:
		ps.Level = PatternHigh
	case ps.Score >= 30:
		ps.Level = PatternModerate
	case ps.Score > 0:
		ps.Level = PatternLow
	default:
		ps.Level = PatternNone
	}
	return ps
}

// ClassifyAlert runs the ordered first-match rule chain. The ranges overlap,
// so the order below is load-bearing; do not reorder. A nil sentiment
// contributes a zero value, leaving only the streak rules in play.
func ClassifyAlert(sentiment *float64, sellStreak int, volumeSpike bool) AlertLevel {
	s := 0.0
	if sentiment != nil {
		s = *sentiment
	}
	switch {
	case s < -0.5 && sellStreak >= 3:
		return AlertHigh
	case s < -0.7:
		return AlertHigh
	case s < -0.3 || sellStreak >= 2:
		return AlertMedium
	case s > 0.3 && volumeSpike:
		return AlertBullish
	case s > 0.5:
		return AlertBullish
	case s < -0.1:
		return AlertLow
	default:
		return AlertNone
	}
}

// Report is the full per-security signal snapshot derived from one ISIN's
// aggregated history.
type Report struct {
	ISIN string `json:"isin"`
	Date string `json:"date"`

	Sentiment      *float64 `json:"sentiment"`
	SmartSentiment *float64 `json:"smart_sentiment"`
	Level          Level    `json:"level"`
	SmartLevel     Level    `json:"smart_level"`

	Consensus   Consensus    `json:"consensus"`
	Quintile    *Quintile    `json:"quintile,omitempty"`
	Trend       TrendSignal  `json:"trend"`
	ForeignFlow ForeignFlow  `json:"foreign_flow"`
	Pattern     PatternScore `json:"pattern"`
	Alert       AlertLevel   `json:"alert"`

	Confidence ConfidenceLevel `json:"confidence"`
	Sample     int             `json:"sample"`
}

// Snapshot derives every signal for the latest entry of a chronologically
// sorted history. Empty history yields nil.
func Snapshot(history []*model.SentimentEntry) *Report {
	if len(history) == 0 {
		return nil
	}
	latest := history[len(history)-1]
	smart := latest.SmartSentiment()

	r := &Report{
		ISIN:           latest.ISIN,
		Date:           latest.Date,
		Sentiment:      latest.TotalSentiment(),
		SmartSentiment: smart,
		Level:          LevelFor(latest.TotalSentiment()),
		SmartLevel:     LevelFor(smart),
		Consensus:      WeightedConsensus(latest),
		ForeignFlow:    ForeignFlowSignal(latest),
		Sample:         len(history),
		Confidence:     ConfidenceFor(len(history)),
	}

	if smart != nil {
		q := QuintileFor(*smart)
		r.Quintile = &q

		var trailing []float64
		start := len(history) - 1 - TrailingDays
		if start < 0 {
			start = 0
		}
		for _, e := range history[start : len(history)-1] {
			if s := e.SmartSentiment(); s != nil {
				trailing = append(trailing, *s)
			}
		}
		r.Trend = TrendFor(*smart, trailing)
	} else {
		r.Trend = TrendSignal{Trend: TrendStable, Momentum: MomentumNone}
	}

	streak := ConsecutiveSellDays(history)
	ratio := VolumeRatio(history)
	r.Pattern = ScorePattern(streak, ratio, smart)
	r.Alert = ClassifyAlert(smart, streak, ratio >= spikeRatio)
	return r
}
