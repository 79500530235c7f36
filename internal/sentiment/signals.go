package sentiment

import (
	"math"

	"smartflow/internal/model"
)

// Level is the five-bucket classification of a sentiment value.
type Level string

const (
	LevelStrongBuy  Level = "STRONG_BUY"
	LevelBuy        Level = "BUY"
	LevelNeutral    Level = "NEUTRAL"
	LevelSell       Level = "SELL"
	LevelStrongSell Level = "STRONG_SELL"
	LevelNoSignal   Level = "NO_SIGNAL"
)

// LevelFor buckets a sentiment value using the fixed 0.7/0.3/-0.3/-0.7
// thresholds.
func LevelFor(s *float64) Level {
	if s == nil {
		return LevelNoSignal
	}
	switch {
	case *s > 0.7:
		return LevelStrongBuy
	case *s > 0.3:
		return LevelBuy
	case *s < -0.7:
		return LevelStrongSell
	case *s < -0.3:
		return LevelSell
	default:
		return LevelNeutral
	}
}

// Consensus is the reliability-weighted composite of per-class sentiments.
type Consensus struct {
	// Sentiment is the weighted mean over classes with a defined sentiment;
	// nil when no class has a signal.
	Sentiment *float64 `json:"sentiment"`
	Level     Level    `json:"level"`

	// Strongest is the class with the largest |sentiment| x weight.
	Strongest          string  `json:"strongest_class"`
	StrongestSentiment float64 `json:"strongest_sentiment"`

	Classes int `json:"classes"`
}

// WeightedConsensus computes the weighted mean of the available per-class
// sentiments using the fixed reliability weights; classes with no signal are
// skipped. Because the weights are normalized over contributing classes, the
// result is a convex combination and its magnitude never exceeds the largest
// contributing magnitude.
func WeightedConsensus(e *model.SentimentEntry) Consensus {
	var sum, weightSum, bestScore float64
	var out Consensus

	for class := range e.ByClass {
		s := e.ClassSentiment(class)
		if s == nil {
			continue
		}
		w, ok := model.ClassWeights[class]
		if !ok {
			w = 0.5
		}
		sum += *s * w
		weightSum += w
		out.Classes++

		if score := math.Abs(*s) * w; score > bestScore {
			bestScore = score
			out.Strongest = class
			out.StrongestSentiment = *s
		}
	}

	if weightSum > 0 {
		v := sum / weightSum
		out.Sentiment = &v
	}
	out.Level = LevelFor(out.Sentiment)
	return out
}

// Quintile is one of five fixed sentiment bands carrying precomputed
// historical performance. The pairs are empirical constants from prior
// analysis; reproduce them, never re-estimate.
type Quintile struct {
	Index          int     `json:"index"` // 1 (most bearish) .. 5 (most bullish)
	Low            float64 `json:"low"`
	High           float64 `json:"high"`
	ExpectedReturn float64 `json:"expected_return"` // 5-day forward, percent
	WinRate        float64 `json:"win_rate"`        // percent
}

// Quintiles partitions [-1,1] contiguously with no gaps or overlaps; the top
// band includes 1.0.
var Quintiles = []Quintile{
	{Index: 1, Low: -1.0, High: -0.6, ExpectedReturn: -2.4, WinRate: 34},
	{Index: 2, Low: -0.6, High: -0.2, ExpectedReturn: -0.9, WinRate: 42},
	{Index: 3, Low: -0.2, High: 0.2, ExpectedReturn: 0.2, WinRate: 51},
	{Index: 4, Low: 0.2, High: 0.6, ExpectedReturn: 1.1, WinRate: 58},
	{Index: 5, Low: 0.6, High: 1.0, ExpectedReturn: 2.6, WinRate: 66},
}

// QuintileFor maps a sentiment value to its band. Bands are half-open
// [low, high) except the top band, which is closed at 1.0.
func QuintileFor(s float64) Quintile {
	for i, q := range Quintiles {
		if i == len(Quintiles)-1 {
			return q
		}
		if s >= q.Low && s < q.High {
			return q
		}
	}
	return Quintiles[len(Quintiles)-1]
}

// TrendLabel is the five-tier trend classification; MomentumLabel the
// four-tier momentum classification.
type (
	TrendLabel    string
	MomentumLabel string
)

const (
	TrendStrongImproving TrendLabel = "STRONG_IMPROVING"
	TrendImproving       TrendLabel = "IMPROVING"
	TrendStable          TrendLabel = "STABLE"
	TrendWeakening       TrendLabel = "WEAKENING"
	TrendStrongWeakening TrendLabel = "STRONG_WEAKENING"

	MomentumStrong   MomentumLabel = "STRONG"
	MomentumModerate MomentumLabel = "MODERATE"
	MomentumWeak     MomentumLabel = "WEAK"
	MomentumNone     MomentumLabel = "NONE"
)

// TrailingDays is the default trend lookback (current day excluded).
const TrailingDays = 5

// TrendSignal compares current sentiment against the trailing mean.
type TrendSignal struct {
	Trend    TrendLabel    `json:"trend"`
	Momentum MomentumLabel `json:"momentum"`
	Delta    float64       `json:"delta"`
	Sample   int           `json:"sample"`
}

// TrendFor classifies the delta between the current sentiment and the mean
// smart-money sentiment of the trailing window using the fixed +-0.15/+-0.05
// breakpoints. With no trailing observations the signal is STABLE/NONE.
func TrendFor(current float64, trailing []float64) TrendSignal {
	sig := TrendSignal{Trend: TrendStable, Momentum: MomentumNone, Sample: len(trailing)}
	if len(trailing) == 0 {
		return sig
	}
	var sum float64
	for _, v := range trailing {
		sum += v
	}
	sig.Delta = current - sum/float64(len(trailing))

	switch {
	case sig.Delta >= 0.15:
		sig.Trend = TrendStrongImproving
	case sig.Delta >= 0.05:
		sig.Trend = TrendImproving
	case sig.Delta > -0.05:
		sig.Trend = TrendStable
	case sig.Delta > -0.15:
		sig.Trend = TrendWeakening
	default:
		sig.Trend = TrendStrongWeakening
	}

	switch mag := math.Abs(sig.Delta); {
	case mag >= 0.15:
		sig.Momentum = MomentumStrong
	case mag >= 0.05:
		sig.Momentum = MomentumModerate
	case mag > 0:
		sig.Momentum = MomentumWeak
	default:
		sig.Momentum = MomentumNone
	}
	return sig
}

// Direction of a flow signal: bullish, bearish, or neutral inside the +-0.1
// dead band.
type Direction string

const (
	DirectionBullish Direction = "BULLISH"
	DirectionBearish Direction = "BEARISH"
	DirectionNeutral Direction = "NEUTRAL"
)

// DirectionFor applies the +-0.1 neutral band.
func DirectionFor(s *float64) Direction {
	if s == nil {
		return DirectionNeutral
	}
	switch {
	case *s > 0.1:
		return DirectionBullish
	case *s < -0.1:
		return DirectionBearish
	default:
		return DirectionNeutral
	}
}

// Strength of a flow signal by magnitude: weak below 0.3, strong at 0.7 and
// above, moderate between.
type Strength string

const (
	StrengthWeak     Strength = "WEAK"
	StrengthModerate Strength = "MODERATE"
	StrengthStrong   Strength = "STRONG"
)

func StrengthFor(s float64) Strength {
	switch mag := math.Abs(s); {
	case mag >= 0.7:
		return StrengthStrong
	case mag >= 0.3:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// ForeignFlow is the contrarian-flow signal of the designated foreign-flow
// class.
type ForeignFlow struct {
	Sentiment *float64  `json:"sentiment"`
	Direction Direction `json:"direction"`
	Strength  Strength  `json:"strength"`

	// IsContrarian is set when the foreign direction and the smart-money
	// composite direction are both non-neutral and disagree.
	IsContrarian   bool      `json:"is_contrarian"`
	SmartDirection Direction `json:"smart_direction"`
}

// ForeignFlowSignal computes the foreign-flow class's own sentiment and
// flags disagreement with the smart-money composite.
func ForeignFlowSignal(e *model.SentimentEntry) ForeignFlow {
	ff := ForeignFlow{
		Sentiment:      e.ClassSentiment(model.ContrarianClass),
		SmartDirection: DirectionFor(e.SmartSentiment()),
	}
	ff.Direction = DirectionFor(ff.Sentiment)
	if ff.Sentiment != nil {
		ff.Strength = StrengthFor(*ff.Sentiment)
	} else {
		ff.Strength = StrengthWeak
	}
	ff.IsContrarian = ff.Direction != DirectionNeutral &&
		ff.SmartDirection != DirectionNeutral &&
		ff.Direction != ff.SmartDirection
	return ff
}

// ConfidenceLevel classifies signal confidence from sample size.
type ConfidenceLevel string

const (
	ConfidenceHigh         ConfidenceLevel = "HIGH"
	ConfidenceMedium       ConfidenceLevel = "MEDIUM"
	ConfidenceLow          ConfidenceLevel = "LOW"
	ConfidenceInsufficient ConfidenceLevel = "INSUFFICIENT"
)

// ConfidenceFor applies the fixed 50/20/5 sample-size tiers.
func ConfidenceFor(sample int) ConfidenceLevel {
	switch {
	case sample >= 50:
		return ConfidenceHigh
	case sample >= 20:
		return ConfidenceMedium
	case sample >= 5:
		return ConfidenceLow
	default:
		return ConfidenceInsufficient
	}
}
