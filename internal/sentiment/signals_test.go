package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartflow/internal/model"
)

func fptr(v float64) *float64 { return &v }

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name string
		s    *float64
		want Level
	}{
		{"nil", nil, LevelNoSignal},
		{"strong buy", fptr(0.71), LevelStrongBuy},
		{"buy", fptr(0.5), LevelBuy},
		{"boundary 0.7 is buy", fptr(0.7), LevelBuy},
		{"neutral positive", fptr(0.3), LevelNeutral},
		{"neutral zero", fptr(0), LevelNeutral},
		{"sell", fptr(-0.5), LevelSell},
		{"boundary -0.7 is sell", fptr(-0.7), LevelSell},
		{"strong sell", fptr(-0.71), LevelStrongSell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFor(tt.s))
		})
	}
}

func TestQuintilesPartition(t *testing.T) {
	require.Len(t, Quintiles, 5)
	assert.Equal(t, -1.0, Quintiles[0].Low)
	assert.Equal(t, 1.0, Quintiles[len(Quintiles)-1].High)
	for i := 1; i < len(Quintiles); i++ {
		assert.Equal(t, Quintiles[i-1].High, Quintiles[i].Low, "bands must be contiguous")
	}
}

func TestQuintileFor(t *testing.T) {
	tests := []struct {
		s    float64
		want int
	}{
		{-1.0, 1},
		{-0.61, 1},
		{-0.6, 2},
		{-0.2, 3},
		{0.0, 3},
		{0.2, 4},
		{0.59, 4},
		{0.6, 5},
		{1.0, 5}, // top band is closed
	}
	for _, tt := range tests {
		got := QuintileFor(tt.s)
		assert.Equal(t, tt.want, got.Index, "sentiment %v", tt.s)
	}
}

func TestWeightedConsensus(t *testing.T) {
	e := &model.SentimentEntry{
		ISIN: "IL0001000001",
		Date: "2024-03-07",
		ByClass: map[string]model.Turnover{
			// F: sentiment -1.0, weight 1.0; G: +1.0, weight 1.5.
			model.ClassProvident: {Buy: 0, Sell: 100},
			model.ClassForeign:   {Buy: 100, Sell: 0},
			// Retail with zero turnover contributes nothing.
			model.ClassRetail: {},
		},
	}

	c := WeightedConsensus(e)
	require.NotNil(t, c.Sentiment)
	// (-1*1.0 + 1*1.5) / 2.5 = 0.2
	assert.InDelta(t, 0.2, *c.Sentiment, 1e-9)
	assert.Equal(t, LevelNeutral, c.Level)
	assert.Equal(t, 2, c.Classes)
	assert.Equal(t, model.ClassForeign, c.Strongest)
	assert.Equal(t, 1.0, c.StrongestSentiment)
}

func TestWeightedConsensusConvexity(t *testing.T) {
	e := &model.SentimentEntry{
		ByClass: map[string]model.Turnover{
			model.ClassProvident: {Buy: 80, Sell: 20}, // +0.6
			model.ClassMutual:    {Buy: 30, Sell: 70}, // -0.4
			model.ClassPension:   {Buy: 55, Sell: 45}, // +0.1
		},
	}
	c := WeightedConsensus(e)
	require.NotNil(t, c.Sentiment)
	assert.LessOrEqual(t, *c.Sentiment, 0.6)
	assert.GreaterOrEqual(t, *c.Sentiment, -0.4)
}

func TestWeightedConsensusNoSignal(t *testing.T) {
	c := WeightedConsensus(&model.SentimentEntry{ByClass: map[string]model.Turnover{}})
	assert.Nil(t, c.Sentiment)
	assert.Equal(t, LevelNoSignal, c.Level)
}

func TestTrendFor(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		trailing []float64
		trend    TrendLabel
		momentum MomentumLabel
	}{
		{"no history", 0.5, nil, TrendStable, MomentumNone},
		{"strong improving", 0.3, []float64{0.1, 0.1, 0.1}, TrendStrongImproving, MomentumStrong},
		{"improving", 0.2, []float64{0.1, 0.1}, TrendImproving, MomentumModerate},
		{"stable", 0.12, []float64{0.1, 0.1}, TrendStable, MomentumWeak},
		{"exactly flat", 0.1, []float64{0.1}, TrendStable, MomentumNone},
		{"weakening", -0.2, []float64{-0.1, -0.1}, TrendWeakening, MomentumModerate},
		{"strong weakening", -0.3, []float64{-0.1, -0.1}, TrendStrongWeakening, MomentumStrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrendFor(tt.current, tt.trailing)
			assert.Equal(t, tt.trend, got.Trend)
			assert.Equal(t, tt.momentum, got.Momentum)
			assert.Equal(t, len(tt.trailing), got.Sample)
		})
	}
}

func TestDirectionAndStrength(t *testing.T) {
	assert.Equal(t, DirectionNeutral, DirectionFor(nil))
	assert.Equal(t, DirectionNeutral, DirectionFor(fptr(0.1)))
	assert.Equal(t, DirectionNeutral, DirectionFor(fptr(-0.1)))
	assert.Equal(t, DirectionBullish, DirectionFor(fptr(0.11)))
	assert.Equal(t, DirectionBearish, DirectionFor(fptr(-0.11)))

	assert.Equal(t, StrengthWeak, StrengthFor(0.29))
	assert.Equal(t, StrengthModerate, StrengthFor(0.3))
	assert.Equal(t, StrengthModerate, StrengthFor(-0.69))
	assert.Equal(t, StrengthStrong, StrengthFor(0.7))
	assert.Equal(t, StrengthStrong, StrengthFor(-1.0))
}

func TestForeignFlowNotContrarianWhenAgreeing(t *testing.T) {
	e := &model.SentimentEntry{
		ByClass: map[string]model.Turnover{
			model.ClassForeign:   {Buy: 0, Sell: 100},
			model.ClassProvident: {Buy: 0, Sell: 100},
		},
		Smart: model.Turnover{Buy: 0, Sell: 100},
	}
	ff := ForeignFlowSignal(e)
	assert.Equal(t, DirectionBearish, ff.Direction)
	assert.Equal(t, DirectionBearish, ff.SmartDirection)
	assert.False(t, ff.IsContrarian)
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		sample int
		want   ConfidenceLevel
	}{
		{0, ConfidenceInsufficient},
		{4, ConfidenceInsufficient},
		{5, ConfidenceLow},
		{19, ConfidenceLow},
		{20, ConfidenceMedium},
		{49, ConfidenceMedium},
		{50, ConfidenceHigh},
		{200, ConfidenceHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceFor(tt.sample), "sample %d", tt.sample)
	}
}
