package join

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartflow/internal/model"
)

func testEngine() *Engine {
	txs := []model.Transaction{
		{InstrumentID: "ABC", Action: "Buy", OrderDate: "01/02/2024", TraderID: "noa"},
		{InstrumentID: "ABC", Action: "Sell", OrderDate: "02/02/2024", TraderID: "noa"},
		{InstrumentID: "XYZ", Action: "קניה", OrderDate: "2024-02-01T00:00:00", TraderID: "dana"},
		{InstrumentID: "XYZ", Action: "Sell", OrderDate: "05/02/2024", TraderID: "dana"},
	}
	prices := []model.PriceRow{
		{InstrumentID: "ABC", TradeDate: "2024-02-01", PercentChange: -2.0},
		{InstrumentID: "ABC", TradeDate: "2024-02-02", PercentChange: 1.0},
		{InstrumentID: "XYZ", TradeDate: "2024-02-01", PercentChange: 0.5},
	}
	indices := []model.IndexRow{
		{IndexID: "TA-35", TradeDate: "2024-02-02", PercentChange: -1.5},
	}
	return New(txs, prices, indices)
}

func TestRunJoinsPriceData(t *testing.T) {
	res := testEngine().Run(Params{})
	require.Len(t, res.Merged, 4)

	// Buy on a down day is a counter-trade.
	first := res.Merged[0]
	assert.Equal(t, "2024-02-01", first.TradeDate)
	assert.True(t, first.IsBuy)
	assert.True(t, first.HasMarketData)
	assert.Equal(t, -2.0, first.MarketChange)
	assert.True(t, first.IsCounter)

	// Sell on an up day is also counter.
	second := res.Merged[1]
	assert.False(t, second.IsBuy)
	assert.Equal(t, 1.0, second.MarketChange)
	assert.True(t, second.IsCounter)

	// Hebrew buy action, buy on an up day: aligned.
	third := res.Merged[2]
	assert.True(t, third.IsBuy)
	assert.Equal(t, 0.5, third.MarketChange)
	assert.False(t, third.IsCounter)

	// No market data: zero change, treated as aligned.
	fourth := res.Merged[3]
	assert.False(t, fourth.HasMarketData)
	assert.Equal(t, 0.0, fourth.MarketChange)
	assert.False(t, fourth.IsCounter)

	assert.Equal(t, 4, res.Stats.Total)
	assert.Equal(t, 2, res.Stats.Counter)
	assert.Equal(t, 2, res.Stats.Aligned)
	assert.Equal(t, 1, res.Stats.CounterBuys)
	assert.Equal(t, 1, res.Stats.CounterSells)

	require.Contains(t, res.Stats.ByTrader, "noa")
	noa := res.Stats.ByTrader["noa"]
	assert.Equal(t, 2, noa.Total)
	assert.Equal(t, 2, noa.Counter)
	assert.Equal(t, 1.0, noa.CounterRatio)

	dana := res.Stats.ByTrader["dana"]
	assert.Equal(t, 2, dana.Total)
	assert.Equal(t, 0, dana.Counter)
	assert.Equal(t, 0.0, dana.CounterRatio)
}

func TestRunIndexOverridesPrice(t *testing.T) {
	res := testEngine().Run(Params{IndexID: "TA-35"})

	// ABC sold on 2024-02-02: the index fell 1.5% that day, overriding the
	// security's own +1.0%, so the sell becomes aligned.
	second := res.Merged[1]
	assert.Equal(t, -1.5, second.MarketChange)
	assert.False(t, second.IsCounter)

	// Dates without that index still fall back to the security price.
	first := res.Merged[0]
	assert.Equal(t, -2.0, first.MarketChange)
}

func TestRunTraderFilter(t *testing.T) {
	res := testEngine().Run(Params{TraderFilter: "dana"})
	require.Len(t, res.Merged, 2)
	for _, m := range res.Merged {
		assert.Equal(t, "dana", m.TraderID)
	}

	// Portfolios ignore the trader filter.
	assert.Contains(t, res.Portfolios, "noa")
	assert.Contains(t, res.Portfolios, "dana")
}

func TestRunAsOfCeiling(t *testing.T) {
	res := testEngine().Run(Params{AsOfDate: "2024-02-01"})
	require.Len(t, res.Merged, 2)
	for _, m := range res.Merged {
		assert.Equal(t, "2024-02-01", m.TradeDate)
	}

	// The ceiling also caps portfolios: dana's 05/02 sell is invisible but
	// the 01/02 position remains.
	assert.Equal(t, []string{"XYZ"}, res.Portfolios["dana"])
	assert.Equal(t, []string{"ABC"}, res.Portfolios["noa"])
}

func TestEngineLookups(t *testing.T) {
	e := testEngine()

	p, ok := e.PriceAt("ABC", "2024-02-01")
	require.True(t, ok)
	assert.Equal(t, -2.0, p.PercentChange)

	_, ok = e.PriceAt("ABC", "2024-02-09")
	assert.False(t, ok)

	assert.Equal(t, []string{"TA-35"}, e.IndexIDs())
}
