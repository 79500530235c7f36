package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartflow/internal/ingest"
)

func TestTransactions(t *testing.T) {
	rows := []ingest.RawRow{
		{"instrument_id": " abc ", "action": "Buy", "order_date": "01/02/2024", "trader_id": "dana"},
		{"security_no": "200", "operation": "Sell", "date": "2024-02-01"},
		{"instrument_id": "300", "action": "", "order_date": "2024-02-01"}, // missing action
		{"instrument_id": "", "action": "Buy", "order_date": "2024-02-01"}, // missing id
	}

	txs, n := Transactions(rows)
	require.Equal(t, 2, n)

	assert.Equal(t, "ABC", txs[0].InstrumentID)
	assert.Equal(t, "Buy", txs[0].Action)
	assert.Equal(t, "01/02/2024", txs[0].OrderDate, "order date stays in source format")
	assert.Equal(t, "dana", txs[0].TraderID)

	assert.Equal(t, "200", txs[1].InstrumentID)
	assert.Equal(t, UnknownTrader, txs[1].TraderID)
}

func TestPrices(t *testing.T) {
	rows := []ingest.RawRow{
		{"instrument_id": "abc", "trade_date": "2024-02-01T00:00:00", "percent_change": "-2.0"},
		{"instrument_id": "abc", "trade_date": "2024-02-02", "percent_change": "1,250.5"},
		{"instrument_id": "abc", "trade_date": "2024-02-03", "percent_change": "n/a"},
		{"instrument_id": "abc", "trade_date": ""}, // dropped
	}

	prices, n := Prices(rows)
	require.Equal(t, 3, n)
	assert.Equal(t, "ABC", prices[0].InstrumentID)
	assert.Equal(t, "2024-02-01", prices[0].TradeDate)
	assert.Equal(t, -2.0, prices[0].PercentChange)
	assert.Equal(t, 1250.5, prices[1].PercentChange, "thousands separators are stripped")
	assert.Equal(t, 0.0, prices[2].PercentChange, "unparseable change defaults to 0")
}

func TestIndicesDerivedChange(t *testing.T) {
	rows := []ingest.RawRow{
		{"index_id": "TA-35", "trade_date": "2024-02-02", "closing_price": "102"},
		{"index_id": "TA-35", "trade_date": "2024-02-01", "closing_price": "100"},
		{"index_id": "TA-35", "trade_date": "2024-02-05", "closing_price": "96.9"},
		{"index_id": "TA-125", "trade_date": "2024-02-01", "closing_price": "500"},
	}

	indices, n := Indices(rows)
	require.Equal(t, 4, n)

	byKey := make(map[string]float64)
	for _, row := range indices {
		byKey[row.IndexID+"_"+row.TradeDate] = row.PercentChange
	}

	assert.Equal(t, 0.0, byKey["TA-35_2024-02-01"], "first observation has no prior reference")
	assert.InDelta(t, 2.0, byKey["TA-35_2024-02-02"], 1e-9)
	assert.InDelta(t, -5.0, byKey["TA-35_2024-02-05"], 1e-9)
	assert.Equal(t, 0.0, byKey["TA-125_2024-02-01"])
}

func TestSecurities(t *testing.T) {
	rows := []ingest.RawRow{
		{"security_id": "100", "isin": "il0001000001", "symbol": "ABC", "company_name": "Alpha Ltd"},
		{"security_id": "200", "isin": ""}, // dropped
	}

	mapping, n := Securities(rows)
	require.Equal(t, 1, n)

	isin, ok := mapping.ISINFor("100")
	require.True(t, ok)
	assert.Equal(t, "IL0001000001", isin)

	info, ok := mapping.Info("IL0001000001")
	require.True(t, ok)
	assert.Equal(t, "Alpha Ltd", info.CompanyName)

	_, ok = mapping.ISINFor("200")
	assert.False(t, ok)
}

func TestFlows(t *testing.T) {
	rows := []ingest.RawRow{
		{"trade_date": "2024-02-01", "investor_class": " f ", "security_id": "100", "buy_turnover": "600", "sell_turnover": "400"},
		{"trade_date": "2024-02-01", "investor_class": "G", "security_id": ""}, // dropped
	}

	flows, n := Flows(rows)
	require.Equal(t, 1, n)
	assert.Equal(t, "F", flows[0].InvestorClass)
	assert.Equal(t, 600.0, flows[0].BuyTurnover)
	assert.Equal(t, 400.0, flows[0].SellTurnover)
}

func TestTradersAndTradeDates(t *testing.T) {
	txs, _ := Transactions([]ingest.RawRow{
		{"instrument_id": "A", "action": "Buy", "order_date": "01/02/2024", "trader_id": "noa"},
		{"instrument_id": "B", "action": "Sell", "order_date": "01/02/2024", "trader_id": "dana"},
		{"instrument_id": "C", "action": "Buy", "order_date": "02/02/2024", "trader_id": "noa"},
	})
	assert.Equal(t, []string{"dana", "noa"}, Traders(txs))

	prices, _ := Prices([]ingest.RawRow{
		{"instrument_id": "A", "trade_date": "2024-02-02"},
		{"instrument_id": "B", "trade_date": "2024-02-01"},
		{"instrument_id": "C", "trade_date": "2024-02-02"},
	})
	assert.Equal(t, []string{"2024-02-01", "2024-02-02"}, TradeDates(prices))
}
