// Package normalize turns raw ingested rows into canonical domain records.
//
// Each function drops rows missing mandatory fields, canonicalizes keys
// (instrument ids upper-cased and trimmed, dates unified to YYYY-MM-DD where
// the source format allows it) and returns the clean slice plus its count.
package normalize

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"smartflow/internal/ingest"
	"smartflow/internal/model"
)

// UnknownTrader is the sentinel used when a transaction row has no trader id.
const UnknownTrader = "Unknown"

// CanonicalID upper-cases and trims an instrument/security identifier.
func CanonicalID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Transactions normalizes broker transaction rows. Rows missing instrument
// id, action, or date are dropped. The order date is deliberately left in
// source format; format resolution happens at join time because two
// incompatible encodings must both be supported.
func Transactions(rows []ingest.RawRow) ([]model.Transaction, int) {
	out := make([]model.Transaction, 0, len(rows))
	for _, r := range rows {
		id := r.Field("instrument_id", "security_no", "security_id", "paper_id")
		action := r.Field("action", "operation")
		date := r.Field("order_date", "date")
		if id == "" || action == "" || date == "" {
			continue
		}
		trader := r.Field("trader_id", "trader", "account")
		if trader == "" {
			trader = UnknownTrader
		}
		out = append(out, model.Transaction{
			InstrumentID: CanonicalID(id),
			Action:       action,
			OrderDate:    date,
			TraderID:     trader,
		})
	}
	return out, len(out)
}

// Prices normalizes end-of-day trading rows. A change value that fails to
// parse defaults to 0 rather than dropping the row.
func Prices(rows []ingest.RawRow) ([]model.PriceRow, int) {
	out := make([]model.PriceRow, 0, len(rows))
	for _, r := range rows {
		id := r.Field("instrument_id", "security_no", "security_id", "paper_id")
		date := r.Field("trade_date", "date")
		if id == "" || date == "" {
			continue
		}
		out = append(out, model.PriceRow{
			InstrumentID:  CanonicalID(id),
			TradeDate:     model.NormalizeDate(date),
			PercentChange: parseFloat(r.Field("percent_change", "change", "change_percent")),
			Symbol:        r.Field("symbol", "symbol_name"),
		})
	}
	return out, len(out)
}

// Indices normalizes index EOD rows and derives each row's percent change.
// The source carries closing prices only: rows are grouped by index, sorted
// chronologically, and change is computed against the previous close. The
// first observation of each series has zero change (no prior reference).
func Indices(rows []ingest.RawRow) ([]model.IndexRow, int) {
	groups := make(map[string][]model.IndexRow)
	for _, r := range rows {
		id := r.Field("index_id", "index_code", "index_name")
		date := r.Field("trade_date", "date")
		if id == "" || date == "" {
			continue
		}
		groups[id] = append(groups[id], model.IndexRow{
			IndexID:      strings.TrimSpace(id),
			TradeDate:    model.NormalizeDate(date),
			ClosingPrice: parseFloat(r.Field("closing_price", "close", "closing_rate")),
		})
	}

	var out []model.IndexRow
	for _, series := range groups {
		sort.Slice(series, func(i, j int) bool {
			return series[i].TradeDate < series[j].TradeDate
		})
		for i := range series {
			if i > 0 && series[i-1].ClosingPrice != 0 {
				prev := series[i-1].ClosingPrice
				series[i].PercentChange = (series[i].ClosingPrice - prev) / prev * 100
			}
		}
		out = append(out, series...)
	}
	return out, len(out)
}

// Securities builds the bidirectional id/isin mapping. Rows missing either
// key are dropped; ISINs are canonicalized on both sides of the lookup.
func Securities(rows []ingest.RawRow) (*model.SecurityMapping, int) {
	m := &model.SecurityMapping{
		IDToISIN: make(map[string]string),
		ByISIN:   make(map[string]model.SecurityInfo),
	}
	n := 0
	for _, r := range rows {
		id := r.Field("security_id", "security_no", "instrument_id")
		isin := r.Field("isin")
		if id == "" || isin == "" {
			continue
		}
		id = strings.TrimSpace(id)
		isin = CanonicalID(isin)
		m.IDToISIN[id] = isin
		m.ByISIN[isin] = model.SecurityInfo{
			SecurityID:  id,
			ISIN:        isin,
			Symbol:      r.Field("symbol", "symbol_name"),
			CompanyName: r.Field("company_name", "name"),
			Sector:      r.Field("sector", "branch"),
		}
		n++
	}
	return m, n
}

// Flows normalizes institutional flow rows. Rows missing date, security id,
// or investor class are dropped.
func Flows(rows []ingest.RawRow) ([]model.FlowRecord, int) {
	out := make([]model.FlowRecord, 0, len(rows))
	for _, r := range rows {
		date := r.Field("trade_date", "date")
		class := r.Field("investor_class", "investor_type", "class")
		id := r.Field("security_id", "security_no", "instrument_id")
		if date == "" || class == "" || id == "" {
			continue
		}
		out = append(out, model.FlowRecord{
			TradeDate:     date,
			InvestorClass: strings.ToUpper(strings.TrimSpace(class)),
			SecurityID:    strings.TrimSpace(id),
			BuyTurnover:   parseFloat(r.Field("buy_turnover", "buy")),
			SellTurnover:  parseFloat(r.Field("sell_turnover", "sell")),
		})
	}
	return out, len(out)
}

// Traders derives the distinct, sorted trader list from transactions.
// Pure function; recomputable at any time.
func Traders(txs []model.Transaction) []string {
	seen := make(map[string]bool)
	for _, t := range txs {
		seen[t.TraderID] = true
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// TradeDates derives the distinct, sorted trading-date list from price rows.
func TradeDates(prices []model.PriceRow) []string {
	seen := make(map[string]bool)
	for _, p := range prices {
		seen[p.TradeDate] = true
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func parseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		slog.Debug("numeric coercion failed, defaulting to 0", "value", s)
		return 0
	}
	return v
}
