// Package sentiment aggregates institutional flow into per-security daily
// sentiment and derives the trading signals built on top of it.
package sentiment

import (
	"sort"
	"strings"

	"smartflow/internal/model"
)

// Key builds the aggregation key for one security/date pair.
func Key(isin, date string) string {
	return isin + "_" + date
}

// Aggregate groups flow records by (isin, date), accumulating buy/sell
// turnover per investor class, into running totals, and into smart-money
// totals for the five smart classes. Records whose security id has no ISIN
// mapping are dropped.
//
// Accumulation is plain addition, so the result is independent of input
// order (modulo floating point summation order) and re-running over the same
// rows is idempotent.
func Aggregate(records []model.FlowRecord, mapping *model.SecurityMapping) map[string]*model.SentimentEntry {
	out := make(map[string]*model.SentimentEntry)
	for _, rec := range records {
		isin, ok := mapping.ISINFor(rec.SecurityID)
		if !ok {
			continue
		}
		date := model.NormalizeDate(rec.TradeDate)
		key := Key(isin, date)

		entry, ok := out[key]
		if !ok {
			entry = &model.SentimentEntry{
				ISIN:    isin,
				Date:    date,
				ByClass: make(map[string]model.Turnover),
			}
			out[key] = entry
		}

		class := strings.ToUpper(rec.InvestorClass)
		t := entry.ByClass[class]
		t.Buy += rec.BuyTurnover
		t.Sell += rec.SellTurnover
		entry.ByClass[class] = t

		entry.Total.Buy += rec.BuyTurnover
		entry.Total.Sell += rec.SellTurnover
		if model.IsSmartMoney(class) {
			entry.Smart.Buy += rec.BuyTurnover
			entry.Smart.Sell += rec.SellTurnover
		}
	}
	return out
}

// History returns all entries for one ISIN sorted chronologically.
func History(entries map[string]*model.SentimentEntry, isin string) []*model.SentimentEntry {
	var out []*model.SentimentEntry
	for _, e := range entries {
		if e.ISIN == isin {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
