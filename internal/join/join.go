// Package join merges personal transactions against end-of-day market data.
package join

import (
	"sort"

	"smartflow/internal/model"
)

// Params scope one join pass.
type Params struct {
	// TraderFilter restricts the pass to one trader; empty means all.
	TraderFilter string
	// AsOfDate is a YYYY-MM-DD ceiling; transactions after it are invisible.
	// Empty means no ceiling.
	AsOfDate string
	// IndexID selects which index provides the market reference change.
	// Empty means no index attribution; trades fall back to their own
	// instrument's price change.
	IndexID string
}

// TraderStats is the per-trader counter-trade breakdown.
type TraderStats struct {
	Total        int     `json:"total"`
	Counter      int     `json:"counter"`
	CounterRatio float64 `json:"counter_ratio"`
}

// Stats aggregates the merged set.
type Stats struct {
	Total        int `json:"total"`
	Counter      int `json:"counter"`
	Aligned      int `json:"aligned"`
	CounterBuys  int `json:"counter_buys"`
	CounterSells int `json:"counter_sells"`
	AlignedBuys  int `json:"aligned_buys"`
	AlignedSells int `json:"aligned_sells"`

	ByTrader map[string]TraderStats `json:"by_trader"`
}

// Result is the output of one join pass.
type Result struct {
	Merged []model.MergedTransaction
	Stats  Stats

	// Portfolios maps every trader to the sorted distinct instruments they
	// ever held, capped only by the as-of ceiling. It intentionally ignores
	// the trader filter and market-data availability.
	Portfolios map[string][]string
}

// Engine joins transactions against price and index tables via O(1) lookups
// keyed by instrument+date. Build it once per dataset snapshot; Run may be
// called repeatedly with different params.
type Engine struct {
	priceByKey  map[string]model.PriceRow
	indexByDate map[string]map[string]model.IndexRow // index id -> date -> row
	txs         []model.Transaction
}

func New(txs []model.Transaction, prices []model.PriceRow, indices []model.IndexRow) *Engine {
	e := &Engine{
		priceByKey:  make(map[string]model.PriceRow, len(prices)),
		indexByDate: make(map[string]map[string]model.IndexRow),
		txs:         txs,
	}
	for _, p := range prices {
		e.priceByKey[model.PriceKey(p.InstrumentID, p.TradeDate)] = p
	}
	for _, ix := range indices {
		byDate, ok := e.indexByDate[ix.IndexID]
		if !ok {
			byDate = make(map[string]model.IndexRow)
			e.indexByDate[ix.IndexID] = byDate
		}
		byDate[ix.TradeDate] = ix
	}
	return e
}

// PriceAt exposes the price lookup to the backtester.
func (e *Engine) PriceAt(instrumentID, date string) (model.PriceRow, bool) {
	p, ok := e.priceByKey[model.PriceKey(instrumentID, date)]
	return p, ok
}

// IndexIDs lists loaded index series.
func (e *Engine) IndexIDs() []string {
	out := make([]string, 0, len(e.indexByDate))
	for id := range e.indexByDate {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Run executes one full join pass. Trader filtering happens before the
// market-data join; the as-of ceiling applies to resolved YYYY-MM-DD dates,
// which compare correctly as text.
func (e *Engine) Run(p Params) *Result {
	indexDates := e.indexByDate[p.IndexID]

	res := &Result{
		Stats:      Stats{ByTrader: make(map[string]TraderStats)},
		Portfolios: e.portfolios(p.AsOfDate),
	}

	for _, tx := range e.txs {
		if p.TraderFilter != "" && tx.TraderID != p.TraderFilter {
			continue
		}
		date := model.NormalizeDate(tx.OrderDate)
		if p.AsOfDate != "" && date > p.AsOfDate {
			continue
		}

		side := model.SideFromAction(tx.Action)
		m := model.MergedTransaction{
			Transaction: tx,
			TradeDate:   date,
			Side:        side,
			IsBuy:       side == model.SideBuy,
		}

		// Index change for the date overrides the security's own change.
		if ix, ok := indexDates[date]; ok {
			m.MarketChange = ix.PercentChange
			m.HasMarketData = true
		} else if pr, ok := e.priceByKey[model.PriceKey(tx.InstrumentID, date)]; ok {
			m.MarketChange = pr.PercentChange
			m.HasMarketData = true
		}

		m.IsCounter = (m.IsBuy && m.MarketChange < 0) || (!m.IsBuy && m.MarketChange > 0)

		res.Merged = append(res.Merged, m)
		accumulate(&res.Stats, m)
	}

	for trader, ts := range res.Stats.ByTrader {
		if ts.Total > 0 {
			ts.CounterRatio = float64(ts.Counter) / float64(ts.Total)
		}
		res.Stats.ByTrader[trader] = ts
	}
	return res
}

func accumulate(s *Stats, m model.MergedTransaction) {
	s.Total++
	if m.IsCounter {
		s.Counter++
		if m.IsBuy {
			s.CounterBuys++
		} else {
			s.CounterSells++
		}
	} else {
		s.Aligned++
		if m.IsBuy {
			s.AlignedBuys++
		} else {
			s.AlignedSells++
		}
	}

	ts := s.ByTrader[m.TraderID]
	ts.Total++
	if m.IsCounter {
		ts.Counter++
	}
	s.ByTrader[m.TraderID] = ts
}

func (e *Engine) portfolios(asOf string) map[string][]string {
	held := make(map[string]map[string]bool)
	for _, tx := range e.txs {
		date := model.NormalizeDate(tx.OrderDate)
		if asOf != "" && date > asOf {
			continue
		}
		set, ok := held[tx.TraderID]
		if !ok {
			set = make(map[string]bool)
			held[tx.TraderID] = set
		}
		set[tx.InstrumentID] = true
	}

	out := make(map[string][]string, len(held))
	for trader, set := range held {
		list := make([]string, 0, len(set))
		for id := range set {
			list = append(list, id)
		}
		sort.Strings(list)
		out[trader] = list
	}
	return out
}
