// Package session owns the loaded datasets and all state derived from them.
//
// The controller is the single writer: loads, aggregation, session
// transitions and resets all serialize through one mutex, and every
// recomputation is a fresh full pass over the current snapshot of raw
// tables. Queries are pure reads that return neutral empty results when
// prerequisite data is absent.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"smartflow/internal/analysis"
	"smartflow/internal/backtest"
	"smartflow/internal/ingest"
	"smartflow/internal/join"
	"smartflow/internal/model"
	"smartflow/internal/normalize"
	"smartflow/internal/sentiment"
)

// State is the controller lifecycle state.
type State string

const (
	StateEmpty  State = "EMPTY"
	StateLoaded State = "LOADED"
	StateActive State = "SESSION_ACTIVE"
)

// ErrNoData is returned when a session is started before any dataset loaded.
var ErrNoData = errors.New("no datasets loaded")

// Controller holds the raw tables and the currently active session.
type Controller struct {
	mu sync.RWMutex

	state     State
	sessionID string

	transactions []model.Transaction
	prices       []model.PriceRow
	indices      []model.IndexRow
	mapping      *model.SecurityMapping
	flows        []model.FlowRecord

	traders    []string
	tradeDates []string

	entries map[string]*model.SentimentEntry

	trader  string
	asOf    string
	indexID string
	derived *join.Result

	// version increments on every mutation so memoized recompute results
	// can never go stale.
	version   uint64
	recompute *gocache.Cache
}

func NewController() *Controller {
	return &Controller{
		state:     StateEmpty,
		recompute: gocache.New(15*time.Minute, 5*time.Minute),
	}
}

// --- loads -------------------------------------------------------------

// LoadTransactions normalizes and stores the transactions table, replacing
// any prior one. Returns the clean row count.
func (c *Controller) LoadTransactions(rows []ingest.RawRow) int {
	clean, n := normalize.Transactions(rows)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transactions = clean
	c.traders = normalize.Traders(clean)
	c.bumpLocked()
	return n
}

// LoadPrices normalizes and stores the trading EOD table.
func (c *Controller) LoadPrices(rows []ingest.RawRow) int {
	clean, n := normalize.Prices(rows)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices = clean
	c.tradeDates = normalize.TradeDates(clean)
	c.bumpLocked()
	return n
}

// LoadIndices normalizes and stores the index EOD table.
func (c *Controller) LoadIndices(rows []ingest.RawRow) int {
	clean, n := normalize.Indices(rows)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indices = clean
	if c.indexID == "" {
		// Default the selected index to the first loaded series.
		for _, ix := range clean {
			c.indexID = ix.IndexID
			break
		}
	}
	c.bumpLocked()
	return n
}

// LoadSecurities normalizes and stores the id/isin mapping.
func (c *Controller) LoadSecurities(rows []ingest.RawRow) int {
	mapping, n := normalize.Securities(rows)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mapping = mapping
	c.bumpLocked()
	return n
}

// LoadFlows normalizes and stores the institutional flow table.
func (c *Controller) LoadFlows(rows []ingest.RawRow) int {
	clean, n := normalize.Flows(rows)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flows = clean
	c.bumpLocked()
	return n
}

// LoadBatch loads every dataset present in an ingested archive batch and
// returns per-type row counts.
func (c *Controller) LoadBatch(batch *ingest.Batch) map[ingest.FileType]int {
	counts := make(map[ingest.FileType]int)
	if rows := batch.Rows(ingest.FileTransactions); rows != nil {
		counts[ingest.FileTransactions] = c.LoadTransactions(rows)
	}
	if rows := batch.Rows(ingest.FileTrading); rows != nil {
		counts[ingest.FileTrading] = c.LoadPrices(rows)
	}
	if rows := batch.Rows(ingest.FileIndices); rows != nil {
		counts[ingest.FileIndices] = c.LoadIndices(rows)
	}
	if rows := batch.Rows(ingest.FileSecurities); rows != nil {
		counts[ingest.FileSecurities] = c.LoadSecurities(rows)
	}
	if rows := batch.Rows(ingest.FileFlow); rows != nil {
		counts[ingest.FileFlow] = c.LoadFlows(rows)
	}
	return counts
}

// bumpLocked marks the dataset mutated. Caller holds the write lock.
func (c *Controller) bumpLocked() {
	c.version++
	if c.state == StateEmpty {
		c.state = StateLoaded
	}
}

// --- aggregation -------------------------------------------------------

// Aggregate rebuilds the sentiment map from the flow and mapping tables.
// Returns the number of (isin, date) entries; zero (with no error) when
// either prerequisite table is absent.
func (c *Controller) Aggregate() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.flows) == 0 || c.mapping == nil {
		return 0
	}
	c.entries = sentiment.Aggregate(c.flows, c.mapping)
	slog.Info("aggregated institutional flow", "records", len(c.flows), "entries", len(c.entries))
	return len(c.entries)
}

// --- session lifecycle -------------------------------------------------

// StartSession scopes the engine to one trader and as-of date, transitions
// to SESSION_ACTIVE, and runs a full recomputation.
func (c *Controller) StartSession(trader, asOfDate string) (*join.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateEmpty {
		return nil, ErrNoData
	}
	c.state = StateActive
	c.sessionID = uuid.NewString()
	c.trader = trader
	c.asOf = asOfDate
	c.derived = c.recomputeLocked()
	slog.Info("session started", "session_id", c.sessionID, "trader", trader, "as_of", asOfDate)
	return c.derived, nil
}

// Recompute re-runs the join pass with the current trader/date scope.
func (c *Controller) Recompute() *join.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.derived = c.recomputeLocked()
	return c.derived
}

// SelectIndex switches which index series provides market-change
// attribution and recomputes if a session is active.
func (c *Controller) SelectIndex(indexID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexID = indexID
	if c.state == StateActive {
		c.derived = c.recomputeLocked()
	}
}

// recomputeLocked is always a full, non-incremental pass; results are
// memoized by (trader, as-of, index, dataset version), so a hit can never
// observe stale tables. Caller holds the write lock.
func (c *Controller) recomputeLocked() *join.Result {
	key := fmt.Sprintf("%s|%s|%s|%d", c.trader, c.asOf, c.indexID, c.version)
	if cached, found := c.recompute.Get(key); found {
		return cached.(*join.Result)
	}
	engine := join.New(c.transactions, c.prices, c.indices)
	res := engine.Run(join.Params{
		TraderFilter: c.trader,
		AsOfDate:     c.asOf,
		IndexID:      c.indexID,
	})
	c.recompute.SetDefault(key, res)
	return res
}

// EndSession discards the derived result but keeps raw tables.
func (c *Controller) EndSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return
	}
	c.state = StateLoaded
	c.sessionID = ""
	c.trader = ""
	c.asOf = ""
	c.derived = nil
}

// Reset discards everything, including raw tables and aggregated sentiment.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateEmpty
	c.sessionID = ""
	c.trader = ""
	c.asOf = ""
	c.indexID = ""
	c.derived = nil
	c.transactions = nil
	c.prices = nil
	c.indices = nil
	c.mapping = nil
	c.flows = nil
	c.traders = nil
	c.tradeDates = nil
	c.entries = nil
	c.version++
	c.recompute.Flush()
}

// --- queries (never fail; absent data yields neutral results) ----------

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// SessionID returns the active session id, empty when none.
func (c *Controller) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// Derived returns the current session's merged result, nil when no session
// is active.
func (c *Controller) Derived() *join.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.derived
}

// Traders returns the distinct sorted trader list.
func (c *Controller) Traders() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.traders
}

// TradeDates returns the distinct sorted trading-date list.
func (c *Controller) TradeDates() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tradeDates
}

// IndexIDs lists the loaded index series ids.
func (c *Controller) IndexIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, ix := range c.indices {
		if !seen[ix.IndexID] {
			seen[ix.IndexID] = true
			out = append(out, ix.IndexID)
		}
	}
	return out
}

// Counts reports rows per loaded source.
func (c *Controller) Counts() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	counts := map[string]int{
		"transactions": len(c.transactions),
		"trading":      len(c.prices),
		"indices":      len(c.indices),
		"flow":         len(c.flows),
		"sentiment":    len(c.entries),
	}
	if c.mapping != nil {
		counts["securities"] = len(c.mapping.ByISIN)
	} else {
		counts["securities"] = 0
	}
	return counts
}

// GetSentiment returns the aggregated entry for one (isin, date), nil when
// absent or not yet aggregated.
func (c *Controller) GetSentiment(isin, date string) *model.SentimentEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entries == nil {
		return nil
	}
	return c.entries[sentiment.Key(normalize.CanonicalID(isin), model.NormalizeDate(date))]
}

// GetHistory returns the chronologically sorted entries for one isin.
func (c *Controller) GetHistory(isin string) []*model.SentimentEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entries == nil {
		return nil
	}
	return sentiment.History(c.entries, normalize.CanonicalID(isin))
}

// DetectPattern derives the full signal snapshot for one isin, nil when no
// history exists.
func (c *Controller) DetectPattern(isin string) *sentiment.Report {
	return sentiment.Snapshot(c.GetHistory(isin))
}

// Screen ranks every aggregated security by pattern strength.
func (c *Controller) Screen(limit int) []analysis.RankedSignal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entries == nil {
		return nil
	}
	return analysis.RankByPatternScore(c.entries, limit)
}

// GetPatternOutcomes backtests threshold crossings for one isin. With no
// aggregated data it returns an empty outcome, never an error.
func (c *Controller) GetPatternOutcomes(isin string, threshold float64, forwardDays int) *backtest.PatternOutcome {
	c.mu.RLock()
	defer c.mu.RUnlock()
	isin = normalize.CanonicalID(isin)
	if c.entries == nil {
		return &backtest.PatternOutcome{ISIN: isin, Threshold: threshold, ForwardDays: forwardDays}
	}
	engine := backtest.New(c.entries, join.New(nil, c.prices, nil), c.tradeDates)
	return engine.PatternOutcomes(isin, threshold, forwardDays)
}

// GetHistoricalPerformance evaluates the loaded transaction history against
// institutional sentiment. Empty result when prerequisites are absent.
func (c *Controller) GetHistoricalPerformance(holdingDays int) *backtest.Performance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entries == nil || c.mapping == nil || len(c.transactions) == 0 {
		return &backtest.Performance{HoldingDays: holdingDays, ByClass: map[string]*backtest.ClassPerf{}}
	}
	engine := backtest.New(c.entries, join.New(nil, c.prices, nil), c.tradeDates)
	return engine.Performance(c.transactions, c.mapping, holdingDays)
}
