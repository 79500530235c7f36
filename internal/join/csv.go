package join

import (
	"encoding/csv"
	"os"
	"strconv"

	"smartflow/internal/model"
)

// WriteLedgerCSV exports the merged-transaction ledger.
// This is the primary artifact for "what happened" in a session.
func WriteLedgerCSV(path string, merged []model.MergedTransaction) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"instrument_id",
		"trade_date",
		"trader_id",
		"action",
		"side",
		"market_change",
		"has_market_data",
		"is_counter",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range merged {
		row := []string{
			m.InstrumentID,
			m.TradeDate,
			m.TraderID,
			m.Action,
			string(m.Side),
			strconv.FormatFloat(m.MarketChange, 'f', 6, 64),
			strconv.FormatBool(m.HasMarketData),
			strconv.FormatBool(m.IsCounter),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
