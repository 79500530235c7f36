package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"smartflow/internal/backtest"
	"smartflow/internal/ingest"
	"smartflow/internal/join"
	"smartflow/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "analyze":
		cmdAnalyze(os.Args[2:])
	case "backtest":
		cmdBacktest(os.Args[2:])
	case "screener":
		cmdScreener(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli analyze --archive data.zip --trader Alice --as-of 2024-03-07 --out results/ledger.csv")
	fmt.Println("  cli backtest --archive data.zip --isin IL0001234567 --threshold -0.3 --days 5")
	fmt.Println("  cli screener --archive data.zip --limit 10")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - analyze merges personal trades against market data and prints counter-trade stats")
	fmt.Println("  - backtest measures forward price movement after smart-money sentiment crossings")
}

// loadArchive ingests a local archive into a fresh controller.
func loadArchive(path string) *session.Controller {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read archive: %v\n", err)
		os.Exit(1)
	}

	progress := func(phase ingest.Phase, percent float64, detail string) {
		if percent >= 0 {
			fmt.Printf("\r%-9s %5.1f%% %s", phase, percent, detail)
		}
	}
	batch, err := ingest.ProcessArchive(context.Background(), data, progress)
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		if batch == nil {
			os.Exit(1)
		}
		// Missing optional context is survivable; keep going with what loaded.
	}

	ctrl := session.NewController()
	counts := ctrl.LoadBatch(batch)
	for t, n := range counts {
		fmt.Printf("loaded %-12s %d rows\n", t, n)
	}
	if n := ctrl.Aggregate(); n > 0 {
		fmt.Printf("aggregated %d sentiment entries\n", n)
	}
	return ctrl
}

func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	archive := fs.String("archive", "", "Path to data archive (zip of CSVs)")
	trader := fs.String("trader", "", "Trader filter (empty = all)")
	asOf := fs.String("as-of", "", "As-of date ceiling, YYYY-MM-DD")
	index := fs.String("index", "", "Index id for market-change attribution")
	outPath := fs.String("out", "", "Optional output CSV path for the merged ledger")
	_ = fs.Parse(args)

	if *archive == "" {
		fmt.Println("--archive is required")
		os.Exit(2)
	}

	ctrl := loadArchive(*archive)
	if *index != "" {
		ctrl.SelectIndex(*index)
	}
	result, err := ctrl.StartSession(*trader, *asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start session: %v\n", err)
		os.Exit(1)
	}

	s := result.Stats
	fmt.Printf("\ntrades: %d  counter: %d  aligned: %d\n", s.Total, s.Counter, s.Aligned)
	fmt.Printf("counter buys: %d  counter sells: %d\n", s.CounterBuys, s.CounterSells)
	for trader, ts := range s.ByTrader {
		fmt.Printf("  %-20s %3d trades, %.0f%% counter\n", trader, ts.Total, ts.CounterRatio*100)
	}

	if *outPath != "" {
		if err := writeLedger(*outPath, result); err != nil {
			fmt.Fprintf(os.Stderr, "write ledger: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *outPath)
	}
}

func writeLedger(path string, result *join.Result) error {
	return join.WriteLedgerCSV(path, result.Merged)
}

func cmdBacktest(args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	archive := fs.String("archive", "", "Path to data archive (zip of CSVs)")
	isin := fs.String("isin", "", "Instrument ISIN")
	threshold := fs.Float64("threshold", -0.3, "Smart-money sentiment threshold")
	days := fs.Int("days", backtest.DefaultForwardDays, "Forward window in trading days")
	outPath := fs.String("out", "", "Optional output CSV path for occurrences")
	_ = fs.Parse(args)

	if *archive == "" || *isin == "" {
		fmt.Println("--archive and --isin are required")
		os.Exit(2)
	}

	ctrl := loadArchive(*archive)
	outcome := ctrl.GetPatternOutcomes(*isin, *threshold, *days)

	fmt.Printf("\n%s  threshold %.2f  forward %d days\n", outcome.ISIN, outcome.Threshold, outcome.ForwardDays)
	fmt.Printf("occurrences: %d  positive: %d  negative: %d\n", outcome.Occurrences, outcome.Positive, outcome.Negative)
	fmt.Printf("decline rate: %.0f%%  average change: %+.2f%%\n", outcome.DeclineRate*100, outcome.AverageChange)
	for _, occ := range outcome.Recent {
		fmt.Printf("  %s  sentiment %+.2f  forward %+.2f%% over %d days\n",
			occ.Date, occ.Sentiment, occ.ForwardChange, occ.DaysWithData)
	}

	if *outPath != "" {
		if err := backtest.WriteOccurrencesCSV(*outPath, outcome.Recent); err != nil {
			fmt.Fprintf(os.Stderr, "write occurrences: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *outPath)
	}
}

func cmdScreener(args []string) {
	fs := flag.NewFlagSet("screener", flag.ExitOnError)
	archive := fs.String("archive", "", "Path to data archive (zip of CSVs)")
	limit := fs.Int("limit", 10, "Number of securities to list")
	_ = fs.Parse(args)

	if *archive == "" {
		fmt.Println("--archive is required")
		os.Exit(2)
	}

	ctrl := loadArchive(*archive)
	for _, r := range ctrl.Screen(*limit) {
		fmt.Printf("%2d. %-14s score %3d (%s)  alert %s\n",
			r.Rank, r.ISIN, r.Pattern.Score, r.Pattern.Level, r.Alert)
	}
}
