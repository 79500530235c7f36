package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"smartflow/internal/ingest"
	"smartflow/internal/session"
)

// Demo:
// - Parse the bundled sample CSVs (no archive, no network)
// - Load them into a session controller
// - Run a session and print the derived signals for one instrument
func main() {
	dir := flag.String("dir", "examples/data", "Directory of sample CSVs")
	isin := flag.String("isin", "", "Instrument to report on (default: first with flow data)")
	flag.Parse()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		panic(err)
	}

	ctrl := session.NewController()
	batch := &ingest.Batch{Files: map[ingest.FileType]*ingest.ParsedFile{}}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		rule, ok := ingest.MatchFileName(e.Name())
		if !ok {
			continue
		}
		f, err := os.Open(*dir + "/" + e.Name())
		if err != nil {
			panic(err)
		}
		pf, err := ingest.ParseCSV(e.Name(), f, rule.Type)
		f.Close()
		if err != nil {
			fmt.Printf("skipping %s: %v\n", e.Name(), err)
			continue
		}
		batch.Files[pf.Type] = pf
	}

	counts := ctrl.LoadBatch(batch)
	for t, n := range counts {
		fmt.Printf("loaded %-12s %d rows\n", t, n)
	}
	fmt.Printf("aggregated %d sentiment entries\n", ctrl.Aggregate())

	result, err := ctrl.StartSession("", "")
	if err != nil {
		panic(err)
	}
	fmt.Printf("\ntrades: %d  counter: %d  aligned: %d\n",
		result.Stats.Total, result.Stats.Counter, result.Stats.Aligned)

	target := *isin
	if target == "" {
		for _, r := range ctrl.Screen(1) {
			target = r.ISIN
		}
	}
	if target == "" {
		fmt.Println("no aggregated flow data in sample set")
		return
	}

	report := ctrl.DetectPattern(target)
	fmt.Printf("\n%s as of %s\n", report.ISIN, report.Date)
	fmt.Printf("  level %s  smart %s  alert %s\n", report.Level, report.SmartLevel, report.Alert)
	fmt.Printf("  pattern score %d (%s), sell streak %d\n",
		report.Pattern.Score, report.Pattern.Level, report.Pattern.SellStreak)
	fmt.Printf("  trend %s, momentum %s, confidence %s\n",
		report.Trend.Trend, report.Trend.Momentum, report.Confidence)
}
