package backtest

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteOccurrencesCSV exports a pattern-outcome occurrence table.
func WriteOccurrencesCSV(path string, occurrences []Occurrence) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"isin",
		"date",
		"sentiment",
		"forward_change",
		"days_with_data",
		"positive",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, o := range occurrences {
		row := []string{
			o.ISIN,
			o.Date,
			fmtFloat(o.Sentiment),
			fmtFloat(o.ForwardChange),
			strconv.Itoa(o.DaysWithData),
			strconv.FormatBool(o.Positive),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
