package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestProcessArchive(t *testing.T) {
	data := buildZip(t, map[string]string{
		"transactions.csv": "Instrument ID,Action,Order Date\nABC,Buy,01/02/2024\n",
		"trading.csv":      "Instrument ID,Trade Date,Percent Change\nABC,2024-02-01,-2.0\n",
		"flow.csv":         "Trade Date,Investor Class,Security ID,Buy Turnover,Sell Turnover\n2024-02-01,F,100,600,400\n",
		"notes.txt":        "ignored",
	})

	var phases []Phase
	batch, err := ProcessArchive(context.Background(), data, func(phase Phase, pct float64, detail string) {
		phases = append(phases, phase)
	})
	require.NoError(t, err)
	require.NotNil(t, batch)

	assert.Len(t, batch.Rows(FileTransactions), 1)
	assert.Len(t, batch.Rows(FileTrading), 1)
	assert.Len(t, batch.Rows(FileFlow), 1)
	assert.Nil(t, batch.Rows(FileSecurities))

	assert.Contains(t, phases, PhaseExtract)
	assert.Contains(t, phases, PhaseParse)
}

func TestProcessArchiveMissingRequired(t *testing.T) {
	data := buildZip(t, map[string]string{
		"trading.csv": "Instrument ID,Trade Date,Percent Change\nABC,2024-02-01,-2.0\n",
	})

	batch, err := ProcessArchive(context.Background(), data, nil)
	require.Error(t, err)

	var missing *MissingSourcesError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []FileType{FileTransactions}, missing.Missing)

	// Partial results remain usable.
	require.NotNil(t, batch)
	assert.Len(t, batch.Rows(FileTrading), 1)
}

func TestProcessArchiveBadFileIsNotFatal(t *testing.T) {
	data := buildZip(t, map[string]string{
		"transactions.csv": "Instrument ID,Action,Order Date\nABC,Buy,01/02/2024\n",
		"trading.csv":      "Instrument ID,Trade Date,Percent Change\nABC,2024-02-01,-2.0\n",
		"indices.csv":      "", // no header: parse error, skipped
	})

	batch, err := ProcessArchive(context.Background(), data, nil)
	require.NoError(t, err)
	assert.Nil(t, batch.Rows(FileIndices))
	assert.Len(t, batch.Rows(FileTransactions), 1)
}

func TestProcessArchiveNotAZip(t *testing.T) {
	_, err := ProcessArchive(context.Background(), []byte("definitely not a zip"), nil)
	require.Error(t, err)
}

func TestProcessArchiveCancelled(t *testing.T) {
	data := buildZip(t, map[string]string{
		"transactions.csv": "Instrument ID,Action,Order Date\nABC,Buy,01/02/2024\n",
		"trading.csv":      "Instrument ID,Trade Date,Percent Change\nABC,2024-02-01,-2.0\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ProcessArchive(ctx, data, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
