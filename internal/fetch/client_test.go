package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartflow/internal/ingest"
)

func TestFetchArchive(t *testing.T) {
	payload := []byte("zip bytes go here")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bundles/latest.zip", r.URL.Path)
		w.Write(payload)
	}))
	defer srv.Close()

	var percents []float64
	data, err := NewClient(srv.URL).FetchArchive(context.Background(), "/bundles/latest.zip",
		func(phase ingest.Phase, pct float64, detail string) {
			assert.Equal(t, ingest.PhaseTransfer, phase)
			percents = append(percents, pct)
		})
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	require.NotEmpty(t, percents)
	assert.Equal(t, 100.0, percents[len(percents)-1])
}

func TestFetchArchiveNoContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Flushing before the body suppresses Content-Length.
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		w.Write([]byte("stream"))
	}))
	defer srv.Close()

	sawIndeterminate := false
	data, err := NewClient(srv.URL).FetchArchive(context.Background(), "/x.zip",
		func(phase ingest.Phase, pct float64, detail string) {
			if pct == -1 {
				sawIndeterminate = true
			}
		})
	require.NoError(t, err)
	assert.Equal(t, []byte("stream"), data)
	assert.True(t, sawIndeterminate, "missing size hint degrades to indeterminate progress")
}

func TestFetchArchiveBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchArchive(context.Background(), "/missing.zip", nil)
	require.Error(t, err)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
	assert.Equal(t, "BAD_STATUS", te.Code)
}

func TestFetchArchiveConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.FetchArchive(context.Background(), "/x.zip", nil)
	require.Error(t, err)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "TRANSFER_FAILED", te.Code)
}

func TestGetCacheDisabledByDefault(t *testing.T) {
	t.Setenv("ENABLE_ARCHIVE_CACHE", "")
	assert.Nil(t, GetCache())

	t.Setenv("ENABLE_ARCHIVE_CACHE", "true")
	t.Setenv("API_ENV", "production")
	assert.Nil(t, GetCache())
}
