package handlers

import (
	"errors"
	"io"
	"net/http"

	"smartflow/internal/api/models"
	"smartflow/internal/config"
	"smartflow/internal/fetch"
	"smartflow/internal/ingest"
	"smartflow/internal/session"

	"github.com/gin-gonic/gin"
)

// DataHandler handles dataset loading and catalog requests.
type DataHandler struct {
	Controller *session.Controller
	Fetcher    *fetch.Client
	Config     *config.Config
}

func NewDataHandler(ctrl *session.Controller, fetcher *fetch.Client, cfg *config.Config) *DataHandler {
	return &DataHandler{Controller: ctrl, Fetcher: fetcher, Config: cfg}
}

// LoadArchive handles POST /api/v1/load/archive: fetch the remote bundle,
// ingest it, and load every recognized dataset.
func (h *DataHandler) LoadArchive(c *gin.Context) {
	var req models.LoadArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	data, err := h.Fetcher.FetchArchive(c.Request.Context(), req.ArchivePath, nil)
	if err != nil {
		status := http.StatusBadGateway
		code := "TRANSFER_FAILED"
		var te *fetch.TransferError
		if errors.As(err, &te) && te.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
			code = "ARCHIVE_NOT_FOUND"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{Code: code, Message: err.Error()},
		})
		return
	}

	h.ingestArchive(c, data)
}

// UploadArchive handles POST /api/v1/load/upload: a manually supplied
// archive, the fallback path when remote retrieval fails.
func (h *DataHandler) UploadArchive(c *gin.Context) {
	file, _, err := c.Request.FormFile("archive")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: "archive file field is required"},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "UPLOAD_READ_ERROR", Message: err.Error()},
		})
		return
	}

	h.ingestArchive(c, data)
}

// UploadFile handles POST /api/v1/load/file: one CSV with an optional
// explicit type hint.
func (h *DataHandler) UploadFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: "file field is required"},
		})
		return
	}
	defer file.Close()

	hint := ingest.FileType(c.PostForm("type"))
	pf, err := ingest.ParseCSV(header.Filename, file, hint)
	if err != nil {
		code := "PARSE_ERROR"
		var mismatch *ingest.TypeMismatchError
		switch {
		case errors.Is(err, ingest.ErrUnknownFileType):
			code = "UNKNOWN_FILE_TYPE"
		case errors.As(err, &mismatch):
			code = "TYPE_MISMATCH"
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: code, Message: err.Error()},
		})
		return
	}

	batch := &ingest.Batch{Files: map[ingest.FileType]*ingest.ParsedFile{pf.Type: pf}}
	counts := h.Controller.LoadBatch(batch)
	h.Controller.Aggregate()
	c.JSON(http.StatusOK, models.LoadResponse{
		Status: "loaded",
		Counts: models.CountsFromBatch(counts),
	})
}

func (h *DataHandler) ingestArchive(c *gin.Context, data []byte) {
	batch, err := ingest.ProcessArchive(c.Request.Context(), data, nil)
	if err != nil {
		var missing *ingest.MissingSourcesError
		if errors.As(err, &missing) {
			// Load whatever did arrive so the caller can inspect it, but
			// report the overall ingestion as failed.
			counts := h.Controller.LoadBatch(batch)
			h.Controller.Aggregate()
			names := make([]string, len(missing.Missing))
			for i, t := range missing.Missing {
				names[i] = string(t)
			}
			c.JSON(http.StatusUnprocessableEntity, models.LoadResponse{
				Status:  "missing_required",
				Counts:  models.CountsFromBatch(counts),
				Missing: names,
			})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INGEST_ERROR", Message: err.Error()},
		})
		return
	}

	counts := h.Controller.LoadBatch(batch)
	h.Controller.Aggregate()
	if h.Config.Source.IndexID != "" {
		h.Controller.SelectIndex(h.Config.Source.IndexID)
	}
	c.JSON(http.StatusOK, models.LoadResponse{
		Status: "loaded",
		Counts: models.CountsFromBatch(counts),
	})
}

// Summary handles GET /api/v1/datasets: row counts per loaded source.
func (h *DataHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":  h.Controller.State(),
		"counts": h.Controller.Counts(),
	})
}

// ListTraders handles GET /api/v1/traders.
func (h *DataHandler) ListTraders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"traders": h.Controller.Traders()})
}

// ListDates handles GET /api/v1/dates.
func (h *DataHandler) ListDates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dates": h.Controller.TradeDates()})
}

// ListIndices handles GET /api/v1/indices.
func (h *DataHandler) ListIndices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"indices": h.Controller.IndexIDs()})
}
