package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"smartflow/internal/api/models"
	"smartflow/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	Controller *session.Controller
}

func NewSessionHandler(ctrl *session.Controller) *SessionHandler {
	return &SessionHandler{Controller: ctrl}
}

// Start handles POST /api/v1/session: scope to a trader/as-of date and run a
// full recomputation.
func (h *SessionHandler) Start(c *gin.Context) {
	var req models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	if req.IndexID != "" {
		h.Controller.SelectIndex(req.IndexID)
	}
	result, err := h.Controller.StartSession(req.Trader, req.AsOfDate)
	if err != nil {
		if errors.Is(err, session.ErrNoData) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "NO_DATA", Message: err.Error()},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "SESSION_ERROR", Message: err.Error()},
		})
		return
	}

	includeMerged, _ := strconv.ParseBool(c.Query("include_merged"))
	resp := models.SessionResponse{
		SessionID:  h.Controller.SessionID(),
		State:      string(h.Controller.State()),
		Trader:     req.Trader,
		AsOfDate:   req.AsOfDate,
		Stats:      result.Stats,
		Portfolios: result.Portfolios,
	}
	if includeMerged {
		resp.Merged = result.Merged
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/v1/session: the current derived result.
func (h *SessionHandler) Get(c *gin.Context) {
	result := h.Controller.Derived()
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"state": h.Controller.State()})
		return
	}
	c.JSON(http.StatusOK, models.SessionResponse{
		SessionID:  h.Controller.SessionID(),
		State:      string(h.Controller.State()),
		Stats:      result.Stats,
		Portfolios: result.Portfolios,
	})
}

// End handles DELETE /api/v1/session: back to LOADED, raw tables kept.
func (h *SessionHandler) End(c *gin.Context) {
	h.Controller.EndSession()
	c.JSON(http.StatusOK, gin.H{"state": h.Controller.State()})
}

// Reset handles POST /api/v1/reset: discard everything.
func (h *SessionHandler) Reset(c *gin.Context) {
	h.Controller.Reset()
	c.JSON(http.StatusOK, gin.H{"state": h.Controller.State()})
}
