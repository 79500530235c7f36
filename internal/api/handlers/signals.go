package handlers

import (
	"net/http"
	"strconv"

	"smartflow/internal/api/models"
	"smartflow/internal/session"

	"github.com/gin-gonic/gin"
)

// SignalsHandler serves sentiment queries and derived signals.
// Absent prerequisite data always yields a neutral empty body, never an
// error status.
type SignalsHandler struct {
	Controller *session.Controller
}

func NewSignalsHandler(ctrl *session.Controller) *SignalsHandler {
	return &SignalsHandler{Controller: ctrl}
}

// GetSentiment handles GET /api/v1/sentiment/:isin?date=YYYY-MM-DD.
func (h *SignalsHandler) GetSentiment(c *gin.Context) {
	entry := h.Controller.GetSentiment(c.Param("isin"), c.Query("date"))
	c.JSON(http.StatusOK, gin.H{"sentiment": models.SentimentFromEntry(entry)})
}

// GetHistory handles GET /api/v1/sentiment/:isin/history.
func (h *SignalsHandler) GetHistory(c *gin.Context) {
	history := h.Controller.GetHistory(c.Param("isin"))
	out := make([]*models.SentimentResponse, 0, len(history))
	for _, e := range history {
		out = append(out, models.SentimentFromEntry(e))
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}

// DetectPattern handles GET /api/v1/signals/:isin.
func (h *SignalsHandler) DetectPattern(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"report": h.Controller.DetectPattern(c.Param("isin"))})
}

// Screener handles GET /api/v1/screener?limit=N.
func (h *SignalsHandler) Screener(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	c.JSON(http.StatusOK, gin.H{"rankings": h.Controller.Screen(limit)})
}
