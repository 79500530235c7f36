package handlers

import (
	"net/http"

	"smartflow/internal/api/models"
	"smartflow/internal/backtest"
	"smartflow/internal/config"
	"smartflow/internal/session"

	"github.com/gin-gonic/gin"
)

// BacktestHandler serves the historical pattern and performance analyses.
type BacktestHandler struct {
	Controller *session.Controller
	Config     *config.Config
}

func NewBacktestHandler(ctrl *session.Controller, cfg *config.Config) *BacktestHandler {
	return &BacktestHandler{Controller: ctrl, Config: cfg}
}

// PatternOutcomes handles GET /api/v1/backtest/outcomes.
func (h *BacktestHandler) PatternOutcomes(c *gin.Context) {
	var req models.PatternOutcomesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	if req.Threshold == 0 {
		req.Threshold = -0.3
	}
	if req.ForwardDays == 0 {
		req.ForwardDays = h.Config.Signals.ForwardDays
	}
	outcome := h.Controller.GetPatternOutcomes(req.ISIN, req.Threshold, req.ForwardDays)
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

// Performance handles GET /api/v1/backtest/performance.
func (h *BacktestHandler) Performance(c *gin.Context) {
	var req models.PerformanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	if req.HoldingDays == 0 {
		req.HoldingDays = h.Config.Signals.HoldingDays
	}
	if req.HoldingDays == 0 {
		req.HoldingDays = backtest.DefaultHoldingDays
	}
	perf := h.Controller.GetHistoricalPerformance(req.HoldingDays)
	c.JSON(http.StatusOK, gin.H{"performance": perf})
}
