package main

import (
	"log"
	"log/slog"
	"os"

	"smartflow/internal/api/handlers"
	"smartflow/internal/api/middleware"
	"smartflow/internal/config"
	"smartflow/internal/fetch"
	"smartflow/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", cfgPath, err)
		}
	} else {
		cfg = config.Default()
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	controller := session.NewController()
	fetcher := fetch.NewClient(cfg.Source.BaseURL)

	dataHandler := handlers.NewDataHandler(controller, fetcher, cfg)
	sessionHandler := handlers.NewSessionHandler(controller)
	signalsHandler := handlers.NewSignalsHandler(controller)
	backtestHandler := handlers.NewBacktestHandler(controller, cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "state": controller.State()})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/load/archive", dataHandler.LoadArchive)
		api.POST("/load/upload", dataHandler.UploadArchive)
		api.POST("/load/file", dataHandler.UploadFile)
		api.GET("/datasets", dataHandler.Summary)
		api.GET("/traders", dataHandler.ListTraders)
		api.GET("/dates", dataHandler.ListDates)
		api.GET("/indices", dataHandler.ListIndices)

		api.POST("/session", sessionHandler.Start)
		api.GET("/session", sessionHandler.Get)
		api.DELETE("/session", sessionHandler.End)
		api.POST("/reset", sessionHandler.Reset)

		api.GET("/sentiment/:isin", signalsHandler.GetSentiment)
		api.GET("/sentiment/:isin/history", signalsHandler.GetHistory)
		api.GET("/signals/:isin", signalsHandler.DetectPattern)
		api.GET("/screener", signalsHandler.Screener)

		api.GET("/backtest/outcomes", backtestHandler.PatternOutcomes)
		api.GET("/backtest/performance", backtestHandler.Performance)
	}

	addr := ":" + cfg.Server.Port
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
