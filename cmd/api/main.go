package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"solar-risk/internal/api/handlers"
	"solar-risk/internal/api/middleware"
	"solar-risk/internal/data"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Failed to resolve working directory: %v", err)
		}
		dataDir = filepath.Join(wd, "examples", "data")
	}
	if info, err := os.Stat(dataDir); err == nil && info.IsDir() {
		log.Printf("Data directory: %s", dataDir)
	} else {
		log.Printf("Data directory not found at: %s (error: %v)", dataDir, err)
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers. The cache is shared so repeated runs over the
	// same dataset skip the CSV parse.
	cache := data.NewDatasetCache()
	simulateHandler := handlers.NewSimulateHandler(dataDir, cache)
	datasetsHandler := handlers.NewDatasetsHandler(dataDir)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.RunSimulate)
		api.GET("/simulate/:id/ledger", simulateHandler.GetLedger)

		api.GET("/methods", handlers.ListMethods)
		api.GET("/datasets", datasetsHandler.ListDatasets)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
