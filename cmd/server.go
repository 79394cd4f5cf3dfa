package cmd

import (
	"log"
	"os"
	"strconv"

	"melodex/handlers"
	"melodex/middleware"
	"melodex/services"
	"melodex/websocket"

	"github.com/gin-gonic/gin"
)

// StartWebServer starts the web server
func StartWebServer(port int) {
	// Set production mode if not specified
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	hub := websocket.NewHub()
	go hub.Run()

	jobQueue := services.NewJobQueue(2, hub)
	jobQueue.Start()

	// Initialize handlers
	scanHandler := handlers.NewScanHandler(jobQueue, hub)
	libraryHandler := handlers.NewLibraryHandler()
	healthHandler := handlers.NewHealthHandler()
	settingsHandler := handlers.NewSettingsHandler()

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply middleware
	r.Use(middleware.CORS())
	r.Use(middleware.Logging())
	r.Use(middleware.Security())

	// Setup routes
	setupRoutes(r, scanHandler, libraryHandler, healthHandler, settingsHandler)

	// Start server
	portStr := strconv.Itoa(port)
	if serverPort := os.Getenv("SERVER_PORT"); serverPort != "" {
		portStr = serverPort
	}

	log.Printf("Melodex web server starting on port %s", portStr)
	if err := r.Run(":" + portStr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, scanHandler *handlers.ScanHandler, libraryHandler *handlers.LibraryHandler, healthHandler *handlers.HealthHandler, settingsHandler *handlers.SettingsHandler) {
	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		// Scan management endpoints
		scansGroup := apiGroup.Group("/scans")
		{
			scansGroup.POST("", scanHandler.QueueScan)
			scansGroup.GET("", scanHandler.GetAllJobs)
			scansGroup.GET("/:jobId", scanHandler.GetJob)
			scansGroup.DELETE("/:jobId", scanHandler.CancelJob)
		}

		// WebSocket endpoints for real-time progress
		wsGroup := apiGroup.Group("/ws")
		{
			// WebSocket endpoint for specific scan progress
			wsGroup.GET("/scans/:jobId", scanHandler.HandleWebSocketConnection)

			// WebSocket endpoint for all scan progress
			wsGroup.GET("/scans", scanHandler.HandleWebSocketAllConnection)
		}

		// Synchronous library scan endpoint
		apiGroup.GET("/library", libraryHandler.GetLibrary)

		// Settings endpoints
		apiGroup.GET("/settings", settingsHandler.GetSettings)
		apiGroup.POST("/settings", settingsHandler.UpdateSettings)
	}
}
