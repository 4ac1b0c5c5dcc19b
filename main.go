// api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"olistdash/api/dataset"
	"olistdash/api/handlers"
	"olistdash/api/middleware"
	"olistdash/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Resolve and load the order dataset ---
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	path, err := dataset.Discover(dataDir, os.Getenv("DATA_FILE"))
	if err != nil {
		log.Fatalf("Failed to locate dataset: %v", err)
	}
	ds, err := dataset.Load(path)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	// --- Initialize Store and Handlers ---
	analyticsStore := store.NewAnalyticsStore(ds)
	dashboardHandlers := handlers.NewDashboardHandlers(analyticsStore)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())

	api := r.Group("/api")
	{
		api.GET("/health", dashboardHandlers.Health)

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/kpis", dashboardHandlers.GetKPIs)
			dashboard.GET("/segments/revenue", dashboardHandlers.GetSegmentRevenue)
			dashboard.GET("/segments/customers", dashboardHandlers.GetSegmentCustomers)
			dashboard.GET("/segments/avg-revenue", dashboardHandlers.GetSegmentAvgRevenue)
			dashboard.GET("/states", dashboardHandlers.GetStatePerformance)
			dashboard.GET("/map", dashboardHandlers.GetMapSample)
			dashboard.GET("/filters", dashboardHandlers.GetFilterOptions)
			dashboard.GET("/export", dashboardHandlers.ExportReport)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Dashboard API serving %s on http://localhost:%s", path, port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Dashboard API failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
