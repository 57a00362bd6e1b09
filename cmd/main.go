package main

import (
	"log"
	"time"

	"trajectory-service/internal/config"
	"trajectory-service/internal/handlers"
	"trajectory-service/internal/metrics"
	"trajectory-service/internal/models"
	"trajectory-service/internal/repository"
	"trajectory-service/internal/services"
	"trajectory-service/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const elevationCacheTTL = 24 * time.Hour

func main() {
	cfg := InitConfig()
	m := metrics.NewMetrics()

	var cache *storage.ElevationCache
	if cfg.RedisConfigured() {
		var err error
		cache, err = storage.NewElevationCache(cfg.RedisHost, cfg.RedisPort, elevationCacheTTL)
		if err != nil {
			log.Printf("Elevation cache unavailable, continuing without it: %v", err)
			cache = nil
		}
	}

	var repo repository.PredictionRepository
	if cfg.DatabaseConfigured() {
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		if err := db.AutoMigrate(&models.PredictionRecord{}); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		repo = repository.NewPredictionRepository(db)
	} else {
		log.Println("No database configured; prediction history disabled")
	}

	var exports *services.ExportService
	if cfg.MinioConfigured() {
		minioClient, err := storage.NewMinioClient(cfg)
		if err != nil {
			log.Fatalf("MinIO client initialization failed: %v", err)
		}
		exports = services.NewExportService(minioClient, cfg.MinioBucket)
	}

	elevation := services.NewElevationService(cfg.ElevationAPIURL, cache)
	requests := services.NewRequestService(elevation, m)
	prediction := services.NewPredictionService(cfg.WindDatasetDir, elevation)

	app := fiber.New()

	// Register Prometheus metrics endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	h := handlers.NewPredictionHandler(requests, prediction, repo, exports, m, cfg.HistoryLimit)
	api := app.Group("/api")
	v1 := api.Group("/v1")
	v1.Get("/", h.Predict)
	v1.Get("/predictions", h.ListPredictions)
	api.Get("/datasetcheck", h.DatasetCheck)

	v1.Get("/swagger/*", swagger.HandlerDefault)

	// Add Health check endpoint
	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	routes := app.GetRoutes()
	log.Println("Registered routes:")
	for _, r := range routes {
		log.Printf("  %s %s\n", r.Method, r.Path)
	}

	port := cfg.AppPort
	if port == "" {
		port = "8000"
		log.Printf("Defaulting to port %s", port)
	}
	log.Printf("Server listening on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func InitConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	return cfg
}
