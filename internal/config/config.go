package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"trajectory-service/internal/dataset"
)

// Config holds all configuration values from environment.
type Config struct {
	AppPort         string
	ElevationAPIURL string
	WindDatasetDir  string

	// Prediction history database (optional)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Elevation lookup cache (optional)
	RedisHost string
	RedisPort string

	// Export archive for generated CSV/KML files (optional)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSSL       bool

	// HistoryLimit caps how many records the history endpoint returns.
	HistoryLimit int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	minioSSL := false
	if sslEnv := os.Getenv("MINIO_SSL"); sslEnv != "" {
		val, err := strconv.ParseBool(sslEnv)
		if err != nil {
			return nil, fmt.Errorf("invalid MINIO_SSL value: %v", err)
		}
		minioSSL = val
	}
	historyLimit := 50 // default value
	if limitEnv := os.Getenv("HISTORY_LIMIT"); limitEnv != "" {
		val, err := strconv.Atoi(limitEnv)
		if err == nil && val > 0 {
			historyLimit = val
		}
	}
	cfg := &Config{
		AppPort:         os.Getenv("APP_PORT"),
		ElevationAPIURL: os.Getenv("ELEVATION_API_URL"),
		WindDatasetDir:  os.Getenv("WIND_DATASET_DIR"),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          os.Getenv("DB_PORT"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		RedisHost:       os.Getenv("REDIS_HOST"),
		RedisPort:       os.Getenv("REDIS_PORT"),
		MinioEndpoint:   os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:  os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:  os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:     os.Getenv("MINIO_BUCKET"),
		MinioSSL:        minioSSL,
		HistoryLimit:    historyLimit,
	}
	if cfg.WindDatasetDir == "" {
		cfg.WindDatasetDir = dataset.DefaultDirectory
	}
	if cfg.ElevationAPIURL == "" {
		return nil, fmt.Errorf("elevation API configuration is incomplete")
	}
	return cfg, nil
}

// DatabaseConfigured reports whether the prediction history database is set up.
func (c *Config) DatabaseConfigured() bool {
	return c.DBHost != "" && c.DBUser != "" && c.DBName != ""
}

// RedisConfigured reports whether the elevation cache is set up.
func (c *Config) RedisConfigured() bool {
	return c.RedisHost != "" && c.RedisPort != ""
}

// MinioConfigured reports whether the export archive is set up.
func (c *Config) MinioConfigured() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" &&
		c.MinioSecretKey != "" && c.MinioBucket != ""
}

// ConnectDatabase initializes a GORM database connection to PostgreSQL.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
