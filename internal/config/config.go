// Package config loads and validates environment configuration at startup.
// Fail-fast: missing required variables abort the process.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all runtime configuration for the matching pipeline.
type Config struct {
	DatabaseURL string `validate:"required"`
	RedisURL    string `validate:"required"`

	// Gemini API key for the embedding model. Optional: without it the
	// embedding match service is disabled and only the TF-IDF path runs.
	GeminiAPIKey string

	// Adzuna credentials. Optional: the adapter skips fetching without them.
	AdzunaAppID   string
	AdzunaAppKey  string
	AdzunaCountry string

	// Search terms passed to sources that support filtering.
	SearchQuery    string
	SearchLocation string

	// CVUploadDir is where uploaded CV files live on disk.
	CVUploadDir string

	// Recommendation tuning
	RecommendLimit int `validate:"gte=1"`
	MaxPerCV       int `validate:"gte=1"`

	// JobExpiryDays controls the stale-posting removal cutoff.
	JobExpiryDays int `validate:"gte=1"`

	// FetchTimeout bounds a single source adapter call.
	FetchTimeout time.Duration

	Debug   bool
	LogJSON bool
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		AdzunaAppID:    os.Getenv("ADZUNA_APP_ID"),
		AdzunaAppKey:   os.Getenv("ADZUNA_APP_KEY"),
		AdzunaCountry:  envOrDefault("ADZUNA_COUNTRY", "us"),
		SearchQuery:    os.Getenv("SEARCH_QUERY"),
		SearchLocation: os.Getenv("SEARCH_LOCATION"),
		CVUploadDir:    envOrDefault("CV_UPLOAD_DIR", "uploads"),
		RecommendLimit: 10,
		MaxPerCV:       10,
		JobExpiryDays:  30,
		FetchTimeout:   10 * time.Second,
		Debug:          os.Getenv("DEBUG") == "true",
		LogJSON:        os.Getenv("LOG_JSON") == "true",
	}

	var err error
	if cfg.RecommendLimit, err = envInt("RECOMMEND_LIMIT", cfg.RecommendLimit); err != nil {
		return nil, err
	}
	if cfg.MaxPerCV, err = envInt("MAX_RECOMMENDATIONS_PER_CV", cfg.MaxPerCV); err != nil {
		return nil, err
	}
	if cfg.JobExpiryDays, err = envInt("JOB_EXPIRY_DAYS", cfg.JobExpiryDays); err != nil {
		return nil, err
	}
	if s := os.Getenv("FETCH_TIMEOUT_SECONDS"); s != "" {
		secs, err := strconv.Atoi(s)
		if err != nil || secs < 1 {
			return nil, fmt.Errorf("FETCH_TIMEOUT_SECONDS must be a positive integer, got %q", s)
		}
		cfg.FetchTimeout = time.Duration(secs) * time.Second
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, s)
	}
	return v, nil
}
