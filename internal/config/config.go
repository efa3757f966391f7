package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig collects every tunable in one place. Only Load-time errors are
// fatal; everything downstream degrades instead of crashing.
type AppConfig struct {
	// City being forecast. Single-city by design.
	City    string
	Country string

	// OpenAQ API.
	OpenAQBaseURL string
	Parameter     string
	DateFrom      time.Time
	DateTo        time.Time

	// File paths.
	RawDataPath       string
	ProcessedDataPath string
	ModelPath         string

	// Model settings.
	TestFraction   float64 // newer fraction held out by the chronological split
	RidgeLambda    float64
	R2GapThreshold float64 // train/test R2 gap that flags overfitting

	// Synthetic fallback.
	SampleLocation string
	SampleSeed     int64

	// HTTP.
	HTTPTimeout    time.Duration
	CollectTimeout time.Duration
	Port           string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.City = getenvDefault("AIR_CITY", "Skopje")
	cfg.Country = getenvDefault("AIR_COUNTRY", "MK")

	cfg.OpenAQBaseURL = getenvDefault("OPENAQ_BASE_URL", "https://api.openaq.org/v2")
	cfg.Parameter = getenvDefault("AIR_PARAMETER", "pm25")

	from, err := time.Parse("2006-01-02", getenvDefault("AIR_DATE_FROM", "2022-01-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid AIR_DATE_FROM: %w", err)
	}
	to, err := time.Parse("2006-01-02", getenvDefault("AIR_DATE_TO", "2024-12-31"))
	if err != nil {
		return nil, fmt.Errorf("invalid AIR_DATE_TO: %w", err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("AIR_DATE_TO is before AIR_DATE_FROM")
	}
	cfg.DateFrom = from
	cfg.DateTo = to

	cfg.RawDataPath = getenvDefault("RAW_DATA_PATH", "data/raw/skopje_pm25_raw.csv")
	cfg.ProcessedDataPath = getenvDefault("PROCESSED_DATA_PATH", "data/processed/skopje_pm25_features.csv")
	cfg.ModelPath = getenvDefault("MODEL_PATH", "models/model.json")

	cfg.TestFraction = getenvFloat("TEST_FRACTION", 0.2)
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		return nil, fmt.Errorf("TEST_FRACTION must be in (0, 1), got %v", cfg.TestFraction)
	}
	cfg.RidgeLambda = getenvFloat("RIDGE_LAMBDA", 1.0)
	cfg.R2GapThreshold = getenvFloat("R2_GAP_THRESHOLD", 0.1)

	cfg.SampleLocation = getenvDefault("SAMPLE_LOCATION", "Centar")
	cfg.SampleSeed = int64(getenvInt("SAMPLE_SEED", 42))

	httpTimeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = httpTimeout

	collectTimeout, err := time.ParseDuration(getenvDefault("COLLECT_TIMEOUT", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid COLLECT_TIMEOUT: %w", err)
	}
	cfg.CollectTimeout = collectTimeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
