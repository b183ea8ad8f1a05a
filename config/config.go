package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// Every path and threshold flows through here; components never reach for
// module-level constants.
type Config struct {
	ResultsDir string
	ChromeBin  string

	HTTPTimeoutMs int
	RateLimitMs   int
	MaxPages      int

	MinTrainingRecords int
	ForestTrees        int
	ForestMinLeaf      int
	ForestMaxDepth     int

	PostgresDSN string

	ServeAddr string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ResultsDir: getEnv("RESULTS_DIR", "./results"),
		ChromeBin:  getEnv("CHROME_BIN", ""),

		HTTPTimeoutMs: getEnvInt("HTTP_TIMEOUT_MS", 10000),
		RateLimitMs:   getEnvInt("RATE_LIMIT_MS", 500),
		MaxPages:      getEnvInt("MAX_PAGES", 0), // 0 = all detected pages

		MinTrainingRecords: getEnvInt("MIN_TRAINING_RECORDS", 10),
		ForestTrees:        getEnvInt("FOREST_TREES", 200),
		ForestMinLeaf:      getEnvInt("FOREST_MIN_LEAF", 2),
		ForestMaxDepth:     getEnvInt("FOREST_MAX_DEPTH", 16),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		ServeAddr: getEnv("SERVE_ADDR", ":8080"),
	}
}

// RawResultPath returns the per-(site, brand) raw output file path.
func (c *Config) RawResultPath(site, brand string) string {
	return filepath.Join(c.ResultsDir, site+"_"+brand+".json")
}

// CombinedPath returns the combined dataset file path for a brand.
func (c *Config) CombinedPath(brand string) string {
	return filepath.Join(c.ResultsDir, brand+"_combined.json")
}

// CombinedCSVPath returns the CSV export path for a brand's combined dataset.
func (c *Config) CombinedCSVPath(brand string) string {
	return filepath.Join(c.ResultsDir, brand+"_combined.csv")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
