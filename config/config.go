package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	apperr "github.com/lalalalala1357/hospital-review-analysis/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Database configuration
	DatabaseDSN string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Hospitals to analyze, in order
	Hospitals []string

	// Analysis configuration
	AnalyzeInterval   time.Duration
	MaxReviews        int
	MaxScrollAttempts int
	ScrollDelay       time.Duration
	ExtractionTimeout time.Duration
	CooldownWindow    time.Duration

	// Browser configuration
	ChromeHeadless bool
	ChromeProxy    string
	MapsBaseURL    string

	// Sentiment scorer configuration
	SentimentEndpoint string
	SentimentAPIKey   string
	SentimentTimeout  time.Duration

	// Export configuration
	ExportPath string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	analyzeInterval, _ := strconv.Atoi(getEnv("ANALYZE_INTERVAL_SECONDS", "3600"))
	maxReviews, _ := strconv.Atoi(getEnv("MAX_REVIEWS", "30"))
	maxScrolls, _ := strconv.Atoi(getEnv("MAX_SCROLL_ATTEMPTS", "15"))
	scrollDelayMs, _ := strconv.Atoi(getEnv("SCROLL_DELAY_MS", "1000"))
	extractionTimeout, _ := strconv.Atoi(getEnv("EXTRACTION_TIMEOUT_SECONDS", "120"))
	cooldown, _ := strconv.Atoi(getEnv("COOLDOWN_SECONDS", "300"))
	sentimentTimeout, _ := strconv.Atoi(getEnv("SENTIMENT_TIMEOUT_SECONDS", "15"))
	headless, _ := strconv.ParseBool(getEnv("CHROME_HEADLESS", "true"))

	return Config{
		DatabaseDSN:          getEnv("MYSQL_DSN", "root:password@tcp(localhost:3306)/hospital_reviews?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "analysis:runs"),
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		Hospitals:            splitList(getEnv("HOSPITALS", "")),
		AnalyzeInterval:      time.Duration(analyzeInterval) * time.Second,
		MaxReviews:           maxReviews,
		MaxScrollAttempts:    maxScrolls,
		ScrollDelay:          time.Duration(scrollDelayMs) * time.Millisecond,
		ExtractionTimeout:    time.Duration(extractionTimeout) * time.Second,
		CooldownWindow:       time.Duration(cooldown) * time.Second,
		ChromeHeadless:       headless,
		ChromeProxy:          getEnv("CHROME_PROXY", ""),
		MapsBaseURL:          getEnv("MAPS_BASE_URL", "https://www.google.com.tw/maps/search/"),
		SentimentEndpoint:    getEnv("SENTIMENT_ENDPOINT", "http://localhost:8600"),
		SentimentAPIKey:      getEnv("SENTIMENT_API_KEY", ""),
		SentimentTimeout:     time.Duration(sentimentTimeout) * time.Second,
		ExportPath:           getEnv("EXPORT_PATH", "data/google_reviews.csv"),
		Environment:          getEnv("ANALYSIS_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return apperr.NewConfiguration("MYSQL_DSN must not be empty", nil)
	}
	if c.MaxReviews <= 0 {
		return apperr.NewConfiguration("MAX_REVIEWS must be positive", nil)
	}
	if c.MaxScrollAttempts <= 0 {
		return apperr.NewConfiguration("MAX_SCROLL_ATTEMPTS must be positive", nil)
	}
	if c.AnalyzeInterval <= 0 {
		return apperr.NewConfiguration("ANALYZE_INTERVAL_SECONDS must be positive", nil)
	}
	if len(c.Hospitals) == 0 {
		return apperr.NewConfiguration("HOSPITALS must list at least one hospital name", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated list, dropping empty entries
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
