package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, 0, config.RedisDB)
	assert.Equal(t, "analysis:runs", config.RedisStream)
	assert.Equal(t, "localhost:11211", config.MemcacheAddr)
	assert.Equal(t, 30, config.MaxReviews)
	assert.Equal(t, 15, config.MaxScrollAttempts)
	assert.Equal(t, time.Second, config.ScrollDelay)
	assert.Equal(t, time.Hour, config.AnalyzeInterval)
	assert.True(t, config.ChromeHeadless)
	assert.Empty(t, config.Hospitals)

	// Test with environment variables
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "1")
	os.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	os.Setenv("MAX_REVIEWS", "10")
	os.Setenv("MAX_SCROLL_ATTEMPTS", "5")
	os.Setenv("HOSPITALS", "台大醫院, 長庚醫院 ,")
	os.Setenv("CHROME_HEADLESS", "false")

	config = LoadConfig()
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.Equal(t, 10, config.MaxReviews)
	assert.Equal(t, 5, config.MaxScrollAttempts)
	assert.Equal(t, []string{"台大醫院", "長庚醫院"}, config.Hospitals)
	assert.False(t, config.ChromeHeadless)

	// Clean up
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("MEMCACHE_ADDR")
	os.Unsetenv("MAX_REVIEWS")
	os.Unsetenv("MAX_SCROLL_ATTEMPTS")
	os.Unsetenv("HOSPITALS")
	os.Unsetenv("CHROME_HEADLESS")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	config.Hospitals = []string{"台大醫院"}
	assert.NoError(t, config.Validate())

	noHospitals := config
	noHospitals.Hospitals = nil
	assert.Error(t, noHospitals.Validate())

	badReviews := config
	badReviews.MaxReviews = 0
	assert.Error(t, badReviews.Validate())

	badScrolls := config
	badScrolls.MaxScrollAttempts = -1
	assert.Error(t, badScrolls.Validate())

	badDSN := config
	badDSN.DatabaseDSN = ""
	assert.Error(t, badDSN.Validate())
}
