package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLLMConfig_DefaultsToLocal(t *testing.T) {
	cfg, err := LoadLLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.LocalBaseURL)
}

func TestLoadLLMConfig_AcceptsCloud(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "cloud")

	cfg, err := LoadLLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "cloud", cfg.Provider)
}

func TestLoadLLMConfig_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "anthropic")

	_, err := LoadLLMConfig()
	assert.Error(t, err)
}

func TestLoadCollectorConfig_Defaults(t *testing.T) {
	cfg := LoadCollectorConfig()
	assert.Equal(t, []string{"London"}, cfg.WeatherLocations)
	assert.Equal(t, []string{"market"}, cfg.StockSymbols)
	assert.Equal(t, "trending", cfg.CryptoMode)
}

func TestLoadCollectorConfig_ReadsOverrides(t *testing.T) {
	t.Setenv("WEATHER_LOCATIONS", "Paris,Tokyo")
	t.Setenv("RAPIDAPI_KEY", "secret")

	cfg := LoadCollectorConfig()
	assert.Equal(t, []string{"Paris", "Tokyo"}, cfg.WeatherLocations)
	assert.Equal(t, "secret", cfg.RapidAPIKey)
}

func TestLoadSchedulerConfig_Defaults(t *testing.T) {
	cfg, err := LoadSchedulerConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Hour)
	assert.Equal(t, 0, cfg.Minute)
	assert.Equal(t, []string{"news", "weather", "crypto", "github"}, cfg.Sources)
}

func TestLoadSchedulerConfig_RejectsOutOfRangeHour(t *testing.T) {
	t.Setenv("DAILY_HOUR", "24")

	_, err := LoadSchedulerConfig()
	assert.Error(t, err)
}

func TestLoadSchedulerConfig_RejectsOutOfRangeMinute(t *testing.T) {
	t.Setenv("DAILY_MINUTE", "60")

	_, err := LoadSchedulerConfig()
	assert.Error(t, err)
}

func TestLoadDatabaseConfig_RequiresURL(t *testing.T) {
	_, err := LoadDatabaseConfig()
	assert.Error(t, err)
}

func TestLoadDatabaseConfig_ReadsURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/research")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/research", cfg.URL)
}

func TestLoadFallbackConfig_DefaultsToEmptyPath(t *testing.T) {
	cfg := LoadFallbackConfig()
	assert.Empty(t, cfg.OverridePath)
}

func TestRequestTimeout_Default(t *testing.T) {
	assert.Equal(t, 30*time.Second, RequestTimeout())
}

func TestRequestTimeout_ReadsOverride(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "5s")
	assert.Equal(t, 5*time.Second, RequestTimeout())
}
