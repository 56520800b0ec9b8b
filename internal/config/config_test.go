package config

import (
	"testing"
	"time"

	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"REPORT_URL", "BIS_CACHE_TTL", "KAKAO_ROOMS", "REDIS_ENABLED", "API_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, constants.ReportConfig.URL, cfg.Report.URL)
	require.Equal(t, 12*time.Hour, cfg.Cache.EntryTTL)
	require.Empty(t, cfg.Kakao.Rooms)
	require.False(t, cfg.Redis.Enabled)
	require.Equal(t, "!", cfg.Bot.Prefix)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAKAO_ROOMS", " raid , , mythic ")
	t.Setenv("BIS_CACHE_TTL", "6h")
	t.Setenv("REPORT_FETCH_TIMEOUT", "45")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("QUERY_MAX_FANOUT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"raid", "mythic"}, cfg.Kakao.Rooms)
	require.Equal(t, 6*time.Hour, cfg.Cache.EntryTTL)
	require.Equal(t, 45*time.Second, cfg.Report.FetchTimeout)
	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, constants.QueryConfig.MaxFanOut, cfg.Query.MaxFanOut)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Iris:   IrisConfig{BaseURL: "http://iris", WSURL: "ws://iris/ws"},
			Report: ReportConfig{URL: "https://report", FetchTimeout: time.Second},
			Cache:  CacheConfig{EntryTTL: time.Hour, SweepInterval: time.Hour},
			Query:  QueryConfig{MaxFanOut: 1, MaxWorkers: 1},
			Bot:    BotConfig{Prefix: "!"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing iris", func(c *Config) { c.Iris.BaseURL = "" }},
		{"missing report url", func(c *Config) { c.Report.URL = "" }},
		{"zero ttl", func(c *Config) { c.Cache.EntryTTL = 0 }},
		{"zero fan out", func(c *Config) { c.Query.MaxFanOut = 0 }},
		{"postgres without db", func(c *Config) { c.Postgres.Enabled = true }},
		{"api without addr", func(c *Config) { c.API.Enabled = true }},
		{"no prefix", func(c *Config) { c.Bot.Prefix = "" }},
	}
	for _, tt := range tests {
		cfg := valid()
		tt.mutate(cfg)
		require.Error(t, cfg.Validate(), tt.name)
	}
}
