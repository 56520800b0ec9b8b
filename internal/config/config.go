package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/azerite-bot-go/internal/constants"
)

type Config struct {
	Iris     IrisConfig
	Kakao    KakaoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Report   ReportConfig
	Cache    CacheConfig
	Query    QueryConfig
	API      APIConfig
	Logging  LoggingConfig
	Bot      BotConfig
}

type IrisConfig struct {
	BaseURL string
	WSURL   string
}

// KakaoConfig lists the rooms the bot answers in. An empty list serves every room.
type KakaoConfig struct {
	Rooms []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type ReportConfig struct {
	URL            string
	UserAgent      string
	FetchTimeout   time.Duration
	DocumentTTL    time.Duration
	Dynamic        bool
	BrowserTimeout time.Duration
	RemoteBrowser  string
}

type CacheConfig struct {
	EntryTTL      time.Duration
	SweepInterval time.Duration
	SweepOnStart  bool
}

type QueryConfig struct {
	MaxFanOut  int
	MaxWorkers int
	Timeout    time.Duration
}

type APIConfig struct {
	Enabled bool
	Addr    string
}

type LoggingConfig struct {
	Level string
	File  string
}

type BotConfig struct {
	Prefix string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Iris: IrisConfig{
			BaseURL: getEnv("IRIS_BASE_URL", "http://localhost:3000"),
			WSURL:   getEnv("IRIS_WS_URL", "ws://localhost:3000/ws"),
		},
		Kakao: KakaoConfig{
			Rooms: parseCommaSeparated(getEnv("KAKAO_ROOMS", "")),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Enabled:  getEnvBool("POSTGRES_ENABLED", false),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "azerite"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "azerite"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Report: ReportConfig{
			URL:            getEnv("REPORT_URL", constants.ReportConfig.URL),
			UserAgent:      getEnv("REPORT_USER_AGENT", constants.ReportConfig.UserAgent),
			FetchTimeout:   getEnvDuration("REPORT_FETCH_TIMEOUT", constants.ReportConfig.FetchTimeout),
			DocumentTTL:    getEnvDuration("REPORT_DOCUMENT_TTL", constants.CacheTTL.ReportDocument),
			Dynamic:        getEnvBool("REPORT_DYNAMIC_ENABLED", true),
			BrowserTimeout: getEnvDuration("REPORT_BROWSER_TIMEOUT", constants.ReportConfig.BrowserTimeout),
			RemoteBrowser:  getEnv("REPORT_REMOTE_BROWSER", ""),
		},
		Cache: CacheConfig{
			EntryTTL:      getEnvDuration("BIS_CACHE_TTL", constants.CacheTTL.BISEntry),
			SweepInterval: getEnvDuration("BIS_SWEEP_INTERVAL", constants.SweepConfig.Interval),
			SweepOnStart:  getEnvBool("BIS_SWEEP_ON_START", constants.SweepConfig.RunOnStart),
		},
		Query: QueryConfig{
			MaxFanOut:  getEnvInt("QUERY_MAX_FANOUT", constants.QueryConfig.MaxFanOut),
			MaxWorkers: getEnvInt("QUERY_MAX_WORKERS", constants.QueryConfig.MaxWorkers),
			Timeout:    getEnvDuration("QUERY_TIMEOUT", constants.QueryConfig.RequestTimeout),
		},
		API: APIConfig{
			Enabled: getEnvBool("API_ENABLED", false),
			Addr:    getEnv("API_ADDR", ":8080"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Bot: BotConfig{
			Prefix: getEnv("BOT_PREFIX", "!"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Iris.BaseURL == "" {
		return fmt.Errorf("IRIS_BASE_URL is required")
	}
	if c.Iris.WSURL == "" {
		return fmt.Errorf("IRIS_WS_URL is required")
	}
	if c.Report.URL == "" {
		return fmt.Errorf("REPORT_URL is required")
	}
	if c.Report.FetchTimeout <= 0 {
		return fmt.Errorf("REPORT_FETCH_TIMEOUT must be positive")
	}
	if c.Cache.EntryTTL <= 0 {
		return fmt.Errorf("BIS_CACHE_TTL must be positive")
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("BIS_SWEEP_INTERVAL must be positive")
	}
	if c.Query.MaxFanOut <= 0 || c.Query.MaxWorkers <= 0 {
		return fmt.Errorf("QUERY_MAX_FANOUT and QUERY_MAX_WORKERS must be positive")
	}
	if c.Postgres.Enabled && c.Postgres.Database == "" {
		return fmt.Errorf("POSTGRES_DB is required when POSTGRES_ENABLED is set")
	}
	if c.API.Enabled && c.API.Addr == "" {
		return fmt.Errorf("API_ADDR is required when API_ENABLED is set")
	}
	if c.Bot.Prefix == "" {
		return fmt.Errorf("BOT_PREFIX is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration text ("90s", "12h") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
