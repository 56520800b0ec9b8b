package app

import (
	"context"
	"fmt"

	"github.com/kapu/azerite-bot-go/internal/adapter"
	"github.com/kapu/azerite-bot-go/internal/api"
	"github.com/kapu/azerite-bot-go/internal/bot"
	"github.com/kapu/azerite-bot-go/internal/config"
	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/iris"
	"github.com/kapu/azerite-bot-go/internal/service/bis"
	"github.com/kapu/azerite-bot-go/internal/service/cache"
	"github.com/kapu/azerite-bot-go/internal/service/database"
	"github.com/kapu/azerite-bot-go/internal/service/report"
	"github.com/kapu/azerite-bot-go/internal/service/resolver"
	"github.com/kapu/azerite-bot-go/internal/util"
	"go.uber.org/zap"
)

// Container bundles the assembled gear services. The chat bot and the
// operator CLI both build on it.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Locators  *report.LocatorTable
	Documents *report.DocumentFetcher
	Source    *report.GearSource
	Results   *bis.ResultCache
	Engine    *bis.Engine
	Scheduler *bis.RefreshScheduler

	Redis  *cache.CacheService
	Sweeps *database.SweepRepository

	fetchBreaker   *util.CircuitBreaker
	browserBreaker *util.CircuitBreaker
	closers        []func()
}

// Build assembles the gear pipeline: locators, report fetch, extraction,
// result cache, query engine and refresh scheduler. Redis and Postgres are
// attached only when enabled; an unreachable store is logged and skipped.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	c.Locators, err = report.DefaultLocators()
	if err != nil {
		return nil, fmt.Errorf("failed to load report locators: %w", err)
	}

	c.fetchBreaker = util.NewCircuitBreaker("report-fetch",
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		logger)
	c.Documents = report.NewDocumentFetcher(report.FetcherConfig{
		URL:         cfg.Report.URL,
		UserAgent:   cfg.Report.UserAgent,
		Timeout:     cfg.Report.FetchTimeout,
		DocumentTTL: cfg.Report.DocumentTTL,
		MaxBytes:    constants.ReportConfig.MaxBytes,
	}, c.fetchBreaker, logger)

	var dynamic *report.DynamicExtractor
	if cfg.Report.Dynamic {
		c.browserBreaker = util.NewCircuitBreaker("report-browser",
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger)
		dynamic = report.NewDynamicExtractor(
			report.NewRodSessionFactory(report.RodConfig{RemoteURL: cfg.Report.RemoteBrowser}, logger),
			cfg.Report.URL,
			cfg.Report.BrowserTimeout,
			c.browserBreaker,
			logger,
		)
	}

	c.Source = report.NewGearSource(c.Locators, c.Documents, report.NewTableExtractor(logger), dynamic, logger)

	var snapshots bis.SnapshotStore
	if cfg.Redis.Enabled {
		redisSvc, redisErr := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if redisErr != nil {
			logger.Warn("Redis unavailable, running with the in-memory cache only", zap.Error(redisErr))
		} else {
			c.Redis = redisSvc
			snapshots = redisSvc
			c.closers = append(c.closers, func() { _ = redisSvc.Close() })
		}
	}

	var recorder bis.SweepRecorder
	if cfg.Postgres.Enabled {
		postgresSvc, pgErr := database.NewPostgresService(ctx, database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, logger)
		if pgErr != nil {
			logger.Warn("PostgreSQL unavailable, sweep runs will not be recorded", zap.Error(pgErr))
		} else {
			c.closers = append(c.closers, func() { _ = postgresSvc.Close() })
			sweeps := database.NewSweepRepository(postgresSvc, logger)
			if err := sweeps.EnsureSchema(ctx); err != nil {
				return nil, err
			}
			c.Sweeps = sweeps
			recorder = sweeps
		}
	}

	c.Results = bis.NewResultCache(c.Source, snapshots, cfg.Cache.EntryTTL, logger)
	c.Engine = bis.NewEngine(resolver.NewNameResolver(), c.Results, c.Locators, cfg.Query.MaxFanOut, logger)
	c.Scheduler = bis.NewRefreshScheduler(c.Results, c.Locators, c.Documents, recorder, bis.SchedulerConfig{
		Interval:     cfg.Cache.SweepInterval,
		RunOnStart:   cfg.Cache.SweepOnStart,
		PerBuildWait: constants.SweepConfig.PerBuildWait,
	}, logger)

	logger.Info("Gear services assembled",
		zap.Int("locators", c.Locators.Len()),
		zap.Bool("dynamic_fallback", dynamic != nil),
		zap.Bool("redis", c.Redis != nil),
		zap.Bool("postgres", c.Sweeps != nil),
	)

	return c, nil
}

// NewBot wires the chat gateway, the optional HTTP API and the scheduler
// around the engine. Shutting the bot down closes the container.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.Engine == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	cfg := c.Config

	var httpAPI bot.HTTPServer
	if cfg.API.Enabled {
		httpAPI = api.NewServer(c.Engine, c.Health, api.Config{
			Addr:         cfg.API.Addr,
			QueryTimeout: cfg.Query.Timeout,
		}, c.Logger)
	}

	return bot.NewBot(&bot.Dependencies{
		Logger:       c.Logger,
		Prefix:       cfg.Bot.Prefix,
		Rooms:        cfg.Kakao.Rooms,
		MaxWorkers:   cfg.Query.MaxWorkers,
		QueryTimeout: cfg.Query.Timeout,
		Source: iris.NewWebSocket(cfg.Iris.WSURL,
			constants.WebSocketConfig.MaxReconnectAttempts,
			constants.WebSocketConfig.ReconnectDelay,
			c.Logger),
		Sender:         iris.NewClient(cfg.Iris.BaseURL, c.Logger),
		MessageAdapter: adapter.NewMessageAdapter(cfg.Bot.Prefix),
		Formatter:      adapter.NewResponseFormatter(cfg.Bot.Prefix),
		Engine:         c.Engine,
		Scheduler:      c.Scheduler,
		API:            httpAPI,
		Cleanup:        c.Close,
	})
}

// Health reports cache size, breaker states and store connectivity. It is
// unhealthy only when an enabled store stops answering.
func (c *Container) Health(ctx context.Context) (map[string]any, bool) {
	status := map[string]any{
		"cache_entries": c.Results.Len(),
		"locators":      c.Locators.Len(),
		"report_fetch":  c.fetchBreaker.State().String(),
	}
	if c.browserBreaker != nil {
		status["report_browser"] = c.browserBreaker.State().String()
	}

	ok := true
	if c.Redis != nil {
		connected := c.Redis.IsConnected(ctx)
		status["redis"] = connected
		ok = ok && connected
	}
	if c.Sweeps != nil {
		if runs, err := c.Sweeps.Recent(ctx, 1); err != nil {
			status["postgres"] = false
			ok = false
		} else {
			status["postgres"] = true
			if len(runs) > 0 {
				status["last_sweep"] = util.FormatKST(runs[0].FinishedAt, "2006-01-02 15:04:05 MST")
			}
		}
	}
	return status, ok
}

// Close releases stores in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
