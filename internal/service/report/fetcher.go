package report

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/util"
	"github.com/kapu/azerite-bot-go/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrDocumentTooLarge reports a report page over the configured size limit.
var ErrDocumentTooLarge = stderrors.New("report document too large")

// FetcherConfig configures the report page fetcher.
type FetcherConfig struct {
	URL         string
	UserAgent   string
	Timeout     time.Duration
	DocumentTTL time.Duration
	MaxBytes    int64
}

func (c *FetcherConfig) defaults() {
	if c.URL == "" {
		c.URL = constants.ReportConfig.URL
	}
	if c.UserAgent == "" {
		c.UserAgent = constants.ReportConfig.UserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = constants.ReportConfig.FetchTimeout
	}
	if c.DocumentTTL <= 0 {
		c.DocumentTTL = constants.CacheTTL.ReportDocument
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = constants.ReportConfig.MaxBytes
	}
}

// DocumentFetcher downloads and parses the shared report page. One parsed
// document serves every build until it goes stale; concurrent callers share a
// single in-flight download.
type DocumentFetcher struct {
	cfg     FetcherConfig
	client  *http.Client
	breaker *util.CircuitBreaker
	group   singleflight.Group
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.RWMutex
	doc       *goquery.Document
	fetchedAt time.Time
	etag      string
	lastMod   string
}

// NewDocumentFetcher creates a fetcher. breaker may be nil.
func NewDocumentFetcher(cfg FetcherConfig, breaker *util.CircuitBreaker, logger *zap.Logger) *DocumentFetcher {
	cfg.defaults()
	return &DocumentFetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: breaker,
		logger:  logger,
		now:     time.Now,
	}
}

// Document returns the parsed report page, downloading it when the cached copy
// is missing or stale. The shared download is detached from any single
// caller's cancellation and bounded by the fetch timeout; each caller still
// stops waiting when its own ctx ends.
func (f *DocumentFetcher) Document(ctx context.Context) (*goquery.Document, error) {
	if doc, ok := f.fresh(); ok {
		return doc, nil
	}

	ch := f.group.DoChan("document", func() (any, error) {
		if doc, ok := f.fresh(); ok {
			return doc, nil
		}
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.cfg.Timeout)
		defer cancel()
		return f.fetch(dctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			f.logger.Debug("Report document download shared", zap.String("url", f.cfg.URL))
		}
		return res.Val.(*goquery.Document), nil
	}
}

// Invalidate marks the cached document stale. The validators are kept so the
// next download can be answered with 304 Not Modified.
func (f *DocumentFetcher) Invalidate() {
	f.mu.Lock()
	f.fetchedAt = time.Time{}
	f.mu.Unlock()
}

func (f *DocumentFetcher) fresh() (*goquery.Document, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.doc == nil || f.fetchedAt.IsZero() {
		return nil, false
	}
	if f.now().Sub(f.fetchedAt) >= f.cfg.DocumentTTL {
		return nil, false
	}
	return f.doc, true
}

func (f *DocumentFetcher) fetch(ctx context.Context) (*goquery.Document, error) {
	if f.breaker != nil && !f.breaker.Allow() {
		return nil, errors.NewExtractionError("report upstream circuit open", "fetch", "", nil)
	}

	doc, err := f.download(ctx)
	if err != nil {
		if f.breaker != nil {
			f.breaker.RecordFailure()
		}
		f.logger.Warn("Report document fetch failed",
			zap.String("url", f.cfg.URL),
			zap.Error(err),
		)
		return nil, errors.NewExtractionError("report fetch failed", "fetch", "", err)
	}
	if f.breaker != nil {
		f.breaker.RecordSuccess()
	}
	return doc, nil
}

func (f *DocumentFetcher) download(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	f.mu.RLock()
	cached := f.doc
	etag, lastMod := f.etag, f.lastMod
	f.mu.RUnlock()

	if cached != nil {
		if etag != "" {
			req.Header.Set("If-None-Match", etag)
		}
		if lastMod != "" {
			req.Header.Set("If-Modified-Since", lastMod)
		}
	}

	start := f.now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && cached != nil {
		f.mu.Lock()
		f.fetchedAt = f.now()
		f.mu.Unlock()
		f.logger.Info("Report document not modified", zap.String("url", f.cfg.URL))
		return cached, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrDocumentTooLarge, f.cfg.MaxBytes)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTML parse failed: %w", err)
	}

	f.mu.Lock()
	f.doc = doc
	f.fetchedAt = f.now()
	f.etag = resp.Header.Get("ETag")
	f.lastMod = resp.Header.Get("Last-Modified")
	f.mu.Unlock()

	f.logger.Info("Report document fetched",
		zap.String("url", f.cfg.URL),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", f.now().Sub(start)),
	)

	return doc, nil
}
