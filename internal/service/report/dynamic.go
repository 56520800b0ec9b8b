package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/util"
	"go.uber.org/zap"
)

// BrowserSession is one disposable headless browser tab.
type BrowserSession interface {
	Open(ctx context.Context, url string) error
	// Reveal expands the collapsed gear section of a build and returns its
	// outer HTML once visible.
	Reveal(ctx context.Context, section string) (string, error)
	Close() error
}

// SessionFactory acquires a fresh browser session.
type SessionFactory func(ctx context.Context) (BrowserSession, error)

// DynamicExtractor renders the report page in a headless browser when the
// static HTML does not contain the gear table.
type DynamicExtractor struct {
	newSession SessionFactory
	url        string
	timeout    time.Duration
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

// NewDynamicExtractor creates a DynamicExtractor. breaker may be nil.
func NewDynamicExtractor(newSession SessionFactory, url string, timeout time.Duration, breaker *util.CircuitBreaker, logger *zap.Logger) *DynamicExtractor {
	if timeout <= 0 {
		timeout = constants.ReportConfig.BrowserTimeout
	}
	return &DynamicExtractor{
		newSession: newSession,
		url:        url,
		timeout:    timeout,
		breaker:    breaker,
		logger:     logger,
	}
}

// ExtractDynamic never fails. The browser session is released on every path,
// including timeouts and panics inside the driver.
func (d *DynamicExtractor) ExtractDynamic(ctx context.Context, loc Locator) (gear domain.GearSet) {
	gear = domain.GearSet{}
	if d == nil || d.newSession == nil || loc.Section == "" {
		return gear
	}
	if d.breaker != nil && !d.breaker.Allow() {
		d.logger.Debug("Dynamic extraction skipped, browser circuit open",
			zap.String("build", loc.Key.String()),
		)
		return gear
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	html, err := d.render(ctx, loc)
	if err != nil {
		if d.breaker != nil {
			d.breaker.RecordFailure()
		}
		d.logger.Warn("Dynamic extraction failed",
			zap.String("build", loc.Key.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return gear
	}
	if d.breaker != nil {
		d.breaker.RecordSuccess()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		d.logger.Warn("Dynamic section parse failed",
			zap.String("build", loc.Key.String()),
			zap.Error(err),
		)
		return gear
	}

	table := doc.Find(gearTableSelector).First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	gear = ParseGearTable(table)

	d.logger.Info("Dynamic extraction finished",
		zap.String("build", loc.Key.String()),
		zap.Int("items", len(gear)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return gear
}

func (d *DynamicExtractor) render(ctx context.Context, loc Locator) (html string, err error) {
	session, err := d.newSession(ctx)
	if err != nil {
		return "", fmt.Errorf("acquire browser session: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser session panic: %v", r)
		}
		if closeErr := session.Close(); closeErr != nil {
			d.logger.Debug("Browser session close failed", zap.Error(closeErr))
		}
	}()

	if err := session.Open(ctx, d.url); err != nil {
		return "", fmt.Errorf("open report: %w", err)
	}
	return session.Reveal(ctx, loc.Section)
}

// RodConfig configures the rod-backed browser sessions.
type RodConfig struct {
	// RemoteURL is the DevTools WebSocket URL of an external Chrome. Empty
	// launches a local headless Chrome per session.
	RemoteURL string
}

// NewRodSessionFactory returns a SessionFactory backed by go-rod with stealth
// patches applied to every page.
func NewRodSessionFactory(cfg RodConfig, logger *zap.Logger) SessionFactory {
	return func(ctx context.Context) (BrowserSession, error) {
		controlURL := cfg.RemoteURL
		var l *launcher.Launcher
		if controlURL == "" {
			l = launcher.New().
				Context(ctx).
				Headless(true).
				Set("disable-blink-features", "AutomationControlled")
			u, err := l.Launch()
			if err != nil {
				return nil, fmt.Errorf("launch chrome: %w", err)
			}
			controlURL = u
		}

		browser := rod.New().ControlURL(controlURL).Context(ctx)
		if err := browser.Connect(); err != nil {
			if l != nil {
				l.Kill()
				l.Cleanup()
			}
			return nil, fmt.Errorf("connect chrome: %w", err)
		}

		page, err := stealth.Page(browser)
		if err != nil {
			_ = browser.Close()
			if l != nil {
				l.Kill()
				l.Cleanup()
			}
			return nil, fmt.Errorf("create page: %w", err)
		}

		logger.Debug("Browser session acquired", zap.Bool("remote", cfg.RemoteURL != ""))
		return &rodSession{
			launcher: l,
			browser:  browser,
			page:     page,
			remote:   cfg.RemoteURL != "",
		}, nil
	}
}

type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	remote   bool
}

func (s *rodSession) Open(ctx context.Context, url string) error {
	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (s *rodSession) Reveal(ctx context.Context, section string) (string, error) {
	page := s.page.Context(ctx)
	root := fmt.Sprintf(`[id=%q]`, section)

	// The player block and its gear sub-section are both collapsed by default.
	for _, toggle := range []string{root + " > h2.toggle", root + " div.player-section.gear > h3.toggle"} {
		has, el, err := page.Has(toggle)
		if err != nil {
			return "", fmt.Errorf("find toggle %s: %w", toggle, err)
		}
		if !has {
			continue
		}
		open, err := el.Attribute("class")
		if err == nil && open != nil && strings.Contains(*open, "open") {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return "", fmt.Errorf("click toggle %s: %w", toggle, err)
		}
	}

	gear, err := page.Element(root + " div.player-section.gear")
	if err != nil {
		return "", fmt.Errorf("find gear section: %w", err)
	}
	table, err := gear.Element("table")
	if err != nil {
		return "", fmt.Errorf("find gear table: %w", err)
	}
	if err := table.WaitVisible(); err != nil {
		return "", fmt.Errorf("wait gear table: %w", err)
	}
	return gear.HTML()
}

func (s *rodSession) Close() error {
	var firstErr error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			firstErr = err
		}
	}
	if s.browser != nil && !s.remote {
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
	return firstErr
}
