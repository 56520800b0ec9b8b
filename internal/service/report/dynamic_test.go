package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/util"
	"go.uber.org/zap"
)

type fakeSession struct {
	html      string
	openErr   error
	revealErr error
	panicMsg  string
	block     bool

	openedURL string
	revealed  string
	closed    int
}

func (s *fakeSession) Open(_ context.Context, url string) error {
	s.openedURL = url
	return s.openErr
}

func (s *fakeSession) Reveal(ctx context.Context, section string) (string, error) {
	s.revealed = section
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.html, s.revealErr
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

func factoryFor(s *fakeSession) SessionFactory {
	return func(context.Context) (BrowserSession, error) { return s, nil }
}

var dynamicLocator = Locator{
	Key:     domain.BuildKey{Class: "Mage", Spec: "Fire", HeroTalent: "Sunfury"},
	Section: "player16",
}

func TestExtractDynamicParsesRevealedSection(t *testing.T) {
	session := &fakeSession{html: `<div class="player-section gear"><div class="toggle-content"><table>` +
		headerRow + itemRow("Raid", "trinket1", "Spymaster's Web", "") + `</table></div></div>`}
	d := NewDynamicExtractor(factoryFor(session), "https://report.example", time.Second, nil, zap.NewNop())

	gear := d.ExtractDynamic(context.Background(), dynamicLocator)
	item, ok := gear.Get("Trinket1")
	if !ok || item.Name != "Spymaster's Web" {
		t.Fatalf("unexpected gear %v", gear)
	}
	if session.openedURL != "https://report.example" || session.revealed != "player16" {
		t.Fatalf("session opened %q revealed %q", session.openedURL, session.revealed)
	}
	if session.closed != 1 {
		t.Fatalf("session closed %d times", session.closed)
	}
}

func TestExtractDynamicReleasesSessionOnEveryPath(t *testing.T) {
	tests := map[string]*fakeSession{
		"no table":     {html: `<div>nothing</div>`},
		"open error":   {openErr: errors.New("navigation failed")},
		"reveal error": {revealErr: errors.New("toggle missing")},
		"panic":        {panicMsg: "driver exploded"},
		"timeout":      {block: true},
	}

	for name, session := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewDynamicExtractor(factoryFor(session), "https://report.example", 20*time.Millisecond, nil, zap.NewNop())
			gear := d.ExtractDynamic(context.Background(), dynamicLocator)
			if gear == nil || len(gear) != 0 {
				t.Fatalf("expected non-nil empty gear, got %#v", gear)
			}
			if session.closed != 1 {
				t.Fatalf("session closed %d times", session.closed)
			}
		})
	}
}

func TestExtractDynamicFactoryError(t *testing.T) {
	d := NewDynamicExtractor(func(context.Context) (BrowserSession, error) {
		return nil, errors.New("no chrome")
	}, "https://report.example", time.Second, nil, zap.NewNop())

	if gear := d.ExtractDynamic(context.Background(), dynamicLocator); len(gear) != 0 {
		t.Fatalf("expected empty gear, got %v", gear)
	}
}

func TestExtractDynamicSkipsWhenBreakerOpen(t *testing.T) {
	breaker := util.NewCircuitBreaker("browser", 1, time.Hour, zap.NewNop())
	breaker.RecordFailure()

	calls := 0
	d := NewDynamicExtractor(func(context.Context) (BrowserSession, error) {
		calls++
		return &fakeSession{}, nil
	}, "https://report.example", time.Second, breaker, zap.NewNop())

	d.ExtractDynamic(context.Background(), dynamicLocator)
	if calls != 0 {
		t.Fatalf("expected no browser session while the breaker is open, got %d", calls)
	}
}
