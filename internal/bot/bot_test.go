package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/iris"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakeSource struct {
	mu           sync.Mutex
	callback     iris.MessageCallback
	connected    chan struct{}
	disconnected bool
}

func (f *fakeSource) OnMessage(cb iris.MessageCallback) {
	f.mu.Lock()
	f.callback = cb
	f.mu.Unlock()
}

func (f *fakeSource) Connect(context.Context) error {
	close(f.connected)
	return nil
}

func (f *fakeSource) Disconnect() error {
	f.mu.Lock()
	f.disconnected = true
	f.mu.Unlock()
	return nil
}

func (f *fakeSource) push(room, text string) {
	f.mu.Lock()
	cb := f.callback
	f.mu.Unlock()
	cb(&iris.Message{Room: room, Msg: text})
}

type reply struct{ room, text string }

type fakeSender struct {
	replies chan reply
}

func (f *fakeSender) SendMessage(_ context.Context, room, message string) error {
	f.replies <- reply{room: room, text: message}
	return nil
}

type fakeEngine struct{}

func (fakeEngine) Query(_ context.Context, q domain.BISQuery) domain.QueryResult {
	if q.Class == "x" {
		return domain.NewErrorResult("Invalid Class", "No class matches 'x'.")
	}
	return domain.QueryResult{
		Kind:  domain.ResultLeaf,
		Class: "Mage", Spec: "Fire",
		Gear: domain.GearSet{{Slot: "Head", Name: "Crown"}},
	}
}

type fakeRunner struct {
	mu      sync.Mutex
	started bool
	stopped bool
}

func (f *fakeRunner) Start(context.Context) { f.mu.Lock(); f.started = true; f.mu.Unlock() }
func (f *fakeRunner) Stop()                 { f.mu.Lock(); f.stopped = true; f.mu.Unlock() }

func TestBotAnswersAllowedRooms(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &fakeSource{connected: make(chan struct{})}
	sender := &fakeSender{replies: make(chan reply, 4)}
	runner := &fakeRunner{}
	cleaned := false

	b, err := NewBot(&Dependencies{
		Logger:     zap.NewNop(),
		Prefix:     "!",
		Rooms:      []string{"raid"},
		MaxWorkers: 2,
		Source:     source,
		Sender:     sender,
		Engine:     fakeEngine{},
		Scheduler:  runner,
		Cleanup:    func() { cleaned = true },
	})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Start(ctx) }()

	select {
	case <-source.connected:
	case <-time.After(5 * time.Second):
		t.Fatal("bot never connected")
	}

	source.push("lobby", "!bis mage")
	source.push("raid", "hello there")
	source.push("raid", "!bis mage fire")

	select {
	case r := <-sender.replies:
		if r.room != "raid" || !strings.Contains(r.text, "Crown") {
			t.Fatalf("unexpected reply %+v", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply")
	}

	source.push("raid", "!bis x")
	select {
	case r := <-sender.replies:
		if !strings.HasPrefix(r.text, "❌ Invalid Class") {
			t.Fatalf("unexpected error reply %q", r.text)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error reply")
	}

	if err := b.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case r := <-sender.replies:
		t.Fatalf("unexpected extra reply %+v", r)
	default:
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if !runner.started || !runner.stopped || !source.disconnected || !cleaned {
		t.Fatalf("lifecycle incomplete: started=%v stopped=%v disconnected=%v cleaned=%v",
			runner.started, runner.stopped, source.disconnected, cleaned)
	}

	// messages after shutdown are dropped
	source.push("raid", "!bis mage")
}

func TestNewBotRequiresCollaborators(t *testing.T) {
	if _, err := NewBot(nil); err == nil {
		t.Fatal("expected error for nil dependencies")
	}
	if _, err := NewBot(&Dependencies{Logger: zap.NewNop()}); err == nil {
		t.Fatal("expected error without source, sender and engine")
	}
}
