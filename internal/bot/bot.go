// Package bot runs the chat loop: inbound gateway messages become commands
// executed on a bounded worker pool.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kapu/azerite-bot-go/internal/adapter"
	"github.com/kapu/azerite-bot-go/internal/command"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/iris"
	"github.com/kapu/azerite-bot-go/internal/util"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// MessageSource delivers inbound chat messages.
type MessageSource interface {
	OnMessage(callback iris.MessageCallback)
	Connect(ctx context.Context) error
	Disconnect() error
}

// Sender posts replies back to a room.
type Sender interface {
	SendMessage(ctx context.Context, room, message string) error
}

// Runner is a background component started with the bot, such as the
// refresh scheduler.
type Runner interface {
	Start(ctx context.Context)
	Stop()
}

// HTTPServer is the optional query API.
type HTTPServer interface {
	Start()
	Shutdown(ctx context.Context) error
}

type Dependencies struct {
	Logger         *zap.Logger
	Prefix         string
	Rooms          []string
	MaxWorkers     int
	QueryTimeout   time.Duration
	Source         MessageSource
	Sender         Sender
	MessageAdapter *adapter.MessageAdapter
	Formatter      *adapter.ResponseFormatter
	Engine         command.QueryEngine
	Scheduler      Runner
	API            HTTPServer
	// Cleanup runs last during Shutdown.
	Cleanup func()
}

type Bot struct {
	deps       *Dependencies
	logger     *zap.Logger
	dispatcher command.Dispatcher
	workers    *pool.ContextPool
	cancel     context.CancelFunc

	mu      sync.RWMutex
	started bool
	closing bool
	once    sync.Once
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, fmt.Errorf("bot dependencies must not be nil")
	}
	if deps.Source == nil || deps.Sender == nil || deps.Engine == nil {
		return nil, fmt.Errorf("bot requires a message source, sender and query engine")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.MessageAdapter == nil {
		deps.MessageAdapter = adapter.NewMessageAdapter(deps.Prefix)
	}
	if deps.Formatter == nil {
		deps.Formatter = adapter.NewResponseFormatter(deps.Prefix)
	}
	if deps.MaxWorkers <= 0 {
		deps.MaxWorkers = 4
	}
	if deps.QueryTimeout <= 0 {
		deps.QueryTimeout = 2 * time.Minute
	}

	b := &Bot{deps: deps, logger: deps.Logger}

	cmdDeps := &command.Dependencies{
		Engine:      deps.Engine,
		Formatter:   deps.Formatter,
		SendMessage: b.sendMessage,
		SendError:   b.sendMessage,
		Logger:      deps.Logger,
	}
	registry := command.NewRegistry()
	registry.Register(command.NewBISCommand(cmdDeps))
	registry.Register(command.NewHelpCommand(cmdDeps))
	b.dispatcher = command.NewSequentialDispatcher(registry, command.DefaultNormalize)

	b.logger.Info("Commands registered", zap.Strings("commands", registry.Names()))
	return b, nil
}

// Start connects to the gateway and runs until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		cancel()
		return fmt.Errorf("bot already started")
	}
	b.started = true
	b.cancel = cancel
	b.workers = pool.New().WithContext(runCtx).WithMaxGoroutines(b.deps.MaxWorkers)
	b.mu.Unlock()

	if b.deps.Scheduler != nil {
		b.deps.Scheduler.Start(runCtx)
	}
	if b.deps.API != nil {
		b.deps.API.Start()
	}

	b.deps.Source.OnMessage(b.handleMessage)
	if err := b.deps.Source.Connect(runCtx); err != nil {
		// the source keeps retrying on its own
		b.logger.Warn("Initial gateway connection failed", zap.Error(err))
	}

	b.logger.Info("Bot running",
		zap.Int("workers", b.deps.MaxWorkers),
		zap.Strings("rooms", b.deps.Rooms),
	)

	<-runCtx.Done()
	return nil
}

func (b *Bot) handleMessage(message *iris.Message) {
	if message == nil || !b.roomAllowed(message.Room) {
		return
	}

	parsed := b.deps.MessageAdapter.ParseMessage(message)
	if parsed.Type == domain.CommandUnknown {
		return
	}

	cmdCtx := domain.NewCommandContext(message.Room, message.Room, message.SenderName(), parsed.RawMessage)
	event := command.CommandEvent{Type: parsed.Type, Params: parsed.Params}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closing || b.workers == nil {
		return
	}

	b.workers.Go(func(ctx context.Context) error {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Command panicked", zap.Any("panic", r), zap.String("room", cmdCtx.Room))
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, b.deps.QueryTimeout)
		defer cancel()

		if _, err := b.dispatcher.Publish(ctx, cmdCtx, event); err != nil {
			b.logger.Error("Command failed",
				zap.String("command", parsed.Type.String()),
				zap.String("room", cmdCtx.Room),
				zap.Error(err),
			)
		}
		// command errors never cancel sibling work
		return nil
	})
}

func (b *Bot) roomAllowed(room string) bool {
	return len(b.deps.Rooms) == 0 || util.Contains(b.deps.Rooms, room)
}

func (b *Bot) sendMessage(room, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return b.deps.Sender.SendMessage(ctx, room, message)
}

// Shutdown stops intake, waits for in-flight commands (bounded by ctx) and
// stops background components.
func (b *Bot) Shutdown(ctx context.Context) error {
	var shutdownErr error
	b.once.Do(func() {
		if err := b.deps.Source.Disconnect(); err != nil {
			b.logger.Warn("Failed to disconnect gateway", zap.Error(err))
		}

		b.mu.Lock()
		b.closing = true
		workers := b.workers
		cancel := b.cancel
		b.mu.Unlock()

		if workers != nil {
			done := make(chan struct{})
			go func() {
				_ = workers.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-ctx.Done():
				b.logger.Warn("Timed out waiting for in-flight commands")
				shutdownErr = ctx.Err()
			}
		}

		if cancel != nil {
			cancel()
		}
		if b.deps.Scheduler != nil {
			b.deps.Scheduler.Stop()
		}
		if b.deps.API != nil {
			if err := b.deps.API.Shutdown(ctx); err != nil {
				b.logger.Warn("Failed to stop HTTP API", zap.Error(err))
			}
		}
		if b.deps.Cleanup != nil {
			b.deps.Cleanup()
		}
		b.logger.Info("Bot stopped")
	})
	return shutdownErr
}
