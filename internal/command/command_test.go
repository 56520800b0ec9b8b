package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kapu/azerite-bot-go/internal/adapter"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"go.uber.org/zap"
)

type fakeEngine struct {
	queries []domain.BISQuery
	result  domain.QueryResult
}

func (f *fakeEngine) Query(_ context.Context, q domain.BISQuery) domain.QueryResult {
	f.queries = append(f.queries, q)
	return f.result
}

type sent struct {
	room, message string
	isError       bool
}

func newDeps(engine QueryEngine, out *[]sent) *Dependencies {
	return &Dependencies{
		Engine:    engine,
		Formatter: adapter.NewResponseFormatter("!"),
		SendMessage: func(room, message string) error {
			*out = append(*out, sent{room: room, message: message})
			return nil
		},
		SendError: func(room, message string) error {
			*out = append(*out, sent{room: room, message: message, isError: true})
			return nil
		},
		Logger: zap.NewNop(),
	}
}

func TestBISCommandSendsRenderedPayload(t *testing.T) {
	engine := &fakeEngine{result: domain.QueryResult{
		Kind:  domain.ResultLeaf,
		Class: "Mage", Spec: "Fire", HeroTalent: "Sunfury",
		Gear: domain.GearSet{{Slot: "Head", Name: "Crown"}},
	}}
	var out []sent
	cmd := NewBISCommand(newDeps(engine, &out))

	query := domain.BISQuery{Class: "mage", Spec: "fire", HeroTalent: "sunfury"}
	if err := cmd.Execute(context.Background(), &domain.CommandContext{Room: "raid"}, map[string]any{"query": query}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(engine.queries) != 1 || engine.queries[0] != query {
		t.Fatalf("engine queries = %+v", engine.queries)
	}
	if len(out) != 1 || out[0].isError || out[0].room != "raid" {
		t.Fatalf("sent = %+v", out)
	}
	if !strings.Contains(out[0].message, "BIS Gear for Mage Fire (Sunfury)") || !strings.Contains(out[0].message, "Crown") {
		t.Fatalf("unexpected message:\n%s", out[0].message)
	}
}

func TestBISCommandRoutesErrorsToSendError(t *testing.T) {
	engine := &fakeEngine{result: domain.NewErrorResult("Invalid Class", "No class matches 'x'.")}
	var out []sent
	cmd := NewBISCommand(newDeps(engine, &out))

	if err := cmd.Execute(context.Background(), &domain.CommandContext{Room: "raid"}, map[string]any{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(out) != 1 || !out[0].isError || !strings.HasPrefix(out[0].message, "❌ Invalid Class") {
		t.Fatalf("sent = %+v", out)
	}
}

func TestDispatcherRunsRegisteredCommands(t *testing.T) {
	var out []sent
	deps := newDeps(&fakeEngine{result: domain.QueryResult{Kind: domain.ResultLeaf}}, &out)

	registry := NewRegistry()
	registry.Register(NewBISCommand(deps))
	registry.Register(NewHelpCommand(deps))
	registry.Register(nil)
	if registry.Count() != 2 {
		t.Fatalf("registry holds %d commands", registry.Count())
	}
	if got := registry.Names(); len(got) != 2 || got[0] != "bis" || got[1] != "help" {
		t.Fatalf("names = %v", got)
	}

	dispatcher := NewSequentialDispatcher(registry, nil)
	n, err := dispatcher.Publish(context.Background(), &domain.CommandContext{Room: "raid"},
		CommandEvent{Type: domain.CommandUnknown},
		CommandEvent{Type: domain.CommandHelp},
		CommandEvent{Type: domain.CommandBIS, Params: map[string]any{"query": domain.BISQuery{Class: "dk"}}},
	)
	if err != nil || n != 2 {
		t.Fatalf("Publish = %d, %v", n, err)
	}
	if len(out) != 2 || !strings.Contains(out[0].message, "!bis") {
		t.Fatalf("sent = %+v", out)
	}
}

func TestRegistryUnknownCommand(t *testing.T) {
	err := NewRegistry().Execute(context.Background(), &domain.CommandContext{}, "live", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}
