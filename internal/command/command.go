package command

import (
	"context"

	"github.com/kapu/azerite-bot-go/internal/adapter"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

// QueryEngine answers gear queries. It never fails; errors come back as
// error results.
type QueryEngine interface {
	Query(ctx context.Context, q domain.BISQuery) domain.QueryResult
}

type Dependencies struct {
	Engine      QueryEngine
	Formatter   *adapter.ResponseFormatter
	SendMessage func(room, message string) error
	SendError   func(room, message string) error
	Logger      *zap.Logger
}
