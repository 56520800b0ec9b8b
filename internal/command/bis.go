package command

import (
	"context"

	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/service/bis"
	"go.uber.org/zap"
)

type BISCommand struct {
	deps *Dependencies
}

func NewBISCommand(deps *Dependencies) *BISCommand {
	return &BISCommand{deps: deps}
}

func (c *BISCommand) Name() string {
	return "bis"
}

func (c *BISCommand) Description() string {
	return "직업/전문화/영웅특성별 BIS 장비를 조회합니다"
}

func (c *BISCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	query, _ := params["query"].(domain.BISQuery)

	result := c.deps.Engine.Query(ctx, query)
	payload := bis.BuildPayload(result)

	c.deps.Logger.Info("BIS query answered",
		zap.String("room", cmdCtx.Room),
		zap.String("class", query.Class),
		zap.String("spec", query.Spec),
		zap.String("hero", query.HeroTalent),
		zap.String("slot", query.Slot),
		zap.Bool("error", payload.IsError),
		zap.Int("fields", len(payload.Fields)),
	)

	message := c.deps.Formatter.FormatPayload(payload)
	if payload.IsError {
		return c.deps.SendError(cmdCtx.Room, message)
	}
	return c.deps.SendMessage(cmdCtx.Room, message)
}
