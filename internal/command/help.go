package command

import (
	"context"

	"github.com/kapu/azerite-bot-go/internal/domain"
	"go.uber.org/zap"
)

type HelpCommand struct {
	deps *Dependencies
}

func NewHelpCommand(deps *Dependencies) *HelpCommand {
	return &HelpCommand{deps: deps}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "BIS 조회 사용법을 표시합니다"
}

func (c *HelpCommand) Execute(_ context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	c.deps.Logger.Debug("Help requested", zap.String("room", cmdCtx.Room), zap.String("sender", cmdCtx.Sender))
	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatHelp())
}
