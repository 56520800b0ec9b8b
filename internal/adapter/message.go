package adapter

import (
	"strings"

	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/iris"
	"github.com/kapu/azerite-bot-go/internal/util"
)

// MessageAdapter converts KakaoTalk messages to bot commands
type MessageAdapter struct {
	prefix string
}

// NewMessageAdapter creates a new MessageAdapter
func NewMessageAdapter(prefix string) *MessageAdapter {
	return &MessageAdapter{prefix: prefix}
}

// ParsedCommand represents a parsed command
type ParsedCommand struct {
	Type       domain.CommandType
	Params     map[string]any
	RawMessage string
}

// Query returns the gear query carried by a bis command.
func (pc *ParsedCommand) Query() domain.BISQuery {
	q, _ := pc.Params["query"].(domain.BISQuery)
	return q
}

var (
	bisCommands  = []string{"bis", "gear", "비스", "장비"}
	helpCommands = []string{"help", "commands", "도움말", "도움", "명령어"}
)

// ParseMessage parses a KakaoTalk message into a command
func (ma *MessageAdapter) ParseMessage(message *iris.Message) *ParsedCommand {
	if message == nil {
		return ma.createUnknownCommand("")
	}

	text := message.Text()
	if text == "" || !strings.HasPrefix(text, ma.prefix) {
		return ma.createUnknownCommand(text)
	}

	parts := strings.Fields(text[len(ma.prefix):])
	if len(parts) == 0 {
		return ma.createUnknownCommand(text)
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch {
	case util.Contains(bisCommands, command):
		return &ParsedCommand{
			Type:       domain.CommandBIS,
			Params:     map[string]any{"query": ParseBISArgs(args)},
			RawMessage: text,
		}
	case util.Contains(helpCommands, command):
		return &ParsedCommand{
			Type:       domain.CommandHelp,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	return ma.createUnknownCommand(text)
}

// ParseBISArgs reads "<class> <spec> <hero> <slot...>" or key=value pairs
// (class, spec, hero, slot). "-" and "all" leave a field empty and
// underscores stand for spaces. Extra positional words belong to the slot.
func ParseBISArgs(args []string) domain.BISQuery {
	var q domain.BISQuery
	positional := make([]string, 0, len(args))

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			positional = append(positional, arg)
			continue
		}
		value = argValue(value)
		switch strings.ToLower(key) {
		case "class", "c":
			q.Class = value
		case "spec", "s":
			q.Spec = value
		case "hero", "h", "talent", "hero_talent":
			q.HeroTalent = value
		case "slot":
			q.Slot = value
		}
	}

	fields := []*string{&q.Class, &q.Spec, &q.HeroTalent}
	for i, arg := range positional {
		if i < len(fields) {
			if *fields[i] == "" {
				*fields[i] = argValue(arg)
			}
			continue
		}
		if q.Slot == "" {
			q.Slot = argValue(strings.Join(positional[i:], " "))
		}
		break
	}

	return q
}

func argValue(raw string) string {
	value := strings.TrimSpace(strings.ReplaceAll(raw, "_", " "))
	switch strings.ToLower(value) {
	case "-", "all":
		return ""
	}
	return value
}

func (ma *MessageAdapter) createUnknownCommand(text string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.CommandUnknown,
		Params:     make(map[string]any),
		RawMessage: text,
	}
}
