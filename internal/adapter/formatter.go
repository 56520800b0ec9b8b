package adapter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/util"
)

var (
	markdownLink = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^)\s]+)\)`)
	markdownBold = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// ResponseFormatter renders payloads as KakaoTalk plain text.
type ResponseFormatter struct {
	prefix string
}

// NewResponseFormatter creates a new ResponseFormatter
func NewResponseFormatter(prefix string) *ResponseFormatter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "!"
	}
	return &ResponseFormatter{prefix: prefix}
}

// FormatPayload renders a gear payload. Markdown links become "name (url)"
// and bold headers become "▶ header".
func (f *ResponseFormatter) FormatPayload(p domain.Payload) string {
	view := domain.Payload{
		Title:       util.TruncateString(p.Title, constants.StringLimits.PayloadTitle),
		Description: plainText(p.Description),
		Fields:      make([]domain.PayloadField, 0, len(p.Fields)),
		Footer:      firstLine(p.Footer),
		IsError:     p.IsError,
	}
	for _, field := range p.Fields {
		view.Fields = append(view.Fields, domain.PayloadField{
			Name:  plainText(field.Name),
			Value: plainText(field.Value),
		})
	}

	text, err := executeFormatterTemplate("payload", view)
	if err != nil {
		return f.FormatError("결과를 표시하지 못했습니다.")
	}
	return util.TruncateString(text, constants.StringLimits.MessageLength)
}

// FormatHelp formats help message
func (f *ResponseFormatter) FormatHelp() string {
	text, err := executeFormatterTemplate("help", struct{ Prefix string }{f.prefix})
	if err != nil {
		return fmt.Sprintf("%sbis [class] [spec] [hero] [slot]", f.prefix)
	}
	return text
}

// FormatError formats error message
func (f *ResponseFormatter) FormatError(message string) string {
	return fmt.Sprintf("❌ %s", message)
}

func plainText(s string) string {
	s = markdownLink.ReplaceAllString(s, "$1 ($2)")
	return markdownBold.ReplaceAllString(s, "▶ $1")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
