package report

import (
	"strings"

	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/util"
)

type statLabel struct {
	key   string
	label string
	// stopAtComma ends the value at the first comma instead of the closing brace.
	stopAtComma bool
}

var statLabels = []statLabel{
	{key: "ilevel:", label: "Item Level", stopAtComma: true},
	{key: "stats:", label: "Stats"},
	{key: "enchant:", label: "Enchant"},
	{key: "temporary_enchant:", label: "Temporary Enchant"},
	{key: "gems:", label: "Gems"},
	{key: "item effects:", label: "Item Effects"},
}

var rawStatReplacer = strings.NewReplacer(
	"ilevel:", "",
	"stats:", "Stats:",
	"temporary_enchant:", "Temporary Enchant:",
	"enchant:", "Enchant:",
	"gems:", "Gems:",
	"item effects:", "Item Effects:",
	"{", "",
	"}", "",
)

// CondenseStats turns a raw simc detail line such as
// "ilevel: 639, stats: {+1,234 Haste}, gems: {Quick Onyx}" into one labeled
// line per known key. Text without any known key is returned with braces
// stripped. The result is capped at the stat line limit.
func CondenseStats(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	lines := make([]string, 0, len(statLabels))
	for _, l := range statLabels {
		start := statKeyIndex(raw, l.key)
		if start < 0 {
			continue
		}
		valueStart := start + len(l.key)
		end := statValueEnd(raw, valueStart, l.stopAtComma)
		value := strings.TrimSpace(strings.NewReplacer("{", "", "}", "").Replace(raw[valueStart:end]))
		value = strings.TrimSuffix(value, ",")
		if value == "" {
			continue
		}
		lines = append(lines, l.label+": "+value)
	}

	out := strings.Join(lines, "\n")
	if out == "" {
		out = strings.TrimSpace(rawStatReplacer.Replace(raw))
	}
	return util.TruncateString(out, constants.StringLimits.StatLine)
}

// statKeyIndex finds key in s. "enchant:" never matches inside "temporary_enchant:".
func statKeyIndex(s, key string) int {
	from := 0
	for {
		i := strings.Index(s[from:], key)
		if i < 0 {
			return -1
		}
		i += from
		if key == "enchant:" && strings.HasSuffix(s[:i], "temporary_") {
			from = i + len(key)
			continue
		}
		return i
	}
}

// statValueEnd returns where a value starting at from stops: the terminator
// or the next known key, whichever comes first.
func statValueEnd(s string, from int, stopAtComma bool) int {
	end := len(s)
	if i := strings.IndexByte(s[from:], '}'); i >= 0 {
		end = from + i
	}
	if stopAtComma {
		if i := strings.IndexByte(s[from:], ','); i >= 0 && from+i < end {
			end = from + i
		}
	}
	for _, l := range statLabels {
		if i := statKeyIndex(s[from:], l.key); i >= 0 && from+i < end {
			end = from + i
		}
	}
	return end
}
