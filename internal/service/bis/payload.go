package bis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/util"
)

const (
	noGearLeaf      = "No BIS gear information found for this spec and hero talent."
	noGearSlot      = "No BIS gear information found for this slot, spec, and hero talent."
	noGearAggregate = "No BIS gear information found for this query."
)

// BuildPayload renders a query result as a chat payload. Leaf fields follow
// canonical slot order; aggregate fields follow taxonomy order, one field per
// build under a bold header.
func BuildPayload(result domain.QueryResult) domain.Payload {
	if result.IsError() {
		return errorPayload(result.Error)
	}

	payload := domain.Payload{
		Title:     util.TruncateString(payloadTitle(result), constants.StringLimits.PayloadTitle),
		Color:     domain.ClassColor(result.Class),
		Fields:    make([]domain.PayloadField, 0),
		Thumbnail: constants.Branding.Thumbnail,
		Footer:    constants.Branding.Footer,
	}

	switch result.Kind {
	case domain.ResultLeaf:
		for _, item := range result.Gear {
			payload.AddField(item.Slot, formatItem(item))
		}
	case domain.ResultAggregate:
		addAggregateFields(&payload, result)
	}

	var notes []string
	if result.UnknownSlot != "" {
		notes = append(notes, fmt.Sprintf("Unknown slot '%s', showing all slots.", result.UnknownSlot))
	}
	if len(payload.Fields) == 0 {
		switch {
		case result.Kind == domain.ResultAggregate:
			notes = append(notes, noGearAggregate)
		case result.SlotFilter != "":
			notes = append(notes, noGearSlot)
		default:
			notes = append(notes, noGearLeaf)
		}
	}
	payload.Description = util.TruncateString(strings.Join(notes, "\n"), constants.StringLimits.PayloadDescription)

	return payload
}

func errorPayload(qe *domain.QueryError) domain.Payload {
	if qe == nil {
		qe = &domain.QueryError{Title: "Error", Detail: "An error occurred while fetching data. Please try again later."}
	}
	return domain.Payload{
		Title:       qe.Title,
		Description: qe.Detail,
		Color:       "#FF0000",
		Fields:      make([]domain.PayloadField, 0),
		IsError:     true,
	}
}

// payloadTitle follows "BIS Gear for <Class> <Spec> (<Hero>) - <Slot>".
func payloadTitle(result domain.QueryResult) string {
	class := "All Classes"
	if result.Class != "" {
		class = domain.DisplayName(result.Class)
	}

	var b strings.Builder
	b.WriteString("BIS Gear for ")
	b.WriteString(class)

	switch {
	case result.Spec != "":
		b.WriteString(" " + domain.DisplayName(result.Spec))
	case result.Class != "":
		b.WriteString(" All Specs")
	}

	switch {
	case result.HeroTalent != "":
		b.WriteString(" (" + domain.DisplayName(result.HeroTalent) + ")")
	case result.Kind == domain.ResultAggregate && result.Dimension == domain.DimensionHeroTalent:
		b.WriteString(" (All Hero Talents)")
	}

	b.WriteString(" - ")
	if result.SlotFilter != "" {
		b.WriteString(result.SlotFilter)
	} else {
		b.WriteString("All Slots")
	}
	return b.String()
}

func addAggregateFields(payload *domain.Payload, root domain.QueryResult) {
	var leaves []domain.QueryResult
	var walk func(r domain.QueryResult)
	walk = func(r domain.QueryResult) {
		if r.Kind == domain.ResultLeaf {
			leaves = append(leaves, r)
			return
		}
		for _, child := range r.Children {
			walk(child)
		}
	}
	walk(root)

	limit := constants.StringLimits.MaxFields
	for i, leaf := range leaves {
		header := headerFor(root, leaf)
		chunks := chunkLines(aggregateLines(leaf.Gear), constants.StringLimits.FieldValue)

		// Only whole builds are shown; the last slot is kept for the overflow note.
		room := limit - len(payload.Fields)
		if i < len(leaves)-1 {
			room--
		}
		if len(chunks) > room {
			payload.AddField("More",
				fmt.Sprintf("%d more builds not shown. Narrow the query by class or spec.", len(leaves)-i))
			return
		}
		for j, chunk := range chunks {
			name := header
			if j > 0 {
				name += continuedSuffix
			}
			payload.AddField(name, chunk)
		}
	}
}

const continuedSuffix = " (cont.)"

// aggregateLines renders one "Slot: [Name](url)" line per item. A line that
// cannot fit in a field on its own drops the link.
func aggregateLines(gear domain.GearSet) []string {
	lines := make([]string, 0, len(gear))
	for _, item := range gear {
		line := item.Slot + ": " + itemLink(item)
		if utf8.RuneCountInString(line) > constants.StringLimits.FieldValue {
			line = util.TruncateString(item.Slot+": "+item.Name, constants.StringLimits.FieldValue)
		}
		lines = append(lines, line)
	}
	return lines
}

// chunkLines joins lines with newlines into values of at most maxRunes runes,
// never splitting a line.
func chunkLines(lines []string, maxRunes int) []string {
	chunks := make([]string, 0, 1)
	var b strings.Builder
	size := 0
	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		if size > 0 && size+1+n > maxRunes {
			chunks = append(chunks, b.String())
			b.Reset()
			size = 0
		}
		if size > 0 {
			b.WriteByte('\n')
			size++
		}
		b.WriteString(line)
		size += n
	}
	if size > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

// headerFor names a leaf relative to the aggregate it sits in, e.g.
// "**Blood (Deathbringer)**" under a class aggregate.
func headerFor(root, leaf domain.QueryResult) string {
	parts := make([]string, 0, 3)
	if root.Class == "" {
		parts = append(parts, domain.DisplayName(leaf.Class))
	}
	if root.Spec == "" {
		parts = append(parts, domain.DisplayName(leaf.Spec))
	}
	if leaf.HeroTalent != "" {
		hero := domain.DisplayName(leaf.HeroTalent)
		if len(parts) > 0 {
			hero = "(" + hero + ")"
		}
		parts = append(parts, hero)
	}
	if len(parts) == 0 {
		parts = append(parts, domain.DisplayName(leaf.Spec))
	}
	text := strings.Join(parts, " ")
	return "**" + util.TruncateString(text, constants.StringLimits.FieldName-4-len(continuedSuffix)) + "**"
}

func itemLink(item domain.GearItem) string {
	if item.URL == "" {
		return item.Name
	}
	return "[" + item.Name + "](" + item.URL + ")"
}

func formatItem(item domain.GearItem) string {
	value := itemLink(item)
	if item.Stats != "" {
		value += "\n" + item.Stats
	}
	return util.TruncateString(value, constants.StringLimits.FieldValue)
}
