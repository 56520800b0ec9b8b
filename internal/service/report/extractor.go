package report

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/util"
	"go.uber.org/zap"
)

// Stage names the extraction strategy that produced a result.
type Stage string

const (
	StageNone       Stage = ""
	StageStructural Stage = "structural"
	StageSection    Stage = "section"
	StageHeuristic  Stage = "heuristic"
	StageDynamic    Stage = "dynamic"
)

const gearTableSelector = "div.player-section.gear div.toggle-content table"

// TableExtractor finds one build's gear table inside the shared report page.
// Strategies run from most to least specific; a strategy only wins when its
// table yields at least one gear row.
type TableExtractor struct {
	heuristicRows int
	logger        *zap.Logger
}

func NewTableExtractor(logger *zap.Logger) *TableExtractor {
	return &TableExtractor{
		heuristicRows: constants.ReportConfig.HeuristicRows,
		logger:        logger,
	}
}

// Extract never fails: a document without a usable table yields an empty set.
func (e *TableExtractor) Extract(doc *goquery.Document, loc Locator) (gear domain.GearSet, stage Stage) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Gear extraction panicked",
				zap.String("build", loc.Key.String()),
				zap.Any("panic", r),
			)
			gear, stage = domain.GearSet{}, StageNone
		}
	}()

	if doc == nil {
		return domain.GearSet{}, StageNone
	}

	section := findSection(doc.Selection, loc.Section)

	if gear := e.structural(doc, loc, section); len(gear) > 0 {
		return gear, StageStructural
	}

	if section.Length() > 0 {
		if gear := ParseGearTable(sectionGearTable(section)); len(gear) > 0 {
			e.logger.Debug("Structural path missed, used section id",
				zap.String("build", loc.Key.String()),
				zap.String("section", loc.Section),
			)
			return gear, StageSection
		}
	}

	scope := doc.Selection
	if section.Length() > 0 {
		scope = section
	}
	if gear := e.heuristic(scope); len(gear) > 0 {
		e.logger.Warn("Gear table found by content heuristic, report layout may have changed",
			zap.String("build", loc.Key.String()),
			zap.Bool("scoped_to_section", section.Length() > 0),
		)
		return gear, StageHeuristic
	}

	e.logger.Warn("No gear table found",
		zap.String("build", loc.Key.String()),
		zap.String("section", loc.Section),
	)
	return domain.GearSet{}, StageNone
}

// structural follows the locator's absolute path. A hit outside the build's own
// section is discarded because positional paths shift onto neighbouring builds.
func (e *TableExtractor) structural(doc *goquery.Document, loc Locator, section *goquery.Selection) domain.GearSet {
	if loc.Selector == "" {
		return nil
	}
	table := doc.Find(loc.Selector).First()
	if table.Length() == 0 {
		return nil
	}
	if section.Length() > 0 && section.HasNodes(table.Nodes[0]).Length() == 0 {
		e.logger.Debug("Structural path points outside build section",
			zap.String("build", loc.Key.String()),
			zap.String("selector", loc.Selector),
		)
		return nil
	}
	return ParseGearTable(table)
}

func (e *TableExtractor) heuristic(scope *goquery.Selection) domain.GearSet {
	var found domain.GearSet
	scope.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if !looksLikeGearTable(table, e.heuristicRows) {
			return true
		}
		if gear := ParseGearTable(table); len(gear) > 0 {
			found = gear
			return false
		}
		return true
	})
	return found
}

func findSection(root *goquery.Selection, id string) *goquery.Selection {
	if id == "" {
		return root.Slice(0, 0)
	}
	return root.Find(fmt.Sprintf(`[id=%q]`, id)).First()
}

func sectionGearTable(section *goquery.Selection) *goquery.Selection {
	table := section.Find(gearTableSelector).First()
	if table.Length() == 0 {
		table = section.Find("div.player-section.gear table").First()
	}
	return table
}

// looksLikeGearTable checks whether one of the first rows is a three-cell row
// naming a known slot.
func looksLikeGearTable(table *goquery.Selection, maxRows int) bool {
	match := false
	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= maxRows {
			return false
		}
		if _, _, ok := gearRow(row); ok {
			match = true
			return false
		}
		return true
	})
	return match
}

// ParseGearTable reads slot rows from a gear table. A row counts when it has
// exactly three cells and one of the first two names a known slot; header rows
// drop out naturally. The row right after a gear row, when it is not itself a
// gear row, is taken as that item's stat line.
func ParseGearTable(table *goquery.Selection) domain.GearSet {
	gear := domain.GearSet{}
	if table == nil || table.Length() == 0 {
		return gear
	}

	seen := make(map[string]bool)
	lastGearRow := -2
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		slot, cells, ok := gearRow(row)
		if !ok {
			if lastGearRow == i-1 && isDetailRow(row) && gear[len(gear)-1].Stats == "" {
				gear[len(gear)-1].Stats = CondenseStats(util.CollapseWhitespace(row.Text()))
			}
			return
		}
		if seen[slot.Name] {
			return
		}

		item := parseItemCell(cells.Eq(2))
		if item.Name == "" {
			return
		}
		item.Slot = slot.Name
		if src := util.CollapseWhitespace(cells.Eq(0).Text()); src != "" && !isSlotText(src) {
			item.Source = src
		}

		seen[slot.Name] = true
		gear = append(gear, item)
		lastGearRow = i
	})
	return gear
}

func gearRow(row *goquery.Selection) (domain.SlotDescriptor, *goquery.Selection, bool) {
	cells := row.ChildrenFiltered("th, td")
	if cells.Length() != 3 {
		return domain.SlotDescriptor{}, nil, false
	}
	if slot, ok := domain.LookupSlot(cells.Eq(1).Text()); ok {
		return slot, cells, true
	}
	if slot, ok := domain.LookupSlot(cells.Eq(0).Text()); ok {
		return slot, cells, true
	}
	return domain.SlotDescriptor{}, nil, false
}

// isDetailRow matches the stat line rows that follow each item row.
func isDetailRow(row *goquery.Selection) bool {
	return row.ChildrenFiltered("th, td").Length() != 3
}

func isSlotText(text string) bool {
	_, ok := domain.LookupSlot(text)
	return ok
}

func parseItemCell(cell *goquery.Selection) domain.GearItem {
	var item domain.GearItem
	if anchor := cell.Find("a").First(); anchor.Length() > 0 {
		item.Name = util.CollapseWhitespace(anchor.Text())
		item.URL, _ = anchor.Attr("href")
	}
	if item.Name == "" {
		item.Name = util.CollapseWhitespace(cell.Text())
	}
	return item
}
