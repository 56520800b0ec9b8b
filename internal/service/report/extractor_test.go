package report

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"go.uber.org/zap"
)

const headerRow = `<tr><th>Source</th><th>Slot</th><th>Item</th></tr>`

func gearSectionHTML(id string, rows ...string) string {
	return `<div id="` + id + `"><h2 class="toggle">` + id + `</h2>` +
		`<div class="player-section gear"><h3 class="toggle">Gear</h3><div class="toggle-content">` +
		`<table>` + headerRow + strings.Join(rows, "") + `</table></div></div></div>`
}

func itemRow(source, slot, name, url string) string {
	cell := name
	if url != "" {
		cell = `<a href="` + url + `">` + name + `</a>`
	}
	return `<tr><td>` + source + `</td><td>` + slot + `</td><td>` + cell + `</td></tr>`
}

func mustDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestParseGearTableSkipsHeaderAndKeepsOrder(t *testing.T) {
	doc := mustDoc(t, gearSectionHTML("player1",
		itemRow("Raid", "head", "Helm of Testing", "https://www.wowhead.com/item=1"),
		`<tr><td colspan="2">+120 Stamina, +80 Haste</td></tr>`,
		itemRow("", "main_hand", "Blade of Order", ""),
		itemRow("Dungeon", "finger1", "Band One", ""),
		itemRow("Dungeon", "finger1", "Duplicate Band", ""),
		`<tr><td>Vendor</td><td>shirt</td><td>Fancy Shirt</td></tr>`,
	))

	got := ParseGearTable(doc.Find("table").First())
	want := domain.GearSet{
		{Slot: "Head", Name: "Helm of Testing", URL: "https://www.wowhead.com/item=1", Source: "Raid", Stats: "+120 Stamina, +80 Haste"},
		{Slot: "Main Hand", Name: "Blade of Order"},
		{Slot: "Finger1", Name: "Band One", Source: "Dungeon"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseGearTable mismatch (-want +got):\n%s", diff)
	}
}

func TestParseGearTableEmpty(t *testing.T) {
	doc := mustDoc(t, `<table>`+headerRow+`</table>`)
	if got := ParseGearTable(doc.Find("table")); len(got) != 0 {
		t.Fatalf("expected empty gear set, got %v", got)
	}
	if got := ParseGearTable(doc.Find("nope")); got == nil || len(got) != 0 {
		t.Fatalf("expected non-nil empty gear set, got %#v", got)
	}
}

func TestExtractStages(t *testing.T) {
	key := domain.BuildKey{Class: "Death_Knight", Spec: "Blood", HeroTalent: "Deathbringer"}
	page := gearSectionHTML("player1", itemRow("Raid", "head", "Wrong Helm", "")) +
		gearSectionHTML("player2", itemRow("Raid", "head", "Helm of Testing", ""))

	tests := []struct {
		name      string
		body      string
		loc       Locator
		wantStage Stage
		wantName  string
	}{
		{
			name:      "structural path inside section",
			body:      page,
			loc:       Locator{Key: key, Section: "player2", Selector: "html > body > div:nth-of-type(2) > div > div > table"},
			wantStage: StageStructural,
			wantName:  "Helm of Testing",
		},
		{
			name:      "structural path drifted onto neighbour",
			body:      page,
			loc:       Locator{Key: key, Section: "player2", Selector: "html > body > div:nth-of-type(1) > div > div > table"},
			wantStage: StageSection,
			wantName:  "Helm of Testing",
		},
		{
			name:      "no structural path",
			body:      page,
			loc:       Locator{Key: key, Section: "player2"},
			wantStage: StageSection,
			wantName:  "Helm of Testing",
		},
		{
			name: "heuristic inside section",
			body: `<div id="player2"><table><tr><td>x</td></tr></table>` +
				`<table>` + headerRow + itemRow("Raid", "head", "Helm of Testing", "") + `</table></div>`,
			loc:       Locator{Key: key, Section: "player2"},
			wantStage: StageHeuristic,
			wantName:  "Helm of Testing",
		},
		{
			name:      "heuristic over whole page without section",
			body:      `<div><table>` + headerRow + itemRow("Raid", "head", "Helm of Testing", "") + `</table></div>`,
			loc:       Locator{Key: key, Section: "player99"},
			wantStage: StageHeuristic,
			wantName:  "Helm of Testing",
		},
		{
			name:      "nothing found",
			body:      `<div id="player2"><p>empty</p></div>`,
			loc:       Locator{Key: key, Section: "player2"},
			wantStage: StageNone,
		},
	}

	extractor := NewTableExtractor(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gear, stage := extractor.Extract(mustDoc(t, tt.body), tt.loc)
			if stage != tt.wantStage {
				t.Fatalf("stage = %q, want %q", stage, tt.wantStage)
			}
			if tt.wantName == "" {
				if len(gear) != 0 {
					t.Fatalf("expected no gear, got %v", gear)
				}
				return
			}
			item, ok := gear.Get("Head")
			if !ok || item.Name != tt.wantName {
				t.Fatalf("Head = %+v (found=%v), want %q", item, ok, tt.wantName)
			}
		})
	}
}

func TestExtractNilDocument(t *testing.T) {
	gear, stage := NewTableExtractor(zap.NewNop()).Extract(nil, Locator{Section: "player1"})
	if stage != StageNone || len(gear) != 0 {
		t.Fatalf("expected empty result, got %v at %q", gear, stage)
	}
}

func TestLooksLikeGearTableOnlyInspectsFirstRows(t *testing.T) {
	rows := strings.Repeat(`<tr><td>a</td><td>b</td><td>c</td></tr>`, 6)
	doc := mustDoc(t, `<table>`+rows+itemRow("", "head", "Late Helm", "")+`</table>`)
	if looksLikeGearTable(doc.Find("table"), 5) {
		t.Fatal("slot row beyond the inspected prefix should not qualify")
	}
	if !looksLikeGearTable(doc.Find("table"), 10) {
		t.Fatal("slot row within the inspected prefix should qualify")
	}
}
