package bis

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestBuildPayloadLeaf(t *testing.T) {
	e := newTestEngine(t, newFakeFetcher(domain.GearSet{
		{Slot: "Neck", Name: "Amulet", Stats: "+50 Haste"},
		{Slot: "Head", Name: "Helm of Testing", URL: "https://www.wowhead.com/item=1"},
	}))

	payload := BuildPayload(e.Query(context.Background(), domain.BISQuery{Class: "dk", Spec: "blood", HeroTalent: "san"}))

	require.Equal(t, "BIS Gear for Death Knight Blood (San'layn) - All Slots", payload.Title)
	require.Equal(t, "#C41E3A", payload.Color)
	require.Equal(t, constants.Branding.Footer, payload.Footer)
	require.Equal(t, []domain.PayloadField{
		{Name: "Head", Value: "[Helm of Testing](https://www.wowhead.com/item=1)"},
		{Name: "Neck", Value: "Amulet\n+50 Haste"},
	}, payload.Fields)
	require.Empty(t, payload.Description)
	require.False(t, payload.IsError)
}

func TestBuildPayloadSlotTitleAndEmptyDescription(t *testing.T) {
	e := newTestEngine(t, newFakeFetcher(domain.GearSet{{Slot: "Head", Name: "Helm"}}))

	payload := BuildPayload(e.Query(context.Background(), domain.BISQuery{Class: "dk", Spec: "blood", HeroTalent: "db", Slot: "ring"}))
	require.Equal(t, "BIS Gear for Death Knight Blood (Deathbringer) - Finger", payload.Title)
	require.Empty(t, payload.Fields)
	require.Equal(t, noGearSlot, payload.Description)
}

func TestBuildPayloadAggregateHeaders(t *testing.T) {
	e := newTestEngine(t, newFakeFetcher(domain.GearSet{{Slot: "Head", Name: "Helm"}}))

	payload := BuildPayload(e.Query(context.Background(), domain.BISQuery{Class: "dk"}))
	require.Equal(t, "BIS Gear for Death Knight All Specs - All Slots", payload.Title)

	names := make([]string, 0, len(payload.Fields))
	for _, f := range payload.Fields {
		names = append(names, f.Name)
		require.Equal(t, "Head: Helm", f.Value)
	}
	require.Equal(t, []string{
		"**Blood (Deathbringer)**", "**Blood (San'layn)**",
		"**Frost (Deathbringer)**", "**Frost (Rider)**",
		"**Unholy (Rider)**", "**Unholy (San'layn)**",
	}, names)

	payload = BuildPayload(e.Query(context.Background(), domain.BISQuery{Class: "dk", Spec: "frost"}))
	require.Equal(t, "BIS Gear for Death Knight Frost (All Hero Talents) - All Slots", payload.Title)
	require.Equal(t, "**Deathbringer**", payload.Fields[0].Name)
}

func TestBuildPayloadCapsFieldCount(t *testing.T) {
	e := newTestEngine(t, newFakeFetcher(domain.GearSet{{Slot: "Head", Name: "Helm"}}))

	payload := BuildPayload(e.Query(context.Background(), domain.BISQuery{}))
	require.Equal(t, "BIS Gear for All Classes - All Slots", payload.Title)
	require.Len(t, payload.Fields, constants.StringLimits.MaxFields)
	last := payload.Fields[len(payload.Fields)-1]
	require.Equal(t, "More", last.Name)
	require.True(t, strings.HasPrefix(last.Value, "15 more builds"), last.Value)
	require.Equal(t, "**Death Knight Blood (Deathbringer)**", payload.Fields[0].Name)
}

func TestBuildPayloadError(t *testing.T) {
	e := newTestEngine(t, newFakeFetcher(nil))

	payload := BuildPayload(e.Query(context.Background(), domain.BISQuery{Class: "NotAClass", Slot: "all"}))
	require.True(t, payload.IsError)
	require.Equal(t, "Invalid Class", payload.Title)
	require.Contains(t, payload.Description, "NotAClass")
	require.Empty(t, payload.Fields)
}

func TestBuildPayloadUnknownSlotNote(t *testing.T) {
	e := newTestEngine(t, newFakeFetcher(domain.GearSet{{Slot: "Head", Name: "Helm"}}))

	payload := BuildPayload(e.Query(context.Background(), domain.BISQuery{Class: "dk", Spec: "blood", HeroTalent: "db", Slot: "pocket"}))
	require.Equal(t, "Unknown slot 'pocket', showing all slots.", payload.Description)
	require.Len(t, payload.Fields, 1)
}

func realisticGear() domain.GearSet {
	gear := domain.GearSet{}
	for i, s := range domain.Slots() {
		gear = append(gear, domain.GearItem{
			Slot: s.Name,
			Name: fmt.Sprintf("Realistic Item Number %d of the Season", i+1),
			URL:  fmt.Sprintf("https://www.wowhead.com/item=2123%02d/realistic-item-number-%d?bonus=10355:10257:1540:10875&ilvl=639&spec=250", i, i+1),
		})
	}
	return gear
}

func TestBuildPayloadAggregateKeepsEverySlot(t *testing.T) {
	e := newTestEngine(t, newFakeFetcher(realisticGear()))

	payload := BuildPayload(e.Query(context.Background(), domain.BISQuery{Class: "dk", Spec: "blood"}))

	byBuild := map[string]string{}
	var order []string
	for _, f := range payload.Fields {
		require.LessOrEqual(t, utf8.RuneCountInString(f.Value), constants.StringLimits.FieldValue, f.Name)
		require.NotContains(t, f.Value, "...")
		name := strings.TrimSuffix(f.Name, " (cont.)")
		if _, ok := byBuild[name]; !ok {
			order = append(order, name)
		}
		byBuild[name] += f.Value + "\n"
	}
	require.Equal(t, []string{"**Deathbringer**", "**San'layn**"}, order)
	require.Greater(t, len(payload.Fields), len(order), "long builds continue in a second field")

	for _, name := range order {
		for _, item := range realisticGear() {
			require.Contains(t, byBuild[name], item.Slot+": ["+item.Name+"]("+item.URL+")", name)
		}
	}
}

func TestBuildPayloadOverflowCountsWholeBuilds(t *testing.T) {
	e := newTestEngine(t, newFakeFetcher(realisticGear()))

	payload := BuildPayload(e.Query(context.Background(), domain.BISQuery{}))
	require.LessOrEqual(t, len(payload.Fields), constants.StringLimits.MaxFields)

	last := payload.Fields[len(payload.Fields)-1]
	require.Equal(t, "More", last.Name)
	// Every shown build ends with its final slot.
	lastSlot := domain.Slots()[len(domain.Slots())-1].Name
	shown := 0
	for _, f := range payload.Fields[:len(payload.Fields)-1] {
		if strings.Contains(f.Value, lastSlot+": ") {
			shown++
		}
	}
	require.Positive(t, shown)
	require.True(t, strings.HasPrefix(last.Value, fmt.Sprintf("%d more builds", 39-shown)), last.Value)
}
