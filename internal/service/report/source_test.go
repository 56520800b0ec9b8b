package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubDocuments struct {
	doc *goquery.Document
	err error
}

func (s stubDocuments) Document(context.Context) (*goquery.Document, error) {
	return s.doc, s.err
}

func testLocators(t *testing.T) *LocatorTable {
	t.Helper()
	table, err := ParseLocators([]byte(`
locators:
  - {class: Mage, spec: Fire, hero_talent: Sunfury, section: player16}
`))
	require.NoError(t, err)
	return table
}

func TestGearSourceStaticHit(t *testing.T) {
	doc := mustDoc(t, gearSectionHTML("player16", itemRow("Raid", "head", "Helm of Testing", "")))
	session := &fakeSession{}
	src := NewGearSource(testLocators(t), stubDocuments{doc: doc}, NewTableExtractor(zap.NewNop()),
		NewDynamicExtractor(factoryFor(session), "", time.Second, nil, zap.NewNop()), zap.NewNop())

	gear, err := src.Fetch(context.Background(), domain.BuildKey{Class: "Mage", Spec: "Fire", HeroTalent: "Sunfury"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"Head": "Helm of Testing"}, gear.Names())
	require.Zero(t, session.closed, "browser must not be used when static extraction succeeds")
}

func TestGearSourceDynamicFallback(t *testing.T) {
	doc := mustDoc(t, `<div id="player16"><p>collapsed</p></div>`)
	session := &fakeSession{html: `<table>` + itemRow("", "neck", "Amulet", "") + `</table>`}
	src := NewGearSource(testLocators(t), stubDocuments{doc: doc}, NewTableExtractor(zap.NewNop()),
		NewDynamicExtractor(factoryFor(session), "", time.Second, nil, zap.NewNop()), zap.NewNop())

	gear, err := src.Fetch(context.Background(), domain.BuildKey{Class: "Mage", Spec: "Fire", HeroTalent: "Sunfury"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"Neck": "Amulet"}, gear.Names())
	require.Equal(t, 1, session.closed)
}

func TestGearSourceAbsenceIsNotAnError(t *testing.T) {
	doc := mustDoc(t, `<div id="player16"></div>`)
	src := NewGearSource(testLocators(t), stubDocuments{doc: doc}, NewTableExtractor(zap.NewNop()), nil, zap.NewNop())

	gear, err := src.Fetch(context.Background(), domain.BuildKey{Class: "Mage", Spec: "Fire", HeroTalent: "Sunfury"})
	require.NoError(t, err)
	require.NotNil(t, gear)
	require.Empty(t, gear)
}

func TestGearSourceFetchFailure(t *testing.T) {
	boom := errors.New("connection refused")
	src := NewGearSource(testLocators(t), stubDocuments{err: boom}, NewTableExtractor(zap.NewNop()), nil, zap.NewNop())

	gear, err := src.Fetch(context.Background(), domain.BuildKey{Class: "Mage", Spec: "Fire", HeroTalent: "Sunfury"})
	require.ErrorIs(t, err, boom)
	require.Empty(t, gear)
}

func TestGearSourceFetchFailureRescuedByBrowser(t *testing.T) {
	session := &fakeSession{html: `<table>` + itemRow("", "neck", "Amulet", "") + `</table>`}
	src := NewGearSource(testLocators(t), stubDocuments{err: errors.New("timeout")}, NewTableExtractor(zap.NewNop()),
		NewDynamicExtractor(factoryFor(session), "", time.Second, nil, zap.NewNop()), zap.NewNop())

	gear, err := src.Fetch(context.Background(), domain.BuildKey{Class: "Mage", Spec: "Fire", HeroTalent: "Sunfury"})
	require.NoError(t, err)
	require.Len(t, gear, 1)
}

func TestGearSourceUnknownBuild(t *testing.T) {
	src := NewGearSource(testLocators(t), stubDocuments{}, NewTableExtractor(zap.NewNop()), nil, zap.NewNop())

	_, err := src.Fetch(context.Background(), domain.BuildKey{Class: "Mage", Spec: "Frost"})
	require.ErrorIs(t, err, ErrNoLocator)
}
