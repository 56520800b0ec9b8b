package report

import (
	"context"
	stderrors "errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"go.uber.org/zap"
)

// ErrNoLocator is returned for builds the report does not cover.
var ErrNoLocator = stderrors.New("no report locator for build")

// DocumentProvider supplies the parsed report page.
type DocumentProvider interface {
	Document(ctx context.Context) (*goquery.Document, error)
}

// GearSource resolves one build's gear from the report page. Static extraction
// runs first; the headless browser is only used when it comes back empty.
type GearSource struct {
	locators  *LocatorTable
	documents DocumentProvider
	static    *TableExtractor
	dynamic   *DynamicExtractor
	logger    *zap.Logger
}

// NewGearSource creates a GearSource. dynamic may be nil to disable the
// browser fallback.
func NewGearSource(locators *LocatorTable, documents DocumentProvider, static *TableExtractor, dynamic *DynamicExtractor, logger *zap.Logger) *GearSource {
	return &GearSource{
		locators:  locators,
		documents: documents,
		static:    static,
		dynamic:   dynamic,
		logger:    logger,
	}
}

// Locators exposes the locator table the source was built with.
func (s *GearSource) Locators() *LocatorTable {
	return s.locators
}

// Fetch returns the gear of one build. An empty set with a nil error means the
// report has no rows for the build. An error is only returned when the page
// could not be downloaded and the browser did not recover anything, so callers
// can avoid remembering a transient outage as absence.
func (s *GearSource) Fetch(ctx context.Context, key domain.BuildKey) (domain.GearSet, error) {
	loc, ok := s.locators.Lookup(key)
	if !ok {
		return domain.GearSet{}, ErrNoLocator
	}

	doc, fetchErr := s.documents.Document(ctx)
	if fetchErr == nil {
		if gear, stage := s.static.Extract(doc, loc); len(gear) > 0 {
			s.logger.Debug("Gear extracted",
				zap.String("build", key.String()),
				zap.String("stage", string(stage)),
				zap.Int("items", len(gear)),
			)
			return gear, nil
		}
	}

	if s.dynamic != nil {
		if gear := s.dynamic.ExtractDynamic(ctx, loc); len(gear) > 0 {
			s.logger.Info("Gear extracted",
				zap.String("build", key.String()),
				zap.String("stage", string(StageDynamic)),
				zap.Int("items", len(gear)),
			)
			return gear, nil
		}
	}

	if fetchErr != nil {
		return domain.GearSet{}, fetchErr
	}
	return domain.GearSet{}, nil
}
