// Package bis answers best-in-slot gear queries against the cached report.
package bis

import (
	"context"
	"fmt"

	"github.com/kapu/azerite-bot-go/internal/constants"
	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/internal/service/report"
	"github.com/kapu/azerite-bot-go/internal/service/resolver"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	TitleInvalidClass      = "Invalid Class"
	TitleInvalidSpec       = "Invalid Spec"
	TitleInvalidHeroTalent = "Invalid Hero Talent"
)

// Engine resolves free-text queries and composes cached leaf results into
// aggregates when a dimension is left open.
type Engine struct {
	resolver *resolver.NameResolver
	cache    *ResultCache
	locators *report.LocatorTable
	fanOut   int
	logger   *zap.Logger
}

// NewEngine creates an Engine. fanOut bounds concurrent child lookups per
// aggregate level.
func NewEngine(res *resolver.NameResolver, cache *ResultCache, locators *report.LocatorTable, fanOut int, logger *zap.Logger) *Engine {
	if res == nil {
		res = resolver.NewNameResolver()
	}
	if fanOut <= 0 {
		fanOut = constants.QueryConfig.MaxFanOut
	}
	return &Engine{
		resolver: res,
		cache:    cache,
		locators: locators,
		fanOut:   fanOut,
		logger:   logger,
	}
}

// Query never fails. Unresolvable class, spec or hero talent text yields an
// error result; everything else yields a leaf or an aggregate, possibly empty.
func (e *Engine) Query(ctx context.Context, q domain.BISQuery) domain.QueryResult {
	filter, unknownSlot := e.slotFilter(q.Slot)

	result := e.queryClass(ctx, q, filter)
	if !result.IsError() {
		if filter != nil {
			result.SlotFilter = filter.Name
		}
		result.UnknownSlot = unknownSlot
	}
	return result
}

// slotFilter resolves slot text. Blank text and "all" mean every slot.
// Unresolvable text also means every slot and is reported back to the caller.
func (e *Engine) slotFilter(text string) (*domain.SlotSelector, string) {
	switch domain.NormalizeName(text) {
	case "", "all", "-":
		return nil, ""
	}
	sel, ok := e.resolver.ResolveSlot(text)
	if !ok {
		e.logger.Debug("Unknown slot filter ignored", zap.String("slot", text))
		return nil, text
	}
	return &sel, ""
}

func (e *Engine) queryClass(ctx context.Context, q domain.BISQuery, filter *domain.SlotSelector) domain.QueryResult {
	if isBlank(q.Class) {
		classes := domain.Classes()
		children := e.fanOutChildren(ctx, len(classes), func(ctx context.Context, i int) domain.QueryResult {
			child := e.querySpec(ctx, classes[i].Name, q, filter)
			child.Label = classes[i].Name
			return child
		})
		return aggregate(domain.DimensionClass, domain.BuildKey{}, children)
	}

	class, ok := e.resolver.Resolve(resolver.KindClass, q.Class, resolver.Parent{})
	if !ok {
		return domain.NewErrorResult(TitleInvalidClass, fmt.Sprintf("No class matches '%s'.", q.Class))
	}
	return e.querySpec(ctx, class, q, filter)
}

func (e *Engine) querySpec(ctx context.Context, class string, q domain.BISQuery, filter *domain.SlotSelector) domain.QueryResult {
	if isBlank(q.Spec) {
		specs := domain.SpecsOf(class)
		children := e.fanOutChildren(ctx, len(specs), func(ctx context.Context, i int) domain.QueryResult {
			child := e.queryHero(ctx, class, specs[i].Name, q, filter)
			child.Label = specs[i].Name
			return child
		})
		return aggregate(domain.DimensionSpec, domain.BuildKey{Class: class}, children)
	}

	spec, ok := e.resolver.Resolve(resolver.KindSpec, q.Spec, resolver.Parent{Class: class})
	if !ok {
		return domain.NewErrorResult(TitleInvalidSpec,
			fmt.Sprintf("No %s spec matches '%s'.", domain.DisplayName(class), q.Spec))
	}
	return e.queryHero(ctx, class, spec, q, filter)
}

func (e *Engine) queryHero(ctx context.Context, class, spec string, q domain.BISQuery, filter *domain.SlotSelector) domain.QueryResult {
	if !isBlank(q.HeroTalent) {
		hero, ok := e.resolver.Resolve(resolver.KindHeroTalent, q.HeroTalent, resolver.Parent{Class: class, Spec: spec})
		if !ok {
			return domain.NewErrorResult(TitleInvalidHeroTalent,
				fmt.Sprintf("No %s %s hero talent matches '%s'.", domain.DisplayName(spec), domain.DisplayName(class), q.HeroTalent))
		}
		return e.leaf(ctx, domain.BuildKey{Class: class, Spec: spec, HeroTalent: hero}, filter)
	}

	heroes := e.locators.HeroTalentsWithLocator(class, spec)
	if len(heroes) == 0 {
		return e.leaf(ctx, domain.BuildKey{Class: class, Spec: spec}, filter)
	}

	children := e.fanOutChildren(ctx, len(heroes), func(ctx context.Context, i int) domain.QueryResult {
		child := e.leaf(ctx, domain.BuildKey{Class: class, Spec: spec, HeroTalent: heroes[i].Name}, filter)
		child.Label = heroes[i].Name
		return child
	})
	result := aggregate(domain.DimensionHeroTalent, domain.BuildKey{Class: class, Spec: spec}, children)

	// Some specs publish a single generic build next to the hero builds.
	if !result.HasItems() {
		if _, ok := e.locators.Lookup(domain.BuildKey{Class: class, Spec: spec}); ok {
			return e.leaf(ctx, domain.BuildKey{Class: class, Spec: spec}, filter)
		}
	}
	return result
}

func (e *Engine) leaf(ctx context.Context, key domain.BuildKey, filter *domain.SlotSelector) domain.QueryResult {
	gear := domain.GearSet{}
	if lookup, ok := e.locatorKey(key); ok {
		var err error
		gear, err = e.cache.GetOrFetch(ctx, lookup, ModeRequest)
		if err != nil {
			e.logger.Debug("Leaf treated as empty after fetch failure",
				zap.String("build", key.String()),
				zap.Error(err),
			)
		}
	}
	if filter != nil {
		gear = gear.Filter(filter.Slots)
	}

	return domain.QueryResult{
		Kind:       domain.ResultLeaf,
		Class:      key.Class,
		Spec:       key.Spec,
		HeroTalent: key.HeroTalent,
		Gear:       gear.SortedBySlot(),
	}
}

// locatorKey maps a build onto the report entry that covers it. A hero talent
// without its own entry reads the spec's generic build when there is one.
func (e *Engine) locatorKey(key domain.BuildKey) (domain.BuildKey, bool) {
	if _, ok := e.locators.Lookup(key); ok {
		return key, true
	}
	if key.HeroTalent == "" {
		return domain.BuildKey{}, false
	}
	generic := domain.BuildKey{Class: key.Class, Spec: key.Spec}
	if _, ok := e.locators.Lookup(generic); ok {
		return generic, true
	}
	return domain.BuildKey{}, false
}

// fanOutChildren runs build for every index with bounded concurrency and
// returns results in index order.
func (e *Engine) fanOutChildren(ctx context.Context, n int, build func(ctx context.Context, i int) domain.QueryResult) []domain.QueryResult {
	results := make([]domain.QueryResult, n)
	p := pool.New().WithMaxGoroutines(e.fanOut)
	for i := 0; i < n; i++ {
		i := i
		p.Go(func() {
			results[i] = build(ctx, i)
		})
	}
	p.Wait()
	return results
}

// aggregate keeps only children that carry at least one item, preserving order.
// When no child resolved at all, the first child's error is the result.
func aggregate(dim domain.Dimension, key domain.BuildKey, children []domain.QueryResult) domain.QueryResult {
	kept := make([]domain.QueryResult, 0, len(children))
	var firstErr *domain.QueryResult
	resolved := false
	for i, child := range children {
		if child.IsError() {
			if firstErr == nil {
				firstErr = &children[i]
			}
			continue
		}
		resolved = true
		if child.HasItems() {
			kept = append(kept, child)
		}
	}
	if !resolved && firstErr != nil {
		out := *firstErr
		out.Label = ""
		return out
	}
	return domain.QueryResult{
		Kind:      domain.ResultAggregate,
		Class:     key.Class,
		Spec:      key.Spec,
		Dimension: dim,
		Children:  kept,
	}
}

func isBlank(text string) bool {
	return domain.NormalizeName(text) == ""
}
