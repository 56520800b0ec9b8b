// Package resolver maps free-text class, spec, hero talent and slot names onto
// the closed gear taxonomy.
package resolver

import (
	"strings"

	"github.com/kapu/azerite-bot-go/internal/domain"
)

// Kind selects which taxonomy dimension to resolve against.
type Kind string

const (
	KindClass      Kind = "class"
	KindSpec       Kind = "spec"
	KindHeroTalent Kind = "hero_talent"
	KindSlot       Kind = "slot"
)

// Parent narrows resolution to members of an already resolved context.
// Spec resolution uses Class; hero talent resolution uses Class and Spec.
type Parent struct {
	Class string
	Spec  string
}

// Candidate is one resolvable name with its aliases.
type Candidate struct {
	Name    string
	Aliases []string
}

// NameResolver is stateless; the zero value is ready to use.
type NameResolver struct{}

// NewNameResolver creates a NameResolver.
func NewNameResolver() *NameResolver {
	return &NameResolver{}
}

// Resolve returns the canonical name for text, or false when nothing matches.
// It never errors; callers decide whether an unresolved value means "all" or
// an input error.
func (r *NameResolver) Resolve(kind Kind, text string, parent Parent) (string, bool) {
	return Match(text, candidatesFor(kind, parent))
}

// ResolveSlot resolves slot filter text to the concrete slots it selects.
func (r *NameResolver) ResolveSlot(text string) (domain.SlotSelector, bool) {
	selectors := domain.SlotSelectors()
	name, ok := Match(text, candidatesFor(KindSlot, Parent{}))
	if !ok {
		return domain.SlotSelector{}, false
	}
	for _, s := range selectors {
		if s.Name == name {
			return s, true
		}
	}
	return domain.SlotSelector{}, false
}

// Match runs the resolution passes over candidates. Each pass is applied to
// the whole candidate list before the next one starts, so an exact alias hit
// on a later candidate beats a substring hit on an earlier one.
func Match(text string, candidates []Candidate) (string, bool) {
	needle := domain.NormalizeName(text)
	if needle == "" || len(candidates) == 0 {
		return "", false
	}

	for _, c := range candidates {
		if domain.NormalizeName(c.Name) == needle {
			return c.Name, true
		}
	}

	for _, c := range candidates {
		for _, alias := range c.Aliases {
			if domain.NormalizeName(alias) == needle {
				return c.Name, true
			}
		}
	}

	for _, c := range candidates {
		if strings.Contains(domain.NormalizeName(c.Name), needle) {
			return c.Name, true
		}
		for _, alias := range c.Aliases {
			if strings.Contains(domain.NormalizeName(alias), needle) {
				return c.Name, true
			}
		}
	}

	return "", false
}

func candidatesFor(kind Kind, parent Parent) []Candidate {
	switch kind {
	case KindClass:
		classes := domain.Classes()
		out := make([]Candidate, 0, len(classes))
		for _, c := range classes {
			out = append(out, Candidate{Name: c.Name, Aliases: c.Aliases})
		}
		return out
	case KindSpec:
		if parent.Class == "" {
			return nil
		}
		specs := domain.SpecsOf(parent.Class)
		out := make([]Candidate, 0, len(specs))
		for _, s := range specs {
			out = append(out, Candidate{Name: s.Name, Aliases: s.Aliases})
		}
		return out
	case KindHeroTalent:
		if parent.Class == "" {
			return nil
		}
		heroes := domain.HeroTalentsOf(parent.Class, parent.Spec)
		out := make([]Candidate, 0, len(heroes))
		for _, h := range heroes {
			out = append(out, Candidate{Name: h.Name, Aliases: h.Aliases})
		}
		return out
	case KindSlot:
		selectors := domain.SlotSelectors()
		out := make([]Candidate, 0, len(selectors))
		for _, s := range selectors {
			out = append(out, Candidate{Name: s.Name, Aliases: s.Aliases})
		}
		return out
	}
	return nil
}
