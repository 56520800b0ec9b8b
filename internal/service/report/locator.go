package report

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/kapu/azerite-bot-go/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed locators.yaml
var defaultLocatorsYAML []byte

// Locator says where one build's gear table lives on the report page.
// Section is the stable element id of the build's player block; Selector is
// the best-effort structural path, which drifts between page revisions.
type Locator struct {
	Key      domain.BuildKey
	Section  string
	XPath    string
	Selector string
}

type locatorFile struct {
	Locators []struct {
		Class      string `yaml:"class"`
		Spec       string `yaml:"spec"`
		HeroTalent string `yaml:"hero_talent"`
		Section    string `yaml:"section"`
		XPath      string `yaml:"xpath"`
	} `yaml:"locators"`
}

// LocatorTable is built once and never mutated.
type LocatorTable struct {
	entries []Locator
	byKey   map[domain.BuildKey]Locator
}

// DefaultLocators parses the embedded locator table.
func DefaultLocators() (*LocatorTable, error) {
	return ParseLocators(defaultLocatorsYAML)
}

// ParseLocators parses and validates a locator table. Every entry must name a
// known class, spec and (optional) hero talent attached to that spec.
func ParseLocators(data []byte) (*LocatorTable, error) {
	var file locatorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse locators: %w", err)
	}

	table := &LocatorTable{
		entries: make([]Locator, 0, len(file.Locators)),
		byKey:   make(map[domain.BuildKey]Locator, len(file.Locators)),
	}

	for i, raw := range file.Locators {
		key := domain.BuildKey{Class: raw.Class, Spec: raw.Spec, HeroTalent: raw.HeroTalent}
		if err := validateKey(key); err != nil {
			return nil, fmt.Errorf("locator %d: %w", i, err)
		}
		if raw.Section == "" {
			return nil, fmt.Errorf("locator %d (%s): section is required", i, key)
		}
		if _, dup := table.byKey[key]; dup {
			return nil, fmt.Errorf("locator %d: duplicate key %s", i, key)
		}

		loc := Locator{Key: key, Section: raw.Section, XPath: raw.XPath}
		if raw.XPath != "" {
			selector, err := XPathToSelector(raw.XPath)
			if err != nil {
				return nil, fmt.Errorf("locator %d (%s): %w", i, key, err)
			}
			loc.Selector = selector
		}

		table.entries = append(table.entries, loc)
		table.byKey[key] = loc
	}

	sort.SliceStable(table.entries, func(i, j int) bool {
		return taxonomyLess(table.entries[i].Key, table.entries[j].Key)
	})

	return table, nil
}

func validateKey(key domain.BuildKey) error {
	if _, ok := domain.FindClass(key.Class); !ok {
		return fmt.Errorf("unknown class %q", key.Class)
	}
	if _, ok := domain.FindSpec(key.Class, key.Spec); !ok {
		return fmt.Errorf("unknown spec %q for %s", key.Spec, key.Class)
	}
	if key.HeroTalent == "" {
		return nil
	}
	hero, ok := domain.FindHeroTalent(key.Class, key.HeroTalent)
	if !ok {
		return fmt.Errorf("unknown hero talent %q for %s", key.HeroTalent, key.Class)
	}
	if !hero.AttachedTo(key.Spec) {
		return fmt.Errorf("hero talent %s does not attach to %s", key.HeroTalent, key.Spec)
	}
	return nil
}

// Lookup returns the locator for a fully resolved build.
func (t *LocatorTable) Lookup(key domain.BuildKey) (Locator, bool) {
	loc, ok := t.byKey[key]
	return loc, ok
}

// All returns every locator in taxonomy declaration order, hero-less builds
// before hero talent builds of the same spec.
func (t *LocatorTable) All() []Locator {
	out := make([]Locator, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of locators.
func (t *LocatorTable) Len() int {
	return len(t.entries)
}

// HeroTalentsWithLocator returns the hero talents of (class, spec) that have a
// locator, in declaration order.
func (t *LocatorTable) HeroTalentsWithLocator(class, spec string) []domain.HeroTalentDescriptor {
	heroes := domain.HeroTalentsOf(class, spec)
	out := make([]domain.HeroTalentDescriptor, 0, len(heroes))
	for _, h := range heroes {
		if _, ok := t.byKey[domain.BuildKey{Class: class, Spec: spec, HeroTalent: h.Name}]; ok {
			out = append(out, h)
		}
	}
	return out
}

func taxonomyLess(a, b domain.BuildKey) bool {
	if ca, cb := classIndex(a.Class), classIndex(b.Class); ca != cb {
		return ca < cb
	}
	if sa, sb := specIndex(a.Class, a.Spec), specIndex(b.Class, b.Spec); sa != sb {
		return sa < sb
	}
	return heroIndex(a.Class, a.HeroTalent) < heroIndex(b.Class, b.HeroTalent)
}

func classIndex(class string) int {
	for i, c := range domain.Classes() {
		if c.Name == class {
			return i
		}
	}
	return -1
}

func specIndex(class, spec string) int {
	for i, s := range domain.SpecsOf(class) {
		if s.Name == spec {
			return i
		}
	}
	return -1
}

func heroIndex(class, hero string) int {
	if hero == "" {
		return -1
	}
	for i, h := range domain.HeroTalentsOf(class, "") {
		if h.Name == hero {
			return i
		}
	}
	return -1
}
