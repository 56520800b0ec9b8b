package domain

import "sort"

// GearItem is one row of a report gear table.
type GearItem struct {
	Slot   string `json:"slot"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Source string `json:"source,omitempty"`
	Stats  string `json:"stats,omitempty"`
}

// GearSet is an ordered slot -> item mapping. Each slot appears at most once.
type GearSet []GearItem

// Get returns the item for a slot.
func (g GearSet) Get(slot string) (GearItem, bool) {
	for _, item := range g {
		if item.Slot == slot {
			return item, true
		}
	}
	return GearItem{}, false
}

// Clone returns an independent copy. A nil set clones to an empty, non-nil set.
func (g GearSet) Clone() GearSet {
	out := make(GearSet, len(g))
	copy(out, g)
	return out
}

// Filter keeps only the named slots, preserving the set's order.
func (g GearSet) Filter(slotNames []string) GearSet {
	keep := make(map[string]bool, len(slotNames))
	for _, name := range slotNames {
		keep[name] = true
	}
	out := make(GearSet, 0, len(slotNames))
	for _, item := range g {
		if keep[item.Slot] {
			out = append(out, item)
		}
	}
	return out
}

// Names flattens the set into slot -> item name.
func (g GearSet) Names() map[string]string {
	out := make(map[string]string, len(g))
	for _, item := range g {
		out[item.Slot] = item.Name
	}
	return out
}

// SortedBySlot returns a copy ordered by canonical slot order. Unknown slots
// keep their relative order after the known ones.
func (g GearSet) SortedBySlot() GearSet {
	out := g.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := SlotIndex(out[i].Slot), SlotIndex(out[j].Slot)
		if a < 0 {
			return false
		}
		if b < 0 {
			return true
		}
		return a < b
	})
	return out
}

// BuildKey is the canonical (class, spec, hero talent) triple that addresses
// one build on the report page. HeroTalent is empty for builds without one.
type BuildKey struct {
	Class      string `json:"class"`
	Spec       string `json:"spec"`
	HeroTalent string `json:"hero_talent,omitempty"`
}

func (k BuildKey) String() string {
	if k.HeroTalent == "" {
		return k.Class + "/" + k.Spec
	}
	return k.Class + "/" + k.Spec + "/" + k.HeroTalent
}
