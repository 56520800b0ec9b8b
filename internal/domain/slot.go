package domain

import "strings"

// SlotDescriptor is one equipment slot. Family groups slots that a single
// filter word can select together ("Finger" selects Finger1 and Finger2).
type SlotDescriptor struct {
	Name    string
	Aliases []string
	Family  string
}

// SlotSelector is something a slot filter can resolve to: either a concrete
// slot or a whole family.
type SlotSelector struct {
	Name    string
	Aliases []string
	Slots   []string
}

// Slot order follows the report's gear table, which is also the display order.
var slots = []SlotDescriptor{
	{Name: "Head", Aliases: []string{"head", "helmet", "helm"}, Family: "Head"},
	{Name: "Neck", Aliases: []string{"neck", "necklace", "amulet"}, Family: "Neck"},
	{Name: "Shoulders", Aliases: []string{"shoulders", "shoulder", "shoulder pads"}, Family: "Shoulders"},
	{Name: "Back", Aliases: []string{"back", "cloak", "cape"}, Family: "Back"},
	{Name: "Chest", Aliases: []string{"chest", "robe", "tunic"}, Family: "Chest"},
	{Name: "Wrists", Aliases: []string{"wrists", "bracers", "wrist"}, Family: "Wrists"},
	{Name: "Hands", Aliases: []string{"hands", "gloves", "gauntlets", "hand"}, Family: "Hands"},
	{Name: "Waist", Aliases: []string{"waist", "belt"}, Family: "Waist"},
	{Name: "Legs", Aliases: []string{"legs", "pants", "leggings", "leg"}, Family: "Legs"},
	{Name: "Feet", Aliases: []string{"feet", "boots", "shoes"}, Family: "Feet"},
	{Name: "Finger1", Aliases: []string{"finger1", "ring1"}, Family: "Finger"},
	{Name: "Finger2", Aliases: []string{"finger2", "ring2"}, Family: "Finger"},
	{Name: "Trinket1", Aliases: []string{"trinket1"}, Family: "Trinket"},
	{Name: "Trinket2", Aliases: []string{"trinket2"}, Family: "Trinket"},
	{Name: "Main Hand", Aliases: []string{"main hand", "main_hand", "mainhand", "weapon", "weapon1", "mh", "main-hand"}, Family: "Main Hand"},
	{Name: "Off Hand", Aliases: []string{"off hand", "off_hand", "offhand", "weapon2", "oh", "off-hand"}, Family: "Off Hand"},
}

var slotFamilies = []struct {
	Name    string
	Aliases []string
}{
	{Name: "Finger", Aliases: []string{"finger", "ring", "rings", "fingers"}},
	{Name: "Trinket", Aliases: []string{"trinket", "trinkets"}},
}

// Slots returns every slot in canonical display order.
func Slots() []SlotDescriptor {
	out := make([]SlotDescriptor, len(slots))
	copy(out, slots)
	return out
}

// SlotIndex returns the canonical position of a slot, or -1.
func SlotIndex(name string) int {
	for i, s := range slots {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// SlotSelectors returns the filter candidates in resolution order. A family
// selector is listed immediately before its first member so that a bare
// "finger" or "trinket" prefers the family over a single slot.
func SlotSelectors() []SlotSelector {
	out := make([]SlotSelector, 0, len(slots)+len(slotFamilies))
	seen := make(map[string]bool, len(slotFamilies))
	for _, s := range slots {
		if s.Family != s.Name && !seen[s.Family] {
			for _, f := range slotFamilies {
				if f.Name == s.Family {
					out = append(out, SlotSelector{Name: f.Name, Aliases: f.Aliases, Slots: familyMembers(f.Name)})
				}
			}
			seen[s.Family] = true
		}
		out = append(out, SlotSelector{Name: s.Name, Aliases: s.Aliases, Slots: []string{s.Name}})
	}
	return out
}

func familyMembers(family string) []string {
	members := make([]string, 0, 2)
	for _, s := range slots {
		if s.Family == family {
			members = append(members, s.Name)
		}
	}
	return members
}

// LookupSlot matches report cell text against slot names and aliases exactly.
// Report tables use lower-case identifiers such as "main_hand".
func LookupSlot(text string) (SlotDescriptor, bool) {
	needle := NormalizeName(text)
	if needle == "" {
		return SlotDescriptor{}, false
	}
	for _, s := range slots {
		if NormalizeName(s.Name) == needle {
			return s, true
		}
		for _, alias := range s.Aliases {
			if NormalizeName(alias) == needle {
				return s, true
			}
		}
	}
	return SlotDescriptor{}, false
}

// NormalizeName lower-cases, trims, treats underscores as spaces and
// collapses runs of whitespace.
func NormalizeName(text string) string {
	text = strings.ToLower(strings.ReplaceAll(text, "_", " "))
	return strings.Join(strings.Fields(text), " ")
}
