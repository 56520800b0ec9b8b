package domain

import "strings"

// ClassDescriptor is one playable class. Name is the canonical identifier used
// in cache keys and report locators.
type ClassDescriptor struct {
	Name    string
	Aliases []string
}

// DisplayName returns the class name with underscores replaced by spaces.
func (c ClassDescriptor) DisplayName() string {
	return DisplayName(c.Name)
}

// SpecDescriptor is a specialization owned by exactly one class.
type SpecDescriptor struct {
	Class   string
	Name    string
	Aliases []string
}

func (s SpecDescriptor) DisplayName() string {
	return DisplayName(s.Name)
}

// HeroTalentDescriptor is a sub-specialization attached to exactly two specs
// of one class.
type HeroTalentDescriptor struct {
	Class   string
	Name    string
	Specs   [2]string
	Aliases []string
}

func (h HeroTalentDescriptor) DisplayName() string {
	return DisplayName(h.Name)
}

// AttachedTo reports whether the hero talent belongs to the given spec.
func (h HeroTalentDescriptor) AttachedTo(spec string) bool {
	return h.Specs[0] == spec || h.Specs[1] == spec
}

// DisplayName converts a canonical identifier into user-facing text.
func DisplayName(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

var classes = []ClassDescriptor{
	{Name: "Death_Knight", Aliases: []string{"dk", "death knight", "death_knight", "deathknight"}},
	{Name: "Demon_Hunter", Aliases: []string{"dh", "demon hunter", "demon_hunter", "demonhunter"}},
	{Name: "Druid", Aliases: []string{"druid", "dru"}},
	{Name: "Evoker", Aliases: []string{"evoker", "evo"}},
	{Name: "Hunter", Aliases: []string{"hunter", "hunt"}},
	{Name: "Mage", Aliases: []string{"mage"}},
	{Name: "Monk", Aliases: []string{"monk"}},
	{Name: "Paladin", Aliases: []string{"paladin", "pala", "pally"}},
	{Name: "Priest", Aliases: []string{"priest", "pr"}},
	{Name: "Rogue", Aliases: []string{"rogue", "rog"}},
	{Name: "Shaman", Aliases: []string{"shaman", "sham"}},
	{Name: "Warlock", Aliases: []string{"warlock", "lock"}},
	{Name: "Warrior", Aliases: []string{"warrior", "warr"}},
}

var specs = []SpecDescriptor{
	{Class: "Death_Knight", Name: "Blood", Aliases: []string{"blood", "tank", "blood dk"}},
	{Class: "Death_Knight", Name: "Frost", Aliases: []string{"frost", "frost dk"}},
	{Class: "Death_Knight", Name: "Unholy", Aliases: []string{"unholy", "unholy dk"}},

	{Class: "Demon_Hunter", Name: "Havoc", Aliases: []string{"havoc", "dps", "havoc dh"}},
	{Class: "Demon_Hunter", Name: "Vengeance", Aliases: []string{"vengeance", "veng", "tank dh"}},

	{Class: "Druid", Name: "Balance", Aliases: []string{"balance", "boomkin", "boom", "moonkin"}},
	{Class: "Druid", Name: "Feral", Aliases: []string{"feral", "cat"}},
	{Class: "Druid", Name: "Guardian", Aliases: []string{"guardian", "bear", "tank druid"}},
	{Class: "Druid", Name: "Restoration", Aliases: []string{"restoration", "resto", "resto druid", "tree"}},

	{Class: "Evoker", Name: "Devastation", Aliases: []string{"devastation", "dev", "dps evoker"}},
	{Class: "Evoker", Name: "Preservation", Aliases: []string{"preservation", "pres", "healer evoker"}},
	{Class: "Evoker", Name: "Augmentation", Aliases: []string{"augmentation", "aug", "support evoker"}},

	{Class: "Hunter", Name: "Beast_Mastery", Aliases: []string{"beast mastery", "bm", "beast_mastery", "beastmastery"}},
	{Class: "Hunter", Name: "Marksmanship", Aliases: []string{"marksmanship", "marks", "mm"}},
	{Class: "Hunter", Name: "Survival", Aliases: []string{"survival", "surv", "sv"}},

	{Class: "Mage", Name: "Arcane", Aliases: []string{"arcane", "arc"}},
	{Class: "Mage", Name: "Fire", Aliases: []string{"fire"}},
	{Class: "Mage", Name: "Frost", Aliases: []string{"frost", "frost mage"}},

	{Class: "Monk", Name: "Brewmaster", Aliases: []string{"brewmaster", "brew", "tank monk"}},
	{Class: "Monk", Name: "Mistweaver", Aliases: []string{"mistweaver", "mist", "mw", "healer monk"}},
	{Class: "Monk", Name: "Windwalker", Aliases: []string{"windwalker", "ww", "dps monk"}},

	{Class: "Paladin", Name: "Holy", Aliases: []string{"holy", "holy pala", "healer paladin"}},
	{Class: "Paladin", Name: "Protection", Aliases: []string{"protection", "prot", "prot pala", "tank paladin"}},
	{Class: "Paladin", Name: "Retribution", Aliases: []string{"retribution", "ret", "dps paladin"}},

	{Class: "Priest", Name: "Discipline", Aliases: []string{"discipline", "disc"}},
	{Class: "Priest", Name: "Holy", Aliases: []string{"holy", "holy priest"}},
	{Class: "Priest", Name: "Shadow", Aliases: []string{"shadow", "sp", "shadow priest"}},

	{Class: "Rogue", Name: "Assassination", Aliases: []string{"assassination", "sin", "mut", "mutilation"}},
	{Class: "Rogue", Name: "Outlaw", Aliases: []string{"outlaw", "out"}},
	{Class: "Rogue", Name: "Subtlety", Aliases: []string{"subtlety", "sub"}},

	{Class: "Shaman", Name: "Elemental", Aliases: []string{"elemental", "ele"}},
	{Class: "Shaman", Name: "Enhancement", Aliases: []string{"enhancement", "enh"}},
	{Class: "Shaman", Name: "Restoration", Aliases: []string{"restoration", "resto", "resto shaman"}},

	{Class: "Warlock", Name: "Affliction", Aliases: []string{"affliction", "aff", "affli"}},
	{Class: "Warlock", Name: "Demonology", Aliases: []string{"demonology", "demo"}},
	{Class: "Warlock", Name: "Destruction", Aliases: []string{"destruction", "destro"}},

	{Class: "Warrior", Name: "Arms", Aliases: []string{"arms"}},
	{Class: "Warrior", Name: "Fury", Aliases: []string{"fury"}},
	{Class: "Warrior", Name: "Protection", Aliases: []string{"protection", "prot", "prot warr", "tank warrior"}},
}

var heroTalents = []HeroTalentDescriptor{
	{Class: "Death_Knight", Name: "Deathbringer", Specs: [2]string{"Blood", "Frost"}, Aliases: []string{"deathbringer", "db"}},
	{Class: "Death_Knight", Name: "Rider", Specs: [2]string{"Frost", "Unholy"}, Aliases: []string{"rider", "rider of the apocalypse", "apocalypse", "rota"}},
	{Class: "Death_Knight", Name: "San'layn", Specs: [2]string{"Unholy", "Blood"}, Aliases: []string{"san'layn", "sanlayn", "san layn"}},

	{Class: "Demon_Hunter", Name: "Aldrachi_Reaver", Specs: [2]string{"Havoc", "Vengeance"}, Aliases: []string{"aldrachi reaver", "aldrachi", "reaver", "ar"}},
	{Class: "Demon_Hunter", Name: "Fel-Scarred", Specs: [2]string{"Havoc", "Vengeance"}, Aliases: []string{"fel-scarred", "fel scarred", "scarred", "fs"}},

	{Class: "Druid", Name: "Druid_of_the_Claw", Specs: [2]string{"Feral", "Guardian"}, Aliases: []string{"druid of the claw", "claw", "dotc"}},
	{Class: "Druid", Name: "Elunes_Chosen", Specs: [2]string{"Balance", "Guardian"}, Aliases: []string{"elune's chosen", "elunes chosen", "elune", "ec"}},
	{Class: "Druid", Name: "Keeper_of_the_Grove", Specs: [2]string{"Restoration", "Balance"}, Aliases: []string{"keeper of the grove", "keeper", "grove", "kotg"}},
	{Class: "Druid", Name: "Wildstalker", Specs: [2]string{"Feral", "Restoration"}, Aliases: []string{"wildstalker", "stalker", "ws"}},

	{Class: "Evoker", Name: "Chronowarden", Specs: [2]string{"Preservation", "Augmentation"}, Aliases: []string{"chronowarden", "chrono", "cw"}},
	{Class: "Evoker", Name: "Flameshaper", Specs: [2]string{"Devastation", "Preservation"}, Aliases: []string{"flameshaper", "flame", "fs"}},
	{Class: "Evoker", Name: "Scalecommander", Specs: [2]string{"Augmentation", "Devastation"}, Aliases: []string{"scalecommander", "scale", "sc"}},

	{Class: "Hunter", Name: "Dark_Ranger", Specs: [2]string{"Beast_Mastery", "Marksmanship"}, Aliases: []string{"dark ranger", "dark_ranger", "ranger", "dr"}},
	{Class: "Hunter", Name: "Pack_Leader", Specs: [2]string{"Beast_Mastery", "Survival"}, Aliases: []string{"pack leader", "pack_leader", "pack", "pl"}},
	{Class: "Hunter", Name: "Sentinel", Specs: [2]string{"Marksmanship", "Survival"}, Aliases: []string{"sentinel", "sent"}},

	{Class: "Mage", Name: "Frostfire", Specs: [2]string{"Fire", "Frost"}, Aliases: []string{"frostfire", "ff"}},
	{Class: "Mage", Name: "Spellslinger", Specs: [2]string{"Arcane", "Frost"}, Aliases: []string{"spellslinger", "slinger", "ss"}},
	{Class: "Mage", Name: "Sunfury", Specs: [2]string{"Arcane", "Fire"}, Aliases: []string{"sunfury", "sun", "sf"}},

	{Class: "Monk", Name: "Conduit_of_the_Celestials", Specs: [2]string{"Mistweaver", "Windwalker"}, Aliases: []string{"conduit of the celestials", "conduit", "celestials", "cotc"}},
	{Class: "Monk", Name: "Master_of_Harmony", Specs: [2]string{"Brewmaster", "Mistweaver"}, Aliases: []string{"master of harmony", "harmony", "moh"}},
	{Class: "Monk", Name: "Shadopan", Specs: [2]string{"Brewmaster", "Windwalker"}, Aliases: []string{"shado-pan", "shado pan", "shado", "sp"}},

	{Class: "Paladin", Name: "Herald", Specs: [2]string{"Holy", "Retribution"}, Aliases: []string{"herald of the sun", "herald", "sun", "hots"}},
	{Class: "Paladin", Name: "Lightsmith", Specs: [2]string{"Holy", "Protection"}, Aliases: []string{"lightsmith", "smith", "ls"}},
	{Class: "Paladin", Name: "Templar", Specs: [2]string{"Retribution", "Protection"}, Aliases: []string{"templar", "temp"}},

	{Class: "Priest", Name: "Archon", Specs: [2]string{"Holy", "Shadow"}, Aliases: []string{"archon", "arch"}},
	{Class: "Priest", Name: "Oracle", Specs: [2]string{"Discipline", "Holy"}, Aliases: []string{"oracle", "ora"}},
	{Class: "Priest", Name: "Voidweaver", Specs: [2]string{"Discipline", "Shadow"}, Aliases: []string{"voidweaver", "void", "vw"}},

	{Class: "Rogue", Name: "Deathstalker", Specs: [2]string{"Assassination", "Subtlety"}, Aliases: []string{"deathstalker", "death", "ds"}},
	{Class: "Rogue", Name: "Fatebound", Specs: [2]string{"Assassination", "Outlaw"}, Aliases: []string{"fatebound", "fate", "fb"}},
	{Class: "Rogue", Name: "Trickster", Specs: [2]string{"Outlaw", "Subtlety"}, Aliases: []string{"trickster", "trick", "tr"}},

	{Class: "Shaman", Name: "Farseer", Specs: [2]string{"Elemental", "Restoration"}, Aliases: []string{"farseer", "far", "fs"}},
	{Class: "Shaman", Name: "Stormbringer", Specs: [2]string{"Elemental", "Enhancement"}, Aliases: []string{"stormbringer", "storm", "sb"}},
	{Class: "Shaman", Name: "Totemic", Specs: [2]string{"Enhancement", "Restoration"}, Aliases: []string{"totemic", "totem", "tot"}},

	{Class: "Warlock", Name: "Diabolist", Specs: [2]string{"Demonology", "Destruction"}, Aliases: []string{"diabolist", "diablo", "db"}},
	{Class: "Warlock", Name: "Hellcaller", Specs: [2]string{"Affliction", "Destruction"}, Aliases: []string{"hellcaller", "hell", "hc"}},
	{Class: "Warlock", Name: "Soul_Harvester", Specs: [2]string{"Affliction", "Demonology"}, Aliases: []string{"soul harvester", "harvester", "soul", "sh"}},

	{Class: "Warrior", Name: "Colossus", Specs: [2]string{"Arms", "Protection"}, Aliases: []string{"colossus", "col"}},
	{Class: "Warrior", Name: "Thane", Specs: [2]string{"Fury", "Protection"}, Aliases: []string{"mountain thane", "thane", "mountain", "mt"}},
	{Class: "Warrior", Name: "Slayer", Specs: [2]string{"Arms", "Fury"}, Aliases: []string{"slayer", "slay"}},
}

// Classes returns every class in declaration order.
func Classes() []ClassDescriptor {
	out := make([]ClassDescriptor, len(classes))
	copy(out, classes)
	return out
}

// SpecsOf returns the specs of a class in declaration order.
func SpecsOf(class string) []SpecDescriptor {
	out := make([]SpecDescriptor, 0, 4)
	for _, s := range specs {
		if s.Class == class {
			out = append(out, s)
		}
	}
	return out
}

// HeroTalentsOf returns the hero talents attached to a (class, spec) pair in
// declaration order. An empty spec returns every hero talent of the class.
func HeroTalentsOf(class, spec string) []HeroTalentDescriptor {
	out := make([]HeroTalentDescriptor, 0, 3)
	for _, h := range heroTalents {
		if h.Class != class {
			continue
		}
		if spec != "" && !h.AttachedTo(spec) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// FindClass looks up a class by canonical name.
func FindClass(name string) (ClassDescriptor, bool) {
	for _, c := range classes {
		if c.Name == name {
			return c, true
		}
	}
	return ClassDescriptor{}, false
}

// FindSpec looks up a spec by canonical class and spec name.
func FindSpec(class, name string) (SpecDescriptor, bool) {
	for _, s := range specs {
		if s.Class == class && s.Name == name {
			return s, true
		}
	}
	return SpecDescriptor{}, false
}

// FindHeroTalent looks up a hero talent by canonical class and hero name.
func FindHeroTalent(class, name string) (HeroTalentDescriptor, bool) {
	for _, h := range heroTalents {
		if h.Class == class && h.Name == name {
			return h, true
		}
	}
	return HeroTalentDescriptor{}, false
}
