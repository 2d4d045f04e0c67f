// Package entities holds the canonical creature data model: templates
// converted from compendium records, per-session instances derived from
// them, and the snapshot shape used by import/export.
package entities

import "time"

// Size represents a creature size category
type Size string

const (
	SizeTiny       Size = "Tiny"
	SizeSmall      Size = "Small"
	SizeMedium     Size = "Medium"
	SizeLarge      Size = "Large"
	SizeHuge       Size = "Huge"
	SizeGargantuan Size = "Gargantuan"
)

// AbilityEntryType classifies how an ability entry is used in play
type AbilityEntryType string

const (
	AbilityTypeAction          AbilityEntryType = "action"
	AbilityTypeBonusAction     AbilityEntryType = "bonus_action"
	AbilityTypeReaction        AbilityEntryType = "reaction"
	AbilityTypeLegendaryAction AbilityEntryType = "legendary_action"
	AbilityTypeLairAction      AbilityEntryType = "lair_action"
	AbilityTypePassive         AbilityEntryType = "passive"
)

// AbilityScores holds the six core ability scores
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// AbilityNames lists the six ability score names in canonical order
var AbilityNames = []string{
	"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma",
}

// Damage describes the damage component of an ability entry
type Damage struct {
	Dice  string `json:"dice"`
	Type  string `json:"type"`
	Bonus int    `json:"bonus,omitempty"`
}

// AreaEffect describes an area of effect attached to an ability entry
type AreaEffect struct {
	Shape string `json:"shape"`
	Size  int    `json:"size"`
}

// AbilityEntry is a single action, reaction or other usable ability on a
// creature statblock
type AbilityEntry struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        AbilityEntryType `json:"type"`
	Description string           `json:"description"`
	Recharge    string           `json:"recharge,omitempty"`
	Damage      *Damage          `json:"damage,omitempty"`
	AttackBonus *int             `json:"attack_bonus,omitempty"`
	SaveDC      *int             `json:"save_dc,omitempty"`
	SaveAbility string           `json:"save_ability,omitempty"`
	Range       string           `json:"range,omitempty"`
	AreaEffect  *AreaEffect      `json:"area_effect,omitempty"`
}

// SkillEntry is a skill bonus on a statblock. Expertise is modeled but never
// set by conversion; no compendium source carries an expertise signal.
type SkillEntry struct {
	Skill      string `json:"skill"`
	Bonus      int    `json:"bonus"`
	Proficient bool   `json:"proficient"`
	Expertise  bool   `json:"expertise"`
}

// ResistanceEntry tracks how a creature interacts with one damage type. The
// three flags are independent: a merged statblock may mark the same type
// both resistant and immune.
type ResistanceEntry struct {
	DamageType string `json:"damage_type"`
	Resistant  bool   `json:"resistant"`
	Immune     bool   `json:"immune"`
	Vulnerable bool   `json:"vulnerable"`
}

// SenseEntry is a special sense with its range in feet
type SenseEntry struct {
	Type        string `json:"type"`
	Range       int    `json:"range"`
	Description string `json:"description,omitempty"`
}

// HitPoints holds the average and the dice formula from a statblock
type HitPoints struct {
	Average int    `json:"average"`
	Formula string `json:"formula"`
}

// Spellcasting describes a creature's spellcasting block
type Spellcasting struct {
	Level       int                 `json:"level"`
	Ability     string              `json:"ability"`
	SaveDC      int                 `json:"save_dc"`
	AttackBonus int                 `json:"attack_bonus"`
	Slots       map[int]int         `json:"slots,omitempty"`
	Spells      map[string][]string `json:"spells,omitempty"`
}

// LegendaryBlock describes a creature's legendary action economy
type LegendaryBlock struct {
	ActionsPerRound int             `json:"actions_per_round"`
	Description     string          `json:"description,omitempty"`
	Actions         []*AbilityEntry `json:"actions,omitempty"`
}

// Template is the canonical, reusable definition of a creature statblock.
// ExperiencePoints and ProficiencyBonus are derived from ChallengeRating and
// are never set independently of it.
type Template struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Type                string            `json:"type"`
	Subtype             string            `json:"subtype,omitempty"`
	Size                Size              `json:"size"`
	Alignment           string            `json:"alignment,omitempty"`
	ChallengeRating     string            `json:"challenge_rating"`
	ExperiencePoints    int               `json:"experience_points"`
	ArmorClass          int               `json:"armor_class"`
	HitPoints           HitPoints         `json:"hit_points"`
	Speed               map[string]int    `json:"speed"`
	AbilityScores       AbilityScores     `json:"ability_scores"`
	SavingThrows        map[string]int    `json:"saving_throws,omitempty"`
	Skills              []SkillEntry      `json:"skills,omitempty"`
	Resistances         []ResistanceEntry `json:"resistances,omitempty"`
	ConditionImmunities []string          `json:"condition_immunities,omitempty"`
	Senses              []SenseEntry      `json:"senses,omitempty"`
	Languages           []string          `json:"languages,omitempty"`
	ProficiencyBonus    int               `json:"proficiency_bonus"`
	Abilities           []*AbilityEntry   `json:"abilities,omitempty"`
	Spellcasting        *Spellcasting     `json:"spellcasting,omitempty"`
	Legendary           *LegendaryBlock   `json:"legendary,omitempty"`
	Description         string            `json:"description,omitempty"`
	Source              string            `json:"source,omitempty"`
	Tags                []string          `json:"tags,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Clone returns a deep copy of the template. Instances snapshot their
// template through this so later template edits never leak into live
// sessions.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}

	out := *t

	if t.Speed != nil {
		out.Speed = make(map[string]int, len(t.Speed))
		for k, v := range t.Speed {
			out.Speed[k] = v
		}
	}
	if t.SavingThrows != nil {
		out.SavingThrows = make(map[string]int, len(t.SavingThrows))
		for k, v := range t.SavingThrows {
			out.SavingThrows[k] = v
		}
	}
	out.Skills = append([]SkillEntry(nil), t.Skills...)
	out.Resistances = append([]ResistanceEntry(nil), t.Resistances...)
	out.ConditionImmunities = append([]string(nil), t.ConditionImmunities...)
	out.Senses = append([]SenseEntry(nil), t.Senses...)
	out.Languages = append([]string(nil), t.Languages...)
	out.Tags = append([]string(nil), t.Tags...)
	out.Abilities = cloneAbilities(t.Abilities)

	if t.Spellcasting != nil {
		sc := *t.Spellcasting
		if t.Spellcasting.Slots != nil {
			sc.Slots = make(map[int]int, len(t.Spellcasting.Slots))
			for k, v := range t.Spellcasting.Slots {
				sc.Slots[k] = v
			}
		}
		if t.Spellcasting.Spells != nil {
			sc.Spells = make(map[string][]string, len(t.Spellcasting.Spells))
			for k, v := range t.Spellcasting.Spells {
				sc.Spells[k] = append([]string(nil), v...)
			}
		}
		out.Spellcasting = &sc
	}

	if t.Legendary != nil {
		leg := *t.Legendary
		leg.Actions = cloneAbilities(t.Legendary.Actions)
		out.Legendary = &leg
	}

	return &out
}

func cloneAbilities(abilities []*AbilityEntry) []*AbilityEntry {
	if abilities == nil {
		return nil
	}
	out := make([]*AbilityEntry, len(abilities))
	for i, a := range abilities {
		entry := *a
		if a.Damage != nil {
			dmg := *a.Damage
			entry.Damage = &dmg
		}
		if a.AttackBonus != nil {
			ab := *a.AttackBonus
			entry.AttackBonus = &ab
		}
		if a.SaveDC != nil {
			dc := *a.SaveDC
			entry.SaveDC = &dc
		}
		if a.AreaEffect != nil {
			ae := *a.AreaEffect
			entry.AreaEffect = &ae
		}
		out[i] = &entry
	}
	return out
}
