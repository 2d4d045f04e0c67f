package entities

// TemplateUpdate carries a partial template mutation. Nil fields are left
// untouched by the merge.
type TemplateUpdate struct {
	Name                *string            `json:"name,omitempty"`
	Type                *string            `json:"type,omitempty"`
	Subtype             *string            `json:"subtype,omitempty"`
	Size                *Size              `json:"size,omitempty"`
	Alignment           *string            `json:"alignment,omitempty"`
	ChallengeRating     *string            `json:"challenge_rating,omitempty"`
	ArmorClass          *int               `json:"armor_class,omitempty"`
	HitPoints           *HitPoints         `json:"hit_points,omitempty"`
	Speed               map[string]int     `json:"speed,omitempty"`
	AbilityScores       *AbilityScores     `json:"ability_scores,omitempty"`
	SavingThrows        map[string]int     `json:"saving_throws,omitempty"`
	Skills              []SkillEntry       `json:"skills,omitempty"`
	Resistances         []ResistanceEntry  `json:"resistances,omitempty"`
	ConditionImmunities []string           `json:"condition_immunities,omitempty"`
	Senses              []SenseEntry       `json:"senses,omitempty"`
	Languages           []string           `json:"languages,omitempty"`
	Abilities           []*AbilityEntry    `json:"abilities,omitempty"`
	Spellcasting        *Spellcasting      `json:"spellcasting,omitempty"`
	Legendary           *LegendaryBlock    `json:"legendary,omitempty"`
	Description         *string            `json:"description,omitempty"`
	Source              *string            `json:"source,omitempty"`
	Tags                []string           `json:"tags,omitempty"`
}

// InstanceUpdate carries a partial instance mutation. Nil fields are left
// untouched by the merge.
type InstanceUpdate struct {
	DisplayName   *string         `json:"display_name,omitempty"`
	CurrentHP     *int            `json:"current_hp,omitempty"`
	MaxHP         *int            `json:"max_hp,omitempty"`
	TempHP        *int            `json:"temp_hp,omitempty"`
	Conditions    []string        `json:"conditions,omitempty"`
	Concentration *Concentration  `json:"concentration,omitempty"`
	Initiative    *int            `json:"initiative,omitempty"`
	Position      *Position       `json:"position,omitempty"`
	AbilityScores *AbilityScores  `json:"ability_scores,omitempty"`
	Abilities     []*AbilityEntry `json:"abilities,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Visible       *bool           `json:"visible,omitempty"`
	Defeated      *bool           `json:"defeated,omitempty"`
	EncounterID   *string         `json:"encounter_id,omitempty"`
}
