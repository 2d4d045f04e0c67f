package entities

import "time"

// Position locates an instance on a table
type Position struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	TableID string  `json:"table_id,omitempty"`
}

// Concentration tracks a spell an instance is concentrating on
type Concentration struct {
	Spell    string `json:"spell"`
	Duration string `json:"duration,omitempty"`
	SaveDC   int    `json:"save_dc,omitempty"`
}

// Instance is a mutable, session-scoped creature derived from a template.
// Template holds a denormalized copy taken at creation time; later edits to
// the registry template do not propagate here.
type Instance struct {
	ID             string          `json:"id"`
	TemplateID     string          `json:"template_id"`
	Template       *Template       `json:"template"`
	DisplayName    string          `json:"display_name,omitempty"`
	CurrentHP      int             `json:"current_hp"`
	MaxHP          int             `json:"max_hp"`
	TempHP         int             `json:"temp_hp"`
	Conditions     []string        `json:"conditions"`
	Concentration  *Concentration  `json:"concentration,omitempty"`
	Initiative     *int            `json:"initiative,omitempty"`
	Position       *Position       `json:"position,omitempty"`
	AbilityScores  *AbilityScores  `json:"ability_scores,omitempty"`
	Abilities      []*AbilityEntry `json:"abilities,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Visible        bool            `json:"visible"`
	Defeated       bool            `json:"defeated"`
	EncounterID    string          `json:"encounter_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Name returns the display name override when set, else the template name
func (i *Instance) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if i.Template != nil {
		return i.Template.Name
	}
	return i.ID
}

// IsAlive returns true while the instance has hit points remaining
func (i *Instance) IsAlive() bool {
	return i.CurrentHP > 0 && !i.Defeated
}

// Clone returns a deep copy of the instance
func (i *Instance) Clone() *Instance {
	if i == nil {
		return nil
	}

	out := *i
	out.Template = i.Template.Clone()
	out.Conditions = append([]string(nil), i.Conditions...)
	out.Abilities = cloneAbilities(i.Abilities)

	if i.Concentration != nil {
		c := *i.Concentration
		out.Concentration = &c
	}
	if i.Initiative != nil {
		init := *i.Initiative
		out.Initiative = &init
	}
	if i.Position != nil {
		p := *i.Position
		out.Position = &p
	}
	if i.AbilityScores != nil {
		scores := *i.AbilityScores
		out.AbilityScores = &scores
	}

	return &out
}
