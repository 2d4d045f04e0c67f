package entities

// EncounterMonster pairs a template with how many of it an encounter uses
type EncounterMonster struct {
	TemplateID string `json:"template_id"`
	Count      int    `json:"count"`
}

// EncounterRecord is a saved encounter composition. It is plain data carried
// through snapshots; nothing in this core computes TotalXP, AdjustedXP or
// Difficulty.
type EncounterRecord struct {
	ID          string             `json:"id"`
	Name        string             `json:"name,omitempty"`
	Difficulty  string             `json:"difficulty,omitempty"`
	PartyLevel  int                `json:"party_level,omitempty"`
	PartySize   int                `json:"party_size,omitempty"`
	Monsters    []EncounterMonster `json:"monsters,omitempty"`
	TotalXP     int                `json:"total_xp,omitempty"`
	AdjustedXP  int                `json:"adjusted_xp,omitempty"`
	Environment string             `json:"environment,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
}

// Snapshot is the full in-memory state handed to and from an external
// persistence layer.
type Snapshot struct {
	Templates  []*Template        `json:"templates,omitempty"`
	Instances  []*Instance        `json:"instances,omitempty"`
	Encounters []*EncounterRecord `json:"encounters,omitempty"`
}
