package bestiary

import (
	"time"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	"github.com/KirkDiggler/vtt-bestiary/internal/rules"
)

func now() time.Time {
	return time.Now()
}

// applyDerivedStats recomputes the stats that are pure functions of the
// challenge rating. They are never accepted from callers.
func applyDerivedStats(t *entities.Template) {
	t.ExperiencePoints = rules.XPForChallengeRating(t.ChallengeRating)
	t.ProficiencyBonus = rules.ProficiencyBonusForChallengeRating(t.ChallengeRating)
}

// mergeTemplate applies the set fields of a partial update
func mergeTemplate(t *entities.Template, u *entities.TemplateUpdate) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Type != nil {
		t.Type = *u.Type
	}
	if u.Subtype != nil {
		t.Subtype = *u.Subtype
	}
	if u.Size != nil {
		t.Size = *u.Size
	}
	if u.Alignment != nil {
		t.Alignment = *u.Alignment
	}
	if u.ChallengeRating != nil {
		t.ChallengeRating = *u.ChallengeRating
	}
	if u.ArmorClass != nil {
		t.ArmorClass = *u.ArmorClass
	}
	if u.HitPoints != nil {
		t.HitPoints = *u.HitPoints
	}
	if u.Speed != nil {
		t.Speed = u.Speed
	}
	if u.AbilityScores != nil {
		t.AbilityScores = *u.AbilityScores
	}
	if u.SavingThrows != nil {
		t.SavingThrows = u.SavingThrows
	}
	if u.Skills != nil {
		t.Skills = u.Skills
	}
	if u.Resistances != nil {
		t.Resistances = u.Resistances
	}
	if u.ConditionImmunities != nil {
		t.ConditionImmunities = u.ConditionImmunities
	}
	if u.Senses != nil {
		t.Senses = u.Senses
	}
	if u.Languages != nil {
		t.Languages = u.Languages
	}
	if u.Abilities != nil {
		t.Abilities = u.Abilities
	}
	if u.Spellcasting != nil {
		t.Spellcasting = u.Spellcasting
	}
	if u.Legendary != nil {
		t.Legendary = u.Legendary
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Source != nil {
		t.Source = *u.Source
	}
	if u.Tags != nil {
		t.Tags = u.Tags
	}
}

// mergeInstance applies the set fields of a partial update
func mergeInstance(i *entities.Instance, u *entities.InstanceUpdate) {
	if u.DisplayName != nil {
		i.DisplayName = *u.DisplayName
	}
	if u.CurrentHP != nil {
		i.CurrentHP = *u.CurrentHP
	}
	if u.MaxHP != nil {
		i.MaxHP = *u.MaxHP
	}
	if u.TempHP != nil {
		i.TempHP = *u.TempHP
	}
	if u.Conditions != nil {
		i.Conditions = u.Conditions
	}
	if u.Concentration != nil {
		i.Concentration = u.Concentration
	}
	if u.Initiative != nil {
		i.Initiative = u.Initiative
	}
	if u.Position != nil {
		i.Position = u.Position
	}
	if u.AbilityScores != nil {
		i.AbilityScores = u.AbilityScores
	}
	if u.Abilities != nil {
		i.Abilities = u.Abilities
	}
	if u.Notes != nil {
		i.Notes = *u.Notes
	}
	if u.Visible != nil {
		i.Visible = *u.Visible
	}
	if u.Defeated != nil {
		i.Defeated = *u.Defeated
	}
	if u.EncounterID != nil {
		i.EncounterID = *u.EncounterID
	}
}
