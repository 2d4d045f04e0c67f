package testutils

import (
	"time"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
)

// CreateTestTemplate creates a fully formed test template
func CreateTestTemplate(id, name string) *entities.Template {
	now := time.Now()
	return &entities.Template{
		ID:              id,
		Name:            name,
		Type:            "humanoid",
		Size:            entities.SizeSmall,
		Alignment:       "neutral evil",
		ChallengeRating: "1/4",
		ExperiencePoints: 50,
		ArmorClass:      15,
		HitPoints: entities.HitPoints{
			Average: 7,
			Formula: "2d6",
		},
		Speed: map[string]int{"walk": 30},
		AbilityScores: entities.AbilityScores{
			Strength:     8,
			Dexterity:    14,
			Constitution: 10,
			Intelligence: 10,
			Wisdom:       8,
			Charisma:     8,
		},
		ProficiencyBonus: 2,
		Source:           "compendium",
		Tags:             []string{"humanoid", "small", "CR 1/4"},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// CreateTestInstance creates a test instance bound to the given template
func CreateTestInstance(id string, template *entities.Template) *entities.Instance {
	now := time.Now()
	return &entities.Instance{
		ID:         id,
		TemplateID: template.ID,
		Template:   template.Clone(),
		CurrentHP:  template.HitPoints.Average,
		MaxHP:      template.HitPoints.Average,
		Conditions: []string{},
		Visible:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CreateTestEncounterRecord creates a test encounter record
func CreateTestEncounterRecord(id string, monsters ...entities.EncounterMonster) *entities.EncounterRecord {
	return &entities.EncounterRecord{
		ID:         id,
		Name:       "Test Encounter",
		Difficulty: "medium",
		PartyLevel: 3,
		PartySize:  4,
		Monsters:   monsters,
	}
}
