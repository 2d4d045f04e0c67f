package services

import (
	bestiaryService "github.com/KirkDiggler/vtt-bestiary/internal/services/bestiary"

	"github.com/KirkDiggler/vtt-bestiary/internal/dice"
	"github.com/KirkDiggler/vtt-bestiary/internal/events"
	"github.com/KirkDiggler/vtt-bestiary/internal/repositories/encounters"
	"github.com/KirkDiggler/vtt-bestiary/internal/repositories/instances"
	"github.com/KirkDiggler/vtt-bestiary/internal/repositories/templates"
)

// Provider holds all service instances
type Provider struct {
	BestiaryService bestiaryService.Service
	EventBus        *events.Bus
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	TemplateRepository  templates.Repository
	InstanceRepository  instances.Repository
	EncounterRepository encounters.Repository
	Roller              dice.Roller
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg == nil {
		cfg = &ProviderConfig{}
	}

	// Use in-memory repositories if none provided
	templateRepo := cfg.TemplateRepository
	if templateRepo == nil {
		templateRepo = templates.NewInMemoryRepository()
	}
	instanceRepo := cfg.InstanceRepository
	if instanceRepo == nil {
		instanceRepo = instances.NewInMemoryRepository()
	}
	encounterRepo := cfg.EncounterRepository
	if encounterRepo == nil {
		encounterRepo = encounters.NewInMemoryRepository()
	}

	bus := events.NewBus()

	svc := bestiaryService.NewService(&bestiaryService.ServiceConfig{
		TemplateRepository:  templateRepo,
		InstanceRepository:  instanceRepo,
		EncounterRepository: encounterRepo,
		EventBus:            bus,
		Roller:              cfg.Roller,
	})

	return &Provider{
		BestiaryService: svc,
		EventBus:        bus,
	}
}
