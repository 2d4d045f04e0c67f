// Package bestiary implements the core service: compendium ingestion,
// template and instance lifecycles, search, and snapshot import/export.
// All mutating operations must be serialized by the caller; reads may
// interleave freely.
package bestiary

//go:generate mockgen -destination=mock/mock_service.go -package=mockbestiary -source=service.go

import (
	"context"
	"log"

	"github.com/KirkDiggler/vtt-bestiary/internal/compendium"
	"github.com/KirkDiggler/vtt-bestiary/internal/dice"
	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	corerr "github.com/KirkDiggler/vtt-bestiary/internal/errors"
	"github.com/KirkDiggler/vtt-bestiary/internal/events"
	"github.com/KirkDiggler/vtt-bestiary/internal/repositories/encounters"
	"github.com/KirkDiggler/vtt-bestiary/internal/repositories/instances"
	"github.com/KirkDiggler/vtt-bestiary/internal/repositories/templates"
	"github.com/KirkDiggler/vtt-bestiary/internal/search"
	"github.com/KirkDiggler/vtt-bestiary/internal/uuid"
)

// CreateInstanceInput holds the optional fields for spawning an instance
type CreateInstanceInput struct {
	TemplateID  string
	DisplayName string
	Position    *entities.Position
	EncounterID string
}

// Service defines the bestiary core interface

type Service interface {
	// LoadCompendium converts a raw compendium payload in one batch pass
	LoadCompendium(ctx context.Context, payload *compendium.Payload) (loaded int, err error)

	// SearchMonsters answers a free-text query plus optional filters
	SearchMonsters(ctx context.Context, query string, filters *search.Filters) ([]*entities.Template, error)

	// CreateTemplate stores a custom template, assigning id and timestamps
	CreateTemplate(ctx context.Context, template *entities.Template) (*entities.Template, error)

	// UpdateTemplate merges a partial update into an existing template
	UpdateTemplate(ctx context.Context, id string, update *entities.TemplateUpdate) (*entities.Template, error)

	// DeleteTemplate removes a template unless instances still reference it
	DeleteTemplate(ctx context.Context, id string) bool

	// GetTemplate retrieves a template by id
	GetTemplate(ctx context.Context, id string) (*entities.Template, error)

	// GetAllTemplates retrieves every template
	GetAllTemplates(ctx context.Context) ([]*entities.Template, error)

	// CreateInstance spawns an instance from a template snapshot. Returns
	// nil when the template id is unknown.
	CreateInstance(ctx context.Context, input *CreateInstanceInput) *entities.Instance

	// UpdateInstance merges a partial update into an existing instance
	UpdateInstance(ctx context.Context, id string, update *entities.InstanceUpdate) (*entities.Instance, error)

	// DeleteInstance removes an instance unconditionally
	DeleteInstance(ctx context.Context, id string) bool

	// GetInstance retrieves an instance by id
	GetInstance(ctx context.Context, id string) (*entities.Instance, error)

	// GetAllInstances retrieves every instance
	GetAllInstances(ctx context.Context) ([]*entities.Instance, error)

	// RollHitPoints rolls a template's hit point formula, flooring at 1.
	// Never called automatically by CreateInstance.
	RollHitPoints(template *entities.Template) int

	// ExportData returns a read-only snapshot of all held state
	ExportData(ctx context.Context) (*entities.Snapshot, error)

	// ImportData merges a snapshot into the live stores by id
	ImportData(ctx context.Context, snapshot *entities.Snapshot) error

	// Reset drops all state. Provided for test isolation.
	Reset(ctx context.Context) error
}

type service struct {
	templateRepo  templates.Repository
	instanceRepo  instances.Repository
	encounterRepo encounters.Repository
	index         *search.Index
	bus           *events.Bus
	roller        dice.Roller
	uuidGenerator uuid.Generator
	converter     *compendium.Converter
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	TemplateRepository  templates.Repository
	InstanceRepository  instances.Repository
	EncounterRepository encounters.Repository
	EventBus            *events.Bus
	Roller              dice.Roller
	UUIDGenerator       uuid.Generator
}

// NewService creates a new bestiary service, defaulting to in-memory
// repositories and a random roller for anything not provided
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}

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
	bus := cfg.EventBus
	if bus == nil {
		bus = events.NewBus()
	}
	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}
	uuidGenerator := cfg.UUIDGenerator
	if uuidGenerator == nil {
		uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	return &service{
		templateRepo:  templateRepo,
		instanceRepo:  instanceRepo,
		encounterRepo: encounterRepo,
		index:         search.NewIndex(),
		bus:           bus,
		roller:        roller,
		uuidGenerator: uuidGenerator,
		converter:     compendium.NewConverter(),
	}
}

// LoadCompendium converts a raw compendium payload in one batch pass.
// Per-record failures are skipped; only an unusable payload fails the load.
func (s *service) LoadCompendium(ctx context.Context, payload *compendium.Payload) (int, error) {
	if payload == nil {
		err := corerr.InvalidArgument("compendium payload is required")
		s.emit(&events.CompendiumLoadFailedEvent{Err: err})
		return 0, err
	}

	converted, skipped := s.converter.ConvertAll(payload)

	for _, template := range converted {
		// Name-derived ids: a later record with the same name overwrites
		if err := s.templateRepo.Put(ctx, template); err != nil {
			log.Printf("bestiary: failed to store template %s: %v", template.ID, err)
		}
	}

	if err := s.rebuildIndex(ctx); err != nil {
		s.emit(&events.CompendiumLoadFailedEvent{Err: err})
		return 0, err
	}

	log.Printf("bestiary: compendium loaded, %d templates, %d skipped", len(converted), len(skipped))
	s.emit(&events.CompendiumLoadedEvent{Loaded: len(converted), Skipped: len(skipped)})
	return len(converted), nil
}

// SearchMonsters answers a free-text query plus optional structured filters
func (s *service) SearchMonsters(ctx context.Context, query string, filters *search.Filters) ([]*entities.Template, error) {
	return s.index.Search(query, filters), nil
}

// CreateTemplate stores a custom template with a fresh id and timestamps.
// Experience points and proficiency bonus are recomputed from the challenge
// rating; they are never accepted from the caller.
func (s *service) CreateTemplate(ctx context.Context, template *entities.Template) (*entities.Template, error) {
	if template == nil {
		return nil, corerr.InvalidArgument("template is required")
	}

	stored := template.Clone()
	stored.ID = "custom_" + s.uuidGenerator.New()
	stored.CreatedAt = now()
	stored.UpdatedAt = stored.CreatedAt
	applyDerivedStats(stored)

	if err := s.templateRepo.Create(ctx, stored); err != nil {
		return nil, corerr.Wrapf(err, "failed to create template '%s'", stored.Name)
	}

	if err := s.rebuildIndex(ctx); err != nil {
		return nil, err
	}
	s.emit(&events.TemplateCreatedEvent{Template: stored})

	return stored, nil
}

// UpdateTemplate merges a partial update, bumps the timestamp and rebuilds
// the index. Unknown ids mutate nothing.
func (s *service) UpdateTemplate(ctx context.Context, id string, update *entities.TemplateUpdate) (*entities.Template, error) {
	existing, err := s.templateRepo.Get(ctx, id)
	if err != nil {
		log.Printf("bestiary: update of unknown template %s ignored", id)
		return nil, err
	}
	if update == nil {
		return existing, nil
	}

	merged := existing.Clone()
	mergeTemplate(merged, update)
	merged.UpdatedAt = now()
	applyDerivedStats(merged)

	if err := s.templateRepo.Update(ctx, merged); err != nil {
		return nil, corerr.Wrapf(err, "failed to update template '%s'", id)
	}

	if err := s.rebuildIndex(ctx); err != nil {
		return nil, err
	}
	s.emit(&events.TemplateUpdatedEvent{Template: merged})

	return merged, nil
}

// DeleteTemplate refuses while any instance references the template; the
// refusal mutates nothing and emits no event.
func (s *service) DeleteTemplate(ctx context.Context, id string) bool {
	count, err := s.instanceRepo.CountByTemplate(ctx, id)
	if err != nil {
		log.Printf("bestiary: failed to count instances for template %s: %v", id, err)
		return false
	}
	if count > 0 {
		log.Printf("bestiary: refusing to delete template %s, %d instances still reference it", id, count)
		return false
	}

	if err := s.templateRepo.Delete(ctx, id); err != nil {
		log.Printf("bestiary: delete of unknown template %s ignored", id)
		return false
	}

	if err := s.rebuildIndex(ctx); err != nil {
		log.Printf("bestiary: index rebuild after delete failed: %v", err)
	}
	s.emit(&events.TemplateDeletedEvent{TemplateID: id})

	return true
}

// GetTemplate retrieves a template by id
func (s *service) GetTemplate(ctx context.Context, id string) (*entities.Template, error) {
	return s.templateRepo.Get(ctx, id)
}

// GetAllTemplates retrieves every template
func (s *service) GetAllTemplates(ctx context.Context) ([]*entities.Template, error) {
	return s.templateRepo.GetAll(ctx)
}

// CreateInstance spawns an instance bound to a snapshot of the template.
// Hit points start at the template average; rolling is a separate,
// explicitly-invoked operation.
func (s *service) CreateInstance(ctx context.Context, input *CreateInstanceInput) *entities.Instance {
	if input == nil || input.TemplateID == "" {
		log.Printf("bestiary: instance creation requires a template id")
		return nil
	}

	template, err := s.templateRepo.Get(ctx, input.TemplateID)
	if err != nil {
		log.Printf("bestiary: cannot create instance, unknown template %s", input.TemplateID)
		return nil
	}

	instance := &entities.Instance{
		ID:          "instance_" + s.uuidGenerator.New(),
		TemplateID:  template.ID,
		Template:    template.Clone(),
		DisplayName: input.DisplayName,
		CurrentHP:   template.HitPoints.Average,
		MaxHP:       template.HitPoints.Average,
		TempHP:      0,
		Conditions:  []string{},
		Position:    input.Position,
		Visible:     true,
		Defeated:    false,
		EncounterID: input.EncounterID,
		CreatedAt:   now(),
	}
	instance.UpdatedAt = instance.CreatedAt

	if err := s.instanceRepo.Create(ctx, instance); err != nil {
		log.Printf("bestiary: failed to store instance for template %s: %v", template.ID, err)
		return nil
	}

	s.emit(&events.InstanceCreatedEvent{Instance: instance})
	return instance
}

// UpdateInstance shallow-merges the update, bumps the timestamp, and emits
// an event carrying both the instance and the delta. Unknown ids mutate
// nothing.
func (s *service) UpdateInstance(ctx context.Context, id string, update *entities.InstanceUpdate) (*entities.Instance, error) {
	existing, err := s.instanceRepo.Get(ctx, id)
	if err != nil {
		log.Printf("bestiary: update of unknown instance %s ignored", id)
		return nil, err
	}
	if update == nil {
		return existing, nil
	}

	merged := existing.Clone()
	mergeInstance(merged, update)
	merged.UpdatedAt = now()

	if err := s.instanceRepo.Update(ctx, merged); err != nil {
		return nil, corerr.Wrapf(err, "failed to update instance '%s'", id)
	}

	s.emit(&events.InstanceUpdatedEvent{Instance: merged, Delta: update})
	return merged, nil
}

// DeleteInstance removes an instance unconditionally; no referential checks
func (s *service) DeleteInstance(ctx context.Context, id string) bool {
	if err := s.instanceRepo.Delete(ctx, id); err != nil {
		log.Printf("bestiary: delete of unknown instance %s ignored", id)
		return false
	}

	s.emit(&events.InstanceDeletedEvent{InstanceID: id})
	return true
}

// GetInstance retrieves an instance by id
func (s *service) GetInstance(ctx context.Context, id string) (*entities.Instance, error) {
	return s.instanceRepo.Get(ctx, id)
}

// GetAllInstances retrieves every instance
func (s *service) GetAllInstances(ctx context.Context) ([]*entities.Instance, error) {
	return s.instanceRepo.GetAll(ctx)
}

// RollHitPoints rolls the template's dice formula, flooring the result at 1.
// An unparsable formula silently falls back to the stored average.
func (s *service) RollHitPoints(template *entities.Template) int {
	if template == nil {
		return 1
	}

	count, sides, bonus, ok := dice.ParseFormula(template.HitPoints.Formula)
	if !ok {
		return template.HitPoints.Average
	}

	result, err := s.roller.Roll(count, sides, bonus)
	if err != nil {
		return template.HitPoints.Average
	}

	if result.Total < 1 {
		return 1
	}
	return result.Total
}

// ExportData returns a read-only snapshot of every template, instance and
// encounter record currently held
func (s *service) ExportData(ctx context.Context) (*entities.Snapshot, error) {
	allTemplates, err := s.templateRepo.GetAll(ctx)
	if err != nil {
		return nil, corerr.Wrap(err, "failed to export templates")
	}
	allInstances, err := s.instanceRepo.GetAll(ctx)
	if err != nil {
		return nil, corerr.Wrap(err, "failed to export instances")
	}
	allEncounters, err := s.encounterRepo.GetAll(ctx)
	if err != nil {
		return nil, corerr.Wrap(err, "failed to export encounters")
	}

	snapshot := &entities.Snapshot{}
	for _, template := range allTemplates {
		snapshot.Templates = append(snapshot.Templates, template.Clone())
	}
	for _, instance := range allInstances {
		snapshot.Instances = append(snapshot.Instances, instance.Clone())
	}
	snapshot.Encounters = append(snapshot.Encounters, allEncounters...)

	return snapshot, nil
}

// ImportData merges a snapshot into the live stores by id; a duplicate id
// overwrites the existing entry. Imported instances are not validated
// against the template set.
func (s *service) ImportData(ctx context.Context, snapshot *entities.Snapshot) error {
	if snapshot == nil {
		return corerr.InvalidArgument("snapshot is required")
	}

	for _, template := range snapshot.Templates {
		if err := s.templateRepo.Put(ctx, template); err != nil {
			log.Printf("bestiary: skipping imported template: %v", err)
		}
	}
	for _, instance := range snapshot.Instances {
		if err := s.instanceRepo.Put(ctx, instance); err != nil {
			log.Printf("bestiary: skipping imported instance: %v", err)
		}
	}
	for _, record := range snapshot.Encounters {
		if err := s.encounterRepo.Put(ctx, record); err != nil {
			log.Printf("bestiary: skipping imported encounter record: %v", err)
		}
	}

	// The index only changes when the payload carried templates
	if snapshot.Templates != nil {
		if err := s.rebuildIndex(ctx); err != nil {
			return err
		}
	}

	s.emit(&events.DataImportedEvent{
		Templates:  len(snapshot.Templates),
		Instances:  len(snapshot.Instances),
		Encounters: len(snapshot.Encounters),
	})

	return nil
}

// Reset drops all state, leaving subscribers attached
func (s *service) Reset(ctx context.Context) error {
	if err := s.templateRepo.Clear(ctx); err != nil {
		return corerr.Wrap(err, "failed to clear templates")
	}
	if err := s.instanceRepo.Clear(ctx); err != nil {
		return corerr.Wrap(err, "failed to clear instances")
	}
	if err := s.encounterRepo.Clear(ctx); err != nil {
		return corerr.Wrap(err, "failed to clear encounter records")
	}
	return s.rebuildIndex(ctx)
}

func (s *service) rebuildIndex(ctx context.Context) error {
	all, err := s.templateRepo.GetAll(ctx)
	if err != nil {
		return corerr.Wrap(err, "failed to rebuild search index")
	}
	s.index.Rebuild(all)
	return nil
}

func (s *service) emit(event events.Event) {
	if err := s.bus.Emit(event); err != nil {
		log.Printf("bestiary: event %s delivery failed: %v", event.GetType(), err)
	}
}
