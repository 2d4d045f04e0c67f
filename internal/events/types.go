// Package events is the notification channel between the bestiary core and
// its collaborators (persistence, rendering, network layers). The core never
// calls those layers directly; it only emits events here.
package events

import "github.com/KirkDiggler/vtt-bestiary/internal/entities"

// EventType identifies a notification event
type EventType string

const (
	EventCompendiumLoaded     EventType = "compendium-loaded"
	EventCompendiumLoadFailed EventType = "compendium-load-failed"
	EventTemplateCreated      EventType = "template-created"
	EventTemplateUpdated      EventType = "template-updated"
	EventTemplateDeleted      EventType = "template-deleted"
	EventInstanceCreated      EventType = "instance-created"
	EventInstanceUpdated      EventType = "instance-updated"
	EventInstanceDeleted      EventType = "instance-deleted"
	EventDataImported         EventType = "data-imported"
)

// Event is a notification with a typed payload
type Event interface {
	GetType() EventType
}

// CompendiumLoadedEvent fires after a compendium batch conversion finishes
type CompendiumLoadedEvent struct {
	Loaded  int
	Skipped int
}

func (e *CompendiumLoadedEvent) GetType() EventType { return EventCompendiumLoaded }

// CompendiumLoadFailedEvent fires when a compendium payload cannot be
// processed at all
type CompendiumLoadFailedEvent struct {
	Err error
}

func (e *CompendiumLoadFailedEvent) GetType() EventType { return EventCompendiumLoadFailed }

// TemplateCreatedEvent fires after a template is stored
type TemplateCreatedEvent struct {
	Template *entities.Template
}

func (e *TemplateCreatedEvent) GetType() EventType { return EventTemplateCreated }

// TemplateUpdatedEvent fires after a template mutation
type TemplateUpdatedEvent struct {
	Template *entities.Template
}

func (e *TemplateUpdatedEvent) GetType() EventType { return EventTemplateUpdated }

// TemplateDeletedEvent fires after a template is removed
type TemplateDeletedEvent struct {
	TemplateID string
}

func (e *TemplateDeletedEvent) GetType() EventType { return EventTemplateDeleted }

// InstanceCreatedEvent fires after an instance is spawned
type InstanceCreatedEvent struct {
	Instance *entities.Instance
}

func (e *InstanceCreatedEvent) GetType() EventType { return EventInstanceCreated }

// InstanceUpdatedEvent fires after an instance mutation. Delta carries just
// the fields that changed alongside the full instance.
type InstanceUpdatedEvent struct {
	Instance *entities.Instance
	Delta    *entities.InstanceUpdate
}

func (e *InstanceUpdatedEvent) GetType() EventType { return EventInstanceUpdated }

// InstanceDeletedEvent fires after an instance is removed
type InstanceDeletedEvent struct {
	InstanceID string
}

func (e *InstanceDeletedEvent) GetType() EventType { return EventInstanceDeleted }

// DataImportedEvent fires after a snapshot import completes
type DataImportedEvent struct {
	Templates  int
	Instances  int
	Encounters int
}

func (e *DataImportedEvent) GetType() EventType { return EventDataImported }
