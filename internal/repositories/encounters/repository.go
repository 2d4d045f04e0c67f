package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=mockencounters -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
)

// Repository defines the interface for encounter record storage. Records are
// plain data carried through snapshots; no difficulty computation happens
// anywhere in this core.
type Repository interface {
	// Put stores a record, overwriting any existing entry with the same id
	Put(ctx context.Context, record *entities.EncounterRecord) error

	// Get retrieves a record by ID
	Get(ctx context.Context, id string) (*entities.EncounterRecord, error)

	// GetAll retrieves every stored record
	GetAll(ctx context.Context) ([]*entities.EncounterRecord, error)

	// Delete removes a record
	Delete(ctx context.Context, id string) error

	// Clear removes every record
	Clear(ctx context.Context) error
}
