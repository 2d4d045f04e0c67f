package encounters

import (
	"context"
	"sync"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	corerr "github.com/KirkDiggler/vtt-bestiary/internal/errors"
)

type inMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*entities.EncounterRecord
}

// NewInMemoryRepository creates a new in-memory encounter record repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		records: make(map[string]*entities.EncounterRecord),
	}
}

// Put stores a record, overwriting any existing entry with the same id
func (r *inMemoryRepository) Put(ctx context.Context, record *entities.EncounterRecord) error {
	if record == nil || record.ID == "" {
		return corerr.InvalidArgument("encounter record with an id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.ID] = record
	return nil
}

// Get retrieves a record by ID
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*entities.EncounterRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, corerr.NotFoundf("encounter record not found: %s", id)
	}

	return record, nil
}

// GetAll retrieves every stored record
func (r *inMemoryRepository) GetAll(ctx context.Context) ([]*entities.EncounterRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.EncounterRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record)
	}
	return out, nil
}

// Delete removes a record
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return corerr.NotFoundf("encounter record not found: %s", id)
	}

	delete(r.records, id)
	return nil
}

// Clear removes every record
func (r *inMemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[string]*entities.EncounterRecord)
	return nil
}
