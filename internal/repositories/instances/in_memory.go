package instances

import (
	"context"
	"sync"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	corerr "github.com/KirkDiggler/vtt-bestiary/internal/errors"
)

type inMemoryRepository struct {
	mu        sync.RWMutex
	instances map[string]*entities.Instance
}

// NewInMemoryRepository creates a new in-memory instance repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		instances: make(map[string]*entities.Instance),
	}
}

// Create stores a new instance
func (r *inMemoryRepository) Create(ctx context.Context, instance *entities.Instance) error {
	if instance == nil || instance.ID == "" {
		return corerr.InvalidArgument("instance with an id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instances[instance.ID]; exists {
		return corerr.AlreadyExists("instance already exists: " + instance.ID)
	}

	r.instances[instance.ID] = instance
	return nil
}

// Put stores an instance, overwriting any existing entry with the same id
func (r *inMemoryRepository) Put(ctx context.Context, instance *entities.Instance) error {
	if instance == nil || instance.ID == "" {
		return corerr.InvalidArgument("instance with an id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.instances[instance.ID] = instance
	return nil
}

// Get retrieves an instance by ID
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*entities.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instance, exists := r.instances[id]
	if !exists {
		return nil, corerr.NotFoundf("instance not found: %s", id)
	}

	return instance, nil
}

// GetAll retrieves every stored instance
func (r *inMemoryRepository) GetAll(ctx context.Context) ([]*entities.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Instance, 0, len(r.instances))
	for _, instance := range r.instances {
		out = append(out, instance)
	}
	return out, nil
}

// Update modifies an existing instance
func (r *inMemoryRepository) Update(ctx context.Context, instance *entities.Instance) error {
	if instance == nil || instance.ID == "" {
		return corerr.InvalidArgument("instance with an id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instances[instance.ID]; !exists {
		return corerr.NotFoundf("instance not found: %s", instance.ID)
	}

	r.instances[instance.ID] = instance
	return nil
}

// Delete removes an instance
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instances[id]; !exists {
		return corerr.NotFoundf("instance not found: %s", id)
	}

	delete(r.instances, id)
	return nil
}

// CountByTemplate returns how many instances reference a template
func (r *inMemoryRepository) CountByTemplate(ctx context.Context, templateID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, instance := range r.instances {
		if instance.TemplateID == templateID {
			count++
		}
	}
	return count, nil
}

// Clear removes every instance
func (r *inMemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.instances = make(map[string]*entities.Instance)
	return nil
}
