package templates

import (
	"context"
	"sync"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	corerr "github.com/KirkDiggler/vtt-bestiary/internal/errors"
)

type inMemoryRepository struct {
	mu        sync.RWMutex
	templates map[string]*entities.Template
}

// NewInMemoryRepository creates a new in-memory template repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		templates: make(map[string]*entities.Template),
	}
}

// Create stores a new template
func (r *inMemoryRepository) Create(ctx context.Context, template *entities.Template) error {
	if template == nil || template.ID == "" {
		return corerr.InvalidArgument("template with an id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[template.ID]; exists {
		return corerr.AlreadyExists("template already exists: " + template.ID)
	}

	r.templates[template.ID] = template
	return nil
}

// Put stores a template, overwriting any existing entry with the same id
func (r *inMemoryRepository) Put(ctx context.Context, template *entities.Template) error {
	if template == nil || template.ID == "" {
		return corerr.InvalidArgument("template with an id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates[template.ID] = template
	return nil
}

// Get retrieves a template by ID
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*entities.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	template, exists := r.templates[id]
	if !exists {
		return nil, corerr.NotFoundf("template not found: %s", id)
	}

	return template, nil
}

// GetAll retrieves every stored template
func (r *inMemoryRepository) GetAll(ctx context.Context) ([]*entities.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Template, 0, len(r.templates))
	for _, template := range r.templates {
		out = append(out, template)
	}
	return out, nil
}

// Update modifies an existing template
func (r *inMemoryRepository) Update(ctx context.Context, template *entities.Template) error {
	if template == nil || template.ID == "" {
		return corerr.InvalidArgument("template with an id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[template.ID]; !exists {
		return corerr.NotFoundf("template not found: %s", template.ID)
	}

	r.templates[template.ID] = template
	return nil
}

// Delete removes a template
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[id]; !exists {
		return corerr.NotFoundf("template not found: %s", id)
	}

	delete(r.templates, id)
	return nil
}

// Clear removes every template
func (r *inMemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates = make(map[string]*entities.Template)
	return nil
}
