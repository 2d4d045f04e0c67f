package templates

//go:generate mockgen -destination=mock/mock_repository.go -package=mocktemplates -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
)

// Repository defines the interface for template storage operations
type Repository interface {
	// Create stores a new template, failing if the id already exists
	Create(ctx context.Context, template *entities.Template) error

	// Put stores a template unconditionally, overwriting any existing id
	Put(ctx context.Context, template *entities.Template) error

	// Get retrieves a template by ID
	Get(ctx context.Context, id string) (*entities.Template, error)

	// GetAll retrieves every stored template
	GetAll(ctx context.Context) ([]*entities.Template, error)

	// Update modifies an existing template
	Update(ctx context.Context, template *entities.Template) error

	// Delete removes a template
	Delete(ctx context.Context, id string) error

	// Clear removes every template
	Clear(ctx context.Context) error
}
