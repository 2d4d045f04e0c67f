package instances

//go:generate mockgen -destination=mock/mock_repository.go -package=mockinstances -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
)

// Repository defines the interface for instance storage operations
type Repository interface {
	// Create stores a new instance, failing if the id already exists
	Create(ctx context.Context, instance *entities.Instance) error

	// Put stores an instance unconditionally, overwriting any existing id
	Put(ctx context.Context, instance *entities.Instance) error

	// Get retrieves an instance by ID
	Get(ctx context.Context, id string) (*entities.Instance, error)

	// GetAll retrieves every stored instance
	GetAll(ctx context.Context) ([]*entities.Instance, error)

	// Update modifies an existing instance
	Update(ctx context.Context, instance *entities.Instance) error

	// Delete removes an instance
	Delete(ctx context.Context, id string) error

	// CountByTemplate returns how many instances reference a template
	CountByTemplate(ctx context.Context, templateID string) (int, error)

	// Clear removes every instance
	Clear(ctx context.Context) error
}
