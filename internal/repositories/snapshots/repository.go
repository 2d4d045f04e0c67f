package snapshots

//go:generate mockgen -destination=mock/mock_repository.go -package=mocksnapshots -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
)

// Repository persists whole bestiary snapshots for an external storage
// layer. The core never calls this itself; it only produces and consumes
// snapshots through export/import.
type Repository interface {
	// Save stores a snapshot under the given key
	Save(ctx context.Context, key string, snapshot *entities.Snapshot) error

	// Load retrieves the snapshot stored under the given key
	Load(ctx context.Context, key string) (*entities.Snapshot, error)

	// Delete removes the snapshot stored under the given key
	Delete(ctx context.Context, key string) error
}
