package port

import (
	"context"

	"github.com/rl1809/storekeeper/internal/core/domain"
)

type SnapshotRepository interface {
	// EnsureSchema creates the snapshot tables if they do not exist
	EnsureSchema(ctx context.Context) error

	// Load reads the full persisted state
	Load(ctx context.Context) (domain.Snapshot, error)

	// Apply persists one committed change in a single transaction
	Apply(ctx context.Context, change domain.Change) error
}
