package ports

import (
	"context"
	"crossing-delta/internal/domain"
)

// Port: durable home of named DistanceTable snapshots.
type TableStore interface {
	// Load returns the named table, or an empty table when none was saved yet.
	Load(ctx context.Context, name string) (*domain.DistanceTable, error)
	// Save replaces the named table.
	Save(ctx context.Context, name string, table *domain.DistanceTable) error
}
