package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the tables used to export distance tables. The DDL is
// accepted by both postgres and sqlite.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDistanceTablesQuery := `
	CREATE TABLE IF NOT EXISTS distance_tables (
		table_name TEXT NOT NULL,
		coord_key TEXT NOT NULL,
		position INTEGER NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		PRIMARY KEY (table_name, coord_key)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_tables_name_position
	ON distance_tables(table_name, position);
	`

	statements := []string{
		createDistanceTablesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
