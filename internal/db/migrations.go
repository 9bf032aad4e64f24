package db

import (
	"context"
	"fmt"
)

// migrations are applied in order; PRAGMA user_version records how many
// have run.
func (db *DB) migrations() []func() error {
	return []func() error{
		db.createHistogramsTable,
		db.createAxesTable,
	}
}

// migrate brings the schema up to date.
func (db *DB) migrate() error {
	var version int
	if err := db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	steps := db.migrations()
	if version > len(steps) {
		return fmt.Errorf("schema version %d is newer than supported version %d", version, len(steps))
	}

	for i := version; i < len(steps); i++ {
		if err := steps[i](); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := db.ExecContext(context.Background(), fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}

	return nil
}
