package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/spotex/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// rowExists reports whether the given EXISTS query matches a row.
func rowExists(db *sql.DB, query string, args ...any) (bool, error) {
	var exists bool
	if err := db.QueryRow(query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	return exists, nil
}

// classify maps sqlite constraint violations onto [shared.ErrIntegrity].
//
// A foreign key or uniqueness breach here means the pipeline violated its
// own insert ordering, so callers treat the wrapped error as fatal.
func classify(err error, context string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s: %v", shared.ErrIntegrity, context, err)
	}
	return fmt.Errorf("%s: %w", context, err)
}

// tableCount returns the row count of a fixed library table.
func tableCount(db *sql.DB, table string) (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
