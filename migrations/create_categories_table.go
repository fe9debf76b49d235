package migrations

import (
	"database/sql"
	"fmt"
)

// CreateCategoriesTable creates the local mirror of the category collection.
func CreateCategoriesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT,
			description TEXT,
			last_updated DATETIME
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create categories table: %w", err)
	}
	return nil
}
