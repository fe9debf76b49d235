package migrations

import (
	"database/sql"
	"fmt"
)

// CreateCategoryItemsTable stores the ordered reference list of each category.
func CreateCategoryItemsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS category_items (
			category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			ref_id TEXT NOT NULL,
			ref TEXT NOT NULL,
			PRIMARY KEY (category_id, position)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create category_items table: %w", err)
	}
	return nil
}
