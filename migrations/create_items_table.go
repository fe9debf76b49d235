package migrations

import (
	"database/sql"
	"fmt"
)

// CreateItemsTable creates the local mirror of the item collection. The
// category reference is flattened into two nullable columns.
func CreateItemsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			name TEXT,
			price TEXT,
			category_id TEXT,
			category_ref TEXT,
			last_updated DATETIME
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_category_id ON items(category_id)`)
	if err != nil {
		return fmt.Errorf("failed to index items.category_id: %w", err)
	}
	return nil
}
