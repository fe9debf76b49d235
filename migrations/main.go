package migrations

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration is a named, run-once schema change.
type Migration struct {
	Name string
	Fn   func(*sql.DB) error
}

// All lists every migration in the order it must be applied.
var All = []Migration{
	{"create_categories_table", CreateCategoriesTable},
	{"create_items_table", CreateItemsTable},
	{"create_category_items_table", CreateCategoryItemsTable},
}

// RunMigrations executes all migrations in the correct order
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	return Run(db, All, logger)
}

// Run applies the migrations that are not yet recorded in the migrations table.
func Run(db *sql.DB, migrations []Migration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Running migrations")

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", migration.Name).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}

		if count > 0 {
			logger.Debug("Skipping already applied migration", zap.String("migration", migration.Name))
			continue
		}

		logger.Info("Applying migration", zap.String("migration", migration.Name))
		if err := migration.Fn(db); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Name, err)
		}

		_, err = db.Exec("INSERT INTO migrations (name) VALUES (?)", migration.Name)
		if err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
	}

	logger.Info("All migrations completed successfully")
	return nil
}
