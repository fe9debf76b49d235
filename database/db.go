package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pro5/backend/migrations"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// ErrNotFound is returned by the repositories when a record is not mirrored.
var ErrNotFound = errors.New("record not found in mirror")

var DB *sql.DB

// InitDB opens the mirror database at path, runs the migrations and stores
// the handle in DB.
func InitDB(path string, logger *zap.Logger) error {
	db, err := Open(path)
	if err != nil {
		return err
	}

	if err := migrations.RunMigrations(db, logger); err != nil {
		db.Close()
		return err
	}

	DB = db
	return nil
}

// Open opens a sqlite database tuned for concurrent access. ":memory:" yields
// a private in-memory database limited to one connection so every query sees
// the same data.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_journal=WAL&_timeout=10000&_busy_timeout=10000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pool := poolFor(path)
	db.SetMaxOpenConns(pool.maxOpen)
	db.SetMaxIdleConns(pool.maxIdle)
	db.SetConnMaxLifetime(pool.maxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// poolFor sizes the connection pool. An in-memory database lives only as
// long as its single connection, so that connection is never recycled.
func poolFor(path string) poolSettings {
	if path == ":memory:" {
		return poolSettings{maxOpen: 1, maxIdle: 1, maxLifetime: 0}
	}
	return poolSettings{maxOpen: 5, maxIdle: 5, maxLifetime: 5 * time.Minute}
}

// Reset drops the mirror tables and the migration history so the next
// migration run rebuilds them from scratch.
func Reset(db *sql.DB) error {
	for _, table := range []string{"category_items", "items", "categories", "migrations"} {
		if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
