package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pro5/backend/models"
)

// ItemRepository mirrors items.
type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Save(ctx context.Context, item models.Item) error {
	return saveItem(ctx, r.db, item)
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*models.Item, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, price, category_id, category_ref FROM items WHERE id = ?", id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying item %s: %w", id, err)
	}
	return item, nil
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]models.Item, error) {
	return r.query(ctx, "SELECT id, name, price, category_id, category_ref FROM items ORDER BY rowid")
}

func (r *ItemRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id); err != nil {
		return fmt.Errorf("error deleting item %s: %w", id, err)
	}
	return nil
}

func (r *ItemRepository) ReplaceAll(ctx context.Context, items []models.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return fmt.Errorf("error clearing items: %w", err)
	}
	for _, item := range items {
		if err := saveItem(ctx, tx, item); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func saveItem(ctx context.Context, db execer, item models.Item) error {
	var categoryID, categoryRef sql.NullString
	if item.Category != nil {
		categoryID = sql.NullString{String: item.Category.ID, Valid: true}
		categoryRef = sql.NullString{String: item.Category.Ref, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO items (id, name, price, category_id, category_ref, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			category_id = excluded.category_id,
			category_ref = excluded.category_ref,
			last_updated = excluded.last_updated
	`, item.ID, nullString(item.Name), nullString(item.Price), categoryID, categoryRef, time.Now())
	if err != nil {
		return fmt.Errorf("error saving item %s: %w", item.ID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*models.Item, error) {
	var item models.Item
	var name, price, categoryID, categoryRef sql.NullString
	if err := s.Scan(&item.ID, &name, &price, &categoryID, &categoryRef); err != nil {
		return nil, err
	}
	item.Name = stringPtr(name)
	item.Price = stringPtr(price)
	if categoryID.Valid {
		item.Category = &models.RefType{ID: categoryID.String, Ref: categoryRef.String}
	}
	return &item, nil
}

func (r *ItemRepository) query(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}
