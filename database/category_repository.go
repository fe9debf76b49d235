package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pro5/backend/models"
)

// CategoryRepository mirrors categories and their item references.
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Save inserts or replaces the category together with its reference list.
func (r *CategoryRepository) Save(ctx context.Context, c models.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveCategory(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	var name, description sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description FROM categories WHERE id = ?", id,
	).Scan(&c.ID, &name, &description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying category %s: %w", id, err)
	}
	c.Name = stringPtr(name)
	c.Description = stringPtr(description)

	refs, err := r.refs(ctx, "WHERE category_id = ?", id)
	if err != nil {
		return nil, err
	}
	c.Item = refs[id]
	return &c, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, description FROM categories ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("error querying categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		var name, description sql.NullString
		if err := rows.Scan(&c.ID, &name, &description); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		c.Name = stringPtr(name)
		c.Description = stringPtr(description)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	refs, err := r.refs(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].Item = refs[categories[i].ID]
	}
	return categories, nil
}

// DeleteByID removes the category; deleting an unknown id is not an error.
func (r *CategoryRepository) DeleteByID(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM category_items WHERE category_id = ?", id); err != nil {
		return fmt.Errorf("error deleting references of category %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("error deleting category %s: %w", id, err)
	}
	return tx.Commit()
}

// ReplaceAll swaps the whole mirror content for categories.
func (r *CategoryRepository) ReplaceAll(ctx context.Context, categories []models.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM category_items"); err != nil {
		return fmt.Errorf("error clearing category references: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM categories"); err != nil {
		return fmt.Errorf("error clearing categories: %w", err)
	}
	for _, c := range categories {
		if err := saveCategory(ctx, tx, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func saveCategory(ctx context.Context, tx *sql.Tx, c models.Category) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			last_updated = excluded.last_updated
	`, c.ID, nullString(c.Name), nullString(c.Description), time.Now())
	if err != nil {
		return fmt.Errorf("error saving category %s: %w", c.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM category_items WHERE category_id = ?", c.ID); err != nil {
		return fmt.Errorf("error clearing references of category %s: %w", c.ID, err)
	}
	for i, ref := range c.Item {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO category_items (category_id, position, ref_id, ref) VALUES (?, ?, ?, ?)",
			c.ID, i, ref.ID, ref.Ref)
		if err != nil {
			return fmt.Errorf("error saving reference %s of category %s: %w", ref.ID, c.ID, err)
		}
	}
	return nil
}

// refs loads reference lists keyed by category id.
func (r *CategoryRepository) refs(ctx context.Context, where string, args ...any) (map[string][]models.RefType, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT category_id, ref_id, ref FROM category_items "+where+" ORDER BY category_id, position", args...)
	if err != nil {
		return nil, fmt.Errorf("error querying category references: %w", err)
	}
	defer rows.Close()

	refs := make(map[string][]models.RefType)
	for rows.Next() {
		var categoryID string
		var ref models.RefType
		if err := rows.Scan(&categoryID, &ref.ID, &ref.Ref); err != nil {
			return nil, fmt.Errorf("error scanning category reference: %w", err)
		}
		refs[categoryID] = append(refs[categoryID], ref)
	}
	return refs, rows.Err()
}
