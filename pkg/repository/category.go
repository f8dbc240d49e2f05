package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
)

// CategoryRepository handles category-related database operations
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a category repository
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindOrCreateCategory returns the id of the named category, creating it if needed
func (r *CategoryRepository) FindOrCreateCategory(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("empty category name")
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	var id int64
	err := retrier.Do(ctx, func() error {
		// IGNORE keeps the insert idempotent under concurrent runs
		if _, err := r.db.ExecContext(ctx, "INSERT OR IGNORE INTO categories (name) VALUES (?)", name); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("insert category: %w", err)}
		}
		if err := r.db.GetContext(ctx, &id, "SELECT id FROM categories WHERE name = ?", name); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("select category: %w", err)}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListCategories returns all category names keyed by id
func (r *CategoryRepository) ListCategories(ctx context.Context) (map[int64]string, error) {
	var rows []struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, "SELECT id, name FROM categories ORDER BY name"); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make(map[int64]string, len(rows))
	for _, row := range rows {
		categories[row.ID] = row.Name
	}
	return categories, nil
}
