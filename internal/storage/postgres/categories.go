package postgres

import (
	"context"
	"fmt"
	"strings"

	"stocktrack/internal/domain"
	"stocktrack/internal/storage"
)

// ListCategories retrieves all registered categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, created_at
		FROM categories
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// RegisterCategory inserts a new category name into the registry.
func (s *Store) RegisterCategory(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := s.db.ExecContext(ctx, query, category.ID, category.Name, category.CreatedAt)
	if err != nil {
		// 23505 is the unique_violation SQLSTATE raised for duplicate names.
		if strings.Contains(err.Error(), "23505") ||
			strings.Contains(err.Error(), "duplicate key value") {
			return storage.ErrCategoryExists
		}
		return fmt.Errorf("failed to register category: %w", err)
	}

	return nil
}
