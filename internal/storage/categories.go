package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/granadev/grana/internal/common"
	"github.com/granadev/grana/internal/model"
)

// CreateCategory inserts a new category.
func (s queries) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, type) VALUES (?, ?, ?, ?)
	`, category.ID, category.UserID, category.Name, string(category.Type))
	if err != nil {
		return fmt.Errorf("failed to insert category %s: %w", category.Name, err)
	}
	return nil
}

// GetCategory retrieves a category by id, scoped to its owner.
func (s queries) GetCategory(ctx context.Context, userID, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var cat model.Category
	err := s.q.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, created_at
		FROM categories
		WHERE user_id = ? AND id = ?
	`, userID, id).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}

// ListCategories returns the owner's categories sorted by name.
func (s queries) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, user_id, name, type, created_at
		FROM categories
		WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// CreateSubcategory inserts a new subcategory under an existing
// category.
func (s queries) CreateSubcategory(ctx context.Context, sub *model.Subcategory) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("%w: subcategory", ErrNilParameter)
	}
	if sub.ID == "" || sub.UserID == "" || sub.CategoryID == "" || sub.Name == "" {
		return fmt.Errorf("%w: missing required subcategory field", ErrInvalidCategory)
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO subcategories (id, user_id, category_id, name) VALUES (?, ?, ?, ?)
	`, sub.ID, sub.UserID, sub.CategoryID, sub.Name)
	if err != nil {
		return fmt.Errorf("failed to insert subcategory %s: %w", sub.Name, err)
	}
	return nil
}

// GetSubcategory retrieves a subcategory by id, scoped to its owner.
func (s queries) GetSubcategory(ctx context.Context, userID, id string) (*model.Subcategory, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var sub model.Subcategory
	err := s.q.QueryRowContext(ctx, `
		SELECT id, user_id, category_id, name, created_at
		FROM subcategories
		WHERE user_id = ? AND id = ?
	`, userID, id).Scan(&sub.ID, &sub.UserID, &sub.CategoryID, &sub.Name, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subcategory %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}
	return &sub, nil
}
