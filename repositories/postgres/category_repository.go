package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/storefront-platform/models"
	"github.com/upb/storefront-platform/repositories"
)

// CategoryRepository implements the repositories.CategoryRepository interface
type CategoryRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB, logger *zap.Logger) repositories.CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, tenant_id, parent_id, name, slug, description, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		category.ID,
		category.TenantID,
		category.ParentID,
		category.Name,
		category.Slug,
		category.Description,
		category.Position,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	r.logger.Debug("category created",
		zap.String("id", category.ID.String()),
		zap.String("tenant_id", category.TenantID))
	return nil
}

// GetByID retrieves a category by ID within a tenant
func (r *CategoryRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Category, error) {
	query := `
		SELECT id, tenant_id, parent_id, name, slug, description, position, created_at, updated_at
		FROM categories
		WHERE tenant_id = $1 AND id = $2
	`

	executor := GetExecutor(ctx, r.db)
	category := &models.Category{}
	err := executor.QueryRowContext(ctx, query, tenantID, id).Scan(
		&category.ID,
		&category.TenantID,
		&category.ParentID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.Position,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("category not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// List retrieves all categories of a tenant ordered by position
func (r *CategoryRepository) List(ctx context.Context, tenantID string) ([]*models.Category, error) {
	query := `
		SELECT id, tenant_id, parent_id, name, slug, description, position, created_at, updated_at
		FROM categories
		WHERE tenant_id = $1
		ORDER BY position ASC, name ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(
			&category.ID,
			&category.TenantID,
			&category.ParentID,
			&category.Name,
			&category.Slug,
			&category.Description,
			&category.Position,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// Update updates a category within a tenant
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET parent_id = $3, name = $4, slug = $5, description = $6, position = $7, updated_at = $8
		WHERE tenant_id = $1 AND id = $2
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		category.TenantID,
		category.ID,
		category.ParentID,
		category.Name,
		category.Slug,
		category.Description,
		category.Position,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("category not found: %s", category.ID)
	}

	r.logger.Debug("category updated", zap.String("id", category.ID.String()))
	return nil
}

// Delete removes a category within a tenant
func (r *CategoryRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE tenant_id = $1 AND id = $2`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("category not found: %s", id)
	}

	r.logger.Debug("category deleted", zap.String("id", id.String()))
	return nil
}
