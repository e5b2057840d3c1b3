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

// ProductRepository implements the repositories.ProductRepository interface.
// Every query filters by tenant_id; a product is invisible outside its tenant.
type ProductRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *DB, logger *zap.Logger) repositories.ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `id, tenant_id, category_id, name, slug, description, price, compare_at_price, cost_price, sku, barcode, status, is_featured, track_inventory, stock, created_at, updated_at`

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		product.ID,
		product.TenantID,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.CompareAtPrice,
		product.CostPrice,
		product.SKU,
		product.Barcode,
		product.Status,
		product.IsFeatured,
		product.TrackInventory,
		product.Stock,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug("product created",
		zap.String("id", product.ID.String()),
		zap.String("tenant_id", product.TenantID))
	return nil
}

// GetByID retrieves a product by ID within a tenant
func (r *ProductRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND id = $2
	`

	executor := GetExecutor(ctx, r.db)
	product, err := scanProduct(executor.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// List retrieves products of a tenant matching the filter
func (r *ProductRepository) List(ctx context.Context, tenantID string, filter repositories.ProductFilter) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		query += fmt.Sprintf(" AND is_featured = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// Update updates a product within a tenant
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET category_id = $3, name = $4, slug = $5, description = $6, price = $7,
		    compare_at_price = $8, cost_price = $9, sku = $10, barcode = $11,
		    status = $12, is_featured = $13, track_inventory = $14, stock = $15,
		    updated_at = $16
		WHERE tenant_id = $1 AND id = $2
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		product.TenantID,
		product.ID,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.CompareAtPrice,
		product.CostPrice,
		product.SKU,
		product.Barcode,
		product.Status,
		product.IsFeatured,
		product.TrackInventory,
		product.Stock,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("product not found: %s", product.ID)
	}

	r.logger.Debug("product updated", zap.String("id", product.ID.String()))
	return nil
}

// Delete removes a product within a tenant
func (r *ProductRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	query := `DELETE FROM products WHERE tenant_id = $1 AND id = $2`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("product not found: %s", id)
	}

	r.logger.Debug("product deleted", zap.String("id", id.String()))
	return nil
}

// AdjustStock changes a product's stock level by delta. The guard against
// negative stock lives in the query so concurrent adjustments stay correct.
func (r *ProductRepository) AdjustStock(ctx context.Context, tenantID string, id uuid.UUID, delta int) error {
	query := `
		UPDATE products
		SET stock = stock + $3, updated_at = $4
		WHERE tenant_id = $1 AND id = $2 AND stock + $3 >= 0
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, tenantID, id, delta, time.Now())
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("stock adjustment rejected for product %s", id)
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID,
		&product.TenantID,
		&product.CategoryID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.CompareAtPrice,
		&product.CostPrice,
		&product.SKU,
		&product.Barcode,
		&product.Status,
		&product.IsFeatured,
		&product.TrackInventory,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}
