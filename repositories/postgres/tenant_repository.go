package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/upb/storefront-platform/models"
	"github.com/upb/storefront-platform/repositories"
)

// TenantRepository implements the repositories.TenantRepository interface
type TenantRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *DB, logger *zap.Logger) repositories.TenantRepository {
	return &TenantRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new tenant
func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, slug, status, logo_url, primary_color, description, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		tenant.ID,
		tenant.Name,
		tenant.Slug,
		tenant.Status,
		tenant.LogoURL,
		tenant.PrimaryColor,
		tenant.Description,
		tenant.Email,
		tenant.Phone,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	r.logger.Debug("tenant created", zap.String("id", tenant.ID), zap.String("slug", tenant.Slug))
	return nil
}

// GetByID retrieves a tenant by organization ID. Soft-deleted tenants are
// not returned.
func (r *TenantRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	query := `
		SELECT id, name, slug, status, logo_url, primary_color, description, email, phone, created_at, updated_at, deleted_at
		FROM tenants
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.scanTenant(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id), id)
}

// GetBySlug retrieves a tenant by slug
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `
		SELECT id, name, slug, status, logo_url, primary_color, description, email, phone, created_at, updated_at, deleted_at
		FROM tenants
		WHERE slug = $1 AND deleted_at IS NULL
	`
	return r.scanTenant(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, slug), slug)
}

func (r *TenantRepository) scanTenant(row *sql.Row, key string) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Slug,
		&tenant.Status,
		&tenant.LogoURL,
		&tenant.PrimaryColor,
		&tenant.Description,
		&tenant.Email,
		&tenant.Phone,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
		&tenant.DeletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tenant not found: %s", key)
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

// Update updates a tenant's profile fields
func (r *TenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $2, slug = $3, status = $4, logo_url = $5, primary_color = $6, description = $7, email = $8, phone = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		tenant.ID,
		tenant.Name,
		tenant.Slug,
		tenant.Status,
		tenant.LogoURL,
		tenant.PrimaryColor,
		tenant.Description,
		tenant.Email,
		tenant.Phone,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tenant not found: %s", tenant.ID)
	}

	r.logger.Debug("tenant updated", zap.String("id", tenant.ID))
	return nil
}

// SoftDelete marks a tenant as deleted without removing its data
func (r *TenantRepository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE tenants
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tenant not found: %s", id)
	}

	r.logger.Debug("tenant soft-deleted", zap.String("id", id))
	return nil
}

// ListDomains retrieves the custom domains of a tenant
func (r *TenantRepository) ListDomains(ctx context.Context, tenantID string) ([]*models.TenantDomain, error) {
	query := `
		SELECT id, tenant_id, domain, is_primary, is_verified, created_at, updated_at
		FROM tenant_domains
		WHERE tenant_id = $1
		ORDER BY is_primary DESC, domain ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant domains: %w", err)
	}
	defer rows.Close()

	var domains []*models.TenantDomain
	for rows.Next() {
		domain := &models.TenantDomain{}
		if err := rows.Scan(
			&domain.ID,
			&domain.TenantID,
			&domain.Domain,
			&domain.IsPrimary,
			&domain.IsVerified,
			&domain.CreatedAt,
			&domain.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tenant domain: %w", err)
		}
		domains = append(domains, domain)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenant domains: %w", err)
	}

	return domains, nil
}

// AddDomain attaches a custom domain to a tenant
func (r *TenantRepository) AddDomain(ctx context.Context, domain *models.TenantDomain) error {
	query := `
		INSERT INTO tenant_domains (id, tenant_id, domain, is_primary, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		domain.ID,
		domain.TenantID,
		domain.Domain,
		domain.IsPrimary,
		domain.IsVerified,
		domain.CreatedAt,
		domain.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add tenant domain: %w", err)
	}

	r.logger.Debug("tenant domain added",
		zap.String("tenant_id", domain.TenantID),
		zap.String("domain", domain.Domain))
	return nil
}

// GetSettings retrieves all settings of a tenant
func (r *TenantRepository) GetSettings(ctx context.Context, tenantID string) ([]*models.TenantSetting, error) {
	query := `
		SELECT id, tenant_id, key, value, created_at, updated_at
		FROM tenant_settings
		WHERE tenant_id = $1
		ORDER BY key ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant settings: %w", err)
	}
	defer rows.Close()

	var settings []*models.TenantSetting
	for rows.Next() {
		setting := &models.TenantSetting{}
		if err := rows.Scan(
			&setting.ID,
			&setting.TenantID,
			&setting.Key,
			&setting.Value,
			&setting.CreatedAt,
			&setting.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tenant setting: %w", err)
		}
		settings = append(settings, setting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenant settings: %w", err)
	}

	return settings, nil
}

// UpsertSetting creates or updates a tenant setting by key
func (r *TenantRepository) UpsertSetting(ctx context.Context, setting *models.TenantSetting) error {
	query := `
		INSERT INTO tenant_settings (id, tenant_id, key, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		setting.ID,
		setting.TenantID,
		setting.Key,
		setting.Value,
		setting.CreatedAt,
		setting.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tenant setting: %w", err)
	}

	r.logger.Debug("tenant setting upserted",
		zap.String("tenant_id", setting.TenantID),
		zap.String("key", setting.Key))
	return nil
}
