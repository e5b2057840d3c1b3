package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/upb/storefront-platform/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Automatically commits if function succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// TenantRepository handles tenant data operations. Tenants are keyed by
// their Clerk organization ID.
type TenantRepository interface {
	// Create creates a new tenant
	Create(ctx context.Context, tenant *models.Tenant) error

	// GetByID retrieves a tenant by organization ID
	GetByID(ctx context.Context, id string) (*models.Tenant, error)

	// GetBySlug retrieves a tenant by slug
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)

	// Update updates a tenant's profile fields
	Update(ctx context.Context, tenant *models.Tenant) error

	// SoftDelete marks a tenant as deleted without removing its data
	SoftDelete(ctx context.Context, id string) error

	// ListDomains retrieves the custom domains of a tenant
	ListDomains(ctx context.Context, tenantID string) ([]*models.TenantDomain, error)

	// AddDomain attaches a custom domain to a tenant
	AddDomain(ctx context.Context, domain *models.TenantDomain) error

	// GetSettings retrieves all settings of a tenant
	GetSettings(ctx context.Context, tenantID string) ([]*models.TenantSetting, error)

	// UpsertSetting creates or updates a tenant setting by key
	UpsertSetting(ctx context.Context, setting *models.TenantSetting) error
}

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	Status     models.ProductStatus
	CategoryID *uuid.UUID
	Featured   *bool
	Limit      int
	Offset     int
}

// ProductRepository handles catalog product operations. Every method is
// tenant-scoped: callers pass the tenant ID and implementations must filter
// by it on every query.
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *models.Product) error

	// GetByID retrieves a product by ID within a tenant
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Product, error)

	// List retrieves products of a tenant matching the filter
	List(ctx context.Context, tenantID string, filter ProductFilter) ([]*models.Product, error)

	// Update updates a product within a tenant
	Update(ctx context.Context, product *models.Product) error

	// Delete removes a product within a tenant
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error

	// AdjustStock changes a product's stock level by delta
	AdjustStock(ctx context.Context, tenantID string, id uuid.UUID, delta int) error
}

// CategoryRepository handles tenant-scoped category operations
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *models.Category) error

	// GetByID retrieves a category by ID within a tenant
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*models.Category, error)

	// List retrieves all categories of a tenant ordered by position
	List(ctx context.Context, tenantID string) ([]*models.Category, error)

	// Update updates a category within a tenant
	Update(ctx context.Context, category *models.Category) error

	// Delete removes a category within a tenant
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
}

// Repositories aggregates all repository instances
type Repositories struct {
	Tenants    TenantRepository
	Products   ProductRepository
	Categories CategoryRepository
}
