package postgres

import (
	"context"
	"fmt"
)

// InitTenantSchema creates the tenant-service tables if they do not exist.
// Tenant IDs are Clerk organization IDs, so the primary key is a string
// rather than a UUID.
func (db *DB) InitTenantSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS tenants (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(100) NOT NULL UNIQUE,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			logo_url TEXT,
			primary_color VARCHAR(7),
			description TEXT,
			email VARCHAR(255),
			phone VARCHAR(50),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			deleted_at TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS tenant_domains (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL REFERENCES tenants(id),
			domain VARCHAR(255) NOT NULL UNIQUE,
			is_primary BOOLEAN NOT NULL DEFAULT false,
			is_verified BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS tenant_settings (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL REFERENCES tenants(id),
			key VARCHAR(100) NOT NULL,
			value TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (tenant_id, key)
		);

		CREATE TABLE IF NOT EXISTS tenant_billing (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL UNIQUE REFERENCES tenants(id),
			plan VARCHAR(50) NOT NULL DEFAULT 'free',
			billing_email VARCHAR(255),
			current_period_end TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_tenants_slug ON tenants(slug);
		CREATE INDEX IF NOT EXISTS idx_tenant_domains_tenant_id ON tenant_domains(tenant_id);
		CREATE INDEX IF NOT EXISTS idx_tenant_settings_tenant_id ON tenant_settings(tenant_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize tenant schema: %w", err)
	}

	db.logger.Info("tenant schema initialized")
	return nil
}

// InitCatalogSchema creates the product-service tables if they do not exist.
// Every table carries a tenant_id column; queries always filter on it.
func (db *DB) InitCatalogSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL,
			parent_id UUID REFERENCES categories(id),
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(100) NOT NULL,
			description TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (tenant_id, slug)
		);

		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL,
			category_id UUID REFERENCES categories(id),
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(100) NOT NULL,
			description TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'draft',
			price NUMERIC(12,2) NOT NULL DEFAULT 0,
			compare_at_price NUMERIC(12,2),
			cost_price NUMERIC(12,2),
			sku VARCHAR(100),
			barcode VARCHAR(100),
			is_featured BOOLEAN NOT NULL DEFAULT false,
			track_inventory BOOLEAN NOT NULL DEFAULT true,
			stock INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (tenant_id, slug)
		);

		CREATE TABLE IF NOT EXISTS product_variants (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL,
			product_id UUID NOT NULL REFERENCES products(id),
			name VARCHAR(255) NOT NULL,
			sku VARCHAR(100),
			price NUMERIC(12,2) NOT NULL DEFAULT 0,
			stock INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS product_images (
			id UUID PRIMARY KEY,
			tenant_id VARCHAR(64) NOT NULL,
			product_id UUID NOT NULL REFERENCES products(id),
			url TEXT NOT NULL,
			alt_text VARCHAR(255),
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_categories_tenant_id ON categories(tenant_id);
		CREATE INDEX IF NOT EXISTS idx_products_tenant_id ON products(tenant_id);
		CREATE INDEX IF NOT EXISTS idx_products_tenant_status ON products(tenant_id, status);
		CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
		CREATE INDEX IF NOT EXISTS idx_product_variants_product_id ON product_variants(product_id);
		CREATE INDEX IF NOT EXISTS idx_product_images_product_id ON product_images(product_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	db.logger.Info("catalog schema initialized")
	return nil
}
