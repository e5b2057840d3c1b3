package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus represents the publication state of a product
type ProductStatus string

const (
	ProductDraft    ProductStatus = "draft"
	ProductActive   ProductStatus = "active"
	ProductArchived ProductStatus = "archived"
)

// Product represents a catalog product. Every product is tenant-scoped;
// queries must always filter by TenantID.
type Product struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	TenantID       string        `json:"tenant_id" db:"tenant_id"`
	CategoryID     *uuid.UUID    `json:"category_id,omitempty" db:"category_id"`
	Name           string        `json:"name" db:"name"`
	Slug           string        `json:"slug,omitempty" db:"slug"`
	Description    string        `json:"description,omitempty" db:"description"`
	Price          float64       `json:"price" db:"price"`
	CompareAtPrice *float64      `json:"compare_at_price,omitempty" db:"compare_at_price"`
	CostPrice      *float64      `json:"cost_price,omitempty" db:"cost_price"`
	SKU            string        `json:"sku,omitempty" db:"sku"`
	Barcode        string        `json:"barcode,omitempty" db:"barcode"`
	Status         ProductStatus `json:"status" db:"status"`
	IsFeatured     bool          `json:"is_featured" db:"is_featured"`
	TrackInventory bool          `json:"track_inventory" db:"track_inventory"`
	Stock          int           `json:"stock" db:"stock"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new draft Product instance for a tenant
func NewProduct(tenantID, name string, price float64) *Product {
	now := time.Now()
	return &Product{
		ID:             uuid.New(),
		TenantID:       tenantID,
		Name:           name,
		Price:          price,
		Status:         ProductDraft,
		TrackInventory: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// InStock returns true when the product can be purchased
func (p *Product) InStock() bool {
	if !p.TrackInventory {
		return true
	}
	return p.Stock > 0
}

// ProductVariant represents a sellable variation of a product
type ProductVariant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	TenantID  string    `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	SKU       string    `json:"sku,omitempty" db:"sku"`
	Price     float64   `json:"price" db:"price"`
	Stock     int       `json:"stock" db:"stock"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}

// ProductImage represents an image attached to a product
type ProductImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	TenantID  string    `json:"tenant_id" db:"tenant_id"`
	URL       string    `json:"url" db:"url"`
	AltText   string    `json:"alt_text,omitempty" db:"alt_text"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the ProductImage model
func (ProductImage) TableName() string {
	return "product_images"
}
