package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a tenant-scoped product category. Categories form a
// tree via ParentID.
type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    string     `json:"tenant_id" db:"tenant_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Description string     `json:"description,omitempty" db:"description"`
	Position    int        `json:"position" db:"position"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new Category instance for a tenant
func NewCategory(tenantID, name, slug string) *Category {
	now := time.Now()
	return &Category{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
