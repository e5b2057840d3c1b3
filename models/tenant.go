package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents the lifecycle state of a tenant
type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantSuspended TenantStatus = "suspended"
	TenantCancelled TenantStatus = "cancelled"
)

// Tenant represents a store in the multi-tenant platform. Its ID is the
// Clerk organization ID, so tenants are keyed the same way the gateway keys
// identity.
type Tenant struct {
	ID           string       `json:"id" db:"id"` // Clerk organization ID (org_xxx)
	Name         string       `json:"name" db:"name"`
	Slug         string       `json:"slug" db:"slug"` // used for subdomains: nike.example.com
	Status       TenantStatus `json:"status" db:"status"`
	LogoURL      string       `json:"logo_url,omitempty" db:"logo_url"`
	PrimaryColor string       `json:"primary_color,omitempty" db:"primary_color"`
	Description  string       `json:"description,omitempty" db:"description"`
	Email        string       `json:"email,omitempty" db:"email"`
	Phone        string       `json:"phone,omitempty" db:"phone"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time   `json:"deleted_at,omitempty" db:"deleted_at"`
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new Tenant instance keyed by its organization ID
func NewTenant(id, name, slug string) *Tenant {
	now := time.Now()
	return &Tenant{
		ID:        id,
		Name:      name,
		Slug:      slug,
		Status:    TenantActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive returns true if the tenant can serve traffic
func (t *Tenant) IsActive() bool {
	return t.Status == TenantActive && t.DeletedAt == nil
}

// TenantDomain represents a custom domain attached to a tenant
type TenantDomain struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   string    `json:"tenant_id" db:"tenant_id"`
	Domain     string    `json:"domain" db:"domain"`
	IsPrimary  bool      `json:"is_primary" db:"is_primary"`
	IsVerified bool      `json:"is_verified" db:"is_verified"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the TenantDomain model
func (TenantDomain) TableName() string {
	return "tenant_domains"
}

// NewTenantDomain creates a new unverified TenantDomain instance
func NewTenantDomain(tenantID, domain string) *TenantDomain {
	now := time.Now()
	return &TenantDomain{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Domain:    domain,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TenantSetting is a per-tenant key/value configuration entry
type TenantSetting struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  string    `json:"tenant_id" db:"tenant_id"`
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the TenantSetting model
func (TenantSetting) TableName() string {
	return "tenant_settings"
}

// NewTenantSetting creates a new TenantSetting instance
func NewTenantSetting(tenantID, key, value string) *TenantSetting {
	now := time.Now()
	return &TenantSetting{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
