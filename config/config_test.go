package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 1*time.Hour, cfg.Clerk.JWKSTTL)
	assert.Equal(t, "http://localhost:3001", cfg.Services.TenantServiceURL)
	assert.Equal(t, "http://localhost:3002", cfg.Services.ProductServiceURL)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CLERK_SECRET_KEY", "sk_live_abc")
	t.Setenv("CLERK_JWKS_TTL", "15m")
	t.Setenv("TENANT_SERVICE_URL", "http://tenant-svc:3001")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sk_live_abc", cfg.Clerk.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.Clerk.JWKSTTL)
	assert.Equal(t, "http://tenant-svc:3001", cfg.Services.TenantServiceURL)
}

func TestValidateGateway(t *testing.T) {
	t.Run("missing Clerk secret fails", func(t *testing.T) {
		cfg, err := New()
		require.NoError(t, err)
		cfg.Clerk.SecretKey = ""

		err = cfg.ValidateGateway()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CLERK_SECRET_KEY")
	})

	t.Run("valid gateway config passes", func(t *testing.T) {
		t.Setenv("CLERK_SECRET_KEY", "sk_test_abc")

		cfg, err := New()
		require.NoError(t, err)

		assert.NoError(t, cfg.ValidateGateway())
	})

	t.Run("missing service URL fails", func(t *testing.T) {
		t.Setenv("CLERK_SECRET_KEY", "sk_test_abc")

		cfg, err := New()
		require.NoError(t, err)
		cfg.Services.ProductServiceURL = ""

		assert.Error(t, cfg.ValidateGateway())
	})
}

func TestValidateService(t *testing.T) {
	t.Run("no database config fails", func(t *testing.T) {
		cfg, err := New()
		require.NoError(t, err)
		cfg.Database = DatabaseConfig{}

		err = cfg.ValidateService()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("DATABASE_URL alone is enough", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/storefront?sslmode=disable")

		cfg, err := New()
		require.NoError(t, err)

		assert.NoError(t, cfg.ValidateService())
	})

	t.Run("individual fields need user and name", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")

		cfg, err := New()
		require.NoError(t, err)

		assert.Error(t, cfg.ValidateService())
	})
}

func TestDSN(t *testing.T) {
	t.Run("connection string takes precedence", func(t *testing.T) {
		db := DatabaseConfig{
			ConnectionString: "postgres://app:secret@db:5432/storefront",
			Host:             "ignored",
		}
		assert.Equal(t, "postgres://app:secret@db:5432/storefront", db.DSN())
	})

	t.Run("built from fields", func(t *testing.T) {
		db := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "app",
			Password: "secret",
			Database: "storefront",
			SSLMode:  "disable",
		}
		assert.Equal(t,
			"host=localhost port=5432 user=app password=secret dbname=storefront sslmode=disable",
			db.DSN())
	})
}

func TestLogString(t *testing.T) {
	t.Run("never contains the password", func(t *testing.T) {
		db := DatabaseConfig{
			ConnectionString: "postgres://app:supersecret@db:5432/storefront",
		}
		s := db.LogString()
		assert.NotContains(t, s, "supersecret")
		assert.Contains(t, s, "db")
		assert.Contains(t, s, "storefront")
	})

	t.Run("field-based config", func(t *testing.T) {
		db := DatabaseConfig{Host: "localhost", Port: 5432, Password: "secret", Database: "storefront"}
		s := db.LogString()
		assert.NotContains(t, s, "secret")
		assert.Contains(t, s, "localhost")
	})
}

func TestAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 3000}
	assert.Equal(t, "127.0.0.1:3000", s.Address())
}
