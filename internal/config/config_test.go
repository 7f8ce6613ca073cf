package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/pokernight/internal/config"
)

func clearDatabaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOCAL_DATABASE_URL", "")
	t.Setenv("USE_LOCAL_DB", "")
	t.Setenv("AUTH_ENABLED", "")
	t.Setenv("JWT_SECRET", "")
}

func TestLoadDefaults(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DB_PATH", "")
	t.Setenv("HTTP_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/poker.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.False(t, cfg.AuthEnabled)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)

	backend, dsn, err := cfg.Storage()
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, backend)
	assert.Equal(t, "./data/poker.db", dsn)
}

func TestLoadOverrides(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DATABASE_URL", "postgres://poker:poker@db:5432/poker?sslmode=disable")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_CONNECT_TIMEOUT", "45s")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "top-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 45*time.Second, cfg.DatabaseConnectTimeout)
	assert.True(t, cfg.AuthEnabled)

	backend, dsn, err := cfg.Storage()
	require.NoError(t, err)
	assert.Equal(t, config.BackendPostgres, backend)
	assert.Equal(t, "postgres://poker:poker@db:5432/poker?sslmode=disable", dsn)
}

func TestLoad_AuthRequiresSecret(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("AUTH_ENABLED", "true")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_RejectsUnknownScheme(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DATABASE_URL", "mysql://localhost/poker")

	_, err := config.Load()
	require.Error(t, err)
}

func TestStoreURL_UseLocal(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL:      "postgres://remote/poker",
		LocalDatabaseURL: "postgres://localhost/poker",
	}
	assert.Equal(t, "postgres://remote/poker", cfg.StoreURL())

	cfg.UseLocalDB = true
	assert.Equal(t, "postgres://localhost/poker", cfg.StoreURL())
}

func TestStorage(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantBackend config.Backend
		wantDSN     string
		wantErr     bool
	}{
		{name: "empty falls back to DB_PATH", url: "", wantBackend: config.BackendSQLite, wantDSN: "fallback.db"},
		{name: "postgresql scheme", url: "postgresql://h/db", wantBackend: config.BackendPostgres, wantDSN: "postgresql://h/db"},
		{name: "relative sqlite path", url: "sqlite:///poker.db", wantBackend: config.BackendSQLite, wantDSN: "poker.db"},
		{name: "relative nested sqlite path", url: "sqlite:///data/poker.db", wantBackend: config.BackendSQLite, wantDSN: "data/poker.db"},
		{name: "absolute sqlite path", url: "sqlite:////var/lib/poker.db", wantBackend: config.BackendSQLite, wantDSN: "/var/lib/poker.db"},
		{name: "sqlite path in authority", url: "sqlite://data/poker.db", wantBackend: config.BackendSQLite, wantDSN: "data/poker.db"},
		{name: "sqlite without path", url: "sqlite://", wantErr: true},
		{name: "sqlite with bare slash", url: "sqlite:///", wantErr: true},
		{name: "unsupported scheme", url: "redis://localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{DBPath: "fallback.db", DatabaseURL: tt.url}
			backend, dsn, err := cfg.Storage()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBackend, backend)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestLoad_UseLocalDB(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DATABASE_URL", "postgres://remote/poker")
	t.Setenv("LOCAL_DATABASE_URL", "sqlite:///local.db")

	t.Setenv("USE_LOCAL_DB", "True")
	cfg, err := config.Load()
	require.NoError(t, err)
	backend, dsn, err := cfg.Storage()
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, backend)
	assert.Equal(t, "local.db", dsn)

	// Values strconv.ParseBool rejects fail at startup.
	t.Setenv("USE_LOCAL_DB", "yes")
	_, err = config.Load()
	require.Error(t, err)
}
