package postgres

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolWithConfig_InvalidURL(t *testing.T) {
	_, err := NewPoolWithConfig(context.Background(), PoolConfig{DatabaseURL: "not-a-url"})
	assert.Error(t, err)
}

func TestNewPoolWithConfig_PingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewPoolWithConfig(ctx, PoolConfig{
		DatabaseURL: "postgres://invalid:5432/db?connect_timeout=1",
		MaxConns:    1,
	})
	assert.Error(t, err)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	up, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	down, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, up)
	assert.Len(t, down, len(up), "every up migration needs a down migration")

	body, err := fs.ReadFile(migrationsFS, "migrations/000001_create_accounts.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE TABLE")
}

func TestRunMigrations_InvalidURL(t *testing.T) {
	err := RunMigrations("not-a-url", zerolog.Nop())
	assert.Error(t, err)
}
