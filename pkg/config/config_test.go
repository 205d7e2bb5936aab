package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.InMemory)
	assert.Empty(t, cfg.SeedFile)
	assert.Contains(t, cfg.DSN(), "dbname=bounty")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("IN_MEMORY", "true")
	t.Setenv("SEED_FILE", "seed.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.InMemory)
	assert.Equal(t, "seed.yaml", cfg.SeedFile)
	assert.Equal(t,
		"host=db.internal user=postgres password=password dbname=bounty port=5433 sslmode=disable TimeZone=UTC",
		cfg.DSN())
}
