package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(yaml), 0o644))
	return dir
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("PODO_TEST_HOST", "db.example.com")
	dir := writeProject(t, `
profiles:
  database:
    database_url: postgres://user@${PODO_TEST_HOST}/app
`)
	cfg, err := Load(filepath.Join(dir, ConfigFile))
	require.NoError(t, err)

	p, err := cfg.Profile("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://user@db.example.com/app", p.DatabaseURL)
	assert.Equal(t, "podo_meta", p.MetadataSchema)
}

func TestProfileDefaultsToDatabase(t *testing.T) {
	dir := writeProject(t, `
profiles:
  database:
    database_url: postgres://localhost/app
  staging:
    database_url: postgres://localhost/staging
    metadata_schema: staging_meta
`)
	cfg, err := Load(filepath.Join(dir, ConfigFile))
	require.NoError(t, err)

	_, err = cfg.Profile("")
	require.NoError(t, err)

	p, err := cfg.Profile("staging")
	require.NoError(t, err)
	assert.Equal(t, "staging_meta", p.MetadataSchema)

	_, err = cfg.Profile("nonexistent")
	assert.Error(t, err)
}

func TestDiscoverFromWalksUpToProjectRoot(t *testing.T) {
	dir := writeProject(t, "profiles:\n  database:\n    database_url: postgres://localhost/app\n")
	nested := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := DiscoverFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ProjectDir)
}

func TestDiscoverFromStopsAtProjectRootWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o644))

	_, err := DiscoverFrom(dir)
	assert.Error(t, err)
}

func TestHistoryAndDefinitionsDirs(t *testing.T) {
	dir := writeProject(t, "profiles:\n  database:\n    database_url: postgres://localhost/app\n")
	cfg, err := Load(filepath.Join(dir, ConfigFile))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "history"), cfg.HistoryDir())
	assert.Equal(t, filepath.Join(dir, "definitions"), cfg.DefinitionsDir())
}
