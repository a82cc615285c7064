package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"GRAPHDB_DATA_DIR", "GRAPHDB_NAMESPACE", "GRAPHDB_SYNC_WRITES",
		"GRAPHDB_IN_MEMORY", "GRAPHDB_VLE_MAX_LENGTH_DEFAULT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := LoadFromEnv()
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "default", cfg.Namespace)
	assert.False(t, cfg.SyncWrites)
	assert.False(t, cfg.InMemory)
	assert.Equal(t, 10, cfg.VLEMaxLengthDefault)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("GRAPHDB_DATA_DIR", "/var/lib/graphdb")
	t.Setenv("GRAPHDB_NAMESPACE", "prod")
	t.Setenv("GRAPHDB_SYNC_WRITES", "true")
	t.Setenv("GRAPHDB_IN_MEMORY", "yes")
	t.Setenv("GRAPHDB_VLE_MAX_LENGTH_DEFAULT", "25")

	cfg := LoadFromEnv()
	assert.Equal(t, "/var/lib/graphdb", cfg.DataDir)
	assert.Equal(t, "prod", cfg.Namespace)
	assert.True(t, cfg.SyncWrites)
	assert.True(t, cfg.InMemory)
	assert.Equal(t, 25, cfg.VLEMaxLengthDefault)
}

func TestValidateRejectsEmptyNamespace(t *testing.T) {
	cfg := LoadFromEnv()
	cfg.Namespace = "  "
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsMissingDataDirWithoutInMemory(t *testing.T) {
	cfg := LoadFromEnv()
	cfg.InMemory = false
	cfg.DataDir = ""
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveVLEMaxLength(t *testing.T) {
	cfg := LoadFromEnv()
	cfg.VLEMaxLengthDefault = 0
	require.Error(t, cfg.Validate())
}

func TestLoadWithFileOverridesEnv(t *testing.T) {
	t.Setenv("GRAPHDB_NAMESPACE", "from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "graphdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: from-file\nsync_writes: true\n"), 0o644))

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Namespace)
	assert.True(t, cfg.SyncWrites)
}

func TestLoadWithFileMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("GRAPHDB_NAMESPACE", "env-only")

	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only", cfg.Namespace)
}
