// Package config handles graphdb configuration via environment variables.
//
// Configuration is loaded from environment variables using LoadFromEnv() and
// can be validated with Validate() before use, following the teacher's
// pkg/config convention of a single flat Config assembled at startup.
//
// Environment Variables:
//
//   - GRAPHDB_DATA_DIR="./data" — on-disk data directory for the Badger
//     engine; ignored when GRAPHDB_IN_MEMORY is set.
//   - GRAPHDB_NAMESPACE="default" — the storage namespace all keys are
//     scoped under (spec.md §4.1).
//   - GRAPHDB_SYNC_WRITES=false — fsync every Badger write batch before it
//     is considered committed; safer, slower.
//   - GRAPHDB_IN_MEMORY=false — use the in-memory KV store instead of
//     Badger; for tests and ephemeral embedders.
//   - GRAPHDB_VLE_MAX_LENGTH_DEFAULT=10 — default max hop count for a
//     variable-length-edge query that doesn't specify its own bound
//     (spec.md §4.8).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all graphdb configuration loaded from environment variables.
type Config struct {
	// DataDir is the on-disk directory for the Badger engine.
	DataDir string
	// Namespace scopes every key this process writes or reads.
	Namespace string
	// SyncWrites controls fsync-per-commit durability.
	SyncWrites bool
	// InMemory selects the in-memory KV store over Badger.
	InMemory bool
	// VLEMaxLengthDefault bounds an unqualified variable-length-edge query.
	VLEMaxLengthDefault int
}

// LoadFromEnv loads configuration from environment variables, applying
// sensible defaults where a variable is unset.
func LoadFromEnv() *Config {
	return &Config{
		DataDir:             getEnv("GRAPHDB_DATA_DIR", "./data"),
		Namespace:           getEnv("GRAPHDB_NAMESPACE", "default"),
		SyncWrites:          getEnvBool("GRAPHDB_SYNC_WRITES", false),
		InMemory:            getEnvBool("GRAPHDB_IN_MEMORY", false),
		VLEMaxLengthDefault: getEnvInt("GRAPHDB_VLE_MAX_LENGTH_DEFAULT", 10),
	}
}

// Validate checks that the loaded configuration is self-consistent.
func (c *Config) Validate() error {
	if !c.InMemory && strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: GRAPHDB_DATA_DIR must be set unless GRAPHDB_IN_MEMORY is true")
	}
	if strings.TrimSpace(c.Namespace) == "" {
		return fmt.Errorf("config: GRAPHDB_NAMESPACE must not be empty")
	}
	if c.VLEMaxLengthDefault <= 0 {
		return fmt.Errorf("config: invalid vle max length default: %d", c.VLEMaxLengthDefault)
	}
	return nil
}

// String returns a representation safe for logging (no secrets live in this
// Config today, but the method is kept for parity with the teacher's
// Config.String and to give callers one stable place to print it).
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{DataDir: %s, Namespace: %s, SyncWrites: %v, InMemory: %v, VLEMaxLengthDefault: %d}",
		c.DataDir, c.Namespace, c.SyncWrites, c.InMemory, c.VLEMaxLengthDefault,
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(val)
		return val == "true" || val == "1" || val == "yes" || val == "on"
	}
	return defaultVal
}
