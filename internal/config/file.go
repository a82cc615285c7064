package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config's fields with pointer types so an absent YAML
// key leaves the corresponding Config field untouched by LoadWithFile,
// rather than zeroing it out.
type fileConfig struct {
	DataDir             *string `yaml:"data_dir"`
	Namespace           *string `yaml:"namespace"`
	SyncWrites          *bool   `yaml:"sync_writes"`
	InMemory            *bool   `yaml:"in_memory"`
	VLEMaxLengthDefault *int    `yaml:"vle_max_length_default"`
}

// LoadWithFile loads Config from environment variables, then layers a YAML
// file (graphdb.yaml by convention) on top: any key present in the file
// overrides the environment-derived value, following the teacher's
// LoadFromEnvOrFile precedence (env first, file second) but inverted here
// since SPEC_FULL.md names the file as the higher-precedence layer for
// operators who keep a checked-in graphdb.yaml alongside ad hoc env
// overrides used only for one-off runs.
//
// A missing file is not an error: LoadWithFile returns the env-only Config
// unchanged, matching LoadConfigOrDefault's fall-back-to-defaults shape.
func LoadWithFile(path string) (*Config, error) {
	cfg := LoadFromEnv()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}

	if fc.DataDir != nil {
		cfg.DataDir = *fc.DataDir
	}
	if fc.Namespace != nil {
		cfg.Namespace = *fc.Namespace
	}
	if fc.SyncWrites != nil {
		cfg.SyncWrites = *fc.SyncWrites
	}
	if fc.InMemory != nil {
		cfg.InMemory = *fc.InMemory
	}
	if fc.VLEMaxLengthDefault != nil {
		cfg.VLEMaxLengthDefault = *fc.VLEMaxLengthDefault
	}
	return cfg, nil
}
