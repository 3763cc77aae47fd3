// Package config holds the YAML-backed engine tuning knobs that can
// override the engine's built-in defaults without touching the design
// file itself.
package config

import (
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/arl/metalfill/solve"
)

// Config tunes the fill engine without touching the design file
// itself.
type Config struct {
	// NumTileForWindow is K, the number of tiles per window side.
	NumTileForWindow int `yaml:"numTileForWindow"`

	// LogProgress enables the per-layer density diagnostics printed
	// after grid init and after each phase.
	LogProgress bool `yaml:"logProgress"`
}

// Default returns the engine's built-in tuning.
func Default() Config {
	return Config{
		NumTileForWindow: solve.NumTileForWindow,
		LogProgress:      true,
	}
}

// Load reads a YAML config file at path, falling back to Default for
// any field left unset.
func Load(path string) (Config, error) {
	cfg := Default()
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write serializes cfg as YAML to path.
func Write(path string, cfg Config) error {
	buf, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, buf, 0644)
}
