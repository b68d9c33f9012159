// Package config loads mips-to-c's optional TOML configuration, mirroring
// the defaults-if-absent behavior of the original emulator's config
// loader: a missing file is never an error.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration tree.
type Config struct {
	// Output controls how the decompiled function dump is produced.
	Output struct {
		Verbose           bool   `toml:"verbose"`
		DumpFunctionIndex int    `toml:"dump_function_index"`
		Format            string `toml:"format"` // "text" or "json"
	} `toml:"output"`

	// Explorer controls the tview/tcell interactive viewer.
	Explorer struct {
		Enabled bool   `toml:"enabled"`
		Theme   string `toml:"theme"`
	} `toml:"explorer"`

	// Lift supplies additional mnemonic aliases, merged under the
	// built-in table (built-ins always win on conflict).
	Lift struct {
		ExtraAliases map[string]string `toml:"extra_aliases"`
	} `toml:"lift"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Output.Verbose = false
	cfg.Output.DumpFunctionIndex = 1
	cfg.Output.Format = "text"

	cfg.Explorer.Enabled = false
	cfg.Explorer.Theme = "default"

	cfg.Lift.ExtraAliases = map[string]string{}

	return cfg
}

// Load loads configuration from path. If path does not exist, Load
// returns DefaultConfig() rather than an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
