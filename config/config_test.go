package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.DumpFunctionIndex != 1 {
		t.Errorf("Expected DumpFunctionIndex=1, got %d", cfg.Output.DumpFunctionIndex)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Expected Format=text, got %s", cfg.Output.Format)
	}
	if cfg.Output.Verbose {
		t.Error("Expected Verbose=false")
	}
	if cfg.Explorer.Enabled {
		t.Error("Expected Explorer.Enabled=false")
	}
	if cfg.Explorer.Theme != "default" {
		t.Errorf("Expected Theme=default, got %s", cfg.Explorer.Theme)
	}
	if len(cfg.Lift.ExtraAliases) != 0 {
		t.Errorf("Expected no extra aliases by default, got %v", cfg.Lift.ExtraAliases)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load should not error on non-existent file: %v", err)
	}

	if cfg.Output.DumpFunctionIndex != 1 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mips-to-c.toml")

	contents := `
[output]
verbose = true
dump_function_index = 3
format = "json"

[explorer]
enabled = true
theme = "solarized"

[lift]
extra_aliases = { myadd = "addu" }
`
	if err := os.WriteFile(configPath, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.Output.Verbose {
		t.Error("Expected Verbose=true")
	}
	if cfg.Output.DumpFunctionIndex != 3 {
		t.Errorf("Expected DumpFunctionIndex=3, got %d", cfg.Output.DumpFunctionIndex)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected Format=json, got %s", cfg.Output.Format)
	}
	if !cfg.Explorer.Enabled {
		t.Error("Expected Explorer.Enabled=true")
	}
	if cfg.Explorer.Theme != "solarized" {
		t.Errorf("Expected Theme=solarized, got %s", cfg.Explorer.Theme)
	}
	if cfg.Lift.ExtraAliases["myadd"] != "addu" {
		t.Errorf("Expected extra alias myadd=addu, got %v", cfg.Lift.ExtraAliases)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[output]
dump_function_index = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}
