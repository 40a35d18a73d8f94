package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func newValidConfig(t *testing.T) Config {
	t.Helper()
	cfg := NewDefault()
	cfg.Runtime.Root = t.TempDir()
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Valid Config", func(t *testing.T) {
		cfg := newValidConfig(t)
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid config to pass validation, but got error: %v", err)
		}
	})

	t.Run("Empty Root", func(t *testing.T) {
		cfg := newValidConfig(t)
		cfg.Runtime.Root = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty root, but got nil")
		}
	})

	t.Run("Negative MinLength", func(t *testing.T) {
		cfg := newValidConfig(t)
		cfg.Scan.MinLength = -1
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for negative minLength, but got nil")
		}
	})

	t.Run("No Compressor Commands", func(t *testing.T) {
		cfg := newValidConfig(t)
		cfg.Compressor.Commands = nil
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for empty command list, but got nil")
		}
	})

	t.Run("Invalid Level", func(t *testing.T) {
		cfg := newValidConfig(t)
		cfg.Compressor.Level = "turbo"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for invalid level, but got nil")
		}
	})

	t.Run("Malformed Type Pattern", func(t *testing.T) {
		cfg := newValidConfig(t)
		cfg.Scan.Types = append(cfg.Scan.Types, "[html")
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error for malformed type pattern, but got nil")
		}
		if !strings.Contains(err.Error(), "scan.types") {
			t.Errorf("expected error to name the offending field, got: %v", err)
		}
	})

	t.Run("Malformed Exclude Pattern", func(t *testing.T) {
		cfg := newValidConfig(t)
		cfg.Scan.UserExcludeTypes = []string{"[gz"}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for malformed exclude pattern, but got nil")
		}
	})
}

func TestExcludeTypes(t *testing.T) {
	t.Run("System exclusion is always present", func(t *testing.T) {
		s := ScanConfig{}
		got := s.ExcludeTypes()
		if !reflect.DeepEqual(got, []string{"gz"}) {
			t.Errorf("expected [gz], got %v", got)
		}
	})

	t.Run("User exclusions come first, duplicates collapse", func(t *testing.T) {
		s := ScanConfig{UserExcludeTypes: []string{"map", "gz"}}
		got := s.ExcludeTypes()
		if !reflect.DeepEqual(got, []string{"map", "gz"}) {
			t.Errorf("expected [map gz], got %v", got)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("Missing file returns defaults", func(t *testing.T) {
		root := t.TempDir()
		cfg, err := Load(root)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		defaults := NewDefault()
		if !reflect.DeepEqual(cfg.Scan, defaults.Scan) {
			t.Errorf("expected default scan config, got %+v", cfg.Scan)
		}
		if !reflect.DeepEqual(cfg.Compressor.Commands, []string{"zopfli", "gzip -kf9"}) {
			t.Errorf("unexpected default commands: %v", cfg.Compressor.Commands)
		}
	})

	t.Run("Existing file overrides defaults", func(t *testing.T) {
		root := t.TempDir()
		content := `{
  "logLevel": "debug",
  "scan": {"types": ["html"], "userExcludeTypes": ["map"], "minLength": 128},
  "compressor": {"commands": ["builtin"], "level": "best"}
}`
		if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cfg, err := Load(root)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("expected logLevel debug, got %q", cfg.LogLevel)
		}
		if !reflect.DeepEqual(cfg.Scan.Types, []string{"html"}) {
			t.Errorf("expected types [html], got %v", cfg.Scan.Types)
		}
		if cfg.Scan.MinLength != 128 {
			t.Errorf("expected minLength 128, got %d", cfg.Scan.MinLength)
		}
		if !reflect.DeepEqual(cfg.Compressor.Commands, []string{"builtin"}) {
			t.Errorf("expected commands [builtin], got %v", cfg.Compressor.Commands)
		}
	})

	t.Run("Malformed file is an error", func(t *testing.T) {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{nope"), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		if _, err := Load(root); err == nil {
			t.Error("expected error for malformed config file, but got nil")
		}
	})
}

func TestGenerate(t *testing.T) {
	t.Run("Writes a loadable config file", func(t *testing.T) {
		root := t.TempDir()
		cfg := NewDefault()
		cfg.Runtime.Root = root
		cfg.Scan.MinLength = 99

		if err := Generate(cfg, false); err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}

		loaded, err := Load(root)
		if err != nil {
			t.Fatalf("Load of generated file returned error: %v", err)
		}
		if loaded.Scan.MinLength != 99 {
			t.Errorf("expected minLength 99 after roundtrip, got %d", loaded.Scan.MinLength)
		}
	})

	t.Run("Refuses to overwrite without force", func(t *testing.T) {
		root := t.TempDir()
		cfg := NewDefault()
		cfg.Runtime.Root = root

		if err := Generate(cfg, false); err != nil {
			t.Fatalf("first Generate returned error: %v", err)
		}
		if err := Generate(cfg, false); err == nil {
			t.Error("expected error when overwriting without force, but got nil")
		}
		if err := Generate(cfg, true); err != nil {
			t.Errorf("Generate with force returned error: %v", err)
		}
	})
}

func TestMergeConfigWithFlags(t *testing.T) {
	base := NewDefault()

	t.Run("Empty flag map keeps base values", func(t *testing.T) {
		merged := MergeConfigWithFlags(base, map[string]any{})
		if !reflect.DeepEqual(merged.Scan, base.Scan) {
			t.Errorf("expected unchanged scan config, got %+v", merged.Scan)
		}
	})

	t.Run("Set flags override base values", func(t *testing.T) {
		flags := map[string]any{
			"root":              "/var/www",
			"dry-run":           true,
			"types":             []string{"html", "css"},
			"min-length":        int64(200),
			"cmd":               []string{"builtin"},
			"level":             "best",
			"strict-timestamps": true,
			"metrics":           true,
		}
		merged := MergeConfigWithFlags(base, flags)

		if merged.Runtime.Root != "/var/www" {
			t.Errorf("expected root /var/www, got %q", merged.Runtime.Root)
		}
		if !merged.Runtime.DryRun {
			t.Error("expected dry-run to be set")
		}
		if !reflect.DeepEqual(merged.Scan.Types, []string{"html", "css"}) {
			t.Errorf("expected overridden types, got %v", merged.Scan.Types)
		}
		if merged.Scan.MinLength != 200 {
			t.Errorf("expected minLength 200, got %d", merged.Scan.MinLength)
		}
		if !reflect.DeepEqual(merged.Compressor.Commands, []string{"builtin"}) {
			t.Errorf("expected overridden commands, got %v", merged.Compressor.Commands)
		}
		if merged.Compressor.Level != "best" {
			t.Errorf("expected level best, got %q", merged.Compressor.Level)
		}
		if !merged.Compressor.StrictTimestamps {
			t.Error("expected strict-timestamps to be set")
		}
		if !merged.Engine.Metrics {
			t.Error("expected metrics to be set")
		}
	})
}
