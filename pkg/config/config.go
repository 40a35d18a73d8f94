package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulschiretz/pgl-gzstatic/pkg/buildinfo"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathgzip"
	"github.com/paulschiretz/pgl-gzstatic/pkg/plog"
	"github.com/paulschiretz/pgl-gzstatic/pkg/util"
)

// ConfigFileName is the name of the per-root configuration file.
const ConfigFileName = "pgl-gzstatic.config.json"

// systemExcludeTypePatterns are extension patterns that are always excluded
// regardless of the configured types, so the tool never targets its own
// output.
var systemExcludeTypePatterns = []string{"gz"}

// systemExcludeNames are exact file names that are never selected for
// compression, so the tool's own config file stays untouched even when
// "json" is an included type.
var systemExcludeNames = []string{ConfigFileName}

type ScanConfig struct {
	// Types is the set of extension glob patterns eligible for compression.
	// A pattern may contain '*' and '?' (e.g. "?html" matches "xhtml").
	Types []string `json:"types"`
	// UserExcludeTypes are extension glob patterns always excluded,
	// regardless of Types.
	UserExcludeTypes []string `json:"userExcludeTypes"`
	// MinLength is the minimum file size in bytes; only files strictly
	// larger are compressed. Tiny files gain nothing from gzip framing.
	MinLength int64 `json:"minLength"`
}

type CompressorConfig struct {
	// Commands is the ordered compressor preference list. Each entry is a
	// whitespace-separated command line; the first one whose program is
	// available on the search path is used for the entire run. The reserved
	// name "builtin" selects the in-process gzip compressor.
	Commands []string `json:"commands"`
	// Level applies to the builtin compressor: 'default', 'fastest',
	// 'better', or 'best'.
	Level string `json:"level"`
	// StrictTimestamps escalates a failed timestamp alignment after
	// compression from a warning to a fatal error.
	StrictTimestamps bool `json:"strictTimestamps"`
}

type HooksConfig struct {
	// Note: omitempty is intentionally not used so that the hook fields
	// appear in the generated config file for better discoverability.
	// PreCompress is a list of shell commands to execute before the pass.
	// SECURITY: These commands are executed as provided. Ensure they are from a trusted source.
	PreCompress []string `json:"preCompress"`
	// PostCompress is a list of shell commands to execute after the pass.
	// SECURITY: These commands are executed as provided. Ensure they are from a trusted source.
	PostCompress []string `json:"postCompress"`
}

type EngineConfig struct {
	Metrics bool `json:"metrics"`
	// BufferSizeKB is the size of the I/O buffer in kilobytes used by the
	// builtin compressor. Default is 256 (256KB).
	BufferSizeKB int `json:"bufferSizeKB"`
}

// RuntimeConfig holds per-invocation values that are never persisted.
type RuntimeConfig struct {
	Root   string `json:"-"`
	DryRun bool   `json:"-"`
}

type Config struct {
	Version    string           `json:"version"`
	LogLevel   string           `json:"logLevel"`
	Scan       ScanConfig       `json:"scan"`
	Compressor CompressorConfig `json:"compressor"`
	Hooks      HooksConfig      `json:"hooks"`
	Engine     EngineConfig     `json:"engine"`

	Runtime RuntimeConfig `json:"-"`
}

// NewDefault returns the default configuration: the common pre-compressible
// web text types, a 50-byte floor, and zopfli preferred over gzip.
func NewDefault() Config {
	return Config{
		Version:  buildinfo.Version,
		LogLevel: "info",
		Scan: ScanConfig{
			Types:            []string{"html", "htm", "?html", "txt", "css", "js", "xml", "rss", "atom", "svg", "mml", "kml"},
			UserExcludeTypes: []string{},
			MinLength:        50,
		},
		Compressor: CompressorConfig{
			Commands:         []string{"zopfli", "gzip -kf9"},
			Level:            "default",
			StrictTimestamps: false,
		},
		Hooks: HooksConfig{
			PreCompress:  []string{},
			PostCompress: []string{},
		},
		Engine: EngineConfig{
			Metrics:      false,
			BufferSizeKB: 256,
		},
	}
}

// ExcludeTypes returns the effective exclusion patterns: the user's plus the
// system ones protecting the tool's own output.
func (s *ScanConfig) ExcludeTypes() []string {
	return util.MergeAndDeduplicate(s.UserExcludeTypes, systemExcludeTypePatterns)
}

// ExcludeNames returns the exact file names never selected for compression.
func ExcludeNames() []string {
	return systemExcludeNames
}

// Load reads the configuration file from the given root directory. A missing
// file is not an error; the defaults are returned.
func Load(rootPath string) (Config, error) {
	cfg := NewDefault()

	absConfigPath := filepath.Join(rootPath, ConfigFileName)
	data, err := os.ReadFile(absConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			plog.Debug("No config file found, using defaults", "path", absConfigPath)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", absConfigPath, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", absConfigPath, err)
	}
	plog.Debug("Loaded config file", "path", absConfigPath)
	return cfg, nil
}

// Generate writes the configuration to the config file in its root
// directory. It refuses to overwrite an existing file unless force is set.
func Generate(cfg Config, force bool) error {
	absConfigPath := filepath.Join(cfg.Runtime.Root, ConfigFileName)

	if !force {
		if _, err := os.Stat(absConfigPath); err == nil {
			return fmt.Errorf("config file %s already exists (use -force to overwrite)", absConfigPath)
		}
	}

	cfg.Version = buildinfo.Version
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(absConfigPath, data, util.UserWritableFilePerms); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", absConfigPath, err)
	}
	plog.Info("Wrote config file", "path", absConfigPath)
	return nil
}

// Validate checks the resolved configuration for a run. Pattern validation
// happens here so a malformed glob fails before the traversal starts.
func (c *Config) Validate() error {
	if c.Runtime.Root == "" {
		return errors.New("a root directory argument is required")
	}
	if c.Scan.MinLength < 0 {
		return fmt.Errorf("minLength must be non-negative, got %d", c.Scan.MinLength)
	}
	if len(c.Compressor.Commands) == 0 {
		return errors.New("at least one compressor command must be configured")
	}
	if _, err := pathgzip.ParseLevel(c.Compressor.Level); err != nil {
		return err
	}
	if err := validateGlobPatterns("scan.types", c.Scan.Types); err != nil {
		return err
	}
	if err := validateGlobPatterns("scan.userExcludeTypes", c.Scan.UserExcludeTypes); err != nil {
		return err
	}
	return nil
}

// validateGlobPatterns probes each pattern once with filepath.Match to
// surface ErrBadPattern with the offending field named.
func validateGlobPatterns(fieldName string, patterns []string) error {
	for _, p := range patterns {
		if _, err := filepath.Match("*."+p, "probe"); err != nil {
			return fmt.Errorf("invalid glob pattern %q in %s: %w", p, fieldName, err)
		}
	}
	return nil
}

// LogSummary logs the effective configuration for a run.
func (c *Config) LogSummary() {
	plog.Info("Configuration",
		"root", c.Runtime.Root,
		"types", c.Scan.Types,
		"excludeTypes", c.Scan.ExcludeTypes(),
		"minLength", c.Scan.MinLength,
		"commands", c.Compressor.Commands,
		"level", c.Compressor.Level,
		"strictTimestamps", c.Compressor.StrictTimestamps,
		"dryRun", c.Runtime.DryRun,
		"metrics", c.Engine.Metrics,
	)
}

// MergeConfigWithFlags overlays the explicitly set flags onto the base
// configuration and returns the result. Only keys present in the map were
// set by the user; everything else keeps the base value.
func MergeConfigWithFlags(base Config, setFlags map[string]any) Config {
	merged := base

	if v, ok := setFlags["root"].(string); ok {
		merged.Runtime.Root = v
	}
	if v, ok := setFlags["log-level"].(string); ok {
		merged.LogLevel = v
	}
	if v, ok := setFlags["dry-run"].(bool); ok {
		merged.Runtime.DryRun = v
	}
	if v, ok := setFlags["metrics"].(bool); ok {
		merged.Engine.Metrics = v
	}
	if v, ok := setFlags["types"].([]string); ok {
		merged.Scan.Types = v
	}
	if v, ok := setFlags["exclude-types"].([]string); ok {
		merged.Scan.UserExcludeTypes = v
	}
	if v, ok := setFlags["min-length"].(int64); ok {
		merged.Scan.MinLength = v
	}
	if v, ok := setFlags["cmd"].([]string); ok {
		merged.Compressor.Commands = v
	}
	if v, ok := setFlags["level"].(string); ok {
		merged.Compressor.Level = v
	}
	if v, ok := setFlags["strict-timestamps"].(bool); ok {
		merged.Compressor.StrictTimestamps = v
	}
	if v, ok := setFlags["buffer-size-kb"].(int); ok {
		merged.Engine.BufferSizeKB = v
	}
	if v, ok := setFlags["pre-compress-hooks"].([]string); ok {
		merged.Hooks.PreCompress = v
	}
	if v, ok := setFlags["post-compress-hooks"].([]string); ok {
		merged.Hooks.PostCompress = v
	}
	return merged
}
