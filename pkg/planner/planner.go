// Package planner turns a resolved configuration into the immutable per-run
// plans consumed by the leaf worker packages.
package planner

import (
	"github.com/paulschiretz/pgl-gzstatic/pkg/config"
	"github.com/paulschiretz/pgl-gzstatic/pkg/hook"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathgzip"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathscan"
	"github.com/paulschiretz/pgl-gzstatic/pkg/preflight"
)

type CompressPlan struct {
	DryRun  bool
	Metrics bool

	// Candidates is the ordered compressor preference list for the resolver.
	Candidates []string

	Preflight *preflight.Plan
	Scan      *pathscan.Plan
	Gzip      *pathgzip.Plan
	Hooks     *hook.Plan
}

// GenerateCompressPlan resolves the configuration into a CompressPlan.
// The exclusion set always carries the compressed suffix itself, so the
// tool's output is never targeted on a subsequent run.
func GenerateCompressPlan(cfg config.Config) (*CompressPlan, error) {
	dryRun := cfg.Runtime.DryRun
	metrics := cfg.Engine.Metrics

	level, err := pathgzip.ParseLevel(cfg.Compressor.Level)
	if err != nil {
		return nil, err
	}

	return &CompressPlan{
		DryRun:  dryRun,
		Metrics: metrics,

		Candidates: cfg.Compressor.Commands,

		Preflight: &preflight.Plan{
			RootAccessible: true,
			DryRun:         dryRun,
			Metrics:        metrics,
		},
		Scan: &pathscan.Plan{
			IncludeTypes: cfg.Scan.Types,
			ExcludeTypes: cfg.Scan.ExcludeTypes(),
			ExcludeNames: config.ExcludeNames(),
			MinLength:    cfg.Scan.MinLength,
			DryRun:       dryRun,
			Metrics:      metrics,
		},
		Gzip: &pathgzip.Plan{
			Level:            level,
			StrictTimestamps: cfg.Compressor.StrictTimestamps,
			DryRun:           dryRun,
			Metrics:          metrics,
		},
		Hooks: &hook.Plan{
			Enabled:          true,
			PreHookCommands:  cfg.Hooks.PreCompress,
			PostHookCommands: cfg.Hooks.PostCompress,
			DryRun:           dryRun,
			Metrics:          metrics,
		},
	}, nil
}
