package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/paulschiretz/pgl-gzstatic/pkg/buildinfo"
	"github.com/paulschiretz/pgl-gzstatic/pkg/cmdresolve"
	"github.com/paulschiretz/pgl-gzstatic/pkg/config"
	"github.com/paulschiretz/pgl-gzstatic/pkg/engine"
	"github.com/paulschiretz/pgl-gzstatic/pkg/hook"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathgzip"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathscan"
	"github.com/paulschiretz/pgl-gzstatic/pkg/planner"
	"github.com/paulschiretz/pgl-gzstatic/pkg/plog"
	"github.com/paulschiretz/pgl-gzstatic/pkg/preflight"
	"github.com/paulschiretz/pgl-gzstatic/pkg/util"
)

// RunCompress handles the main compression pass.
func RunCompress(ctx context.Context, flagMap map[string]any) error {
	// The positional root directory is mandatory.
	rootPath, ok := flagMap["root"].(string)
	if !ok || rootPath == "" {
		return fmt.Errorf("a root directory argument is required to run a compression pass")
	}

	rootPath, err := util.ExpandPath(rootPath)
	if err != nil {
		return err
	}
	absRootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve root directory: %w", err)
	}
	flagMap["root"] = absRootPath

	// Load config from the root directory, or use defaults if not found.
	loadedConfig, err := config.Load(absRootPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration from root: %w", err)
	}

	// Merge the flag values over the loaded config to get the final run config.
	runConfig := config.MergeConfigWithFlags(loadedConfig, flagMap)

	// CRITICAL: Validate the config for the run
	if err := runConfig.Validate(); err != nil {
		return err
	}

	// Set the global log level based on the final configuration.
	plog.SetLevel(plog.LevelFromString(runConfig.LogLevel))

	// Log the Summary
	runConfig.LogSummary()

	// Create the runner and feed it with our leaf workers
	runner := engine.NewRunner(
		preflight.NewValidator(),
		cmdresolve.NewSystemResolver(),
		pathscan.NewPathScanner(),
		pathgzip.NewPathGzipper(runConfig.Engine.BufferSizeKB, exec.CommandContext),
		hook.NewHookExecutor(exec.CommandContext),
	)

	// Get the Plan
	compressPlan, err := planner.GenerateCompressPlan(runConfig)
	if err != nil {
		return err
	}

	// Execute the plan
	startTime := time.Now()
	err = runner.ExecuteCompress(ctx, absRootPath, compressPlan)
	duration := time.Since(startTime).Round(time.Millisecond)
	if err != nil {
		return err // The error will be logged with full details by main()
	}
	plog.Info(buildinfo.Name+" finished successfully.", "duration", duration)
	return nil
}
