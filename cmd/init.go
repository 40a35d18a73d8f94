package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/paulschiretz/pgl-gzstatic/pkg/config"
	"github.com/paulschiretz/pgl-gzstatic/pkg/plog"
	"github.com/paulschiretz/pgl-gzstatic/pkg/preflight"
	"github.com/paulschiretz/pgl-gzstatic/pkg/util"
)

// RunInit generates a configuration file in the root directory, seeded from
// the defaults merged with any flags the user set.
func RunInit(ctx context.Context, flagMap map[string]any) error {
	rootPath, ok := flagMap["root"].(string)
	if !ok || rootPath == "" {
		return fmt.Errorf("a root directory argument is required for the init operation")
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

	// The root must exist before we write a config into it.
	if err := preflight.CheckRootAccessible(absRootPath); err != nil {
		return err
	}

	runConfig := config.MergeConfigWithFlags(config.NewDefault(), flagMap)
	if err := runConfig.Validate(); err != nil {
		return err
	}

	force, _ := flagMap["force"].(bool)
	if err := config.Generate(runConfig, force); err != nil {
		return err
	}
	plog.Info("Configuration initialized", "root", absRootPath)
	return nil
}
