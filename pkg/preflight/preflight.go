// Package preflight provides validation checks that run before a compression
// pass begins. The checks are stateless and perform no writes; a pass that
// fails preflight leaves the filesystem untouched.
package preflight

import (
	"context"
	"fmt"
	"os"

	"github.com/paulschiretz/pgl-gzstatic/pkg/plog"
)

type Plan struct {
	RootAccessible bool

	// Global Flags
	DryRun  bool
	Metrics bool
}

// Validator runs the preflight checks for a pass.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Run executes the checks enabled in the plan.
func (v *Validator) Run(ctx context.Context, absRootPath string, p *Plan) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if p.RootAccessible {
		if err := CheckRootAccessible(absRootPath); err != nil {
			return err
		}
		plog.Debug("Preflight passed", "root", absRootPath)
	}
	return nil
}

// CheckRootAccessible validates that the traversal root exists and is a
// directory. It provides friendlier errors than letting the walk fail.
func CheckRootAccessible(rootPath string) error {
	info, err := os.Stat(rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("root directory %s does not exist", rootPath)
		}
		return fmt.Errorf("cannot access root directory %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path exists but is not a directory: %s", rootPath)
	}
	return nil
}
