// Package engine ties the leaf workers together into a single compression
// pass: preflight validation, compressor resolution, traversal, and per-file
// freshness/compression.
package engine

import (
	"github.com/paulschiretz/pgl-gzstatic/pkg/cmdresolve"
	"github.com/paulschiretz/pgl-gzstatic/pkg/hook"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathgzip"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathscan"
	"github.com/paulschiretz/pgl-gzstatic/pkg/preflight"
)

// Runner coordinates a compression pass. It holds no per-run state; every
// run's state lives in the plan passed to ExecuteCompress.
type Runner struct {
	validator *preflight.Validator
	resolver  *cmdresolve.Resolver
	scanner   *pathscan.PathScanner
	gzipper   *pathgzip.PathGzipper
	hooks     *hook.HookExecutor
}

// NewRunner creates a Runner from its leaf workers.
func NewRunner(
	validator *preflight.Validator,
	resolver *cmdresolve.Resolver,
	scanner *pathscan.PathScanner,
	gzipper *pathgzip.PathGzipper,
	hooks *hook.HookExecutor,
) *Runner {
	return &Runner{
		validator: validator,
		resolver:  resolver,
		scanner:   scanner,
		gzipper:   gzipper,
		hooks:     hooks,
	}
}
