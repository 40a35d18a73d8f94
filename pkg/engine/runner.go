package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulschiretz/pgl-gzstatic/pkg/hints"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathgzip"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathgzipmetrics"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathscanmetrics"
	"github.com/paulschiretz/pgl-gzstatic/pkg/planner"
	"github.com/paulschiretz/pgl-gzstatic/pkg/plog"
)

// --- ARCHITECTURAL OVERVIEW ---
//
// A pass is fail-fast and strictly sequential per file:
//
// 1. Preflight  - the root must exist and be a directory before anything
//                 else happens; a failed preflight performs no writes.
// 2. Resolution - the compressor is picked once, up front, from the ordered
//                 candidate list. If none resolves the pass aborts before
//                 the traversal starts, so a misconfigured host never
//                 touches the tree.
// 3. Traversal  - the scanner streams candidates in walk order over an
//                 unbuffered channel; the runner consumes them one at a
//                 time. Directory listing may run ahead of compression, but
//                 no two files are ever processed concurrently.
// 4. Processing - an up-to-date sibling is a hint, not an error. Any real
//                 failure aborts the remaining run: continuing past a
//                 failed compression would silently leave stale .gz files
//                 alongside updated sources.
//
// The pass is idempotent at the level of final filesystem state: an
// interrupted run leaves at most a missing or stale sibling, which the next
// run's freshness check self-heals.

// ExecuteCompress runs one full compression pass over absRootPath.
func (r *Runner) ExecuteCompress(ctx context.Context, absRootPath string, p *planner.CompressPlan) error {
	// Check for cancellation at the very beginning.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Run Preflight Validation
	if err := r.validator.Run(ctx, absRootPath, p.Preflight); err != nil {
		return fmt.Errorf("preflight failed: %w", err)
	}

	// Resolve the compressor once for the entire run.
	command, err := r.resolver.Resolve(p.Candidates)
	if err != nil {
		return err
	}
	plog.Info("Resolved compressor", "command", command.String())
	p.Gzip.Command = command

	// --- Pre-Compress Hooks ---
	if err := r.hooks.RunPreHooks(ctx, "compress", p.Hooks); err != nil && !hints.IsHint(err) {
		// All pre-hook errors are fatal. Distinguish cancellation in the
		// message for clarity.
		errMsg := "pre-compress hook failed"
		if errors.Is(err, context.Canceled) {
			errMsg = "pre-compress hook canceled"
		}
		return fmt.Errorf("%s: %w", errMsg, err)
	}

	// --- Post-Compress Hooks (deferred) ---
	// These run at the end of the function, even if the pass fails.
	defer func() {
		if err := r.hooks.RunPostHooks(ctx, "compress", p.Hooks); err != nil && !hints.IsHint(err) {
			if errors.Is(err, context.Canceled) {
				plog.Info("post-compress hooks skipped due to cancellation.")
			} else {
				plog.Warn("post-compress hook failed", "error", err)
			}
		}
	}()

	plog.Info("Starting compression pass", "root", absRootPath)

	scanMetrics := &pathscanmetrics.ScanMetrics{}
	gzipMetrics := &pathgzipmetrics.GzipMetrics{}

	// A dedicated cancel lets us stop the walker if processing fails.
	scanCtx, cancelScan := context.WithCancel(ctx)
	defer cancelScan()

	candidates, wait, err := r.scanner.Scan(scanCtx, absRootPath, p.Scan, scanMetrics)
	if err != nil {
		return err
	}

	var processErr error
	for c := range candidates {
		if err := r.gzipper.Process(scanCtx, c.AbsPath, c.Info, p.Gzip, gzipMetrics); err != nil {
			if hints.IsHint(err) {
				continue // sibling already fresh, nothing to do
			}
			processErr = err
			cancelScan()
			break
		}
	}

	// Drain whatever the walker had in flight so it can shut down.
	for range candidates {
	}

	walkErr := wait()

	p.Gzip.Result = pathgzip.Result{
		FilesCompressed: gzipMetrics.FilesCompressed.Load(),
		FilesFresh:      gzipMetrics.FilesFresh.Load(),
	}

	if processErr != nil {
		return processErr
	}
	if walkErr != nil {
		return fmt.Errorf("traversal failed: %w", walkErr)
	}

	if p.Metrics {
		scanMetrics.LogSummary("Traversal finished")
		gzipMetrics.LogSummary("Compression finished")
	}
	plog.Info("Compression pass completed")
	return nil
}
