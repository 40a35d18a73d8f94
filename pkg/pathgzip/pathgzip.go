// Package pathgzip decides per file whether the compressed sibling needs
// (re)generation and produces it when it does.
//
// For a source file F the sibling is always exactly F + ".gz"; no other
// naming scheme is supported. A pair is fresh iff the sibling exists and its
// modification time is not earlier than the source's. After a successful
// generation the sibling's modification time is aligned to the source so
// freshness holds immediately and survives repeated runs.
package pathgzip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/paulschiretz/pgl-gzstatic/pkg/cmdresolve"
	"github.com/paulschiretz/pgl-gzstatic/pkg/hints"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pathgzipmetrics"
	"github.com/paulschiretz/pgl-gzstatic/pkg/plog"
	"github.com/paulschiretz/pgl-gzstatic/pkg/pool"
)

// CompressedSuffix is appended to a source path to derive its sibling.
const CompressedSuffix = ".gz"

// ErrFresh signals that the compressed sibling is already up to date and no
// work was performed. It is a hint, not a failure.
var ErrFresh = hints.New("compressed sibling is up to date")

// ExitError reports a compressor invocation that exited non-zero. It is
// fatal for the run: continuing would silently leave stale .gz files
// alongside updated sources.
type ExitError struct {
	Path     string
	ExitCode int
	Err      error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("compressor failed for %s (exit status %d)", e.Path, e.ExitCode)
}

func (e *ExitError) Unwrap() error { return e.Err }

// PathGzipper performs the freshness check and compressor invocation for a
// single file at a time.
type PathGzipper struct {
	// commandContext allows mocking os/exec for testing invocations.
	commandContext func(ctx context.Context, name string, arg ...string) *exec.Cmd
	bufferPool     *pool.BufferPool
}

// NewPathGzipper creates a new PathGzipper. bufferSizeKB sizes the pooled
// I/O buffers used by the builtin compressor.
func NewPathGzipper(bufferSizeKB int, commandContext func(ctx context.Context, name string, arg ...string) *exec.Cmd) *PathGzipper {
	return &PathGzipper{
		commandContext: commandContext,
		bufferPool:     pool.NewBufferPool(bufferSizeKB * 1024),
	}
}

// CompressedPath derives the sibling path for a source file.
func CompressedPath(absPath string) string {
	return absPath + CompressedSuffix
}

// Fresh reports whether the compressed sibling of absPath exists with a
// modification time not earlier than srcModTime.
func Fresh(absPath string, srcModTime time.Time) bool {
	info, err := os.Stat(CompressedPath(absPath))
	return err == nil && !info.ModTime().Before(srcModTime)
}

// Process compresses a single source file if its sibling is missing or
// stale. It returns ErrFresh (a hint) when the sibling is up to date, a
// *ExitError when the compressor exits non-zero, and nil on success.
func (g *PathGzipper) Process(ctx context.Context, absPath string, srcInfo os.FileInfo, p *Plan, m pathgzipmetrics.Metrics) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	absGzPath := CompressedPath(absPath)

	if Fresh(absPath, srcInfo.ModTime()) {
		m.AddFilesFresh(1)
		plog.Debug("FRESH", "path", absGzPath)
		return ErrFresh
	}

	if p.DryRun {
		plog.Notice("[DRY RUN] COMPRESS", "path", absGzPath)
		return nil
	}

	// Remove any stale sibling so the compressor never has to merge or
	// overwrite ambiguously.
	if err := os.Remove(absGzPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale compressed file %s: %w", absGzPath, err)
	}

	if p.Command.Builtin {
		if err := g.compressBuiltin(ctx, absPath, srcInfo, p.Level); err != nil {
			return err
		}
	} else {
		if err := g.runCommand(ctx, absPath, p.Command); err != nil {
			return err
		}
	}

	// The one required observable progress line: name the compressed path
	// on the diagnostic stream.
	plog.Notice("COMPRESS", "path", absGzPath)

	m.AddFilesCompressed(1)
	m.AddOriginalBytes(srcInfo.Size())
	if gzInfo, err := os.Stat(absGzPath); err == nil {
		m.AddCompressedBytes(gzInfo.Size())
	}

	// Align the sibling's modification time to the source so the next run's
	// freshness check passes without reinvoking the compressor.
	if err := os.Chtimes(absGzPath, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		if p.StrictTimestamps {
			return fmt.Errorf("failed to align timestamp of %s: %w", absGzPath, err)
		}
		plog.Warn("Failed to align compressed file timestamp; the file will be recompressed on the next run", "path", absGzPath, "error", err)
	}
	return nil
}

// runCommand invokes the resolved external compressor with the source path
// appended as the final argument. The command is expected, by external
// contract, to write its output to exactly the compressed sibling path and
// leave the source untouched.
func (g *PathGzipper) runCommand(ctx context.Context, absPath string, command *cmdresolve.ResolvedCommand) error {
	args := make([]string, 0, len(command.Args)+1)
	args = append(args, command.Args...)
	args = append(args, absPath)

	cmd := g.commandContext(ctx, command.Program, args...)
	// Pipe tool output through for visibility; compressors are quiet on
	// success but report their own diagnostics on failure.
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	setSysProcAttr(cmd)

	if err := cmd.Run(); err != nil {
		// Check if the context was canceled, which can cause cmd.Wait() to
		// return an error. If so, return the context's error to be more specific.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Path: absPath, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("failed to run compressor for %s: %w", absPath, err)
	}
	return nil
}
