// Package pathscan streams the regular files under a root directory that
// pass the configured inclusion, exclusion and size constraints.
//
// The walker runs in its own goroutine and feeds candidates over an
// unbuffered channel, so the consumer processes files strictly one at a
// time in walk order while directory listing proceeds. Each Scan call
// starts a fresh traversal; nothing is cached between invocations.
package pathscan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/paulschiretz/pgl-gzstatic/pkg/pathscanmetrics"
	"github.com/paulschiretz/pgl-gzstatic/pkg/plog"
)

// Candidate is one selected file: its path and the FileInfo captured during
// the walk, so consumers do not have to re-stat.
type Candidate struct {
	AbsPath string
	Info    os.FileInfo
}

// PathScanner selects eligible files under a root. It is stateless; all
// per-run state lives in the Plan and the walk itself.
type PathScanner struct{}

// NewPathScanner creates a new PathScanner.
func NewPathScanner() *PathScanner {
	return &PathScanner{}
}

// Scan starts a traversal of absRootPath and returns a channel of selected
// candidates plus a wait function. The channel is closed when the walk ends;
// the wait function must be called afterwards and returns the traversal
// error, if any. A walk that cannot start or terminates abnormally is fatal
// for the whole run, not per-file.
func (s *PathScanner) Scan(ctx context.Context, absRootPath string, p *Plan, m pathscanmetrics.Metrics) (<-chan Candidate, func() error, error) {
	include, err := compileTypeMatcher(p.IncludeTypes)
	if err != nil {
		return nil, nil, err
	}
	exclude, err := compileTypeMatcher(p.ExcludeTypes)
	if err != nil {
		return nil, nil, err
	}

	excludeNames := make(map[string]struct{}, len(p.ExcludeNames))
	for _, n := range p.ExcludeNames {
		excludeNames[strings.ToLower(n)] = struct{}{}
	}

	out := make(chan Candidate)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(out)
		return filepath.WalkDir(absRootPath, func(absPath string, d fs.DirEntry, walkErr error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if walkErr != nil {
				return fmt.Errorf("traversal failed at %s: %w", absPath, walkErr)
			}
			// Only regular files are candidates; directories are descended
			// into and symlinks are not followed.
			if !d.Type().IsRegular() {
				return nil
			}

			name := d.Name()
			m.AddFilesSeen(1)

			if _, ok := excludeNames[strings.ToLower(name)]; ok {
				m.AddFilesExcluded(1)
				return nil
			}
			// Exclusion takes precedence over inclusion.
			if exclude.Match(name) {
				m.AddFilesExcluded(1)
				return nil
			}
			if include != nil && !include.Match(name) {
				m.AddFilesExcluded(1)
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("traversal failed at %s: %w", absPath, err)
			}
			// Strict greater-than: a file of exactly MinLength bytes is skipped.
			if info.Size() <= p.MinLength {
				m.AddFilesTooSmall(1)
				return nil
			}

			m.AddFilesSelected(1)
			plog.Debug("SELECT", "path", absPath, "size", info.Size())

			select {
			case out <- Candidate{AbsPath: absPath, Info: info}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	return out, g.Wait, nil
}
