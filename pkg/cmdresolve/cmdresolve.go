// Package cmdresolve picks a working compressor command from an ordered
// preference list. Each candidate is a whitespace-tokenized command line; the
// first candidate whose program is available wins and is used for the entire
// run. Candidates after the first match are never probed.
//
// The search directories are injected rather than read from the environment
// inside the resolver, so resolution stays a pure function over the
// filesystem and can be tested without mutating real environment state.
package cmdresolve

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/paulschiretz/pgl-gzstatic/pkg/util"
)

// BuiltinProgram is the reserved program name that selects the in-process
// gzip compressor instead of spawning an external tool. It always resolves.
const BuiltinProgram = "builtin"

// ResolvedCommand is the immutable argument vector used for every compressor
// invocation of a run. The target filename is appended per invocation.
type ResolvedCommand struct {
	// Program is the program reference exactly as written in the candidate
	// (bare name, relative or absolute path), or BuiltinProgram.
	Program string
	// Args are the fixed arguments following the program.
	Args []string
	// Builtin reports whether Program is the in-process compressor.
	Builtin bool
}

// String reassembles the command line for logging.
func (c *ResolvedCommand) String() string {
	if len(c.Args) == 0 {
		return c.Program
	}
	return c.Program + " " + strings.Join(c.Args, " ")
}

// NoCommandError is returned when none of the candidate commands resolve to
// an available program. It carries the tried candidates for reporting.
type NoCommandError struct {
	Tried []string
}

func (e *NoCommandError) Error() string {
	if len(e.Tried) == 0 {
		return "no compressor command configured"
	}
	return fmt.Sprintf("no available compressor found, tried: %s", strings.Join(e.Tried, ", "))
}

// Resolver resolves candidate command lines against a fixed list of search
// directories.
type Resolver struct {
	searchDirs []string
}

// NewResolver creates a Resolver over the given search directories.
func NewResolver(searchDirs []string) *Resolver {
	return &Resolver{searchDirs: searchDirs}
}

// NewSystemResolver creates a Resolver over the directories of the PATH
// environment variable, split at the point of construction.
func NewSystemResolver() *Resolver {
	return NewResolver(filepath.SplitList(os.Getenv("PATH")))
}

// Resolve returns the first candidate (in input order) whose program is
// available, with its tokens preserved as the argument vector.
// If none resolves it returns a *NoCommandError listing the candidates tried.
// Resolution performs filesystem existence checks only; no side effects.
func (r *Resolver) Resolve(candidates []string) (*ResolvedCommand, error) {
	var tried []string
	for _, candidate := range candidates {
		tokens := strings.Fields(candidate)
		if len(tokens) == 0 {
			continue // blank candidate, nothing to probe
		}
		tried = append(tried, candidate)

		program := tokens[0]
		if program == BuiltinProgram {
			return &ResolvedCommand{Program: program, Args: tokens[1:], Builtin: true}, nil
		}
		if r.programAvailable(program) {
			return &ResolvedCommand{Program: program, Args: tokens[1:]}, nil
		}
	}
	return nil, &NoCommandError{Tried: tried}
}

// programAvailable checks whether a program reference points at something
// runnable. A direct path (containing a separator or starting with a dot)
// must be an existing regular file. A bare name is searched for in the
// resolver's search directories, where it must additionally carry an execute
// permission bit on Unix-like systems.
func (r *Resolver) programAvailable(program string) bool {
	if isDirectPath(program) {
		info, err := os.Stat(program)
		return err == nil && info.Mode().IsRegular()
	}

	for _, dir := range r.searchDirs {
		if dir == "" {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, program))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if runtime.GOOS != "windows" && info.Mode().Perm()&util.PermAnyExecute == 0 {
			continue // present but not executable, keep searching
		}
		return true
	}
	return false
}

// isDirectPath reports whether the program reference bypasses the search
// path: it contains a path separator or starts with a dot ("./tool",
// "../bin/tool", "/usr/bin/tool").
func isDirectPath(program string) bool {
	return strings.ContainsRune(program, '/') ||
		strings.ContainsRune(program, os.PathSeparator) ||
		strings.HasPrefix(program, ".")
}
