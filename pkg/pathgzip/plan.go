package pathgzip

import "github.com/paulschiretz/pgl-gzstatic/pkg/cmdresolve"

type Plan struct {
	// Command is the compressor argument vector resolved for this run.
	Command *cmdresolve.ResolvedCommand
	// Level applies to the builtin compressor only.
	Level Level
	// StrictTimestamps escalates a failed timestamp alignment from a warning
	// to a fatal error. Off by default: skipping the alignment only causes
	// redundant recompression on the next run, not incorrect content.
	StrictTimestamps bool

	// Global Flags
	DryRun  bool
	Metrics bool

	// Result is populated by the runner once the pass completes.
	Result Result
}

// Result is filled in by the runner after a pass so callers can inspect
// what the run actually did.
type Result struct {
	FilesCompressed int64
	FilesFresh      int64
}
