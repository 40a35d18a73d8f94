package pathscan

type Plan struct {
	// IncludeTypes holds the extension glob patterns a file name must match.
	// Empty means no extension filter.
	IncludeTypes []string
	// ExcludeTypes holds extension glob patterns that always exclude a file,
	// regardless of IncludeTypes. The planner force-appends the compressed
	// suffix here so .gz files are never themselves targeted.
	ExcludeTypes []string
	// ExcludeNames holds exact base names that are never selected
	// (the tool's own config file).
	ExcludeNames []string
	// MinLength is the minimum file size in bytes; files at or below this
	// size are skipped (strict greater-than).
	MinLength int64

	// Global Flags
	DryRun  bool
	Metrics bool
}
