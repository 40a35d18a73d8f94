package flagparse

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulschiretz/pgl-gzstatic/pkg/buildinfo"
)

// cliFlags holds pointers to all possible command-line flags.
// Fields are pointers so we can distinguish between "not registered for this command" (nil)
// and "registered but not set by user" (non-nil pointer to zero value).
type cliFlags struct {
	// Global
	LogLevel *string
	DryRun   *bool
	Metrics  *bool

	// Shared: Compress / Init
	Types             *string
	ExcludeTypes      *string
	MinLength         *int64
	Cmd               *string
	Level             *string
	StrictTimestamps  *bool
	BufferSizeKB      *int
	PreCompressHooks  *string
	PostCompressHooks *string

	// Init specific
	Force *bool
}

func registerGlobalFlags(fs *flag.FlagSet, f *cliFlags) {
	f.LogLevel = fs.String("log-level", "info", "Set the logging level: 'debug', 'notice', 'info', 'warn', 'error'.")
	f.DryRun = fs.Bool("dry-run", false, "Show what would be compressed without making any changes.")
	f.Metrics = fs.Bool("metrics", false, "Enable detailed file-counting and byte metrics.")
}

func registerCompressFlags(fs *flag.FlagSet, f *cliFlags) {
	f.Types = fs.String("types", "", "Comma-separated list of case-insensitive extension patterns to compress (supports '*' and '?' glob wildcards). Replaces the default list.")
	f.ExcludeTypes = fs.String("exclude-types", "", "Comma-separated list of extension patterns to always exclude, regardless of -types.")
	f.MinLength = fs.Int64("min-length", 0, "Minimum file size in bytes; only files strictly larger are compressed.")
	f.Cmd = fs.String("cmd", "", "Comma-separated ordered list of compressor command lines, tried in order ('builtin' selects the in-process gzip compressor).")
	f.Level = fs.String("level", "", "Builtin compressor level: 'default', 'fastest', 'better', 'best'.")
	f.StrictTimestamps = fs.Bool("strict-timestamps", false, "Treat a failed timestamp alignment after compression as a fatal error.")
	f.BufferSizeKB = fs.Int("buffer-size-kb", 0, "Size of the I/O buffer in kilobytes for the builtin compressor.")
	f.PreCompressHooks = fs.String("pre-compress-hooks", "", "Comma-separated list of commands to run before the pass.")
	f.PostCompressHooks = fs.String("post-compress-hooks", "", "Comma-separated list of commands to run after the pass.")
}

func registerInitFlags(fs *flag.FlagSet, f *cliFlags) {
	// Init supports the compress flags (to seed the generated config) plus 'force'.
	registerCompressFlags(fs, f)
	f.Force = fs.Bool("force", false, "Overwrite an existing configuration file.")
}

// Parse parses the provided arguments (usually os.Args[1:]) and returns the
// command and a map of the flags the user explicitly set, plus the
// positional root directory under the "root" key.
func Parse(args []string) (Command, map[string]any, error) {
	// If no arguments provided, print help and exit.
	if len(args) == 0 {
		fs := flag.NewFlagSet("main", flag.ContinueOnError)
		printTopLevelUsage(fs)
		return None, nil, nil
	}

	cmdStr := strings.ToLower(args[0])

	if cmdStr == "help" || cmdStr == "-h" || cmdStr == "-help" || cmdStr == "--help" {
		fs := flag.NewFlagSet("main", flag.ContinueOnError)
		printTopLevelUsage(fs)
		return None, nil, nil
	}

	f := &cliFlags{}

	command, err := ParseCommand(cmdStr)
	if err != nil {
		return None, nil, err
	}

	switch command {
	case Compress:
		fs := flag.NewFlagSet(command.String(), flag.ContinueOnError)
		registerGlobalFlags(fs, f)
		registerCompressFlags(fs, f)

		fs.Usage = func() {
			printSubcommandUsage(command, "Pre-compress eligible files under a directory tree.", fs)
		}

		if err := fs.Parse(args[1:]); err != nil {
			return command, nil, err
		}
		flagMap := flagsToMap(fs, f)
		addPositionalRoot(fs, flagMap)
		return command, flagMap, nil

	case Init:
		fs := flag.NewFlagSet(command.String(), flag.ContinueOnError)
		registerGlobalFlags(fs, f)
		registerInitFlags(fs, f)

		fs.Usage = func() {
			printSubcommandUsage(command, "Generate a configuration file in the root directory.", fs)
		}

		if err := fs.Parse(args[1:]); err != nil {
			return command, nil, err
		}
		flagMap := flagsToMap(fs, f)
		addPositionalRoot(fs, flagMap)
		return command, flagMap, nil

	case Version:
		return command, nil, nil

	default:
		return None, nil, fmt.Errorf("unknown command: %s", args[0])
	}
}

func flagsToMap(fs *flag.FlagSet, f *cliFlags) map[string]any {
	// Create a map of the flags that were explicitly set by the user, along
	// with their values. This map is used to selectively override the base
	// configuration.
	usedFlags := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { usedFlags[fl.Name] = true })

	flagMap := make(map[string]any)

	addIfUsed(flagMap, usedFlags, "log-level", f.LogLevel)
	addIfUsed(flagMap, usedFlags, "dry-run", f.DryRun)
	addIfUsed(flagMap, usedFlags, "metrics", f.Metrics)

	addIfUsed(flagMap, usedFlags, "min-length", f.MinLength)
	addIfUsed(flagMap, usedFlags, "level", f.Level)
	addIfUsed(flagMap, usedFlags, "strict-timestamps", f.StrictTimestamps)
	addIfUsed(flagMap, usedFlags, "buffer-size-kb", f.BufferSizeKB)
	addIfUsed(flagMap, usedFlags, "force", f.Force)

	// Handle flags that require parsing.
	addParsedIfUsed(flagMap, usedFlags, "types", f.Types, ParsePatternList)
	addParsedIfUsed(flagMap, usedFlags, "exclude-types", f.ExcludeTypes, ParsePatternList)
	addParsedIfUsed(flagMap, usedFlags, "cmd", f.Cmd, ParseCmdList)
	addParsedIfUsed(flagMap, usedFlags, "pre-compress-hooks", f.PreCompressHooks, ParseCmdList)
	addParsedIfUsed(flagMap, usedFlags, "post-compress-hooks", f.PostCompressHooks, ParseCmdList)

	return flagMap
}

// addPositionalRoot stores the positional directory argument, if present.
func addPositionalRoot(fs *flag.FlagSet, flagMap map[string]any) {
	if fs.NArg() > 0 {
		flagMap["root"] = fs.Arg(0)
	}
}

// addIfUsed adds the value of ptr to flagMap if ptr is not nil and the flag was set.
func addIfUsed[T any](flagMap map[string]any, usedFlags map[string]bool, name string, ptr *T) {
	if ptr != nil && usedFlags[name] {
		flagMap[name] = *ptr
	}
}

// addParsedIfUsed adds the parsed value of ptr to flagMap if ptr is not nil and the flag was set.
func addParsedIfUsed(flagMap map[string]any, usedFlags map[string]bool, name string, ptr *string, parser func(string) []string) {
	if ptr != nil && usedFlags[name] {
		flagMap[name] = parser(*ptr)
	}
}

// printTopLevelUsage prints the main help message.
func printTopLevelUsage(fs *flag.FlagSet) {
	execName := filepath.Base(os.Args[0])
	fmt.Fprintf(fs.Output(), "%s(%s) ", buildinfo.Name, buildinfo.Version)
	fmt.Fprintf(fs.Output(), "Pre-compresses static files so a webserver can serve .gz siblings directly.\n\n")
	fmt.Fprintf(fs.Output(), "Usage: %s <command> [flags] <directory>\n\n", execName)
	fmt.Fprintf(fs.Output(), "Commands:\n")
	fmt.Fprintf(fs.Output(), "  compress    Run one traversal-and-convert pass over the directory\n")
	fmt.Fprintf(fs.Output(), "  init        Generate a configuration file in the directory\n")
	fmt.Fprintf(fs.Output(), "  version     Print the application version\n")
	fmt.Fprintf(fs.Output(), "\nRun '%s <command> -help' for more information on a command.\n", execName)
}

// printSubcommandUsage prints the help message for a specific subcommand.
func printSubcommandUsage(command Command, desc string, fs *flag.FlagSet) {
	execName := filepath.Base(os.Args[0])
	fmt.Fprintf(fs.Output(), "%s(%s) ", buildinfo.Name, buildinfo.Version)
	fmt.Fprintf(fs.Output(), "Pre-compresses static files so a webserver can serve .gz siblings directly.\n\n")
	fmt.Fprintf(fs.Output(), "Usage of the %s command: %s %s [flags] <directory>\n\n", command, execName, command)
	fmt.Fprintf(fs.Output(), "%s\n\n", desc)
	fmt.Fprintf(fs.Output(), "Flags:\n")
	fs.PrintDefaults()
}

// ParseCmdList parses a comma-separated list of shell-like commands.
// It preserves quotes and handles backslash escapes so they can be interpreted by the shell.
func ParseCmdList(s string) []string {
	return parseListInternal(s, true, true)
}

// ParsePatternList parses a comma-separated list of extension or file patterns.
// It removes quotes, as they are only used for grouping items with spaces.
// It treats backslashes as literal characters for Windows path compatibility.
func ParsePatternList(s string) []string {
	return parseListInternal(s, false, false)
}

// parseListInternal is the core implementation for parsing a comma-separated list. It supports
// both single (') and double (") quotes to allow items to contain commas or spaces.
// - `keepQuotes`: Preserves quote characters in the output.
// - `handleEscapes`: Treats backslashes as escape characters.
func parseListInternal(s string, keepQuotes, handleEscapes bool) []string {
	var list []string
	var current strings.Builder
	var quoteChar rune

	// Helper to add the current buffered item to the list after trimming whitespace.
	appendItem := func() {
		trimmed := strings.TrimSpace(current.String())
		if trimmed != "" {
			list = append(list, trimmed)
		}
		current.Reset()
	}

	var isEscaped bool
	for _, r := range s {
		if isEscaped {
			current.WriteRune(r)
			isEscaped = false
			continue
		}

		switch {
		case r == '\\' && handleEscapes:
			isEscaped = true
			// For commands, we also keep the backslash for the shell to interpret.
			current.WriteRune(r)
		case r == '\'' || r == '"':
			if quoteChar == 0 { // Start of a new quoted section.
				quoteChar = r
				if keepQuotes {
					current.WriteRune(r)
				}
			} else if quoteChar == r { // End of the current quoted section.
				quoteChar = 0
				if keepQuotes {
					current.WriteRune(r)
				}
			} else { // A different quote character inside an existing quoted section.
				current.WriteRune(r) // Treat it as a literal character.
			}
		case r == ',' && quoteChar == 0: // Comma outside of any quotes.
			appendItem()
		default:
			current.WriteRune(r)
		}
	}
	appendItem() // Add the final item after the loop finishes.
	return list
}
