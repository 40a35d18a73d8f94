package pathscan

import (
	"fmt"
	"path/filepath"
	"strings"
)

// typeMatcher matches file names against a set of extension glob patterns.
// Each pattern describes the extension portion of a name and may itself
// contain the wildcards '*' and '?'. A pattern p matches a name when the
// name case-insensitively matches "*.<p>".
//
// Patterns are compiled and validated once at plan time, not re-derived per
// file, so a bad pattern surfaces before the traversal starts.
type typeMatcher struct {
	patterns []string // lowercased, with the "*." anchor prepended
}

// compileTypeMatcher lowercases and anchors the patterns and rejects
// malformed globs. A nil matcher is returned for an empty pattern set.
func compileTypeMatcher(patterns []string) (*typeMatcher, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		anchored := "*." + p
		// filepath.Match only reports ErrBadPattern lazily; probe once here.
		if _, err := filepath.Match(anchored, "probe"); err != nil {
			return nil, fmt.Errorf("invalid type pattern %q: %w", p, err)
		}
		compiled = append(compiled, anchored)
	}
	if len(compiled) == 0 {
		return nil, nil
	}
	return &typeMatcher{patterns: compiled}, nil
}

// Match reports whether the base name matches any compiled pattern.
// A nil matcher matches nothing.
func (m *typeMatcher) Match(name string) bool {
	if m == nil {
		return false
	}
	name = strings.ToLower(name)
	for _, p := range m.patterns {
		// Pattern validity was checked at compile time.
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
