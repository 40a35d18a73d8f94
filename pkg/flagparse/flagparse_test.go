package flagparse

import (
	"reflect"
	"testing"
)

// equalSlices is a helper to compare two string slices for equality.
func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}

func TestParsePatternList(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Simple List", "html,css,js", []string{"html", "css", "js"}},
		{"List with Spaces", " html , css, js ", []string{"html", "css", "js"}},
		{"Empty String", "", nil},
		{"Wildcard Patterns", "?html,sv*", []string{"?html", "sv*"}},
		{"Quoted Item with Spaces", "'item with spaces',b", []string{"item with spaces", "b"}},
		{"Quoted Item with Comma", "'a,b',c", []string{"a,b", "c"}},
		{"Unmatched Quote", "'a,b", []string{"a,b"}},
		{"Double Quoted Item", "\"item with spaces\",b", []string{"item with spaces", "b"}},
		{"Nested Quotes", "'a \"b\" c',d", []string{"a \"b\" c", "d"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ParsePatternList(tc.input)

			if len(tc.expected) == 0 && len(result) == 0 {
				return
			}
			if !equalSlices(result, tc.expected) {
				t.Errorf("expected %v, but got %v", tc.expected, result)
			}
		})
	}
}

func TestParseCmdList(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Simple List", "zopfli,gzip -kf9", []string{"zopfli", "gzip -kf9"}},
		{"Quoted Item with Spaces", "'echo hello',cmd2", []string{"'echo hello'", "cmd2"}},
		{"Quoted Item with Comma", "'echo a,b',c", []string{"'echo a,b'", "c"}},
		{"Unmatched Quote", "'a,b", []string{"'a,b"}},
		{"Mixed Single and Double Quotes", "'a b',\"c,d\",e", []string{"'a b'", "\"c,d\"", "e"}},
		{"Escaped Single Quote Inside Single Quotes", "'hello\\'world',next", []string{"'hello\\'world'", "next"}},
		{"Escaped Comma Outside Quotes", "a\\,b,c", []string{"a\\,b", "c"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ParseCmdList(tc.input)

			if len(tc.expected) == 0 && len(result) == 0 {
				return
			}
			if !equalSlices(result, tc.expected) {
				t.Errorf("expected %v, but got %v", tc.expected, result)
			}
		})
	}
}

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		input     string
		expected  Command
		expectErr bool
	}{
		{"compress", Compress, false},
		{"init", Init, false},
		{"version", Version, false},
		{"backup", None, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseCommand(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommand(%q) returned error: %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("ParseCommand(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("Compress with flags and positional root", func(t *testing.T) {
		command, flagMap, err := Parse([]string{
			"compress",
			"-types", "html,css",
			"-min-length", "100",
			"-cmd", "builtin",
			"-dry-run",
			"/var/www/site",
		})
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if command != Compress {
			t.Fatalf("expected Compress command, got %v", command)
		}

		expected := map[string]any{
			"types":      []string{"html", "css"},
			"min-length": int64(100),
			"cmd":        []string{"builtin"},
			"dry-run":    true,
			"root":       "/var/www/site",
		}
		if !reflect.DeepEqual(flagMap, expected) {
			t.Errorf("expected flag map %v, got %v", expected, flagMap)
		}
	})

	t.Run("Unset flags stay out of the map", func(t *testing.T) {
		_, flagMap, err := Parse([]string{"compress", "/var/www/site"})
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if len(flagMap) != 1 {
			t.Errorf("expected only the root key, got %v", flagMap)
		}
		if flagMap["root"] != "/var/www/site" {
			t.Errorf("expected root to be captured, got %v", flagMap["root"])
		}
	})

	t.Run("Init with force", func(t *testing.T) {
		command, flagMap, err := Parse([]string{"init", "-force", "-level", "best", "/var/www/site"})
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if command != Init {
			t.Fatalf("expected Init command, got %v", command)
		}
		if flagMap["force"] != true {
			t.Errorf("expected force to be set, got %v", flagMap["force"])
		}
		if flagMap["level"] != "best" {
			t.Errorf("expected level best, got %v", flagMap["level"])
		}
	})

	t.Run("Version takes no flags", func(t *testing.T) {
		command, flagMap, err := Parse([]string{"version"})
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if command != Version {
			t.Fatalf("expected Version command, got %v", command)
		}
		if flagMap != nil {
			t.Errorf("expected nil flag map, got %v", flagMap)
		}
	})

	t.Run("Unknown command", func(t *testing.T) {
		if _, _, err := Parse([]string{"frobnicate"}); err == nil {
			t.Error("expected error for unknown command, got nil")
		}
	})
}
