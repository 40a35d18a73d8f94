package hints_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/paulschiretz/pgl-gzstatic/pkg/hints"
)

func TestHint(t *testing.T) {
	var (
		errBase    = errors.New("base error")
		errOther   = errors.New("other error")
		errWrapped = hints.Wrap(errBase)
		errNew     = hints.New("already up to date")
	)

	t.Run("Wrap", func(t *testing.T) {
		if hints.Wrap(nil) != nil {
			t.Error("Wrap(nil) should return nil")
		}
		if errWrapped == nil {
			t.Fatal("Wrap(err) should return a non-nil error")
		}
	})

	t.Run("New", func(t *testing.T) {
		if errNew == nil {
			t.Fatal("New should return a non-nil error")
		}
		if errNew.Error() != "already up to date" {
			t.Errorf("expected error message %q, got %q", "already up to date", errNew.Error())
		}
	})

	t.Run("IsHint", func(t *testing.T) {
		testCases := []struct {
			name     string
			err      error
			expected bool
		}{
			{"NilError", nil, false},
			{"StandardError", errBase, false},
			{"WrappedHint", errWrapped, true},
			{"NewHint", errNew, true},
			{"HintInsideWrapper", fmt.Errorf("wrapper: %w", errWrapped), true},
			{"StandardInsideWrapper", fmt.Errorf("wrapper: %w", errBase), false},
			{"DoubleWrappedHint", fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", errWrapped)), true},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				if got := hints.IsHint(tc.err); got != tc.expected {
					t.Errorf("IsHint() = %v, want %v", got, tc.expected)
				}
			})
		}
	})

	t.Run("Unwrap and Is", func(t *testing.T) {
		if !errors.Is(errWrapped, errBase) {
			t.Error("errors.Is should find the underlying error in a hint")
		}
		if errors.Is(errWrapped, errOther) {
			t.Error("errors.Is should not find an unrelated error")
		}
		if unwrapped := errors.Unwrap(errWrapped); unwrapped != errBase {
			t.Errorf("errors.Unwrap should return the original error, got %v", unwrapped)
		}
	})

	t.Run("Is (Target)", func(t *testing.T) {
		if !hints.Is(errWrapped, errBase) {
			t.Error("Is(hinted, base) should be true")
		}
		if hints.Is(errBase, errBase) {
			t.Error("Is(base, base) should be false because it is not a hint")
		}
		if hints.Is(errWrapped, errOther) {
			t.Error("Is(hinted, other) should be false")
		}
	})
}
