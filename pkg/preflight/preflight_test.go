package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckRootAccessible(t *testing.T) {
	t.Run("Existing directory passes", func(t *testing.T) {
		if err := CheckRootAccessible(t.TempDir()); err != nil {
			t.Errorf("expected no error for existing directory, got: %v", err)
		}
	})

	t.Run("Missing directory fails", func(t *testing.T) {
		if err := CheckRootAccessible(filepath.Join(t.TempDir(), "nonexistent")); err == nil {
			t.Error("expected error for missing directory, got nil")
		}
	})

	t.Run("Regular file fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
		if err := CheckRootAccessible(path); err == nil {
			t.Error("expected error for non-directory root, got nil")
		}
	})
}

func TestValidatorRun(t *testing.T) {
	v := NewValidator()

	t.Run("Disabled check skips validation", func(t *testing.T) {
		p := &Plan{RootAccessible: false}
		missing := filepath.Join(t.TempDir(), "nonexistent")
		if err := v.Run(context.Background(), missing, p); err != nil {
			t.Errorf("expected no error with checks disabled, got: %v", err)
		}
	})

	t.Run("Enabled check validates the root", func(t *testing.T) {
		p := &Plan{RootAccessible: true}
		missing := filepath.Join(t.TempDir(), "nonexistent")
		if err := v.Run(context.Background(), missing, p); err == nil {
			t.Error("expected error for missing root, got nil")
		}
		if err := v.Run(context.Background(), t.TempDir(), p); err != nil {
			t.Errorf("expected no error for existing root, got: %v", err)
		}
	})

	t.Run("Canceled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := v.Run(ctx, t.TempDir(), &Plan{RootAccessible: true}); err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
