package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdescriptor/pkg/descriptor"
)

// LoadDescriptor reads a JSON fixture into a FormDescriptor, returning an
// error for callers managing setup outside of *testing.T.
func LoadDescriptor(path string) (descriptor.FormDescriptor, error) {
	if path == "" {
		return descriptor.FormDescriptor{}, errors.New("testsupport: descriptor path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return descriptor.FormDescriptor{}, fmt.Errorf("testsupport: read descriptor: %w", err)
	}
	var out descriptor.FormDescriptor
	if err := json.Unmarshal(data, &out); err != nil {
		return descriptor.FormDescriptor{}, fmt.Errorf("testsupport: unmarshal descriptor: %w", err)
	}
	return out, nil
}

// MustLoadDescriptor loads a JSON golden file into a FormDescriptor.
func MustLoadDescriptor(t *testing.T, path string) descriptor.FormDescriptor {
	t.Helper()

	form, err := LoadDescriptor(path)
	if err != nil {
		t.Fatalf("load descriptor: %v", err)
	}
	return form
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// CompareJSONGolden marshals got and compares it with the golden file at path
// as generic JSON, so formatting and key order do not matter. The golden is
// rewritten first when UPDATE_GOLDENS is set.
func CompareJSONGolden(t *testing.T, path string, got any) string {
	t.Helper()

	WriteGolden(t, path, got)

	payload, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var gotJSON, wantJSON any
	if err := json.Unmarshal(payload, &gotJSON); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if err := json.Unmarshal(MustReadGolden(t, path), &wantJSON); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	return cmp.Diff(wantJSON, gotJSON)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
