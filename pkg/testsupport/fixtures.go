// Package testsupport holds fixtures shared by package tests: a fixed
// reference clock, the default registry, an in-memory export coordinator and
// golden file helpers.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/export"
	"github.com/goliatone/go-legaldocs/pkg/layout"
	"github.com/goliatone/go-legaldocs/pkg/templates"
)

// ReferenceTime is the instant every fixture clock reports.
var ReferenceTime = time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

// ExportID is the identifier suffix produced by Exporter.
const ExportID = "abcd1234"

// Clock returns a clock pinned to ReferenceTime.
func Clock() templates.Clock {
	return templates.FixedClock(ReferenceTime)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Registry builds the default template registry, failing the test on error.
func Registry(t *testing.T) *templates.Registry {
	t.Helper()

	registry, err := templates.NewDefault(templates.WithLogger(DiscardLogger()))
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return registry
}

// LayoutOptions returns the default layout options bound to the fixture
// clock.
func LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.Clock = Clock()
	return opts
}

// Exporter returns a coordinator writing into an in-memory filesystem under
// "exports" along with that filesystem. Extra options are applied last.
func Exporter(t *testing.T, options ...export.Option) (*export.Coordinator, billy.Filesystem) {
	t.Helper()

	fs := memfs.New()
	base := []export.Option{
		export.WithFilesystem(fs),
		export.WithDirectory(export.DefaultDirectory),
		export.WithLayout(LayoutOptions()),
		export.WithLogger(DiscardLogger()),
		export.WithIDGenerator(func() string { return ExportID }),
	}
	return export.New(append(base, options...)...), fs
}

// WriteGolden writes value as indented JSON to a golden file when
// UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFile(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
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

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureOutput runs fn against a buffer and returns what it wrote.
func CaptureOutput(t *testing.T, fn func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		t.Fatalf("capture output: %v", err)
	}
	return buf.String()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}
