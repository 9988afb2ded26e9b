package steps

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/systemstart/shipnext/pkg/runner"
)

// writeTestFile writes content to a file in dir, failing the test on error.
func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// stubRunner records invocations and returns a fixed exit code.
type stubRunner struct {
	calls    [][]string
	exitCode int
	err      error
}

func (r *stubRunner) Execute(name string, args ...string) (*runner.Outcome, error) {
	r.calls = append(r.calls, append([]string{name}, slices.Clone(args)...))
	if r.err != nil {
		return nil, r.err
	}
	return &runner.Outcome{ExitCode: r.exitCode, Stderr: []byte("stub stderr")}, nil
}

// stubWriter records writes instead of touching the filesystem.
type stubWriter struct {
	writes map[string][]byte
	err    error
}

func (w *stubWriter) Write(id, dest string, payload []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.writes == nil {
		w.writes = make(map[string][]byte)
	}
	w.writes[dest] = payload
	return nil
}
