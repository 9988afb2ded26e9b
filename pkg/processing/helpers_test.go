package processing

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/systemstart/shipnext/pkg/api"
	"github.com/systemstart/shipnext/pkg/artifacts"
	"github.com/systemstart/shipnext/pkg/logging"
	"github.com/systemstart/shipnext/pkg/probe"
	"github.com/systemstart/shipnext/pkg/runner"
	"github.com/systemstart/shipnext/pkg/steps"
)

const testManifest = `{
  "name": "web",
  "scripts": {
    "dev": "next dev",
    "build": "next build"
  }
}
`

// fakeTools stands in for cargo/npm/git. The init subcommands create the
// directories the real tools would, so existence preconditions behave.
type fakeTools struct {
	root   string
	calls  []string
	failAt int  // 1-based call index that exits non-zero, 0 = never
	inert  bool // succeed without creating anything
}

func (f *fakeTools) Execute(name string, args ...string) (*runner.Outcome, error) {
	f.calls = append(f.calls, runner.CommandLine(name, args))
	if f.failAt == len(f.calls) {
		return &runner.Outcome{ExitCode: 1, Stderr: []byte("network unreachable")}, nil
	}

	if f.inert {
		return &runner.Outcome{}, nil
	}

	cmd := strings.Join(append([]string{name}, args...), " ")
	switch {
	case strings.HasPrefix(cmd, "cargo tauri init"):
		if err := os.MkdirAll(filepath.Join(f.root, "src-tauri", "src"), 0o750); err != nil {
			return nil, err
		}
	case cmd == "cargo tauri ios init":
		if err := os.MkdirAll(filepath.Join(f.root, "src-tauri", "gen", "apple"), 0o750); err != nil {
			return nil, err
		}
	}
	return &runner.Outcome{Stdout: []byte("ok")}, nil
}

// newTestProject creates a temp Next.js project with a package.json.
func newTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(testManifest), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newTestEnv(t *testing.T, dir string, r runner.Runner) (steps.Env, *logging.Recorder) {
	t.Helper()
	logger, rec := logging.NewRecorder()
	pc := api.DefaultProjectContext()
	pc.AppName = "demoapp"
	pc.Identifier = "com.example.demo"
	pc.Team = "ABCDE12345"
	return steps.Env{
		Root:    dir,
		Runner:  r,
		Probe:   probe.Dir(dir),
		Writer:  artifacts.NewWriter(dir, logger),
		Project: pc,
		Logger:  logger,
	}, rec
}

// snapshot maps every path below dir to its content ("" for directories).
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			files[rel] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return files
}

func stepNames(plan []steps.Step) []string {
	names := make([]string, 0, len(plan))
	for _, s := range plan {
		names = append(names, s.Name)
	}
	return slices.Clip(names)
}
