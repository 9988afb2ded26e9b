package steps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buger/jsonparser"
	"github.com/systemstart/shipnext/pkg/artifacts"
	"github.com/systemstart/shipnext/pkg/runner"
)

// ErrPreconditionUnmet is returned when a required file is missing.
var ErrPreconditionUnmet = errors.New("precondition unmet")

// Action is the effect of a step.
type Action interface {
	Apply(env Env) error
	Describe() string
}

type requireAction struct {
	path string
	hint string
}

// Require fails with ErrPreconditionUnmet when path does not exist.
func Require(path, hint string) Action {
	return requireAction{path: path, hint: hint}
}

func (a requireAction) Apply(env Env) error {
	if env.Probe.Exists(a.path) {
		return nil
	}
	if a.hint != "" {
		return fmt.Errorf("%w: %s not found, %s", ErrPreconditionUnmet, a.path, a.hint)
	}
	return fmt.Errorf("%w: %s not found", ErrPreconditionUnmet, a.path)
}

func (a requireAction) Describe() string { return "require " + a.path }

type processAction struct {
	name string
	args []string
}

// RunProcess runs an external program; a non-zero exit fails the step.
func RunProcess(name string, args ...string) Action {
	return processAction{name: name, args: args}
}

func (a processAction) Apply(env Env) error {
	_, err := runner.Run(env.Runner, a.name, a.args...)
	return err
}

func (a processAction) Describe() string { return runner.CommandLine(a.name, a.args) }

type artifactAction struct {
	id   string
	dest string
}

// WriteArtifact renders artifact id from the project context and writes it to dest.
func WriteArtifact(id, dest string) Action {
	return artifactAction{id: id, dest: dest}
}

func (a artifactAction) Apply(env Env) error {
	payload, err := artifacts.Render(a.id, env.Project)
	if err != nil {
		return fmt.Errorf("rendering artifact: %w", err)
	}
	return env.Writer.Write(a.id, a.dest, payload)
}

func (a artifactAction) Describe() string { return "write " + a.id + " to " + a.dest }

const packageScriptsArtifact = "package-json-scripts"

type packageScriptAction struct {
	manifest string
	key      string
	value    string
}

// SetPackageScript sets scripts.<key> in the npm manifest, creating the
// scripts object if needed. Key order is kept; the file is re-indented with
// its own indentation.
func SetPackageScript(manifest, key, value string) Action {
	return packageScriptAction{manifest: manifest, key: key, value: value}
}

func (a packageScriptAction) Apply(env Env) error {
	data, err := os.ReadFile(filepath.Join(env.Root, filepath.FromSlash(a.manifest)))
	if err != nil {
		return fmt.Errorf("reading %s: %w", a.manifest, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("parsing %s: invalid JSON", a.manifest)
	}

	value, err := json.Marshal(a.value)
	if err != nil {
		return fmt.Errorf("encoding script value: %w", err)
	}

	patched, err := jsonparser.Set(data, value, "scripts", a.key)
	if err != nil {
		return fmt.Errorf("setting scripts.%s in %s: %w", a.key, a.manifest, err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(patched), "", indentOf(data)); err != nil {
		return fmt.Errorf("formatting %s: %w", a.manifest, err)
	}
	if bytes.HasSuffix(data, []byte("\n")) {
		buf.WriteByte('\n')
	}

	return env.Writer.Write(packageScriptsArtifact, a.manifest, buf.Bytes())
}

// indentOf returns the leading whitespace of the first indented line in data,
// or two spaces when there is none.
func indentOf(data []byte) string {
	for _, line := range bytes.Split(data, []byte("\n"))[1:] {
		content := bytes.TrimLeft(line, " \t")
		if len(content) > 0 && len(content) < len(line) {
			return string(line[:len(line)-len(content)])
		}
	}
	return "  "
}

func (a packageScriptAction) Describe() string {
	return fmt.Sprintf("set scripts.%s=%q in %s", a.key, a.value, a.manifest)
}
