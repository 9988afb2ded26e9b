package artifacts

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/systemstart/shipnext/pkg/api"
)

//go:embed templates/*.tmpl
var templates embed.FS

// ErrUnknownArtifact is returned for an id with no embedded template.
var ErrUnknownArtifact = errors.New("unknown artifact")

// jsonArtifacts must render to valid JSON.
var jsonArtifacts = []string{
	api.ArtifactTauriConfV2,
	api.ArtifactTauriConfV2Minimal,
}

// IDs lists the ids of every embedded artifact, sorted.
func IDs() []string {
	entries, err := templates.ReadDir("templates")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Name()[:len(e.Name())-len(".tmpl")])
	}
	slices.Sort(ids)
	return ids
}

// Render executes the template for id with the project context's tokens.
func Render(id string, pc api.ProjectContext) ([]byte, error) {
	content, err := templates.ReadFile("templates/" + id + ".tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: %s (valid: %s)", ErrUnknownArtifact, id, strings.Join(IDs(), ", "))
	}

	tmpl, err := template.New(id).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", id, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pc.TemplateData()); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", id, err)
	}

	if slices.Contains(jsonArtifacts, id) && !json.Valid(buf.Bytes()) {
		return nil, fmt.Errorf("artifact %s rendered invalid JSON", id)
	}

	return buf.Bytes(), nil
}

// Writer writes rendered artifacts below Root.
type Writer struct {
	Root   string
	Logger *slog.Logger
}

// NewWriter returns a Writer rooted at root.
func NewWriter(root string, logger *slog.Logger) *Writer {
	return &Writer{Root: root, Logger: logger}
}

// Write creates or truncates dest (slash-separated, relative to Root) with
// payload. Parent directories are never created.
func (w *Writer) Write(id, dest string, payload []byte) error {
	target := filepath.Join(w.Root, filepath.FromSlash(dest))

	if err := os.WriteFile(target, payload, 0o644); err != nil {
		return &WriteError{ID: id, Path: dest, Err: err}
	}

	w.logger().Info("artifact written", "artifact", id, "path", dest, "bytes", len(payload))
	return nil
}

func (w *Writer) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.Default()
	}
	return w.Logger
}

// WriteError reports an artifact that could not be written.
type WriteError struct {
	ID   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing artifact %s to %s: %v", e.ID, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
