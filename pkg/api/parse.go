package api

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// envOverrides maps environment variables onto ProjectContext fields.
var envOverrides = []struct {
	name  string
	field func(*ProjectContext) *string
}{
	{"SHIPNEXT_APP_NAME", func(c *ProjectContext) *string { return &c.AppName }},
	{"SHIPNEXT_IDENTIFIER", func(c *ProjectContext) *string { return &c.Identifier }},
	{"SHIPNEXT_VERSION", func(c *ProjectContext) *string { return &c.Version }},
	{"SHIPNEXT_TEAM", func(c *ProjectContext) *string { return &c.Team }},
	{"SHIPNEXT_DEV_URL", func(c *ProjectContext) *string { return &c.DevURL }},
	{"SHIPNEXT_FRONTEND_DIST", func(c *ProjectContext) *string { return &c.FrontendDist }},
	{"SHIPNEXT_MIN_IOS_VERSION", func(c *ProjectContext) *string { return &c.MinimumSystemVersion }},
	{"SHIPNEXT_DEVICE", func(c *ProjectContext) *string { return &c.Device }},
	{"SHIPNEXT_TAURI_CLI_VERSION", func(c *ProjectContext) *string { return &c.ToolchainVersion }},
	{"SHIPNEXT_TAURI_CONFIG", func(c *ProjectContext) *string { return &c.TauriConfig }},
}

// LoadProjectContext reads a YAML file over the defaults. Keys absent from
// the file keep their default value; unknown keys are rejected.
func LoadProjectContext(filename string) (*ProjectContext, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	defer func() { _ = f.Close() }()

	pc := DefaultProjectContext()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&pc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}

	return &pc, nil
}

// ApplyEnv overrides fields from SHIPNEXT_* variables found by lookup.
// Empty values are ignored.
func (c *ProjectContext) ApplyEnv(lookup func(string) (string, bool)) {
	for _, o := range envOverrides {
		if v, ok := lookup(o.name); ok && v != "" {
			*o.field(c) = v
		}
	}
}
