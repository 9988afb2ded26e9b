package api

const (
	DefaultConfigFile = "shipnext.yaml"

	MarkerFile      = "package.json"
	TauriDir        = "src-tauri"
	AppleDir        = "src-tauri/gen/apple"
	TauriConfigFile = "src-tauri/tauri.conf.json"
	NextConfigTS    = "next.config.ts"

	ArtifactNextConfigTS       = "next-config-ts"
	ArtifactNextConfigJS       = "next-config-js"
	ArtifactNextConfigMJS      = "next-config-mjs"
	ArtifactTauriConfV2        = "tauri-conf-v2"
	ArtifactTauriConfV2Minimal = "tauri-conf-v2-minimal"
)

// ProjectContext holds the identifiers that parameterize a run.
// It is read-only once a plan has been built from it.
type ProjectContext struct {
	AppName              string `yaml:"appName"`
	Identifier           string `yaml:"identifier"`
	Version              string `yaml:"version"`
	Team                 string `yaml:"team"`
	DevURL               string `yaml:"devUrl"`
	FrontendDist         string `yaml:"frontendDist"`
	MinimumSystemVersion string `yaml:"minimumSystemVersion"`
	Device               string `yaml:"device"`
	ToolchainVersion     string `yaml:"toolchainVersion"`
	TauriConfig          string `yaml:"tauriConfig"`
}

// DefaultProjectContext returns the identifiers used when nothing overrides them.
func DefaultProjectContext() ProjectContext {
	return ProjectContext{
		AppName:              "shipnext",
		Identifier:           "com.shipnext.dev",
		Version:              "0.1.0",
		Team:                 "NXR8WH6TN8",
		DevURL:               "http://localhost:3000",
		FrontendDist:         "../out",
		MinimumSystemVersion: "13.0",
		Device:               "iPhone 15 Pro",
		ToolchainVersion:     "^2.0.0-beta",
		TauriConfig:          ArtifactTauriConfV2,
	}
}

// TemplateData exposes the context to artifact templates.
func (c ProjectContext) TemplateData() map[string]any {
	return map[string]any{
		"AppName":              c.AppName,
		"Identifier":           c.Identifier,
		"Version":              c.Version,
		"Team":                 c.Team,
		"DevURL":               c.DevURL,
		"FrontendDist":         c.FrontendDist,
		"MinimumSystemVersion": c.MinimumSystemVersion,
	}
}
