package processing

import (
	"path"
	"strings"

	"github.com/systemstart/shipnext/pkg/api"
	"github.com/systemstart/shipnext/pkg/probe"
	"github.com/systemstart/shipnext/pkg/steps"
)

// nextConfigPatterns are tried in order when looking for an existing Next.js config.
var nextConfigPatterns = []string{
	"next.config.{ts,mts}",
	"next.config.mjs",
	"next.config.js",
}

// NextConfigTarget returns where the static-export config is written and
// which artifact fits that file. An existing config keeps its file name;
// otherwise next.config.ts is created.
func NextConfigTarget(p probe.Probe) (dest, artifactID string) {
	existing, ok := probe.FirstMatch(p, nextConfigPatterns...)
	if !ok {
		return api.NextConfigTS, api.ArtifactNextConfigTS
	}

	switch strings.TrimPrefix(path.Ext(existing), ".") {
	case "mjs":
		return existing, api.ArtifactNextConfigMJS
	case "js":
		return existing, api.ArtifactNextConfigJS
	default:
		return existing, api.ArtifactNextConfigTS
	}
}

// BootstrapPlan builds the ordered steps that turn a Next.js project into a
// Tauri v2 app with iOS support and build it.
func BootstrapPlan(pc api.ProjectContext, p probe.Probe) []steps.Step {
	nextConfig, nextArtifact := NextConfigTarget(p)

	return []steps.Step{
		{
			Name:         "check-project",
			Precondition: steps.Always(),
			Action:       steps.Require(api.MarkerFile, "run this in a Next.js project directory"),
		},
		{
			Name:         "next-config",
			Precondition: steps.Always(),
			Action:       steps.WriteArtifact(nextArtifact, nextConfig),
		},
		{
			Name:         "install-tauri-cli",
			Precondition: steps.Always(),
			Action:       steps.RunProcess("cargo", "install", "tauri-cli", "--version", pc.ToolchainVersion),
		},
		{
			Name:         "install-tauri-api",
			Precondition: steps.Always(),
			Action:       steps.RunProcess("npm", "install", "@tauri-apps/api", "--save"),
		},
		{
			Name:         "install-tauri-cli-js",
			Precondition: steps.Always(),
			Action:       steps.RunProcess("npm", "install", "@tauri-apps/cli", "--save-dev"),
		},
		{
			Name:         "package-script",
			Precondition: steps.Always(),
			Action:       steps.SetPackageScript(api.MarkerFile, "tauri", "tauri"),
		},
		{
			Name:         "tauri-init",
			Precondition: steps.UnlessExists(api.TauriDir),
			Action: steps.RunProcess("cargo", "tauri", "init", "--ci",
				"--app-name", pc.AppName,
				"--frontend-dist", pc.FrontendDist,
				"--dev-url", pc.DevURL),
			SkipMessage: "src-tauri already exists, skipping initialization",
		},
		{
			Name:         "ios-init",
			Precondition: steps.UnlessExists(api.AppleDir),
			Action:       steps.RunProcess("cargo", "tauri", "ios", "init"),
			SkipMessage:  "iOS support already initialized, skipping ios init",
		},
		{
			Name:         "tauri-config",
			Precondition: steps.Always(),
			Action:       steps.WriteArtifact(pc.TauriConfig, api.TauriConfigFile),
		},
		{
			Name:         "npm-install",
			Precondition: steps.Always(),
			Action:       steps.RunProcess("npm", "install"),
		},
		{
			Name:         "ios-build",
			Precondition: steps.Always(),
			Action:       steps.RunProcess("cargo", "tauri", "ios", "build"),
		},
	}
}

// IPAPath is where the iOS build leaves the app archive, relative to the project.
func IPAPath(pc api.ProjectContext) string {
	return path.Join(api.AppleDir, "build", "arm64", pc.AppName+".ipa")
}
