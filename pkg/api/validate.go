package api

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*(\.[A-Za-z0-9][A-Za-z0-9-]*)+$`)
	teamPattern       = regexp.MustCompile(`^[A-Z0-9]{10}$`)
)

var validTauriConfigs = []string{
	ArtifactTauriConfV2,
	ArtifactTauriConfV2Minimal,
}

// Validate checks the project context for errors.
func (c *ProjectContext) Validate() error {
	if strings.TrimSpace(c.AppName) == "" {
		return fmt.Errorf("appName is required")
	}
	if strings.ContainsAny(c.AppName, `"\/`) {
		return fmt.Errorf("appName %q contains invalid characters", c.AppName)
	}
	if !identifierPattern.MatchString(c.Identifier) {
		return fmt.Errorf("identifier %q is not a reverse-domain identifier", c.Identifier)
	}
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if !teamPattern.MatchString(c.Team) {
		return fmt.Errorf("team %q is not a 10 character signing team id", c.Team)
	}
	if err := validateDevURL(c.DevURL); err != nil {
		return err
	}
	if c.FrontendDist == "" {
		return fmt.Errorf("frontendDist is required")
	}
	if c.MinimumSystemVersion == "" {
		return fmt.Errorf("minimumSystemVersion is required")
	}
	if c.Device == "" {
		return fmt.Errorf("device is required")
	}
	if c.ToolchainVersion == "" {
		return fmt.Errorf("toolchainVersion is required")
	}
	if !slices.Contains(validTauriConfigs, c.TauriConfig) {
		return fmt.Errorf("tauriConfig %q is not valid (valid: %s)", c.TauriConfig, strings.Join(validTauriConfigs, ", "))
	}
	return nil
}

func validateDevURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("devUrl %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("devUrl %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("devUrl %q has no host", raw)
	}
	return nil
}
