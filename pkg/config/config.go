package config

import (
	"strings"

	"github.com/arthur-debert/monobuild/pkg/hoist"
)

// BootstrapConfig is the full set of options the core recognizes, per the
// external interfaces surface: hoisting, the installer client, and the
// orchestrator's concurrency cap.
type BootstrapConfig struct {
	// Hoist is either empty (hoisting disabled), "true" (hoist
	// everything, equivalent to the "**" pattern), or a comma-separated
	// list of glob patterns to hoist.
	Hoist string `koanf:"hoist"`

	// NoHoist is a comma-separated list of glob patterns excluded from
	// hoisting even when Hoist matches them.
	NoHoist string `koanf:"nohoist"`

	// NPMClient is the installer executable name, e.g. "npm" or "yarn".
	NPMClient string `koanf:"npm_client"`

	// Registry is passed through to the installer verbatim.
	Registry string `koanf:"registry"`

	// Mutex is the opaque installer coordination token. Left empty, it
	// is auto-allocated when the chosen client needs one.
	Mutex string `koanf:"mutex"`

	// UseWorkspaces delegates the entire bootstrap to a single root
	// install, skipping every phase.
	UseWorkspaces bool `koanf:"use_workspaces"`

	// Concurrency bounds how many actions run simultaneously within a
	// phase or batch. Must be >= 1.
	Concurrency int `koanf:"concurrency"`
}

// Default returns the configuration used when nothing else is configured.
func Default() BootstrapConfig {
	return BootstrapConfig{
		NPMClient:   "npm",
		Concurrency: 4,
	}
}

// HoistMatcher builds the hoist.Matcher this configuration describes.
func (c BootstrapConfig) HoistMatcher() *hoist.Matcher {
	enabled, include := parsePatternOption(c.Hoist)
	_, exclude := parsePatternOption(c.NoHoist)
	return hoist.New(enabled, include, exclude)
}

// parsePatternOption interprets a `hoist`/`nohoist`-style option: empty
// means disabled/no patterns, "true" means every name, and anything else
// is a comma-separated glob pattern list.
func parsePatternOption(raw string) (enabled bool, patterns []string) {
	if raw == "" {
		return false, nil
	}
	if raw == "true" {
		return true, []string{hoist.Star}
	}
	return true, splitCSV(raw)
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
