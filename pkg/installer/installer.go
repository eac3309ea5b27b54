package installer

import "context"

// Config carries the installer-wide options that get passed verbatim to
// every invocation.
type Config struct {
	// NPMClient is the installer executable name, e.g. "npm", "yarn".
	NPMClient string

	// Registry is the registry URL passed through to the installer.
	Registry string

	// Mutex is the opaque coordination token some clients need when run
	// concurrently against a shared store (e.g. "network:42424").
	Mutex string
}

// Installer is the narrow contract the orchestrator consumes from the
// external package-installer process.
type Installer interface {
	// InstallInDir installs the given specs in dir. An empty specs slice
	// is still a valid, meaningful call: some clients perform post-install
	// linking even with nothing new to fetch. globalStyle is true when
	// hoisting is enabled, so a per-package install does not itself
	// hoist into the root and fight the planner.
	InstallInDir(ctx context.Context, dir string, specs []string, cfg Config, globalStyle bool) error

	// InstallInDirOriginalManifest installs whatever is already declared
	// in the manifest at dir (used by workspaces-managed mode, which
	// delegates everything to a single root install).
	InstallInDirOriginalManifest(ctx context.Context, dir string, cfg Config) error
}
