package types

// DependencyMap maps a dependency name to its requested semver range.
type DependencyMap map[string]string

// Package is a repo-local package: one manifest (package.json-equivalent)
// discovered on disk inside the monorepo.
type Package struct {
	// Name is the package's manifest name, unique within the repo.
	Name string

	// Version is the package's own concrete semver version.
	Version string

	// Location is the absolute path to the package's directory.
	Location string

	// LocalModuleDir is the absolute path to the directory where sibling
	// packages and hoisted binaries are linked in (its "node_modules").
	LocalModuleDir string

	// Dependencies maps external and sibling dependency names to their
	// requested range, as declared in the package's manifest.
	Dependencies DependencyMap

	// BinEntries maps an executable script name to its path relative to
	// the package's own directory, as declared in the manifest's "bin"
	// field. Populated by the repo scanner. The binary-link step does not
	// read it; it reads the "bin" field of each installed hoisted
	// dependency's own manifest instead.
	BinEntries map[string]string

	// Scripts maps a lifecycle script name (preinstall, postinstall,
	// prepublish, prepare, ...) to the shell command declared for it in
	// the manifest's "scripts" field. A name absent from this map has
	// nothing to run for that lifecycle phase.
	Scripts map[string]string

	// installed records, for each dependency name, whether a copy is
	// already present at Location (presence only; the version is not
	// checked). Populated through SetInstalled before planning; read
	// through HasInstalled.
	installed map[string]bool
}

// HasInstalled reports whether name is already materially present at this
// package's location, as recorded through SetInstalled.
func (p *Package) HasInstalled(name string) bool {
	if p.installed == nil {
		return false
	}
	return p.installed[name]
}

// SetInstalled records whether name is already present at this package's
// location. Called by whatever builds the Package from an on-disk probe.
func (p *Package) SetInstalled(name string, present bool) {
	if p.installed == nil {
		p.installed = make(map[string]bool)
	}
	p.installed[name] = present
}

// RootManifest is the repository-level equivalent of a Package.
type RootManifest struct {
	// Dependencies maps dependency name to the root's requested range.
	Dependencies DependencyMap

	// RootPath is the absolute path to the repository root.
	RootPath string

	// RootLocalModuleDir is the absolute path to the root's local module
	// directory (its top-level "node_modules").
	RootLocalModuleDir string

	// Workspaces lists the glob patterns (relative to RootPath) under
	// which member packages are discovered. Not consumed by the planner;
	// used only by the repo scanner to build the Package Graph.
	Workspaces []string
}
