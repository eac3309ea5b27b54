package types

// SplitSpec splits a "name@range" install spec back into its dependency
// name and range, accounting for scoped names ("@scope/name@range").
func SplitSpec(spec string) (name, rng string) {
	at := -1
	for i := len(spec) - 1; i >= 0; i-- {
		if spec[i] == '@' {
			at = i
			break
		}
	}
	if at <= 0 {
		return spec, ""
	}
	return spec[:at], spec[at+1:]
}

// RootInstall is one external dependency the planner decided to hoist to
// the repository root.
type RootInstall struct {
	// Name is the dependency name.
	Name string

	// Dependents lists the repo-local packages whose requested range
	// matches the hoisted (root) version, de-duplicated and known to the
	// graph.
	Dependents []string

	// Spec is the "name@range" string passed to the installer.
	Spec string

	// IsSatisfied reflects the on-disk probe at plan time.
	IsSatisfied bool
}

// LeafInstall is one external dependency a single requester package must
// install itself because it cannot, or should not, be hoisted.
type LeafInstall struct {
	// Spec is the "name@range" string passed to the installer.
	Spec string

	// IsSatisfied reflects the on-disk probe at plan time.
	IsSatisfied bool
}

// Plan is the complete, pure output of the placement planner: what to
// install at the root, what to install per package, and the diagnostics
// produced while deciding.
type Plan struct {
	// RootInstalls is ordered for determinism; each dependency name
	// appears at most once.
	RootInstalls []RootInstall

	// Leaves maps requester package name to the leaf installs it needs.
	Leaves map[string][]LeafInstall

	// Diagnostics is the ordered sequence of warnings produced while
	// building this Plan.
	Diagnostics []Diagnostic
}

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind string

const (
	// DiagHoistRootVersion fires when the root manifest's requested range
	// for a hoisted dependency disagrees with the most-requested range.
	DiagHoistRootVersion DiagnosticKind = "EHOIST_ROOT_VERSION"

	// DiagHoistPkgVersion fires once per (package, mismatched range) of a
	// hoisted dependency that could not use the hoisted version.
	DiagHoistPkgVersion DiagnosticKind = "EHOIST_PKG_VERSION"
)

// Diagnostic is one warning emitted by the planner. Warnings never halt
// planning; they are informational only.
type Diagnostic struct {
	Kind    DiagnosticKind
	Name    string // dependency name
	Package string // requester package name, when applicable
	Details map[string]string
}
