// Package hoist decides, given include/exclude glob patterns and a
// dependency name, whether that dependency is hoistable to the
// repository root.
package hoist

import "path/filepath"

// Star is the pattern that matches every dependency name, equivalent to
// npm/yarn workspaces' `hoist-pattern: ["**"]`.
const Star = "**"

// Matcher decides hoistability under a fixed set of include/exclude
// patterns, built once from the configured hoist/nohoist options.
type Matcher struct {
	enabled bool
	include []string
	exclude []string
}

// New builds a Matcher. enabled corresponds to the `hoist` option being
// set at all (true, or a pattern); include/exclude are the glob patterns
// from `hoist` and `nohoist` respectively. An empty include list, when
// enabled is true, is treated as "**" (match everything) — the meaning
// of `hoist: true` in the spec.
func New(enabled bool, include, exclude []string) *Matcher {
	if enabled && len(include) == 0 {
		include = []string{Star}
	}
	return &Matcher{enabled: enabled, include: include, exclude: exclude}
}

// Enabled reports whether hoisting was configured at all.
func (m *Matcher) Enabled() bool {
	return m.enabled
}

// IsHoistable reports whether name matches any include pattern and no
// exclude pattern. If hoisting was not enabled at all, nothing is
// hoistable.
func (m *Matcher) IsHoistable(name string) bool {
	if !m.enabled {
		return false
	}
	if !matchesAny(name, m.include) {
		return false
	}
	return !matchesAny(name, m.exclude)
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if Match(pattern, name) {
			return true
		}
	}
	return false
}

// Match reports whether name matches pattern, using conventional glob
// semantics over the dependency name alone (no path separators are
// involved, so "**" is just treated as an alias for "*" that also
// matches scoped names like "@scope/pkg" which contain a "/").
func Match(pattern, name string) bool {
	if pattern == Star {
		return true
	}
	if ok, err := filepath.Match(pattern, name); err == nil && ok {
		return true
	}
	// Scoped packages (@scope/name) contain a path separator that
	// filepath.Match treats specially; fall back to matching the pattern
	// against the unscoped tail so an unscoped pattern such as "pkg*" also
	// matches "@scope/pkg-widgets". Scoped patterns such as "@scope/*"
	// already match in the direct filepath.Match call above.
	if idx := lastSlash(name); idx >= 0 {
		ok, err := filepath.Match(pattern, name[idx+1:])
		return err == nil && ok
	}
	return false
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
