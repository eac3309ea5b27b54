package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/monobuild/pkg/graph"
	"github.com/arthur-debert/monobuild/pkg/hoist"
	"github.com/arthur-debert/monobuild/pkg/types"
)

func pkg(name string, deps types.DependencyMap) *types.Package {
	return &types.Package{Name: name, Version: "1.0.0", Location: "/repo/" + name, Dependencies: deps}
}

func noopProbe(location, spec string) bool { return false }

func diagnosticsOfKind(plan *types.Plan, kind types.DiagnosticKind) []types.Diagnostic {
	var out []types.Diagnostic
	for _, d := range plan.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Scenario 1: two packages disagree on a hoistable range with no root
// requirement; tie on requester count is broken lexicographically.
func TestPlanScenario1TieBreaksLexicographically(t *testing.T) {
	a := pkg("a", types.DependencyMap{"left-pad": "^1.0.0"})
	b := pkg("b", types.DependencyMap{"left-pad": "^1.1.0"})
	g := graph.New([]*types.Package{a, b})
	root := &types.RootManifest{RootPath: "/repo"}
	matcher := hoist.New(true, []string{hoist.Star}, nil)

	plan := Plan(g, root, matcher, noopProbe)

	require.Len(t, plan.RootInstalls, 1)
	assert.Equal(t, "left-pad@^1.0.0", plan.RootInstalls[0].Spec)
	assert.Equal(t, []string{"a"}, plan.RootInstalls[0].Dependents)

	require.Len(t, plan.Leaves["b"], 1)
	assert.Equal(t, "left-pad@^1.1.0", plan.Leaves["b"][0].Spec)

	pkgWarnings := diagnosticsOfKind(plan, types.DiagHoistPkgVersion)
	require.Len(t, pkgWarnings, 1)
	assert.Equal(t, "b", pkgWarnings[0].Package)
	assert.Empty(t, diagnosticsOfKind(plan, types.DiagHoistRootVersion))
}

// Scenario 2: root agrees with the common version; one outlier requester.
func TestPlanScenario2RootAgreesWithCommon(t *testing.T) {
	deps := func(rng string) types.DependencyMap { return types.DependencyMap{"react": rng} }
	pkgs := []*types.Package{
		pkg("one", deps("15.x")),
		pkg("two", deps("15.x")),
		pkg("three", deps("15.x")),
		pkg("four", deps("^0.14.0")),
	}
	g := graph.New(pkgs)
	root := &types.RootManifest{RootPath: "/repo", Dependencies: types.DependencyMap{"react": "15.x"}}
	matcher := hoist.New(true, []string{hoist.Star}, nil)

	plan := Plan(g, root, matcher, noopProbe)

	require.Len(t, plan.RootInstalls, 1)
	assert.Equal(t, "react@15.x", plan.RootInstalls[0].Spec)
	assert.ElementsMatch(t, []string{"one", "two", "three"}, plan.RootInstalls[0].Dependents)

	assert.Empty(t, diagnosticsOfKind(plan, types.DiagHoistRootVersion))
	require.Len(t, diagnosticsOfKind(plan, types.DiagHoistPkgVersion), 1)
	require.Len(t, plan.Leaves["four"], 1)
	assert.Equal(t, "react@^0.14.0", plan.Leaves["four"][0].Spec)
}

// Scenario 3: same as 2, but the root wants the minority range, so it wins
// over the popular one and three EHOIST_PKG_VERSION warnings fire.
func TestPlanScenario3RootOverridesCommon(t *testing.T) {
	deps := func(rng string) types.DependencyMap { return types.DependencyMap{"react": rng} }
	pkgs := []*types.Package{
		pkg("one", deps("15.x")),
		pkg("two", deps("15.x")),
		pkg("three", deps("15.x")),
		pkg("four", deps("^0.14.0")),
	}
	g := graph.New(pkgs)
	root := &types.RootManifest{RootPath: "/repo", Dependencies: types.DependencyMap{"react": "^0.14.0"}}
	matcher := hoist.New(true, []string{hoist.Star}, nil)

	plan := Plan(g, root, matcher, noopProbe)

	require.Len(t, plan.RootInstalls, 1)
	assert.Equal(t, "react@^0.14.0", plan.RootInstalls[0].Spec)
	assert.Equal(t, []string{"four"}, plan.RootInstalls[0].Dependents)

	require.Len(t, diagnosticsOfKind(plan, types.DiagHoistRootVersion), 1)
	require.Len(t, diagnosticsOfKind(plan, types.DiagHoistPkgVersion), 3)
	for _, name := range []string{"one", "two", "three"} {
		require.Len(t, plan.Leaves[name], 1)
		assert.Equal(t, "react@15.x", plan.Leaves[name][0].Spec)
	}
}

func TestPlanNoHoistEveryRequesterGetsALeaf(t *testing.T) {
	a := pkg("a", types.DependencyMap{"lodash": "^4.0.0"})
	b := pkg("b", types.DependencyMap{"lodash": "^4.0.0"})
	g := graph.New([]*types.Package{a, b})
	root := &types.RootManifest{RootPath: "/repo"}
	matcher := hoist.New(false, nil, nil)

	plan := Plan(g, root, matcher, noopProbe)

	assert.Empty(t, plan.RootInstalls)
	assert.Empty(t, plan.Diagnostics)
	require.Len(t, plan.Leaves["a"], 1)
	require.Len(t, plan.Leaves["b"], 1)
}

func TestPlanNoHoistExcludePattern(t *testing.T) {
	a := pkg("a", types.DependencyMap{"lodash": "^4.0.0", "left-pad": "^1.0.0"})
	g := graph.New([]*types.Package{a})
	root := &types.RootManifest{RootPath: "/repo"}
	matcher := hoist.New(true, []string{hoist.Star}, []string{"lodash"})

	plan := Plan(g, root, matcher, noopProbe)

	require.Len(t, plan.RootInstalls, 1)
	assert.Equal(t, "left-pad", plan.RootInstalls[0].Name)
	require.Len(t, plan.Leaves["a"], 1)
	assert.Equal(t, "lodash@^4.0.0", plan.Leaves["a"][0].Spec)
}

func TestPlanRootOnlyDependencySeedsWithNoDependents(t *testing.T) {
	g := graph.New(nil)
	root := &types.RootManifest{RootPath: "/repo", Dependencies: types.DependencyMap{"typescript": "^5.0.0"}}
	matcher := hoist.New(true, []string{hoist.Star}, nil)

	plan := Plan(g, root, matcher, noopProbe)

	require.Len(t, plan.RootInstalls, 1)
	assert.Equal(t, "typescript@^5.0.0", plan.RootInstalls[0].Spec)
	assert.Empty(t, plan.RootInstalls[0].Dependents)
	assert.Empty(t, plan.Diagnostics)
}

func TestPlanSiblingSatisfiedSkipsAggregate(t *testing.T) {
	lib := pkg("lib", nil)
	lib.Version = "2.0.0"
	app := pkg("app", types.DependencyMap{"lib": "^2.0.0"})
	app.SetInstalled("lib", true)

	g := graph.New([]*types.Package{lib, app})
	root := &types.RootManifest{RootPath: "/repo"}
	matcher := hoist.New(true, []string{hoist.Star}, nil)

	plan := Plan(g, root, matcher, noopProbe)

	assert.Empty(t, plan.RootInstalls)
	assert.Empty(t, plan.Leaves["app"])
}

func TestPlanSatisfactionShortCircuitsWhenProbeSucceeds(t *testing.T) {
	a := pkg("a", types.DependencyMap{"left-pad": "^1.0.0"})
	g := graph.New([]*types.Package{a})
	root := &types.RootManifest{RootPath: "/repo"}
	matcher := hoist.New(true, []string{hoist.Star}, nil)

	plan := Plan(g, root, matcher, func(location, spec string) bool {
		return location == "/repo" && spec == "left-pad@^1.0.0"
	})

	require.Len(t, plan.RootInstalls, 1)
	assert.True(t, plan.RootInstalls[0].IsSatisfied)
}
