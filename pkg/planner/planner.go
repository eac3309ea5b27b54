package planner

import (
	"sort"

	"github.com/arthur-debert/monobuild/pkg/graph"
	"github.com/arthur-debert/monobuild/pkg/hoist"
	"github.com/arthur-debert/monobuild/pkg/types"
)

// ProbeFunc reports whether spec ("name@range") is already materially
// installed at location. The planner never calls this more than once per
// decision and never re-probes after the Plan is built.
type ProbeFunc func(location, spec string) bool

// rangeEntry is one requested range of a single dependency name, tracked
// while building the Dependency Aggregate.
type rangeEntry struct {
	count      int
	requesters []string
}

// Plan builds the placement Plan for g, given the root manifest and hoist
// configuration, using probe to decide on-disk satisfaction. It performs
// no I/O beyond calling probe.
func Plan(g *graph.Graph, root *types.RootManifest, matcher *hoist.Matcher, probe ProbeFunc) *types.Plan {
	aggregate := make(map[string]map[string]*rangeEntry)

	seed := func(name, rng string) *rangeEntry {
		byRange, ok := aggregate[name]
		if !ok {
			byRange = make(map[string]*rangeEntry)
			aggregate[name] = byRange
		}
		e, ok := byRange[rng]
		if !ok {
			e = &rangeEntry{}
			byRange[rng] = e
		}
		return e
	}

	// 1. Seed with the root manifest's own requirements at count 0, so its
	// preferred range is remembered without winning the popularity tiebreak
	// on its own weight.
	for name, rng := range root.Dependencies {
		seed(name, rng)
	}

	// 2. Aggregate every requester's external requirements.
	for _, pkgName := range g.Names() {
		pkg, _ := g.Get(pkgName)
		depNames := make([]string, 0, len(pkg.Dependencies))
		for depName := range pkg.Dependencies {
			depNames = append(depNames, depName)
		}
		sort.Strings(depNames)

		for _, depName := range depNames {
			rng := pkg.Dependencies[depName]
			if local, ok := g.Find(depName, rng); ok && pkg.HasInstalled(local.Name) {
				continue
			}
			e := seed(depName, rng)
			e.count++
			e.requesters = append(e.requesters, pkgName)
		}
	}

	plan := &types.Plan{Leaves: make(map[string][]types.LeafInstall)}

	names := make([]string, 0, len(aggregate))
	for name := range aggregate {
		names = append(names, name)
	}
	sort.Strings(names)

	addLeaf := func(requester, spec string) {
		pkg, _ := g.Get(requester)
		depName, _ := types.SplitSpec(spec)
		satisfied := pkg != nil && pkg.HasInstalled(depName)
		plan.Leaves[requester] = append(plan.Leaves[requester], types.LeafInstall{
			Spec:        spec,
			IsSatisfied: satisfied,
		})
	}

	for _, name := range names {
		byRange := aggregate[name]
		ranges := make([]string, 0, len(byRange))
		for rng := range byRange {
			ranges = append(ranges, rng)
		}
		sort.Strings(ranges)

		if !matcher.IsHoistable(name) {
			for _, rng := range ranges {
				reqs := append([]string(nil), byRange[rng].requesters...)
				sort.Strings(reqs)
				for _, requester := range reqs {
					addLeaf(requester, name+"@"+rng)
				}
			}
			continue
		}

		commonVersion := pickCommon(byRange, ranges)
		rootVersion := commonVersion
		if rng, ok := root.Dependencies[name]; ok {
			rootVersion = rng
		}

		if rootVersion != commonVersion {
			plan.Diagnostics = append(plan.Diagnostics, types.Diagnostic{
				Kind: types.DiagHoistRootVersion,
				Name: name,
				Details: map[string]string{
					"root":   rootVersion,
					"common": commonVersion,
				},
			})
		}

		var dependents []string
		if e, ok := byRange[rootVersion]; ok {
			seen := make(map[string]bool, len(e.requesters))
			for _, requester := range e.requesters {
				if !g.Has(requester, "") || seen[requester] {
					continue
				}
				seen[requester] = true
				dependents = append(dependents, requester)
			}
			sort.Strings(dependents)
		}

		spec := name + "@" + rootVersion
		plan.RootInstalls = append(plan.RootInstalls, types.RootInstall{
			Name:        name,
			Dependents:  dependents,
			Spec:        spec,
			IsSatisfied: probe(root.RootPath, spec),
		})

		for _, rng := range ranges {
			if rng == rootVersion {
				continue
			}
			reqs := append([]string(nil), byRange[rng].requesters...)
			sort.Strings(reqs)
			for _, requester := range reqs {
				plan.Diagnostics = append(plan.Diagnostics, types.Diagnostic{
					Kind:    types.DiagHoistPkgVersion,
					Name:    name,
					Package: requester,
					Details: map[string]string{
						"range":  rng,
						"hoisted": rootVersion,
					},
				})
				addLeaf(requester, name+"@"+rng)
			}
		}
	}

	return plan
}

// pickCommon returns the range with the highest requester count, breaking
// ties lexicographically on the range string.
func pickCommon(byRange map[string]*rangeEntry, sortedRanges []string) string {
	best := sortedRanges[0]
	bestCount := byRange[best].count
	for _, rng := range sortedRanges[1:] {
		if byRange[rng].count > bestCount {
			best = rng
			bestCount = byRange[rng].count
		}
	}
	return best
}
