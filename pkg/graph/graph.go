package graph

import (
	"sort"

	toposort "github.com/philopon/go-toposort"

	"github.com/arthur-debert/monobuild/pkg/errors"
	"github.com/arthur-debert/monobuild/pkg/semver"
	"github.com/arthur-debert/monobuild/pkg/types"
)

// Graph is a directed graph over repo-local packages, keyed by name.
// It is built once at startup and immutable thereafter.
type Graph struct {
	packages map[string]*types.Package
	// batches caches the result of TopologicalBatches; computed lazily and
	// memoized since the graph never mutates after construction.
	batches [][]string
}

// New builds a Graph from the given packages, keyed by their Name.
func New(packages []*types.Package) *Graph {
	g := &Graph{packages: make(map[string]*types.Package, len(packages))}
	for _, p := range packages {
		g.packages[p.Name] = p
	}
	return g
}

// Get looks up a package by name.
func (g *Graph) Get(name string) (*types.Package, bool) {
	p, ok := g.packages[name]
	return p, ok
}

// Has reports whether a repo-local package named name exists and, if
// rng is non-empty, that its version satisfies rng.
func (g *Graph) Has(name, rng string) bool {
	_, ok := g.Find(name, rng)
	return ok
}

// Find returns the repo-local package named name iff it exists and
// (rng is empty or the package's version satisfies rng).
func (g *Graph) Find(name, rng string) (*types.Package, bool) {
	p, ok := g.packages[name]
	if !ok {
		return nil, false
	}
	if rng == "" {
		return p, true
	}
	ok, err := semver.Satisfies(p.Version, rng)
	if err != nil || !ok {
		return nil, false
	}
	return p, true
}

// Names returns every package name in the graph, sorted for deterministic
// iteration.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.packages))
	for name := range g.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TopologicalBatches groups the graph's packages into an ordered sequence
// of batches: each batch is a maximal set of packages with no intra-batch
// dependency edge, and later batches depend only on earlier ones (leaves
// first). Tie-breaking within a batch is lexicographic on name so that
// test scenarios reproduce. A dependency cycle is a fatal
// errors.ErrDependencyCycle.
func (g *Graph) TopologicalBatches() ([][]string, error) {
	if g.batches != nil {
		return g.batches, nil
	}

	names := g.Names()

	// An edge dep -> p means "p depends on dep", i.e. dep must be
	// scheduled in an earlier batch than p. Only repo-local
	// dependencies create edges; external dependencies are irrelevant to
	// lifecycle-script ordering.
	deps := make(map[string][]string, len(names)) // package -> its repo-local deps
	tg := toposort.NewGraph(len(names))
	tg.AddNodes(names...)

	for _, name := range names {
		pkg := g.packages[name]
		var local []string
		for depName := range pkg.Dependencies {
			if depName == name {
				continue
			}
			if _, ok := g.packages[depName]; ok {
				tg.AddEdge(depName, name)
				local = append(local, depName)
			}
		}
		sort.Strings(local)
		deps[name] = local
	}

	// toposort.Toposort is used only to validate acyclicity; its linear
	// order is discarded. The leaves-first batches are built below from
	// each package's longest dependency depth instead.
	if _, ok := tg.Toposort(); !ok {
		return nil, errors.New(errors.ErrDependencyCycle, "dependency cycle detected among repo-local packages")
	}

	depth := make(map[string]int, len(names))
	var depthOf func(name string, visiting map[string]bool) int
	depthOf = func(name string, visiting map[string]bool) int {
		if d, ok := depth[name]; ok {
			return d
		}
		if visiting[name] {
			// toposort already rejected real cycles; defensive only.
			return 0
		}
		visiting[name] = true
		max := 0
		for _, dep := range deps[name] {
			if d := depthOf(dep, visiting) + 1; d > max {
				max = d
			}
		}
		delete(visiting, name)
		depth[name] = max
		return max
	}

	maxDepth := 0
	for _, name := range names {
		if d := depthOf(name, map[string]bool{}); d > maxDepth {
			maxDepth = d
		}
	}

	batches := make([][]string, maxDepth+1)
	for _, name := range names {
		d := depth[name]
		batches[d] = append(batches[d], name)
	}
	for _, batch := range batches {
		sort.Strings(batch)
	}

	g.batches = batches
	return batches, nil
}
