package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/monobuild/pkg/errors"
	"github.com/arthur-debert/monobuild/pkg/types"
)

func pkg(name, version string, deps types.DependencyMap) *types.Package {
	return &types.Package{
		Name:         name,
		Version:      version,
		Location:     "/repo/packages/" + name,
		Dependencies: deps,
	}
}

func TestGetAndHas(t *testing.T) {
	g := New([]*types.Package{
		pkg("a", "1.0.0", nil),
	})

	p, ok := g.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", p.Version)

	_, ok = g.Get("missing")
	assert.False(t, ok)
}

func TestFindRequiresSatisfyingVersion(t *testing.T) {
	g := New([]*types.Package{
		pkg("b", "1.2.3", nil),
	})

	_, ok := g.Find("b", "^1.0.0")
	assert.True(t, ok)

	_, ok = g.Find("b", "^2.0.0")
	assert.False(t, ok)

	_, ok = g.Find("b", "")
	assert.True(t, ok, "empty range means any version matches")
}

func TestTopologicalBatchesOrdersLeavesFirst(t *testing.T) {
	// c depends on b, b depends on a; a is a leaf.
	g := New([]*types.Package{
		pkg("c", "1.0.0", types.DependencyMap{"b": "^1.0.0"}),
		pkg("b", "1.0.0", types.DependencyMap{"a": "^1.0.0"}),
		pkg("a", "1.0.0", nil),
	})

	batches, err := g.TopologicalBatches()
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, batches)
}

func TestTopologicalBatchesGroupsIndependentPackages(t *testing.T) {
	// b and c both depend on a, but not on each other: same batch.
	g := New([]*types.Package{
		pkg("a", "1.0.0", nil),
		pkg("c", "1.0.0", types.DependencyMap{"a": "^1.0.0"}),
		pkg("b", "1.0.0", types.DependencyMap{"a": "^1.0.0"}),
	})

	batches, err := g.TopologicalBatches()
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a"}, {"b", "c"}}, batches)
}

func TestTopologicalBatchesDeterministic(t *testing.T) {
	g := New([]*types.Package{
		pkg("z", "1.0.0", nil),
		pkg("y", "1.0.0", nil),
		pkg("x", "1.0.0", nil),
	})

	batches, err := g.TopologicalBatches()
	require.NoError(t, err)
	require.Equal(t, [][]string{{"x", "y", "z"}}, batches)
}

func TestTopologicalBatchesDetectsCycle(t *testing.T) {
	g := New([]*types.Package{
		pkg("a", "1.0.0", types.DependencyMap{"b": "^1.0.0"}),
		pkg("b", "1.0.0", types.DependencyMap{"a": "^1.0.0"}),
	})

	_, err := g.TopologicalBatches()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependencyCycle))
}

func TestTopologicalBatchesIgnoresExternalDeps(t *testing.T) {
	g := New([]*types.Package{
		pkg("a", "1.0.0", types.DependencyMap{"left-pad": "^1.0.0"}),
	})

	batches, err := g.TopologicalBatches()
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a"}}, batches)
}
