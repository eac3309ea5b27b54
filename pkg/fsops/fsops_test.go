package fsops

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/monobuild/pkg/filesystem"
	"github.com/arthur-debert/monobuild/pkg/types"
)

func newFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

func TestLinkSiblingCreatesSymlink(t *testing.T) {
	fsys := newFS()
	sibling := &types.Package{Name: "lib", Location: "/repo/packages/lib"}
	dependent := &types.Package{Name: "app", LocalModuleDir: "/repo/packages/app/node_modules"}

	require.NoError(t, LinkSibling(fsys, dependent, sibling))

	target, err := fsys.Readlink("/repo/packages/app/node_modules/lib")
	require.NoError(t, err)
	assert.Equal(t, "/repo/packages/lib", target)
}

func TestLinkSiblingIsIdempotent(t *testing.T) {
	fsys := newFS()
	sibling := &types.Package{Name: "lib", Location: "/repo/packages/lib"}
	dependent := &types.Package{Name: "app", LocalModuleDir: "/repo/packages/app/node_modules"}

	require.NoError(t, LinkSibling(fsys, dependent, sibling))
	require.NoError(t, LinkSibling(fsys, dependent, sibling))

	target, err := fsys.Readlink("/repo/packages/app/node_modules/lib")
	require.NoError(t, err)
	assert.Equal(t, "/repo/packages/lib", target)
}

func TestLinkBinariesLinksIntoEveryDependent(t *testing.T) {
	fsys := newFS()
	dependents := []*types.Package{
		{Name: "app", LocalModuleDir: "/repo/packages/app/node_modules"},
		{Name: "tool", LocalModuleDir: "/repo/packages/tool/node_modules"},
	}

	require.NoError(t, LinkBinaries(fsys, "/repo/node_modules", map[string]string{"eslint": "bin/eslint.js"}, dependents))

	for _, dependent := range dependents {
		target, err := fsys.Readlink(dependent.LocalModuleDir + "/.bin/eslint")
		require.NoError(t, err)
		assert.Equal(t, "/repo/node_modules/.bin/eslint", target)
	}
}

func TestPruneShadowNoopWhenSharingRootModuleDir(t *testing.T) {
	fsys := newFS()
	require.NoError(t, fsys.MkdirAll("/repo/node_modules/left-pad", 0o755))

	dependent := &types.Package{Name: "app", LocalModuleDir: "/repo/node_modules"}
	require.NoError(t, PruneShadow(fsys, dependent, "/repo/node_modules", "left-pad"))

	_, err := fsys.Stat("/repo/node_modules/left-pad")
	assert.NoError(t, err)
}

func TestPruneShadowRemovesShadowingDirectory(t *testing.T) {
	fsys := newFS()
	require.NoError(t, fsys.MkdirAll("/repo/packages/app/node_modules/left-pad", 0o755))
	require.NoError(t, fsys.WriteFile("/repo/packages/app/node_modules/left-pad/index.js", []byte("x"), 0o644))

	dependent := &types.Package{Name: "app", LocalModuleDir: "/repo/packages/app/node_modules"}
	require.NoError(t, PruneShadow(fsys, dependent, "/repo/node_modules", "left-pad"))

	_, err := fsys.Stat("/repo/packages/app/node_modules/left-pad")
	assert.Error(t, err)
}

func TestPruneShadowMissingDirectoryIsNoop(t *testing.T) {
	fsys := newFS()
	dependent := &types.Package{Name: "app", LocalModuleDir: "/repo/packages/app/node_modules"}
	require.NoError(t, PruneShadow(fsys, dependent, "/repo/node_modules", "left-pad"))
}

func TestDependencyPresentTrueWhenDirExists(t *testing.T) {
	fsys := newFS()
	require.NoError(t, fsys.MkdirAll("/repo/node_modules/left-pad", 0o755))
	assert.True(t, DependencyPresent(fsys, "/repo", "left-pad"))
}

func TestDependencyPresentFalseWhenMissing(t *testing.T) {
	fsys := newFS()
	assert.False(t, DependencyPresent(fsys, "/repo", "left-pad"))
}

func TestReadBinEntriesStringForm(t *testing.T) {
	fsys := newFS()
	dir := "/repo/node_modules/eslint"
	require.NoError(t, fsys.MkdirAll(dir, 0o755))
	require.NoError(t, fsys.WriteFile(dir+"/package.json", []byte(`{"name":"eslint","bin":"./bin/eslint.js"}`), 0o644))

	entries, err := ReadBinEntries(fsys, dir)
	require.NoError(t, err)
	assert.Equal(t, "./bin/eslint.js", entries["eslint"])
}

func TestReadBinEntriesMapForm(t *testing.T) {
	fsys := newFS()
	dir := "/repo/node_modules/typescript"
	require.NoError(t, fsys.MkdirAll(dir, 0o755))
	require.NoError(t, fsys.WriteFile(dir+"/package.json", []byte(`{"name":"typescript","bin":{"tsc":"./bin/tsc","tsserver":"./bin/tsserver"}}`), 0o644))

	entries, err := ReadBinEntries(fsys, dir)
	require.NoError(t, err)
	assert.Equal(t, "./bin/tsc", entries["tsc"])
	assert.Equal(t, "./bin/tsserver", entries["tsserver"])
}

func TestReadBinEntriesMissingManifestIsNoop(t *testing.T) {
	fsys := newFS()
	entries, err := ReadBinEntries(fsys, "/repo/node_modules/nothing-here")
	require.NoError(t, err)
	assert.Nil(t, entries)
}
