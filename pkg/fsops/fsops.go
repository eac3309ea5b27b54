package fsops

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/arthur-debert/monobuild/pkg/errors"
	"github.com/arthur-debert/monobuild/pkg/types"
)

// LinkSibling symlinks a repo-local dependency into a dependent package's
// local module directory, so the dependent resolves it at runtime without
// the installer ever touching it.
func LinkSibling(fsys types.FS, dependent, sibling *types.Package) error {
	link := filepath.Join(dependent.LocalModuleDir, sibling.Name)
	return replaceSymlink(fsys, sibling.Location, link)
}

// LinkBinaries symlinks every entry in binEntries from the root's local
// module `.bin` directory into each dependent's own `.bin` directory.
// binEntries maps an executable name to its path relative to the
// installed package's own directory; only the name is needed here because
// the installer already placed the real binary under the root's `.bin`.
func LinkBinaries(fsys types.FS, rootLocalModuleDir string, binEntries map[string]string, dependents []*types.Package) error {
	if len(binEntries) == 0 {
		return nil
	}
	for binName := range binEntries {
		source := filepath.Join(rootLocalModuleDir, ".bin", binName)
		for _, dependent := range dependents {
			dest := filepath.Join(dependent.LocalModuleDir, ".bin", binName)
			if err := fsys.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return errors.Wrapf(err, errors.ErrFilesystemFailed, "creating bin directory for %s", dependent.Name)
			}
			if err := replaceSymlink(fsys, source, dest); err != nil {
				return err
			}
		}
	}
	return nil
}

// PruneShadow recursively removes the directory that would otherwise
// shadow a hoisted dependency inside dependent's local module directory.
// It is a no-op when dependent shares the root's local module directory,
// since nothing would be shadowed in that case.
func PruneShadow(fsys types.FS, dependent *types.Package, rootLocalModuleDir, name string) error {
	if dependent.LocalModuleDir == rootLocalModuleDir {
		return nil
	}
	shadow := filepath.Join(dependent.LocalModuleDir, name)
	if _, err := fsys.Lstat(shadow); os.IsNotExist(err) {
		return nil
	}
	if err := fsys.RemoveAll(shadow); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystemFailed, "pruning shadowed dependency %s in %s", name, dependent.Name)
	}
	return nil
}

// DependencyPresent reports whether name has a directory already present
// under location's local module directory — the coarse, version-blind
// probe the planner uses to decide is_satisfied.
func DependencyPresent(fsys types.FS, location, name string) bool {
	info, err := fsys.Stat(filepath.Join(location, "node_modules", name))
	return err == nil && info.IsDir()
}

// ReadBinEntries reads the "bin" field from dir/package.json, the way a
// freshly-installed external dependency would declare its executables.
// A missing manifest or bin field yields a nil map, not an error.
func ReadBinEntries(fsys types.FS, dir string) (map[string]string, error) {
	data, err := fsys.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFilesystemFailed, "reading installed manifest at %s", dir)
	}

	var parsed struct {
		Bin json.RawMessage `json:"bin"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystemFailed, "parsing installed manifest at %s", dir)
	}
	if len(parsed.Bin) == 0 {
		return nil, nil
	}

	var asString string
	if err := json.Unmarshal(parsed.Bin, &asString); err == nil {
		return map[string]string{filepath.Base(dir): asString}, nil
	}

	var asMap map[string]string
	if err := json.Unmarshal(parsed.Bin, &asMap); err == nil {
		return asMap, nil
	}

	return nil, nil
}

// replaceSymlink creates a symlink at link pointing to target, removing
// any existing entry at link first so re-running bootstrap is idempotent.
func replaceSymlink(fsys types.FS, target, link string) error {
	if err := fsys.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystemFailed, "creating parent directory for %s", link)
	}
	if _, err := fsys.Lstat(link); err == nil {
		if err := fsys.Remove(link); err != nil {
			return errors.Wrapf(err, errors.ErrFilesystemFailed, "removing existing entry at %s", link)
		}
	}
	if err := fsys.Symlink(target, link); err != nil {
		return errors.Wrapf(err, errors.ErrFilesystemFailed, "symlinking %s to %s", link, target)
	}
	return nil
}
