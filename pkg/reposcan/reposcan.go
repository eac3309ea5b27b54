package reposcan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/monobuild/pkg/errors"
	"github.com/arthur-debert/monobuild/pkg/graph"
	"github.com/arthur-debert/monobuild/pkg/types"
)

const manifestFile = "package.json"

// manifest is the subset of package.json this scanner understands.
type manifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
	Workspaces   []string          `json:"workspaces"`
	Bin          json.RawMessage   `json:"bin"`
	Scripts      map[string]string `json:"scripts"`
}

type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// Scan discovers every member package under rootDir and returns the root
// manifest plus the built package graph.
func Scan(rootDir string) (*types.RootManifest, *graph.Graph, error) {
	rootManifest, err := readManifest(rootDir)
	if err != nil {
		return nil, nil, err
	}

	patterns := rootManifest.Workspaces
	if len(patterns) == 0 {
		patterns, err = readPnpmWorkspace(rootDir)
		if err != nil {
			return nil, nil, err
		}
	}

	dirs, err := resolveMembers(rootDir, patterns)
	if err != nil {
		return nil, nil, err
	}

	packages := make([]*types.Package, 0, len(dirs))
	for _, dir := range dirs {
		m, err := readManifest(dir)
		if err != nil {
			return nil, nil, err
		}
		if m.Name == "" {
			continue
		}
		pkg, err := toPackage(dir, m)
		if err != nil {
			return nil, nil, err
		}
		packages = append(packages, pkg)
	}

	root := &types.RootManifest{
		Dependencies:        types.DependencyMap(rootManifest.Dependencies),
		RootPath:            rootDir,
		RootLocalModuleDir:  filepath.Join(rootDir, "node_modules"),
		Workspaces:          patterns,
	}

	return root, graph.New(packages), nil
}

func readManifest(dir string) (*manifest, error) {
	path := filepath.Join(dir, manifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &manifest{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFilesystemFailed, "reading manifest at %s", path)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystemFailed, "parsing manifest at %s", path)
	}
	return &m, nil
}

func readPnpmWorkspace(rootDir string) ([]string, error) {
	path := filepath.Join(rootDir, "pnpm-workspace.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFilesystemFailed, "reading pnpm workspace file at %s", path)
	}
	var ws pnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFilesystemFailed, "parsing pnpm workspace file at %s", path)
	}
	return ws.Packages, nil
}

// resolveMembers expands workspaces glob patterns relative to rootDir into
// a sorted, de-duplicated list of member directories that contain a
// package.json.
func resolveMembers(rootDir string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(rootDir, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFilesystemFailed, "expanding workspaces pattern %q", pattern)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				continue
			}
			if _, err := os.Stat(filepath.Join(match, manifestFile)); err != nil {
				continue
			}
			if !seen[match] {
				seen[match] = true
				dirs = append(dirs, match)
			}
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

func toPackage(dir string, m *manifest) (*types.Package, error) {
	bin, err := parseBin(dir, m.Name, m.Bin)
	if err != nil {
		return nil, err
	}
	return &types.Package{
		Name:           m.Name,
		Version:        m.Version,
		Location:       dir,
		LocalModuleDir: filepath.Join(dir, "node_modules"),
		Dependencies:   types.DependencyMap(m.Dependencies),
		BinEntries:     bin,
		Scripts:        m.Scripts,
	}, nil
}

// parseBin accepts package.json's two legal shapes for "bin": a bare
// string (the package's own name, without any @scope/ prefix, is the
// command) or an object mapping command name to script path.
func parseBin(dir, name string, raw json.RawMessage) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return map[string]string{filepath.Base(name): asString}, nil
	}

	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		return asMap, nil
	}

	return nil, errors.Newf(errors.ErrFilesystemFailed, "unrecognized \"bin\" field shape in %s", dir)
}
