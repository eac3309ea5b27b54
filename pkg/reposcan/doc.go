// Package reposcan discovers a monorepo's packages on disk. It is the
// external collaborator the planner depends on but does not test itself
// against: given a repository root, it resolves the `workspaces` glob
// patterns (from package.json or, alternatively, a pnpm-style
// pnpm-workspace.yaml) to a set of member directories, parses each
// member's manifest, and builds the pkg/types.Package and
// pkg/types.RootManifest values the rest of the system consumes.
package reposcan
