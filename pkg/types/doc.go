// Package types holds the data model shared by monobuild's planner and
// orchestrator: repo-local packages, the root manifest, the filesystem
// abstraction, and the Plan the planner hands to the orchestrator.
package types
