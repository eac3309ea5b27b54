// Package graph holds the Package Graph: a directed graph over repo-local
// packages keyed by name, carrying each package's manifest-declared
// dependencies and on-disk location. It supports lookup by name, lookup
// by (name, range), and topological batching into leaves-first layers for
// the bootstrap orchestrator's lifecycle-script phases.
package graph
