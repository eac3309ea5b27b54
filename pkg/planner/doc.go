// Package planner aggregates dependency requirements across a monorepo's
// package graph and decides, per external dependency, whether it should be
// hoisted to the repository root or installed inside each requesting
// package. It is pure: it takes a Graph, a RootManifest, hoist
// configuration, and an injected installed-on-disk probe, and returns a
// types.Plan plus diagnostics. It performs no I/O of its own.
package planner
