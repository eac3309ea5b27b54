// Package fsops implements the filesystem primitives the bootstrap
// orchestrator needs beyond what the installer subprocess does itself:
// linking sibling packages and hoisted binaries into a dependent's local
// module directory, and pruning directories that would shadow a hoisted
// dependency. Everything goes through types.FS so tests can run against an
// in-memory filesystem.
package fsops
