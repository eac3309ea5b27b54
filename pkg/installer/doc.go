// Package installer implements the subprocess contract the bootstrap
// orchestrator drives: installing a list of specs in a directory, or
// installing whatever a directory's own manifest declares. It also
// allocates the free TCP port some installer clients use for
// coordinating concurrent invocations against a shared store.
package installer
