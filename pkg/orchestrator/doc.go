// Package orchestrator drives a bootstrap Plan to completion: lifecycle
// scripts, external-dependency installs, sibling symlinking, and binary
// linking, with bounded concurrency and batch-barrier semantics between
// dependency-order layers. It is the only package that mutates the
// filesystem or spawns subprocesses on the critical path; everything it
// needs — the Plan, the Graph, an Installer, a filesystem, a diagnostics
// Sink — is passed in, so it can be driven against fakes in tests.
package orchestrator
