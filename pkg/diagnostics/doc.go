// Package diagnostics is the Progress & Diagnostics Channel: structured
// events produced by the planner and orchestrator, surfaced to an
// external logger. Consumers implement Sink; production code composes a
// zerolog-backed structured sink with a pterm-backed console sink, and
// tests substitute a RecordingSink.
package diagnostics
