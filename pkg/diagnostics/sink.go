package diagnostics

import "github.com/arthur-debert/monobuild/pkg/types"

// Sink receives the events the planner and orchestrator emit. Every
// method must be safe to call from multiple goroutines: phase B's
// actions and a lifecycle phase's batch workers all report concurrently.
type Sink interface {
	// Info reports an informational line, e.g. "bootstrapping 12 packages".
	Info(message string)

	// Warn reports one of the planner's EHOIST_* warnings. Warnings never
	// halt execution.
	Warn(d types.Diagnostic)

	// PhaseBegin marks the start of an orchestrator phase.
	PhaseBegin(phase string)

	// PhaseEnd marks the end of an orchestrator phase, with the error
	// that ended it, if any.
	PhaseEnd(phase string, err error)

	// WorkAdded reports that delta more units of work were queued in the
	// named phase.
	WorkAdded(phase string, delta int)

	// WorkCompleted reports that delta units of work finished in the
	// named phase.
	WorkCompleted(phase string, delta int)
}

// MultiSink fans every call out to each of its members, in order.
type MultiSink []Sink

func (m MultiSink) Info(message string) {
	for _, s := range m {
		s.Info(message)
	}
}

func (m MultiSink) Warn(d types.Diagnostic) {
	for _, s := range m {
		s.Warn(d)
	}
}

func (m MultiSink) PhaseBegin(phase string) {
	for _, s := range m {
		s.PhaseBegin(phase)
	}
}

func (m MultiSink) PhaseEnd(phase string, err error) {
	for _, s := range m {
		s.PhaseEnd(phase, err)
	}
}

func (m MultiSink) WorkAdded(phase string, delta int) {
	for _, s := range m {
		s.WorkAdded(phase, delta)
	}
}

func (m MultiSink) WorkCompleted(phase string, delta int) {
	for _, s := range m {
		s.WorkCompleted(phase, delta)
	}
}
