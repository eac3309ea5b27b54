package diagnostics

import (
	"sync"

	"github.com/arthur-debert/monobuild/pkg/types"
)

// Event is one call recorded by a RecordingSink, in the order received.
type Event struct {
	Kind  string // "info", "warn", "phase_begin", "phase_end", "work_added", "work_completed"
	Phase string
	Text  string
	Diag  types.Diagnostic
	Delta int
	Err   error
}

// RecordingSink records every call for assertion in tests. Safe for
// concurrent use, since orchestrator phases report from multiple
// goroutines.
type RecordingSink struct {
	mu     sync.Mutex
	Events []Event
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

func (r *RecordingSink) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
}

func (r *RecordingSink) Info(message string) {
	r.record(Event{Kind: "info", Text: message})
}

func (r *RecordingSink) Warn(d types.Diagnostic) {
	r.record(Event{Kind: "warn", Diag: d})
}

func (r *RecordingSink) PhaseBegin(phase string) {
	r.record(Event{Kind: "phase_begin", Phase: phase})
}

func (r *RecordingSink) PhaseEnd(phase string, err error) {
	r.record(Event{Kind: "phase_end", Phase: phase, Err: err})
}

func (r *RecordingSink) WorkAdded(phase string, delta int) {
	r.record(Event{Kind: "work_added", Phase: phase, Delta: delta})
}

func (r *RecordingSink) WorkCompleted(phase string, delta int) {
	r.record(Event{Kind: "work_completed", Phase: phase, Delta: delta})
}

// Warnings returns just the warning diagnostics recorded, in order.
func (r *RecordingSink) Warnings() []types.Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []types.Diagnostic
	for _, e := range r.Events {
		if e.Kind == "warn" {
			out = append(out, e.Diag)
		}
	}
	return out
}
