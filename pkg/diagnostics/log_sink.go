package diagnostics

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/monobuild/pkg/logging"
	"github.com/arthur-debert/monobuild/pkg/types"
)

// LogSink writes every event as a structured zerolog line, tagged with a
// correlation ID shared across the whole bootstrap run.
type LogSink struct {
	logger zerolog.Logger
	runID  string
}

// NewLogSink creates a LogSink. runID, if empty, is generated.
func NewLogSink(runID string) *LogSink {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &LogSink{
		logger: logging.GetLogger("bootstrap"),
		runID:  runID,
	}
}

func (s *LogSink) Info(message string) {
	s.logger.Info().Str("run", s.runID).Msg(message)
}

func (s *LogSink) Warn(d types.Diagnostic) {
	evt := s.logger.Warn().Str("run", s.runID).Str("code", string(d.Kind)).Str("dependency", d.Name)
	if d.Package != "" {
		evt = evt.Str("package", d.Package)
	}
	for k, v := range d.Details {
		evt = evt.Str(k, v)
	}
	evt.Msg("hoist warning")
}

func (s *LogSink) PhaseBegin(phase string) {
	s.logger.Debug().Str("run", s.runID).Str("phase", phase).Msg("phase begin")
}

func (s *LogSink) PhaseEnd(phase string, err error) {
	evt := s.logger.Debug().Str("run", s.runID).Str("phase", phase)
	if err != nil {
		s.logger.Error().Str("run", s.runID).Str("phase", phase).Err(err).Msg("phase failed")
		return
	}
	evt.Msg("phase end")
}

func (s *LogSink) WorkAdded(phase string, delta int) {
	s.logger.Debug().Str("run", s.runID).Str("phase", phase).Int("added", delta).Msg("work added")
}

func (s *LogSink) WorkCompleted(phase string, delta int) {
	s.logger.Debug().Str("run", s.runID).Str("phase", phase).Int("completed", delta).Msg("work completed")
}
