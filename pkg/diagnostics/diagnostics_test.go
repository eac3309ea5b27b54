package diagnostics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/monobuild/pkg/types"
)

func TestRecordingSinkRecordsInOrder(t *testing.T) {
	sink := NewRecordingSink()
	sink.Info("bootstrapping 2 packages")
	sink.PhaseBegin("install")
	sink.WorkAdded("install", 3)
	sink.Warn(types.Diagnostic{Kind: types.DiagHoistPkgVersion, Name: "left-pad"})
	sink.WorkCompleted("install", 3)
	sink.PhaseEnd("install", nil)

	require.Len(t, sink.Events, 6)
	assert.Equal(t, "info", sink.Events[0].Kind)
	assert.Equal(t, "phase_begin", sink.Events[1].Kind)
	assert.Equal(t, "work_added", sink.Events[2].Kind)
	assert.Equal(t, "warn", sink.Events[3].Kind)
	assert.Equal(t, "work_completed", sink.Events[4].Kind)
	assert.Equal(t, "phase_end", sink.Events[5].Kind)
}

func TestRecordingSinkWarnings(t *testing.T) {
	sink := NewRecordingSink()
	sink.Warn(types.Diagnostic{Kind: types.DiagHoistRootVersion, Name: "react"})
	sink.Info("noise")
	sink.Warn(types.Diagnostic{Kind: types.DiagHoistPkgVersion, Name: "react", Package: "app"})

	warnings := sink.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, types.DiagHoistRootVersion, warnings[0].Kind)
	assert.Equal(t, "app", warnings[1].Package)
}

func TestMultiSinkFansOut(t *testing.T) {
	a := NewRecordingSink()
	b := NewRecordingSink()
	multi := MultiSink{a, b}

	multi.PhaseBegin("preinstall")
	multi.PhaseEnd("preinstall", errors.New("boom"))

	require.Len(t, a.Events, 2)
	require.Len(t, b.Events, 2)
	assert.EqualError(t, b.Events[1].Err, "boom")
}
