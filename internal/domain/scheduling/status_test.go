package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
)

func TestCanAutoSchedule(t *testing.T) {
	assert.NoError(t, CanAutoSchedule(StatusNone))
	assert.NoError(t, CanAutoSchedule(StatusScheduled))
	assert.NoError(t, CanAutoSchedule(""))

	for _, s := range []AppointmentStatus{StatusDispatched, StatusInProgress, StatusCompleted, StatusCanceled} {
		assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(CanAutoSchedule(s)), s)
	}
}

func TestRunTransitions(t *testing.T) {
	assert.NoError(t, CanApprove(RunAwaitingApproval))
	for _, s := range []RunStatus{RunRunning, RunCompleted, RunFailed} {
		assert.True(t, httperr.IsBusiness(CanApprove(s), "run_not_awaiting_approval"))
	}

	assert.True(t, IsTerminal(RunCompleted))
	assert.True(t, IsTerminal(RunFailed))
	assert.False(t, IsTerminal(RunAwaitingApproval))

	rt, err := ParseRunType("")
	require.NoError(t, err)
	assert.Equal(t, RunManual, rt)

	_, err = ParseRunType("NIGHTLY")
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}

func TestBlocksCalendar(t *testing.T) {
	assert.True(t, BlocksCalendar(StatusScheduled))
	assert.True(t, BlocksCalendar(StatusInProgress))
	assert.False(t, BlocksCalendar(StatusCanceled))
	assert.False(t, BlocksCalendar(StatusCannotComplete))
}
