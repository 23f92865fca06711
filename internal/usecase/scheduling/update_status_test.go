package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

func TestUpdateAppointmentStatus_Lifecycle(t *testing.T) {
	store := newMemStore()
	store.appointments[7] = &models.Appointment{ID: 7, Status: string(domain.StatusScheduled)}
	now := time.Date(2024, 1, 8, 16, 0, 0, 0, time.UTC)
	uc := NewUpdateAppointmentStatus(store, nil)
	uc.now = func() time.Time { return now }
	ctx := context.Background()

	for _, st := range []string{"DISPATCHED", "IN_PROGRESS", "COMPLETED"} {
		ap, err := uc.Execute(ctx, nil, 7, st)
		require.NoError(t, err, st)
		assert.Equal(t, st, ap.Status)
	}

	assert.Equal(t, []domain.AppointmentStatus{
		domain.StatusScheduled, domain.StatusDispatched, domain.StatusInProgress,
	}, store.statusFrom)
	require.NotNil(t, store.appointments[7].CompletedAt)
	assert.Equal(t, now, *store.appointments[7].CompletedAt)

	_, err := uc.Execute(ctx, nil, 7, "CANCELED")
	assert.True(t, httperr.IsBusiness(err, "invalid_status_transition"))
}

func TestUpdateAppointmentStatus_Errors(t *testing.T) {
	store := newMemStore()
	store.appointments[1] = &models.Appointment{ID: 1}
	uc := NewUpdateAppointmentStatus(store, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, nil, 1, "DONE")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))

	_, err = uc.Execute(ctx, nil, 99, "CANCELED")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))

	store.statusErr = httperr.ErrConflict("appointment_state_changed")
	_, err = uc.Execute(ctx, nil, 1, "CANCELED")
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))
}
