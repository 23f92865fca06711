package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

func TestBusinessWindow_Precedence(t *testing.T) {
	monday := at(2024, time.January, 8, 0, 0)
	tuesday := monday.AddDate(0, 0, 1)

	t.Run("default window", func(t *testing.T) {
		snap := NewSnapshot(1, time.UTC, nil, nil, nil, nil)
		w, ok := snap.BusinessWindow(monday)
		require.True(t, ok)
		assert.Equal(t, monday.Add(8*time.Hour), w.Start)
		assert.Equal(t, monday.Add(18*time.Hour), w.End)
	})

	t.Run("weekly hours with lunch", func(t *testing.T) {
		hours := []models.WorkingHours{{
			Weekday: int(time.Monday), StartTime: "07:00", EndTime: "16:00",
			LunchStart: "12:00", LunchEnd: "13:00", Active: true,
		}}
		snap := NewSnapshot(1, time.UTC, nil, nil, nil, hours)

		w, ok := snap.BusinessWindow(monday)
		require.True(t, ok)
		assert.Equal(t, monday.Add(7*time.Hour), w.Start)
		assert.Equal(t, monday.Add(16*time.Hour), w.End)
		require.Len(t, w.Breaks, 1)
		assert.True(t, w.blocks(monday.Add(11*time.Hour+30*time.Minute), monday.Add(12*time.Hour+30*time.Minute)))

		// weekday without a row is a day off once any hours are configured
		_, ok = snap.BusinessWindow(tuesday)
		assert.False(t, ok)
	})

	t.Run("inactive weekday", func(t *testing.T) {
		hours := []models.WorkingHours{{Weekday: int(time.Monday), StartTime: "07:00", EndTime: "16:00"}}
		snap := NewSnapshot(1, time.UTC, nil, nil, nil, hours)
		_, ok := snap.BusinessWindow(monday)
		assert.False(t, ok)
	})

	t.Run("capacity wins", func(t *testing.T) {
		hours := []models.WorkingHours{{Weekday: int(time.Monday), StartTime: "07:00", EndTime: "16:00", Active: true}}
		caps := []models.ResourceCapacity{{Date: monday, AvailableFrom: "10:00", AvailableTo: "14:00"}}
		snap := NewSnapshot(1, time.UTC, nil, nil, caps, hours)

		w, ok := snap.BusinessWindow(monday.Add(15 * time.Hour))
		require.True(t, ok)
		assert.Equal(t, monday.Add(10*time.Hour), w.Start)
		assert.Equal(t, monday.Add(14*time.Hour), w.End)
	})
}

func TestCheck_ReportsConflicts(t *testing.T) {
	repo := newFakeRepo(1)
	day := at(2024, time.January, 8, 0, 0)
	repo.appointments = []models.Appointment{
		scheduled(5, day.Add(9*time.Hour), 60, StatusScheduled),
	}
	repo.absences = []models.ResourceAbsence{{
		ID: 7, ResourceID: 1, Start: day.Add(13 * time.Hour), End: day.Add(15 * time.Hour), Type: "Training",
	}}
	r := NewResolver(repo, time.UTC)
	ctx := context.Background()

	res, err := r.Check(ctx, 1, day.Add(9*time.Hour+30*time.Minute), day.Add(14*time.Hour), 0, 0)
	require.NoError(t, err)
	assert.False(t, res.IsAvailable)
	assert.Len(t, res.ConflictingAppointments, 1)
	assert.Len(t, res.ConflictingAbsences, 1)

	res, err = r.Check(ctx, 1, day.Add(10*time.Hour), day.Add(11*time.Hour), 0, 0)
	require.NoError(t, err)
	assert.True(t, res.IsAvailable)
	assert.Empty(t, res.ConflictingAppointments)

	// the appointment itself does not conflict when excluded
	res, err = r.Check(ctx, 1, day.Add(9*time.Hour), day.Add(10*time.Hour), 0, 5)
	require.NoError(t, err)
	assert.True(t, res.IsAvailable)
}

func TestCheck_Errors(t *testing.T) {
	repo := newFakeRepo(1)
	r := NewResolver(repo, time.UTC)
	day := at(2024, time.January, 8, 9, 0)

	_, err := r.Check(context.Background(), 2, day, day.Add(time.Hour), 0, 0)
	assert.True(t, httperr.IsBusiness(err, "resource_not_found"))

	_, err = r.Check(context.Background(), 1, day, day, 0, 0)
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}

func TestSnapshot_CommittedAndAbsent(t *testing.T) {
	day := at(2024, time.January, 8, 0, 0)
	snap := NewSnapshot(1, time.UTC,
		[]models.Appointment{
			scheduled(1, day.Add(8*time.Hour), 60, StatusScheduled),
			scheduled(2, day.Add(10*time.Hour), 60, StatusCanceled),
			scheduled(3, day.AddDate(0, 0, 1).Add(8*time.Hour), 60, StatusScheduled),
		},
		[]models.ResourceAbsence{{Start: day.AddDate(0, 0, 2), End: day.AddDate(0, 0, 2).Add(2 * time.Hour)}},
		nil, nil,
	)

	assert.Equal(t, 1, snap.CommittedOn(day, 0))
	assert.Equal(t, 0, snap.CommittedOn(day, 1))
	assert.False(t, snap.AbsentOn(day))
	assert.True(t, snap.AbsentOn(day.AddDate(0, 0, 2)))
}
