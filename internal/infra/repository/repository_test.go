package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/field-scheduler/internal/db"
	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func day(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	db        *gorm.DB
	territory models.Territory
	resource  models.Resource
	other     models.Resource
	workOrder models.WorkOrder
}

func seed(t *testing.T) fixture {
	t.Helper()
	gdb := newTestDB(t)

	f := fixture{db: gdb}
	f.territory = models.Territory{Name: "North", IsActive: true}
	require.NoError(t, gdb.Create(&f.territory).Error)

	f.resource = models.Resource{
		Name:     "Ana",
		IsActive: true,
		Skills:   []models.ResourceSkill{{Skill: "hvac"}},
	}
	f.other = models.Resource{Name: "Ben", IsActive: true}
	require.NoError(t, gdb.Create(&f.resource).Error)
	require.NoError(t, gdb.Create(&f.other).Error)

	require.NoError(t, gdb.Create(&[]models.TerritoryMember{
		{TerritoryID: f.territory.ID, ResourceID: f.resource.ID, IsActive: true},
		{TerritoryID: f.territory.ID, ResourceID: f.other.ID, IsActive: true},
	}).Error)

	f.workOrder = models.WorkOrder{Number: "WO-1", TerritoryID: &f.territory.ID}
	require.NoError(t, gdb.Create(&f.workOrder).Error)
	return f
}

func (f fixture) appointment(t *testing.T, number string, resourceID uint, start *time.Time, minutes int, status domain.AppointmentStatus) models.Appointment {
	t.Helper()

	ap := models.Appointment{
		AppointmentNumber: number,
		WorkOrderID:       f.workOrder.ID,
		EarliestStart:     day(0, 0),
		DurationMinutes:   minutes,
		Status:            string(status),
		PostalCode:        "10001",
	}
	if start != nil {
		end := start.Add(time.Duration(minutes) * time.Minute)
		ap.ScheduledStart = start
		ap.ScheduledEnd = &end
	}
	require.NoError(t, f.db.Create(&ap).Error)

	if resourceID != 0 {
		require.NoError(t, f.db.Create(&models.AppointmentAssignment{
			AppointmentID: ap.ID,
			ResourceID:    resourceID,
			IsPrimary:     true,
		}).Error)
	}
	return ap
}

func ptr(t time.Time) *time.Time { return &t }

func TestAvailabilityRepository_BlockingAppointmentsOnly(t *testing.T) {
	f := seed(t)
	repo := NewAvailabilityGormRepository(f.db)
	ctx := context.Background()

	f.appointment(t, "A-1", f.resource.ID, ptr(day(9, 0)), 60, domain.StatusScheduled)
	f.appointment(t, "A-2", f.resource.ID, ptr(day(11, 0)), 60, domain.StatusCanceled)
	f.appointment(t, "A-3", f.other.ID, ptr(day(9, 0)), 60, domain.StatusScheduled)
	f.appointment(t, "A-4", f.resource.ID, nil, 60, domain.StatusNone)

	got, err := repo.ListAppointmentsForResource(ctx, f.resource.ID, day(0, 0), day(23, 59))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A-1", got[0].AppointmentNumber)

	res, err := repo.GetResource(ctx, f.resource.ID)
	require.NoError(t, err)
	assert.True(t, res.HasSkills([]string{"hvac"}))

	_, err = repo.GetResource(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAvailabilityRepository_ReplaceWorkingHours(t *testing.T) {
	f := seed(t)
	repo := NewAvailabilityGormRepository(f.db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceWorkingHours(ctx, f.resource.ID, []models.WorkingHours{
		{Weekday: 1, StartTime: "08:00", EndTime: "17:00", Active: true},
		{Weekday: 2, StartTime: "08:00", EndTime: "17:00", Active: true},
	}))
	require.NoError(t, repo.ReplaceWorkingHours(ctx, f.resource.ID, []models.WorkingHours{
		{Weekday: 3, StartTime: "10:00", EndTime: "14:00", Active: true},
	}))

	hours, err := repo.ListWorkingHours(ctx, f.resource.ID)
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, 3, hours[0].Weekday)
}

func TestAppointmentRepository_CommitSchedule(t *testing.T) {
	f := seed(t)
	repo := NewAppointmentGormRepository(f.db)
	ctx := context.Background()

	f.appointment(t, "A-1", f.resource.ID, ptr(day(9, 0)), 60, domain.StatusScheduled)
	target := f.appointment(t, "A-2", f.other.ID, nil, 60, domain.StatusNone)

	t.Run("overlap is rejected", func(t *testing.T) {
		_, err := repo.CommitSchedule(ctx, domain.CommitInput{
			AppointmentID:   target.ID,
			ResourceID:      f.resource.ID,
			Start:           day(9, 30),
			End:             day(10, 30),
			DurationMinutes: 60,
		})
		assert.True(t, httperr.IsBusiness(err, "slot_taken"))
	})

	t.Run("buffer after existing work is enforced", func(t *testing.T) {
		_, err := repo.CommitSchedule(ctx, domain.CommitInput{
			AppointmentID:   target.ID,
			ResourceID:      f.resource.ID,
			Start:           day(10, 0),
			End:             day(11, 0),
			DurationMinutes: 60,
			Buffer:          15 * time.Minute,
		})
		assert.True(t, httperr.IsBusiness(err, "slot_taken"))
	})

	t.Run("absence is rejected", func(t *testing.T) {
		require.NoError(t, f.db.Create(&models.ResourceAbsence{
			ResourceID: f.resource.ID,
			Start:      day(14, 0),
			End:        day(16, 0),
			Type:       "training",
		}).Error)

		_, err := repo.CommitSchedule(ctx, domain.CommitInput{
			AppointmentID:   target.ID,
			ResourceID:      f.resource.ID,
			Start:           day(15, 0),
			End:             day(16, 0),
			DurationMinutes: 60,
		})
		assert.True(t, httperr.IsBusiness(err, "slot_taken"))
	})

	t.Run("free slot moves the primary assignment", func(t *testing.T) {
		got, err := repo.CommitSchedule(ctx, domain.CommitInput{
			AppointmentID:   target.ID,
			ResourceID:      f.resource.ID,
			Start:           day(10, 15),
			End:             day(11, 15),
			DurationMinutes: 60,
			Buffer:          15 * time.Minute,
		})
		require.NoError(t, err)

		assert.Equal(t, string(domain.StatusScheduled), got.Status)
		require.NotNil(t, got.ScheduledStart)
		assert.True(t, got.ScheduledStart.Equal(day(10, 15)))
		assert.Equal(t, f.resource.ID, got.PrimaryResourceID())
		assert.Len(t, got.Assignments, 1)
	})

	t.Run("missing rows map to not found", func(t *testing.T) {
		_, err := repo.CommitSchedule(ctx, domain.CommitInput{
			AppointmentID: target.ID,
			ResourceID:    999,
			Start:         day(18, 0),
			End:           day(19, 0),
		})
		assert.True(t, httperr.IsBusiness(err, "resource_not_found"))

		_, err = repo.CommitSchedule(ctx, domain.CommitInput{
			AppointmentID: 999,
			ResourceID:    f.resource.ID,
			Start:         day(18, 0),
			End:           day(19, 0),
		})
		assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
	})
}

func TestAppointmentRepository_TerritoryAndStats(t *testing.T) {
	f := seed(t)
	repo := NewAppointmentGormRepository(f.db)
	ctx := context.Background()

	require.NoError(t, f.db.Model(&models.Resource{}).
		Where("id = ?", f.other.ID).
		Update("is_active", false).Error)

	members, err := repo.ListTerritoryResources(ctx, f.territory.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, f.resource.ID, members[0].ID)
	assert.Len(t, members[0].Skills, 1)

	f.appointment(t, "A-1", f.resource.ID, ptr(day(9, 0)), 60, domain.StatusScheduled)
	f.appointment(t, "A-2", f.resource.ID, ptr(day(11, 0)), 60, domain.StatusScheduled)
	f.appointment(t, "A-3", f.resource.ID, ptr(day(13, 0)), 60, domain.StatusCompleted)
	f.appointment(t, "A-4", f.resource.ID, ptr(day(13, 0).AddDate(0, 0, 7)), 60, domain.StatusScheduled)

	counts, err := repo.CountAppointmentsByStatus(ctx, day(0, 0), day(0, 0).AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[string(domain.StatusScheduled)])
	assert.Equal(t, int64(1), counts[string(domain.StatusCompleted)])
}

func TestAppointmentRepository_UpdateAppointmentStatus(t *testing.T) {
	f := seed(t)
	repo := NewAppointmentGormRepository(f.db)
	ctx := context.Background()

	ap := f.appointment(t, "A-1", f.resource.ID, ptr(day(9, 0)), 60, domain.StatusScheduled)

	ap.Status = string(domain.StatusCanceled)
	ap.CanceledAt = ptr(day(8, 0))
	require.NoError(t, repo.UpdateAppointmentStatus(ctx, &ap, domain.StatusScheduled))

	got, err := repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCanceled), got.Status)
	require.NotNil(t, got.CanceledAt)

	ap.Status = string(domain.StatusDispatched)
	err = repo.UpdateAppointmentStatus(ctx, &ap, domain.StatusScheduled)
	assert.True(t, httperr.IsBusiness(err, "appointment_state_changed"))
}

func TestPolicyRepository_SingleDefault(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewPolicyGormRepository(gdb)
	ctx := context.Background()

	first := &models.SchedulingPolicy{Name: "Standard", IsDefault: true, IsActive: true}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &models.SchedulingPolicy{Name: "Rush", IsDefault: true, IsActive: true}
	require.NoError(t, repo.Upsert(ctx, second))

	def, err := repo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].IsDefault)
	assert.False(t, all[1].IsDefault)

	inactive := &models.SchedulingPolicy{Name: "Paused", IsDefault: false, IsActive: false}
	require.NoError(t, repo.Upsert(ctx, inactive))
	stored, err := repo.GetByID(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestRunRepository_TransitionRun(t *testing.T) {
	f := seed(t)
	repo := NewRunGormRepository(f.db)
	ctx := context.Background()

	a := f.appointment(t, "A-1", f.resource.ID, ptr(day(9, 0)), 60, domain.StatusScheduled)
	b := f.appointment(t, "A-2", f.resource.ID, ptr(day(11, 0)), 60, domain.StatusScheduled)
	f.appointment(t, "A-3", f.resource.ID, ptr(day(14, 0)), 60, domain.StatusScheduled)

	newRun := func(t *testing.T) *models.OptimizationRun {
		run := &models.OptimizationRun{
			RunDate:   day(0, 0),
			RunType:   "MANUAL",
			Status:    string(domain.RunRunning),
			StartDate: day(0, 0),
			EndDate:   day(0, 0),
		}
		require.NoError(t, repo.CreateRun(ctx, run))
		return run
	}

	swap := []domain.ScheduleChange{
		{AppointmentID: a.ID, ResourceID: f.resource.ID, OriginalStart: day(9, 0), NewStart: day(11, 0), DurationMinutes: 60},
		{AppointmentID: b.ID, ResourceID: f.resource.ID, OriginalStart: day(11, 0), NewStart: day(9, 0), DurationMinutes: 60},
	}

	t.Run("moving set may swap slots", func(t *testing.T) {
		run := newRun(t)
		raw, err := json.Marshal(swap)
		require.NoError(t, err)
		run.Status = string(domain.RunCompleted)
		run.Changes = raw

		require.NoError(t, repo.TransitionRun(ctx, run, domain.RunRunning, swap))

		var moved models.Appointment
		require.NoError(t, f.db.First(&moved, a.ID).Error)
		assert.True(t, moved.ScheduledStart.Equal(day(11, 0)))
		assert.True(t, moved.ScheduledEnd.Equal(day(12, 0)))

		stored, err := repo.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.RunCompleted), stored.Status)
	})

	t.Run("wrong source status is rejected", func(t *testing.T) {
		run := newRun(t)
		run.Status = string(domain.RunCompleted)
		err := repo.TransitionRun(ctx, run, domain.RunAwaitingApproval, nil)
		assert.True(t, httperr.IsBusiness(err, "run_state_changed"))
	})

	t.Run("stale original start rolls back", func(t *testing.T) {
		run := newRun(t)
		run.Status = string(domain.RunCompleted)
		err := repo.TransitionRun(ctx, run, domain.RunRunning, swap)
		assert.True(t, httperr.IsBusiness(err, "stale_change"))

		stored, err := repo.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.RunRunning), stored.Status)
	})

	t.Run("clash outside the moving set is rejected", func(t *testing.T) {
		run := newRun(t)
		run.Status = string(domain.RunCompleted)
		err := repo.TransitionRun(ctx, run, domain.RunRunning, []domain.ScheduleChange{
			{AppointmentID: a.ID, ResourceID: f.resource.ID, OriginalStart: day(11, 0), NewStart: day(13, 30), DurationMinutes: 60},
		})
		assert.True(t, httperr.IsBusiness(err, "change_conflicts_with_schedule"))
	})
}

func TestRunRepository_Queries(t *testing.T) {
	f := seed(t)
	repo := NewRunGormRepository(f.db)
	ctx := context.Background()

	f.appointment(t, "A-1", f.resource.ID, ptr(day(9, 0)), 60, domain.StatusScheduled)
	f.appointment(t, "A-2", f.resource.ID, ptr(day(11, 0)), 60, domain.StatusCompleted)
	f.appointment(t, "A-3", f.other.ID, ptr(day(9, 0).AddDate(0, 0, 1)), 60, domain.StatusScheduled)

	from, to := day(0, 0), day(0, 0).AddDate(0, 0, 1)
	appts, err := repo.ListAppointmentsForOptimization(ctx, &f.territory.ID, from, to)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, "A-1", appts[0].AppointmentNumber)
	assert.Equal(t, f.resource.ID, appts[0].PrimaryResourceID())

	other := uint(999)
	none, err := repo.ListAppointmentsForOptimization(ctx, &other, from, to)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, f.db.Create(&models.ResourceAbsence{
		ResourceID: f.resource.ID, Start: day(8, 0), End: day(17, 0), Type: "vacation",
	}).Error)
	resources, err := repo.ListActiveResources(ctx, &f.territory.ID, from, to)
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Len(t, resources[0].Absences, 1)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateRun(ctx, &models.OptimizationRun{
			RunType: "MANUAL",
			Status:  string(domain.RunAwaitingApproval),
		}))
	}
	require.NoError(t, repo.CreateRun(ctx, &models.OptimizationRun{
		RunType: "MANUAL",
		Status:  string(domain.RunFailed),
	}))

	runs, total, err := repo.ListRuns(ctx, string(domain.RunAwaitingApproval), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)
}
