package scheduling

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

type fakeAvailabilityRepo struct {
	resources    map[uint]*models.Resource
	appointments []models.Appointment
	absences     []models.ResourceAbsence
	capacities   []models.ResourceCapacity
	hours        []models.WorkingHours
	err          error
}

func newFakeRepo(resourceIDs ...uint) *fakeAvailabilityRepo {
	r := &fakeAvailabilityRepo{resources: map[uint]*models.Resource{}}
	for _, id := range resourceIDs {
		r.resources[id] = &models.Resource{ID: id, Name: "tech", IsActive: true}
	}
	return r
}

func (f *fakeAvailabilityRepo) GetResource(_ context.Context, id uint) (*models.Resource, error) {
	if res, ok := f.resources[id]; ok {
		return res, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAvailabilityRepo) ListAppointmentsForResource(_ context.Context, _ uint, _, _ time.Time) ([]models.Appointment, error) {
	return f.appointments, f.err
}

func (f *fakeAvailabilityRepo) ListAbsences(_ context.Context, _ uint, _, _ time.Time) ([]models.ResourceAbsence, error) {
	return f.absences, f.err
}

func (f *fakeAvailabilityRepo) ListCapacities(_ context.Context, _ uint, _, _ time.Time) ([]models.ResourceCapacity, error) {
	return f.capacities, f.err
}

func (f *fakeAvailabilityRepo) ListWorkingHours(_ context.Context, _ uint) ([]models.WorkingHours, error) {
	return f.hours, f.err
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func scheduled(id uint, start time.Time, minutes int, status AppointmentStatus) models.Appointment {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return models.Appointment{
		ID:              id,
		ScheduledStart:  &start,
		ScheduledEnd:    &end,
		DurationMinutes: minutes,
		Status:          string(status),
	}
}
