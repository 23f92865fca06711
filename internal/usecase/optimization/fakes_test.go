package optimization

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/field-scheduler/internal/domain/route"
	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

type memRuns struct {
	mu sync.Mutex

	runs         map[uint]*models.OptimizationRun
	nextID       uint
	appointments map[uint]*models.Appointment
	resources    []models.Resource

	resourcesErr error
}

func newMemRuns() *memRuns {
	return &memRuns{
		runs:         map[uint]*models.OptimizationRun{},
		appointments: map[uint]*models.Appointment{},
	}
}

func (m *memRuns) CreateRun(_ context.Context, run *models.OptimizationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	run.ID = m.nextID
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *memRuns) GetRun(_ context.Context, id uint) (*models.OptimizationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.runs[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRuns) ListRuns(_ context.Context, status string, limit, offset int) ([]models.OptimizationRun, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OptimizationRun
	for id := uint(1); id <= m.nextID; id++ {
		if r, ok := m.runs[id]; ok && (status == "" || r.Status == status) {
			out = append(out, *r)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memRuns) ListAppointmentsForOptimization(_ context.Context, _ *uint, from, to time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for id := uint(1); id <= 100; id++ {
		ap, ok := m.appointments[id]
		if !ok || ap.ScheduledStart == nil {
			continue
		}
		if ap.ScheduledStart.Before(from) || !ap.ScheduledStart.Before(to) {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (m *memRuns) ListActiveResources(context.Context, *uint, time.Time, time.Time) ([]models.Resource, error) {
	return m.resources, m.resourcesErr
}

func (m *memRuns) TransitionRun(_ context.Context, run *models.OptimizationRun, from domain.RunStatus, changes []domain.ScheduleChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.runs[run.ID]
	if !ok || stored.Status != string(from) {
		return httperr.ErrInvalidState("run_state_changed")
	}
	for _, c := range changes {
		ap := m.appointments[c.AppointmentID]
		if ap == nil || ap.ScheduledStart == nil || !ap.ScheduledStart.Equal(c.OriginalStart) {
			return httperr.ErrConflict("stale_change")
		}
	}
	for _, c := range changes {
		ap := m.appointments[c.AppointmentID]
		start, end := c.NewStart, c.NewEnd()
		ap.ScheduledStart, ap.ScheduledEnd = &start, &end
	}
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

type countingArchiver struct {
	mu       sync.Mutex
	archived []uint
}

func (a *countingArchiver) Archive(_ context.Context, run *models.OptimizationRun) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.archived = append(a.archived, run.ID)
	return nil
}

type mapLookup map[string]route.Coordinate

func (l mapLookup) CoordinatesFor(_ context.Context, postalCode string) (route.Coordinate, error) {
	if c, ok := l[postalCode]; ok {
		return c, nil
	}
	return route.Coordinate{}, errors.New("unknown postal code")
}
