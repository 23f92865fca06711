package scheduling

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

// memStore is an in-memory stand-in for every repository the use cases need.
type memStore struct {
	mu sync.Mutex

	policies     map[uint]*models.SchedulingPolicy
	nextPolicyID uint

	appointments map[uint]*models.Appointment
	resources    map[uint]*models.Resource
	territories  map[uint][]uint
	busy         map[uint][]models.Appointment
	workTypes    map[uint]*models.WorkType
	counts       map[string]int64
	hours        map[uint][]models.WorkingHours

	committed []domain.CommitInput
	commitErr error

	statusFrom []domain.AppointmentStatus
	statusErr  error
}

func newMemStore() *memStore {
	return &memStore{
		policies:     map[uint]*models.SchedulingPolicy{},
		appointments: map[uint]*models.Appointment{},
		resources:    map[uint]*models.Resource{},
		territories:  map[uint][]uint{},
		busy:         map[uint][]models.Appointment{},
		workTypes:    map[uint]*models.WorkType{},
		counts:       map[string]int64{},
		hours:        map[uint][]models.WorkingHours{},
	}
}

// policies

func (m *memStore) GetDefault(_ context.Context) (*models.SchedulingPolicy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.policies {
		if p.IsDefault && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) GetByID(_ context.Context, id uint) (*models.SchedulingPolicy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.policies[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) List(_ context.Context) ([]models.SchedulingPolicy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SchedulingPolicy{}
	for _, p := range m.policies {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memStore) Upsert(_ context.Context, p *models.SchedulingPolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		m.nextPolicyID++
		p.ID = m.nextPolicyID
	}
	if p.IsDefault && p.IsActive {
		for _, other := range m.policies {
			other.IsDefault = false
		}
	}
	cp := *p
	m.policies[p.ID] = &cp
	return nil
}

// availability

func (m *memStore) GetResource(_ context.Context, id uint) (*models.Resource, error) {
	if r, ok := m.resources[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) ListAppointmentsForResource(_ context.Context, id uint, _, _ time.Time) ([]models.Appointment, error) {
	return m.busy[id], nil
}

func (m *memStore) ListAbsences(context.Context, uint, time.Time, time.Time) ([]models.ResourceAbsence, error) {
	return nil, nil
}

func (m *memStore) ListCapacities(context.Context, uint, time.Time, time.Time) ([]models.ResourceCapacity, error) {
	return nil, nil
}

func (m *memStore) ListWorkingHours(_ context.Context, id uint) ([]models.WorkingHours, error) {
	return m.hours[id], nil
}

func (m *memStore) ReplaceWorkingHours(_ context.Context, id uint, hours []models.WorkingHours) error {
	m.hours[id] = append([]models.WorkingHours(nil), hours...)
	return nil
}

// appointments

func (m *memStore) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	if ap, ok := m.appointments[id]; ok {
		return ap, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) ListTerritoryResources(_ context.Context, territoryID uint) ([]models.Resource, error) {
	out := []models.Resource{}
	for _, id := range m.territories[territoryID] {
		if r := m.resources[id]; r != nil && r.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) CommitSchedule(_ context.Context, in domain.CommitInput) (*models.Appointment, error) {
	if m.commitErr != nil {
		return nil, m.commitErr
	}
	m.committed = append(m.committed, in)
	ap := *m.appointments[in.AppointmentID]
	ap.ScheduledStart = &in.Start
	ap.ScheduledEnd = &in.End
	ap.DurationMinutes = in.DurationMinutes
	ap.Status = string(domain.StatusScheduled)
	ap.Assignments = []models.AppointmentAssignment{{AppointmentID: ap.ID, ResourceID: in.ResourceID, IsPrimary: true}}
	return &ap, nil
}

func (m *memStore) CountAppointmentsByStatus(context.Context, time.Time, time.Time) (map[string]int64, error) {
	return m.counts, nil
}

func (m *memStore) UpdateAppointmentStatus(_ context.Context, ap *models.Appointment, from domain.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusErr != nil {
		return m.statusErr
	}
	m.statusFrom = append(m.statusFrom, from)
	m.appointments[ap.ID] = ap
	return nil
}

// work types

func (m *memStore) GetWorkType(_ context.Context, id uint) (*models.WorkType, error) {
	if wt, ok := m.workTypes[id]; ok {
		return wt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type recordingLocker struct {
	locked   []uint
	released int
}

func (l *recordingLocker) Lock(_ context.Context, resourceID uint) (func(), error) {
	l.locked = append(l.locked, resourceID)
	return func() { l.released++ }, nil
}
