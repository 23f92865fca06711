package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

// Repositories return gorm.ErrRecordNotFound (possibly wrapped) for missing
// rows; use cases translate it into business errors.

type PolicyRepository interface {
	// GetDefault returns the active policy flagged as default.
	GetDefault(ctx context.Context) (*models.SchedulingPolicy, error)

	GetByID(ctx context.Context, id uint) (*models.SchedulingPolicy, error)

	List(ctx context.Context) ([]models.SchedulingPolicy, error)

	// Upsert creates or updates a policy. When the policy is an active
	// default, every other policy loses its default flag in the same write.
	Upsert(ctx context.Context, p *models.SchedulingPolicy) error
}

type AvailabilityRepository interface {
	GetResource(ctx context.Context, id uint) (*models.Resource, error)

	// ListAppointmentsForResource returns calendar-blocking appointments
	// assigned to the resource whose scheduled interval intersects
	// (from, to), ordered by start.
	ListAppointmentsForResource(
		ctx context.Context,
		resourceID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	ListAbsences(
		ctx context.Context,
		resourceID uint,
		from time.Time,
		to time.Time,
	) ([]models.ResourceAbsence, error)

	ListCapacities(
		ctx context.Context,
		resourceID uint,
		from time.Time,
		to time.Time,
	) ([]models.ResourceCapacity, error)

	ListWorkingHours(ctx context.Context, resourceID uint) ([]models.WorkingHours, error)
}

// CommitInput is the atomic appointment update + primary assignment write.
type CommitInput struct {
	AppointmentID   uint
	ResourceID      uint
	Start           time.Time
	End             time.Time
	DurationMinutes int
	Buffer          time.Duration
}

type AppointmentRepository interface {
	// GetAppointment preloads assignments and the work order with its type.
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	// ListTerritoryResources returns active resources with an active
	// membership in the territory, skills preloaded, ordered by id.
	ListTerritoryResources(ctx context.Context, territoryID uint) ([]models.Resource, error)

	// CommitSchedule re-validates that [Start, End) is still free for the
	// resource (buffer applied) and then writes the appointment schedule and
	// its primary assignment in one transaction. A lost race is reported as
	// a conflict business error.
	CommitSchedule(ctx context.Context, in CommitInput) (*models.Appointment, error)

	CountAppointmentsByStatus(ctx context.Context, from, to time.Time) (map[string]int64, error)

	// UpdateAppointmentStatus persists ap's status and completion stamps only
	// if the stored status is still fromStatus.
	UpdateAppointmentStatus(ctx context.Context, ap *models.Appointment, fromStatus AppointmentStatus) error
}

type RunRepository interface {
	CreateRun(ctx context.Context, run *models.OptimizationRun) error

	GetRun(ctx context.Context, id uint) (*models.OptimizationRun, error)

	ListRuns(ctx context.Context, status string, limit, offset int) ([]models.OptimizationRun, int64, error)

	// ListAppointmentsForOptimization returns appointments with a scheduled
	// start in [from, to) and an optimizable status, optionally restricted to
	// a territory through their work order. Assignments are preloaded.
	ListAppointmentsForOptimization(
		ctx context.Context,
		territoryID *uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// ListActiveResources returns active resources in scope with capacities,
	// absences and working hours for the window preloaded.
	ListActiveResources(
		ctx context.Context,
		territoryID *uint,
		from time.Time,
		to time.Time,
	) ([]models.Resource, error)

	// TransitionRun applies changes to their appointments and persists run,
	// provided the stored run is still in fromStatus. Everything happens in
	// one transaction.
	TransitionRun(
		ctx context.Context,
		run *models.OptimizationRun,
		fromStatus RunStatus,
		changes []ScheduleChange,
	) error
}

// ResourceLocker serialises scheduling commits per resource.
type ResourceLocker interface {
	Lock(ctx context.Context, resourceID uint) (unlock func(), err error)
}
