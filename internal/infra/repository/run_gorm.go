package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

type RunGormRepository struct {
	db *gorm.DB
}

func NewRunGormRepository(db *gorm.DB) *RunGormRepository {
	return &RunGormRepository{db: db}
}

// --------------------------------------------------
// Runs
// --------------------------------------------------

func (r *RunGormRepository) CreateRun(ctx context.Context, run *models.OptimizationRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *RunGormRepository) GetRun(ctx context.Context, id uint) (*models.OptimizationRun, error) {
	var run models.OptimizationRun
	if err := r.db.WithContext(ctx).First(&run, id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *RunGormRepository) ListRuns(
	ctx context.Context,
	status string,
	limit int,
	offset int,
) ([]models.OptimizationRun, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.OptimizationRun{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []models.OptimizationRun
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&runs).Error
	return runs, total, err
}

// --------------------------------------------------
// Scope
// --------------------------------------------------

func (r *RunGormRepository) ListAppointmentsForOptimization(
	ctx context.Context,
	territoryID *uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("appointments.scheduled_start >= ? AND appointments.scheduled_start < ?", from, to).
		Where("appointments.status IN ?", domain.OptimizableStatuses())

	if territoryID != nil {
		q = q.Joins("JOIN work_orders wo ON wo.id = appointments.work_order_id AND wo.territory_id = ?", *territoryID)
	}

	var out []models.Appointment
	err := q.
		Preload("Assignments").
		Preload("WorkOrder").
		Order("appointments.scheduled_start ASC, appointments.id ASC").
		Find(&out).Error
	return out, err
}

func (r *RunGormRepository) ListActiveResources(
	ctx context.Context,
	territoryID *uint,
	from time.Time,
	to time.Time,
) ([]models.Resource, error) {

	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if territoryID != nil {
		q = q.Where("id IN (?)", territoryMembers(r.db, *territoryID))
	}

	var out []models.Resource
	err := q.
		Preload("Absences", "start_at < ? AND end_at > ?", to, from).
		Preload("Capacities", "date >= ? AND date <= ?", from.AddDate(0, 0, -1), to).
		Preload("WorkingHours").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Transition
// --------------------------------------------------

// TransitionRun writes the run only if it is still in fromStatus, then moves
// every changed appointment. A change whose appointment no longer starts at
// OriginalStart, or whose new slot collides with work outside the change set,
// aborts the whole transition.
func (r *RunGormRepository) TransitionRun(
	ctx context.Context,
	run *models.OptimizationRun,
	fromStatus domain.RunStatus,
	changes []domain.ScheduleChange,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		res := tx.Model(run).
			Where("status = ?", string(fromStatus)).
			Select("*").
			Omit("created_at").
			Updates(run)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrInvalidState("run_state_changed")
		}

		if len(changes) == 0 {
			return nil
		}

		moving := make([]uint, 0, len(changes))
		for _, c := range changes {
			moving = append(moving, c.AppointmentID)
		}

		for _, c := range changes {
			var ap models.Appointment
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&ap, c.AppointmentID).Error; err != nil {
				return domain.NotFoundAs(err, "appointment_not_found")
			}

			if ap.ScheduledStart == nil || !ap.ScheduledStart.Equal(c.OriginalStart) {
				return httperr.ErrConflict("stale_change")
			}

			var clashes []uint
			if err := blockingForResource(tx, c.ResourceID, c.NewStart, c.NewEnd()).
				Where("appointments.id NOT IN ?", moving).
				Pluck("appointments.id", &clashes).Error; err != nil {
				return err
			}
			if len(clashes) > 0 {
				return httperr.ErrConflict("change_conflicts_with_schedule")
			}

			if err := tx.Model(&ap).Updates(map[string]any{
				"scheduled_start": c.NewStart,
				"scheduled_end":   c.NewEnd(),
			}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
