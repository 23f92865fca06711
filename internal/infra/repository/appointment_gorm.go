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

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Assignments").
		Preload("WorkOrder.WorkType").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Territory
// --------------------------------------------------

func (r *AppointmentGormRepository) ListTerritoryResources(
	ctx context.Context,
	territoryID uint,
) ([]models.Resource, error) {

	var out []models.Resource
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("id IN (?)", territoryMembers(r.db, territoryID)).
		Preload("Skills").
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func territoryMembers(db *gorm.DB, territoryID uint) *gorm.DB {
	return db.Model(&models.TerritoryMember{}).
		Select("resource_id").
		Where("territory_id = ? AND is_active = ?", territoryID, true)
}

// --------------------------------------------------
// Commit
// --------------------------------------------------

// CommitSchedule locks the resource row first so concurrent commits against
// the same resource queue up, then re-checks the slot inside the same
// transaction before writing.
func (r *AppointmentGormRepository) CommitSchedule(
	ctx context.Context,
	in domain.CommitInput,
) (*models.Appointment, error) {

	var updated models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var res models.Resource
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, in.ResourceID).Error; err != nil {
			return domain.NotFoundAs(err, "resource_not_found")
		}

		var ap models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ap, in.AppointmentID).Error; err != nil {
			return domain.NotFoundAs(err, "appointment_not_found")
		}

		var conflicts []uint
		if err := blockingForResource(tx, in.ResourceID, in.Start.Add(-in.Buffer), in.End).
			Where("appointments.id <> ?", in.AppointmentID).
			Pluck("appointments.id", &conflicts).Error; err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return httperr.ErrConflict("slot_taken")
		}

		var absences int64
		if err := tx.Model(&models.ResourceAbsence{}).
			Where("resource_id = ? AND start_at < ? AND end_at > ?", in.ResourceID, in.End, in.Start).
			Count(&absences).Error; err != nil {
			return err
		}
		if absences > 0 {
			return httperr.ErrConflict("slot_taken")
		}

		start, end := in.Start, in.End
		if err := tx.Model(&ap).Updates(map[string]any{
			"scheduled_start":  start,
			"scheduled_end":    end,
			"duration_minutes": in.DurationMinutes,
			"status":           string(domain.StatusScheduled),
		}).Error; err != nil {
			return err
		}

		if err := tx.
			Where("appointment_id = ? AND resource_id <> ? AND is_primary = ?", ap.ID, in.ResourceID, true).
			Delete(&models.AppointmentAssignment{}).Error; err != nil {
			return err
		}

		assignment := models.AppointmentAssignment{
			AppointmentID: ap.ID,
			ResourceID:    in.ResourceID,
			IsPrimary:     true,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "appointment_id"}, {Name: "resource_id"}},
			DoUpdates: clause.Assignments(map[string]any{"is_primary": true}),
		}).Create(&assignment).Error; err != nil {
			return err
		}

		return tx.
			Preload("Assignments").
			Preload("WorkOrder.WorkType").
			First(&updated, ap.ID).Error
	})

	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrConflict("slot_taken")
		}
		return nil, err
	}

	return &updated, nil
}

// --------------------------------------------------
// Stats
// --------------------------------------------------

func (r *AppointmentGormRepository) CountAppointmentsByStatus(
	ctx context.Context,
	from time.Time,
	to time.Time,
) (map[string]int64, error) {

	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS total").
		Where("scheduled_start >= ? AND scheduled_start < ?", from, to).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

// --------------------------------------------------
// Lifecycle
// --------------------------------------------------

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
	fromStatus domain.AppointmentStatus,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, string(fromStatus)).
		Updates(map[string]any{
			"status":       ap.Status,
			"completed_at": ap.CompletedAt,
			"canceled_at":  ap.CanceledAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrConflict("appointment_state_changed")
	}
	return nil
}
