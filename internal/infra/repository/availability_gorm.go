package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

// --------------------------------------------------
// Resource
// --------------------------------------------------

func (r *AvailabilityGormRepository) GetResource(ctx context.Context, id uint) (*models.Resource, error) {
	var res models.Resource
	if err := r.db.WithContext(ctx).
		Preload("Skills").
		First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *AvailabilityGormRepository) GetWorkType(ctx context.Context, id uint) (*models.WorkType, error) {
	var wt models.WorkType
	if err := r.db.WithContext(ctx).First(&wt, id).Error; err != nil {
		return nil, err
	}
	return &wt, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *AvailabilityGormRepository) ListAppointmentsForResource(
	ctx context.Context,
	resourceID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var out []models.Appointment
	err := blockingForResource(r.db.WithContext(ctx), resourceID, from, to).
		Preload("WorkOrder.WorkType").
		Order("appointments.scheduled_start ASC").
		Find(&out).Error
	return out, err
}

func (r *AvailabilityGormRepository) ListAbsences(
	ctx context.Context,
	resourceID uint,
	from time.Time,
	to time.Time,
) ([]models.ResourceAbsence, error) {

	var out []models.ResourceAbsence
	err := r.db.WithContext(ctx).
		Where("resource_id = ? AND start_at < ? AND end_at > ?", resourceID, to, from).
		Order("start_at ASC").
		Find(&out).Error
	return out, err
}

func (r *AvailabilityGormRepository) ListCapacities(
	ctx context.Context,
	resourceID uint,
	from time.Time,
	to time.Time,
) ([]models.ResourceCapacity, error) {

	var out []models.ResourceCapacity
	err := r.db.WithContext(ctx).
		Where("resource_id = ? AND date >= ? AND date <= ?", resourceID, from, to).
		Order("date ASC").
		Find(&out).Error
	return out, err
}

func (r *AvailabilityGormRepository) ListWorkingHours(ctx context.Context, resourceID uint) ([]models.WorkingHours, error) {
	var out []models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Order("weekday ASC").
		Find(&out).Error
	return out, err
}

// ReplaceWorkingHours swaps the weekly template of a resource.
func (r *AvailabilityGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	resourceID uint,
	hours []models.WorkingHours,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource_id = ?", resourceID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(hours) == 0 {
			return nil
		}
		for i := range hours {
			hours[i].ID = 0
			hours[i].ResourceID = resourceID
		}
		return tx.Create(&hours).Error
	})
}

// blockingForResource selects calendar-blocking appointments assigned to the
// resource whose scheduled interval intersects (from, to).
func blockingForResource(db *gorm.DB, resourceID uint, from, to time.Time) *gorm.DB {
	return db.Model(&models.Appointment{}).
		Joins("JOIN appointment_assignments aa ON aa.appointment_id = appointments.id AND aa.resource_id = ?", resourceID).
		Where("appointments.scheduled_start IS NOT NULL").
		Where("appointments.scheduled_start < ? AND appointments.scheduled_end > ?", to, from).
		Where("appointments.status NOT IN ?", domain.NonBlockingStatuses())
}
