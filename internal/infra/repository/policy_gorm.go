package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

type PolicyGormRepository struct {
	db *gorm.DB
}

func NewPolicyGormRepository(db *gorm.DB) *PolicyGormRepository {
	return &PolicyGormRepository{db: db}
}

func (r *PolicyGormRepository) GetDefault(ctx context.Context) (*models.SchedulingPolicy, error) {
	var p models.SchedulingPolicy
	if err := r.db.WithContext(ctx).
		Where("is_default = ? AND is_active = ?", true, true).
		Order("id DESC").
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PolicyGormRepository) GetByID(ctx context.Context, id uint) (*models.SchedulingPolicy, error) {
	var p models.SchedulingPolicy
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PolicyGormRepository) List(ctx context.Context) ([]models.SchedulingPolicy, error) {
	var out []models.SchedulingPolicy
	err := r.db.WithContext(ctx).Order("is_default DESC, id ASC").Find(&out).Error
	return out, err
}

func (r *PolicyGormRepository) Upsert(ctx context.Context, p *models.SchedulingPolicy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.IsDefault && p.IsActive {
			q := tx.Model(&models.SchedulingPolicy{}).Where("is_default = ?", true)
			if p.ID != 0 {
				q = q.Where("id <> ?", p.ID)
			}
			if err := q.Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(p).Error
	})
}
