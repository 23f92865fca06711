package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/field-scheduler/internal/config"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DB.URL), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := RunConstraintMigrations(sqlDB, log); err != nil {
		return nil, err
	}

	// Backfill rows created before durations were stored on appointments.
	if err := db.Exec(`
        UPDATE appointments
        SET duration_minutes = 120
        WHERE duration_minutes IS NULL OR duration_minutes <= 0
    `).Error; err != nil {
		log.Warn("duration backfill failed", zap.Error(err))
	}

	log.Info("database ready",
		zap.Int("max_open_conns", cfg.DB.MaxOpenConns),
	)
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Territory{},
		&models.Resource{},
		&models.ResourceSkill{},
		&models.TerritoryMember{},
		&models.ResourceCapacity{},
		&models.ResourceAbsence{},
		&models.WorkingHours{},
		&models.WorkType{},
		&models.WorkOrder{},
		&models.Appointment{},
		&models.AppointmentAssignment{},
		&models.SchedulingPolicy{},
		&models.OptimizationRun{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
