package models

import (
	"time"

	"gorm.io/datatypes"
)

type OptimizationRun struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	RunDate time.Time `json:"run_date"`
	RunType string    `gorm:"size:20" json:"run_type"`
	Status  string    `gorm:"size:30;index" json:"status"`

	TerritoryID *uint     `json:"territory_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	AutoApply   bool      `json:"auto_apply"`

	AppointmentsConsidered  int `json:"appointments_considered"`
	ResourcesConsidered     int `json:"resources_considered"`
	AppointmentsOptimized   int `json:"appointments_optimized"`
	AppointmentsRescheduled int `json:"appointments_rescheduled"`

	TravelTimeReducedMinutes float64 `json:"travel_time_reduced_minutes"`
	UtilizationBeforePct     float64 `json:"utilization_before_pct"`
	UtilizationAfterPct      float64 `json:"utilization_after_pct"`
	UtilizationImprovedPct   float64 `json:"utilization_improved_pct"`

	Changes          datatypes.JSON `json:"changes"`
	SuggestedChanges datatypes.JSON `json:"suggested_changes"`

	ExecutionTimeMs int64  `json:"execution_time_ms"`
	ErrorMessage    string `gorm:"type:text" json:"error_message,omitempty"`

	ApprovedBy *string    `gorm:"size:64" json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
