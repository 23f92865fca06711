package dto

import (
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

type PolicyRequest struct {
	Name        string                   `json:"name" binding:"required,max=100"`
	Description string                   `json:"description" binding:"max=255"`
	IsDefault   bool                     `json:"is_default"`
	IsActive    *bool                    `json:"is_active"`
	Weights     models.PolicyWeights     `json:"weights"`
	Constraints models.PolicyConstraints `json:"constraints"`
}

// Model maps the request onto a policy row. Omitted is_active means active.
func (r PolicyRequest) Model(id uint) *models.SchedulingPolicy {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.SchedulingPolicy{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		IsDefault:   r.IsDefault,
		IsActive:    active,
		Weights:     r.Weights,
		Constraints: r.Constraints,
	}
}

// Timestamps are RFC3339 or "YYYY-MM-DD HH:MM" in the service timezone.

type DueDateRequest struct {
	EarliestStart string `json:"earliest_start" binding:"required"`
	Mode          string `json:"mode" binding:"omitempty,oneof=default same_day"`
	WorkTypeID    *uint  `json:"work_type_id"`
}

type SlotSearchRequest struct {
	ResourceID      uint   `json:"resource_id" binding:"required"`
	EarliestStart   string `json:"earliest_start" binding:"required"`
	DueDate         string `json:"due_date"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=1440"`
	PolicyID        *uint  `json:"policy_id"`
	IncludeWeekends bool   `json:"include_weekends"`
	MaxSlots        int    `json:"max_slots" binding:"min=0,max=100"`
}

type AutoScheduleRequest struct {
	ResourceID *uint `json:"resource_id"`
	PolicyID   *uint `json:"policy_id"`
}

type AppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type WorkingDay struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime    string `json:"end_time" binding:"omitempty,hhmm"`
	LunchStart string `json:"lunch_start" binding:"omitempty,hhmm"`
	LunchEnd   string `json:"lunch_end" binding:"omitempty,hhmm"`
}

type WorkingHoursRequest struct {
	Days []WorkingDay `json:"days" binding:"dive"`
}

func (r WorkingHoursRequest) Models() []models.WorkingHours {
	out := make([]models.WorkingHours, 0, len(r.Days))
	for _, d := range r.Days {
		out = append(out, models.WorkingHours{
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}
	return out
}

// ScheduledAppointmentDTO is the auto-schedule response body.
type ScheduledAppointmentDTO struct {
	ID                uint      `json:"id"`
	AppointmentNumber string    `json:"appointment_number"`
	ResourceID        uint      `json:"resource_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	Status            string    `json:"status"`
	Grade             int       `json:"grade"`
}
