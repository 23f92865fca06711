package models

import "time"

type Appointment struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	AppointmentNumber string `gorm:"size:40;uniqueIndex" json:"appointment_number"`

	WorkOrderID uint      `gorm:"index" json:"work_order_id"`
	WorkOrder   WorkOrder `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"work_order"`

	EarliestStart   time.Time  `json:"earliest_start"`
	DueDate         *time.Time `json:"due_date"`
	ScheduledStart  *time.Time `gorm:"index" json:"scheduled_start"`
	ScheduledEnd    *time.Time `json:"scheduled_end"`
	DurationMinutes int        `json:"duration_minutes"`

	Status      string     `gorm:"size:20;default:'NONE';index" json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`

	Street     string   `gorm:"size:255" json:"street"`
	City       string   `gorm:"size:100" json:"city"`
	State      string   `gorm:"size:50" json:"state"`
	PostalCode string   `gorm:"size:20" json:"postal_code"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`

	Assignments []AppointmentAssignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"assignments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PrimaryResourceID returns the resource of the primary assignment, or 0.
func (a *Appointment) PrimaryResourceID() uint {
	for _, as := range a.Assignments {
		if as.IsPrimary {
			return as.ResourceID
		}
	}
	return 0
}

// AppointmentAssignment links an appointment to a resource. At most one row per
// appointment is primary.
type AppointmentAssignment struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"uniqueIndex:idx_assignment_pair" json:"appointment_id"`
	ResourceID    uint `gorm:"uniqueIndex:idx_assignment_pair;index" json:"resource_id"`
	IsPrimary     bool `json:"is_primary"`

	CreatedAt time.Time `json:"created_at"`
}
