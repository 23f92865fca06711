package models

import "time"

// WorkingHours is the recurring weekly window of a resource, used when no
// dated capacity exists.
type WorkingHours struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ResourceID uint `gorm:"index" json:"resource_id"`

	Weekday int `json:"weekday"`

	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
