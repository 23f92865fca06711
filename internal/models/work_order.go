package models

import (
	"strings"
	"time"
)

type WorkType struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	Name                 string `gorm:"size:100;not null" json:"name"`
	EstimatedDurationMin int    `json:"estimated_duration_min"`
	// DueDateDays overrides the default due-date offset when set.
	DueDateDays    *int   `json:"due_date_days"`
	RequiredSkills string `gorm:"size:255" json:"required_skills"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Skills splits the comma separated RequiredSkills column.
func (w *WorkType) Skills() []string {
	var out []string
	for _, s := range strings.Split(w.RequiredSkills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type WorkOrder struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Number      string `gorm:"size:40" json:"number"`
	TerritoryID *uint  `gorm:"index" json:"territory_id"`

	WorkTypeID *uint     `json:"work_type_id"`
	WorkType   *WorkType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"work_type"`

	PostalCode string `gorm:"size:20" json:"postal_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
