package models

import "time"

type Territory struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Resource struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Skills       []ResourceSkill    `json:"skills"`
	Memberships  []TerritoryMember  `json:"memberships"`
	Capacities   []ResourceCapacity `json:"capacities"`
	Absences     []ResourceAbsence  `json:"absences"`
	WorkingHours []WorkingHours     `json:"working_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasSkills reports whether every required skill is in the resource's set.
func (r *Resource) HasSkills(required []string) bool {
	have := make(map[string]bool, len(r.Skills))
	for _, s := range r.Skills {
		have[s.Skill] = true
	}
	for _, s := range required {
		if !have[s] {
			return false
		}
	}
	return true
}

type ResourceSkill struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ResourceID uint   `gorm:"index" json:"resource_id"`
	Skill      string `gorm:"size:60;not null" json:"skill"`
}

type TerritoryMember struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	TerritoryID uint `gorm:"index" json:"territory_id"`
	ResourceID  uint `gorm:"index" json:"resource_id"`
	IsActive    bool `gorm:"default:true" json:"is_active"`
}

// ResourceCapacity declares the working window of a resource on one date.
type ResourceCapacity struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ResourceID    uint      `gorm:"index" json:"resource_id"`
	Date          time.Time `gorm:"index" json:"date"`
	AvailableFrom string    `gorm:"size:5" json:"available_from"`
	AvailableTo   string    `gorm:"size:5" json:"available_to"`
}

type ResourceAbsence struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ResourceID uint      `gorm:"index" json:"resource_id"`
	Start      time.Time `gorm:"column:start_at;index" json:"start"`
	End        time.Time `gorm:"column:end_at" json:"end"`
	Type       string    `gorm:"size:30" json:"type"`
	Reason     string    `gorm:"size:255" json:"reason"`
}
