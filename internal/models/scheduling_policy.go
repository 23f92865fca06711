package models

import "time"

type PolicyWeights struct {
	CustomerPreference  float64 `json:"customer_preference"`
	SkillMatch          float64 `json:"skill_match"`
	TravelDistance      float64 `json:"travel_distance"`
	ResourceUtilization float64 `json:"resource_utilization"`
	SameDayCompletion   float64 `json:"same_day_completion"`
	Priority            float64 `json:"priority"`
}

type PolicyConstraints struct {
	RequireExactSkillMatch  bool `json:"require_exact_skill_match"`
	RequireSameTerritory    bool `json:"require_same_territory"`
	AllowOvertimeScheduling bool `json:"allow_overtime_scheduling"`
	MaxTravelTimeMinutes    int  `json:"max_travel_time_minutes"`
	MaxAppointmentsPerDay   int  `json:"max_appointments_per_day"`
	MinBufferMinutes        int  `json:"min_buffer_minutes"`
}

type SchedulingPolicy struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	IsDefault   bool   `gorm:"index" json:"is_default"`
	IsActive    bool   `gorm:"not null" json:"is_active"`

	Weights     PolicyWeights     `gorm:"embedded;embeddedPrefix:weight_" json:"weights"`
	Constraints PolicyConstraints `gorm:"embedded;embeddedPrefix:constraint_" json:"constraints"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
