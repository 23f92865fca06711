package scheduling

import (
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

const DefaultPolicyName = "Default Scheduling Policy"

// DefaultPolicy is the baked-in policy created when no active default exists.
func DefaultPolicy() *models.SchedulingPolicy {
	return &models.SchedulingPolicy{
		Name:        DefaultPolicyName,
		Description: "Balanced scheduling with customer preference priority",
		IsDefault:   true,
		IsActive:    true,
		Weights: models.PolicyWeights{
			CustomerPreference:  20,
			SkillMatch:          25,
			TravelDistance:      20,
			ResourceUtilization: 15,
			SameDayCompletion:   10,
			Priority:            10,
		},
		Constraints: models.PolicyConstraints{
			RequireExactSkillMatch:  false,
			RequireSameTerritory:    true,
			AllowOvertimeScheduling: false,
			MaxTravelTimeMinutes:    60,
			MaxAppointmentsPerDay:   8,
			MinBufferMinutes:        15,
		},
	}
}

// Buffer returns the policy's minimum idle time between two appointments.
func Buffer(p *models.SchedulingPolicy) time.Duration {
	if p == nil || p.Constraints.MinBufferMinutes < 0 {
		return 0
	}
	return time.Duration(p.Constraints.MinBufferMinutes) * time.Minute
}
