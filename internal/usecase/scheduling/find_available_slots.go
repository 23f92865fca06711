package scheduling

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/metrics"
)

type FindAvailableSlotsInput struct {
	ResourceID      uint
	EarliestStart   time.Time
	DueDate         *time.Time
	DurationMinutes int
	PolicyID        *uint
	IncludeWeekends bool
	MaxSlots        int
}

type FindAvailableSlots struct {
	finder   *domain.SlotFinder
	policies *GetDefaultPolicy
}

func NewFindAvailableSlots(finder *domain.SlotFinder, policies *GetDefaultPolicy) *FindAvailableSlots {
	return &FindAvailableSlots{finder: finder, policies: policies}
}

// Execute lists graded slots for one resource. Without a due date the
// default 30-day horizon is used.
func (uc *FindAvailableSlots) Execute(ctx context.Context, in FindAvailableSlotsInput) ([]domain.Slot, error) {
	policy, err := uc.policies.Resolve(ctx, in.PolicyID)
	if err != nil {
		return nil, err
	}

	due := in.DueDate
	if due == nil {
		d, err := domain.CalculateDueDate(in.EarliestStart, domain.DueDateDefault, nil)
		if err != nil {
			return nil, err
		}
		due = &d
	}

	timer := prometheus.NewTimer(metrics.SlotSearchDuration)
	defer timer.ObserveDuration()

	return uc.finder.FindSlots(ctx, domain.SlotQuery{
		ResourceID:      in.ResourceID,
		EarliestStart:   in.EarliestStart,
		DueDate:         *due,
		DurationMinutes: in.DurationMinutes,
		Policy:          policy,
		IncludeWeekends: in.IncludeWeekends,
		MaxSlots:        in.MaxSlots,
	})
}
