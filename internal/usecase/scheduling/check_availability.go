package scheduling

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
)

type CheckResourceAvailability struct {
	resolver *domain.Resolver
	policies *GetDefaultPolicy
}

func NewCheckResourceAvailability(resolver *domain.Resolver, policies *GetDefaultPolicy) *CheckResourceAvailability {
	return &CheckResourceAvailability{resolver: resolver, policies: policies}
}

// Execute applies the default policy's buffer to existing appointments.
func (uc *CheckResourceAvailability) Execute(
	ctx context.Context,
	resourceID uint,
	start time.Time,
	end time.Time,
) (*domain.AvailabilityResult, error) {

	policy, err := uc.policies.Execute(ctx)
	if err != nil {
		return nil, err
	}

	return uc.resolver.Check(ctx, resourceID, start, end, domain.Buffer(policy), 0)
}
