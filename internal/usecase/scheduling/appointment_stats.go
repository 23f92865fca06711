package scheduling

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
)

type AppointmentStatusCounts struct {
	repo domain.AppointmentRepository
}

func NewAppointmentStatusCounts(repo domain.AppointmentRepository) *AppointmentStatusCounts {
	return &AppointmentStatusCounts{repo: repo}
}

// Execute counts appointments scheduled in [from, to) per status. Every
// known status is present in the result, zero or not.
func (uc *AppointmentStatusCounts) Execute(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	if !to.After(from) {
		return nil, httperr.ErrValidation("invalid_date_range")
	}

	counts, err := uc.repo.CountAppointmentsByStatus(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(counts))
	for _, s := range []domain.AppointmentStatus{
		domain.StatusNone, domain.StatusScheduled, domain.StatusDispatched,
		domain.StatusInProgress, domain.StatusCompleted,
		domain.StatusCannotComplete, domain.StatusCanceled,
	} {
		out[string(s)] = 0
	}
	for k, v := range counts {
		out[k] = v
	}
	return out, nil
}
