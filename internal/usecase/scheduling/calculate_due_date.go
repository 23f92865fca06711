package scheduling

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

// WorkTypeLookup resolves a work type for its due-date override.
type WorkTypeLookup interface {
	GetWorkType(ctx context.Context, id uint) (*models.WorkType, error)
}

type CalculateDueDateInput struct {
	EarliestStart time.Time
	Mode          domain.DueDateMode
	WorkTypeID    *uint
}

type CalculateDueDate struct {
	workTypes WorkTypeLookup
}

func NewCalculateDueDate(workTypes WorkTypeLookup) *CalculateDueDate {
	return &CalculateDueDate{workTypes: workTypes}
}

func (uc *CalculateDueDate) Execute(ctx context.Context, in CalculateDueDateInput) (time.Time, error) {
	if in.EarliestStart.IsZero() {
		return time.Time{}, httperr.ErrValidation("earliest_start_required")
	}

	var days *int
	if in.WorkTypeID != nil {
		wt, err := uc.workTypes.GetWorkType(ctx, *in.WorkTypeID)
		if err != nil {
			return time.Time{}, domain.NotFoundAs(err, "work_type_not_found")
		}
		days = wt.DueDateDays
	}

	return domain.CalculateDueDate(in.EarliestStart, in.Mode, days)
}
