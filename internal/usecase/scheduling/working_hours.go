package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

type WorkingHoursStore interface {
	GetResource(ctx context.Context, id uint) (*models.Resource, error)
	ListWorkingHours(ctx context.Context, resourceID uint) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, resourceID uint, hours []models.WorkingHours) error
}

// ======================================================
// GET
// ======================================================

type GetWorkingHours struct {
	store WorkingHoursStore
}

func NewGetWorkingHours(store WorkingHoursStore) *GetWorkingHours {
	return &GetWorkingHours{store: store}
}

func (uc *GetWorkingHours) Execute(ctx context.Context, resourceID uint) ([]models.WorkingHours, error) {
	if _, err := uc.store.GetResource(ctx, resourceID); err != nil {
		return nil, domain.NotFoundAs(err, "resource_not_found")
	}
	return uc.store.ListWorkingHours(ctx, resourceID)
}

// ======================================================
// REPLACE
// ======================================================

type ReplaceWorkingHours struct {
	store WorkingHoursStore
	audit *audit.Dispatcher
}

func NewReplaceWorkingHours(store WorkingHoursStore, audit *audit.Dispatcher) *ReplaceWorkingHours {
	return &ReplaceWorkingHours{store: store, audit: audit}
}

// Execute swaps the weekly template. An empty list clears it, which puts the
// resource back on the default business window.
func (uc *ReplaceWorkingHours) Execute(
	ctx context.Context,
	userID *string,
	resourceID uint,
	days []models.WorkingHours,
) ([]models.WorkingHours, error) {

	if _, err := uc.store.GetResource(ctx, resourceID); err != nil {
		return nil, domain.NotFoundAs(err, "resource_not_found")
	}

	seen := map[int]bool{}
	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 || seen[d.Weekday] {
			return nil, httperr.ErrValidation("invalid_weekday")
		}
		seen[d.Weekday] = true

		if !d.Active {
			continue
		}
		if err := validateDay(d); err != nil {
			return nil, err
		}
	}

	if err := uc.store.ReplaceWorkingHours(ctx, resourceID, days); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "working_hours_updated",
		Entity:   "resource",
		EntityID: &resourceID,
		Metadata: map[string]any{"days": len(days)},
	})

	return uc.store.ListWorkingHours(ctx, resourceID)
}

func validateDay(d models.WorkingHours) error {
	start, err1 := time.Parse("15:04", d.StartTime)
	end, err2 := time.Parse("15:04", d.EndTime)
	if err1 != nil || err2 != nil || !end.After(start) {
		return httperr.ErrValidation("invalid_working_hours")
	}

	if d.LunchStart == "" && d.LunchEnd == "" {
		return nil
	}
	ls, err1 := time.Parse("15:04", d.LunchStart)
	le, err2 := time.Parse("15:04", d.LunchEnd)
	if err1 != nil || err2 != nil || !le.After(ls) || ls.Before(start) || le.After(end) {
		return httperr.ErrValidation("invalid_lunch_break")
	}
	return nil
}
