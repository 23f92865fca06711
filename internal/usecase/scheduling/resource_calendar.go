package scheduling

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/export"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
)

// MaxCalendarDays bounds one calendar export.
const MaxCalendarDays = 92

type ExportResourceCalendar struct {
	repo domain.AvailabilityRepository
	now  func() time.Time
}

func NewExportResourceCalendar(repo domain.AvailabilityRepository) *ExportResourceCalendar {
	return &ExportResourceCalendar{repo: repo, now: time.Now}
}

// Execute renders the resource's blocking appointments in [from, to) as an
// iCalendar document.
func (uc *ExportResourceCalendar) Execute(ctx context.Context, resourceID uint, from, to time.Time) (string, error) {
	if !to.After(from) || to.Sub(from) > MaxCalendarDays*24*time.Hour {
		return "", httperr.ErrValidation("invalid_date_range")
	}

	res, err := uc.repo.GetResource(ctx, resourceID)
	if err != nil {
		return "", domain.NotFoundAs(err, "resource_not_found")
	}

	appts, err := uc.repo.ListAppointmentsForResource(ctx, resourceID, from, to)
	if err != nil {
		return "", err
	}

	return export.ResourceCalendar(res, appts, uc.now()), nil
}
