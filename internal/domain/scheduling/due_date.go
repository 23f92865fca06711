package scheduling

import (
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
)

type DueDateMode string

const (
	DueDateDefault DueDateMode = "default"
	DueDateSameDay DueDateMode = "same_day"
)

const (
	DefaultDueDays  = 30
	SameDayDueHours = 22
)

// CalculateDueDate derives a due date from earliestStart. A positive
// workTypeDays overrides the default day count; same_day mode wins over both.
func CalculateDueDate(earliestStart time.Time, mode DueDateMode, workTypeDays *int) (time.Time, error) {
	switch mode {
	case DueDateSameDay:
		return earliestStart.Add(SameDayDueHours * time.Hour), nil
	case DueDateDefault, "":
		days := DefaultDueDays
		if workTypeDays != nil && *workTypeDays > 0 {
			days = *workTypeDays
		}
		return earliestStart.AddDate(0, 0, days), nil
	}
	return time.Time{}, httperr.ErrValidation("invalid_due_date_mode")
}
