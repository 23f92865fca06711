package scheduling

import (
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

// Scheduling itself (NONE -> SCHEDULED) only happens through the
// auto-scheduler; these are the field-side moves.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusNone:       {StatusCanceled},
	StatusScheduled:  {StatusDispatched, StatusCanceled},
	StatusDispatched: {StatusInProgress, StatusScheduled, StatusCanceled},
	StatusInProgress: {StatusCompleted, StatusCannotComplete},
}

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch st := AppointmentStatus(s); st {
	case StatusNone, StatusScheduled, StatusDispatched, StatusInProgress,
		StatusCompleted, StatusCannotComplete, StatusCanceled:
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}

func CanTransition(from, to AppointmentStatus) error {
	if from == "" {
		from = StatusNone
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrInvalidState("invalid_status_transition")
}

// Transition moves ap to status to, stamping completion or cancellation.
func Transition(ap *models.Appointment, to AppointmentStatus, now time.Time) error {
	if err := CanTransition(AppointmentStatus(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusCompleted, StatusCannotComplete:
		ap.CompletedAt = &now
	case StatusCanceled:
		ap.CanceledAt = &now
	}
	return nil
}
