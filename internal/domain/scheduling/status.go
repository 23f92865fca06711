package scheduling

import "github.com/BruksfildServices01/field-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type AppointmentStatus string

const (
	StatusNone           AppointmentStatus = "NONE"
	StatusScheduled      AppointmentStatus = "SCHEDULED"
	StatusDispatched     AppointmentStatus = "DISPATCHED"
	StatusInProgress     AppointmentStatus = "IN_PROGRESS"
	StatusCompleted      AppointmentStatus = "COMPLETED"
	StatusCannotComplete AppointmentStatus = "CANNOT_COMPLETE"
	StatusCanceled       AppointmentStatus = "CANCELED"
)

// BlocksCalendar reports whether an appointment in this status occupies its
// resource's time.
func BlocksCalendar(s AppointmentStatus) bool {
	return s != StatusCanceled && s != StatusCannotComplete
}

// NonBlockingStatuses lists the statuses ignored by conflict checks.
func NonBlockingStatuses() []string {
	return []string{string(StatusCanceled), string(StatusCannotComplete)}
}

// OptimizableStatuses lists the statuses an optimization run may move.
func OptimizableStatuses() []string {
	return []string{string(StatusScheduled), string(StatusNone)}
}

// CanAutoSchedule allows first-time scheduling and rescheduling only.
func CanAutoSchedule(current AppointmentStatus) error {
	if current != StatusNone && current != StatusScheduled && current != "" {
		return httperr.ErrInvalidState("appointment_not_schedulable")
	}
	return nil
}

// ===============================
// Optimization Run Status
// ===============================

type RunStatus string

const (
	RunRunning          RunStatus = "RUNNING"
	RunCompleted        RunStatus = "COMPLETED"
	RunAwaitingApproval RunStatus = "AWAITING_APPROVAL"
	RunFailed           RunStatus = "FAILED"
)

type RunType string

const (
	RunManual    RunType = "MANUAL"
	RunScheduled RunType = "SCHEDULED"
)

func ParseRunType(s string) (RunType, error) {
	switch RunType(s) {
	case RunManual, RunScheduled:
		return RunType(s), nil
	case "":
		return RunManual, nil
	}
	return "", httperr.ErrValidation("invalid_run_type")
}

// CanApprove guards the only human transition of a run.
func CanApprove(current RunStatus) error {
	if current != RunAwaitingApproval {
		return httperr.ErrInvalidState("run_not_awaiting_approval")
	}
	return nil
}

// IsTerminal reports whether no further transition can leave the status.
func IsTerminal(s RunStatus) bool {
	return s == RunCompleted || s == RunFailed
}
