package scheduling

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

// UpdateAppointmentStatus drives an appointment through its field lifecycle.
// Canceling frees the resource's calendar for later searches.
type UpdateAppointmentStatus struct {
	repo  domain.AppointmentRepository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdateAppointmentStatus(repo domain.AppointmentRepository, audit *audit.Dispatcher) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{repo: repo, audit: audit, now: time.Now}
}

func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	userID *string,
	appointmentID uint,
	status string,
) (*models.Appointment, error) {

	to, err := domain.ParseAppointmentStatus(status)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, domain.NotFoundAs(err, "appointment_not_found")
	}

	from := domain.AppointmentStatus(ap.Status)
	if from == "" {
		from = domain.StatusNone
	}
	if err := domain.Transition(ap, to, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, from); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "appointment_" + strings.ToLower(string(to)),
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"from": string(from)},
	})

	return ap, nil
}
