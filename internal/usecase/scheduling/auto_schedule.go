package scheduling

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/field-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/metrics"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

const (
	DefaultDurationMinutes = 120
	slotsPerCandidate      = 5
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type AutoScheduleInput struct {
	AppointmentID uint
	ResourceID    *uint
	PolicyID      *uint
	UserID        *string
}

type AutoScheduleResult struct {
	Appointment *models.Appointment `json:"appointment"`
	Slot        domain.Slot         `json:"slot"`
	ResourceID  uint                `json:"resource_id"`
}

// ======================================================
// USE CASE
// ======================================================

type AutoScheduleAppointment struct {
	appointments domain.AppointmentRepository
	resources    domain.AvailabilityRepository
	finder       *domain.SlotFinder
	policies     *GetDefaultPolicy
	locker       domain.ResourceLocker
	audit        *audit.Dispatcher
	log          *zap.Logger

	now func() time.Time
}

func NewAutoScheduleAppointment(
	appointments domain.AppointmentRepository,
	resources domain.AvailabilityRepository,
	finder *domain.SlotFinder,
	policies *GetDefaultPolicy,
	locker domain.ResourceLocker,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *AutoScheduleAppointment {
	if log == nil {
		log = zap.NewNop()
	}
	return &AutoScheduleAppointment{
		appointments: appointments,
		resources:    resources,
		finder:       finder,
		policies:     policies,
		locker:       locker,
		audit:        audit,
		log:          log,
		now:          time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *AutoScheduleAppointment) Execute(
	ctx context.Context,
	in AutoScheduleInput,
) (*AutoScheduleResult, error) {

	res, err := uc.execute(ctx, in)
	metrics.AutoScheduleTotal.WithLabelValues(outcome(err)).Inc()
	return res, err
}

func (uc *AutoScheduleAppointment) execute(
	ctx context.Context,
	in AutoScheduleInput,
) (*AutoScheduleResult, error) {

	// --------------------------------------------------
	// Appointment
	// --------------------------------------------------
	ap, err := uc.appointments.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, domain.NotFoundAs(err, "appointment_not_found")
	}

	if err := domain.CanAutoSchedule(domain.AppointmentStatus(ap.Status)); err != nil {
		return nil, err
	}

	workType := ap.WorkOrder.WorkType

	duration := DefaultDurationMinutes
	if workType != nil && workType.EstimatedDurationMin > 0 {
		duration = workType.EstimatedDurationMin
	}

	// --------------------------------------------------
	// Policy
	// --------------------------------------------------
	policy, err := uc.policies.Resolve(ctx, in.PolicyID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Candidates
	// --------------------------------------------------
	candidates, err := uc.candidates(ctx, ap, in.ResourceID, policy, workType)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Search window
	// --------------------------------------------------
	earliest := ap.EarliestStart
	if now := uc.now(); earliest.Before(now) {
		earliest = now
	}

	var due time.Time
	if ap.DueDate != nil {
		due = *ap.DueDate
	} else {
		var days *int
		if workType != nil {
			days = workType.DueDateDays
		}
		due, err = domain.CalculateDueDate(ap.EarliestStart, domain.DueDateDefault, days)
		if err != nil {
			return nil, err
		}
	}
	if due.Before(earliest) {
		return nil, httperr.ErrNoFeasibleSlot("due_date_passed")
	}

	// --------------------------------------------------
	// Best slot across candidates
	// --------------------------------------------------
	var (
		best         *domain.Slot
		bestResource uint
	)
	for _, r := range candidates {
		slots, err := uc.finder.FindSlots(ctx, domain.SlotQuery{
			ResourceID:           r.ID,
			EarliestStart:        earliest,
			DueDate:              due,
			DurationMinutes:      duration,
			Policy:               policy,
			MaxSlots:             slotsPerCandidate,
			ExcludeAppointmentID: ap.ID,
		})
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}
		if best == nil || slots[0].Grade > best.Grade {
			s := slots[0]
			best = &s
			bestResource = r.ID
		}
	}

	if best == nil {
		return nil, httperr.ErrNoFeasibleSlot("no_feasible_slot")
	}

	// --------------------------------------------------
	// Commit under the resource lock
	// --------------------------------------------------
	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, bestResource)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	updated, err := uc.appointments.CommitSchedule(ctx, domain.CommitInput{
		AppointmentID:   ap.ID,
		ResourceID:      bestResource,
		Start:           best.Start,
		End:             best.End,
		DurationMinutes: duration,
		Buffer:          domain.Buffer(policy),
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("appointment auto-scheduled",
		zap.Uint("appointment_id", ap.ID),
		zap.Uint("resource_id", bestResource),
		zap.Time("start", best.Start),
		zap.Int("grade", best.Grade),
	)

	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "appointment_scheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"resource_id": bestResource,
			"start":       best.Start,
			"end":         best.End,
			"grade":       best.Grade,
		},
	})

	return &AutoScheduleResult{
		Appointment: updated,
		Slot:        *best,
		ResourceID:  bestResource,
	}, nil
}

// candidates is the explicit resource when one is given, otherwise the
// active members of the work order's territory.
func (uc *AutoScheduleAppointment) candidates(
	ctx context.Context,
	ap *models.Appointment,
	resourceID *uint,
	policy *models.SchedulingPolicy,
	workType *models.WorkType,
) ([]models.Resource, error) {

	if resourceID != nil && *resourceID != 0 {
		r, err := uc.resources.GetResource(ctx, *resourceID)
		if err != nil {
			return nil, domain.NotFoundAs(err, "resource_not_found")
		}
		if !r.IsActive {
			return nil, httperr.ErrNoCandidateResource("resource_inactive")
		}
		return []models.Resource{*r}, nil
	}

	if ap.WorkOrder.TerritoryID == nil {
		return nil, httperr.ErrNoCandidateResource("no_candidate_resource")
	}

	members, err := uc.appointments.ListTerritoryResources(ctx, *ap.WorkOrder.TerritoryID)
	if err != nil {
		return nil, err
	}

	if policy.Constraints.RequireExactSkillMatch && workType != nil {
		required := workType.Skills()
		filtered := members[:0]
		for _, r := range members {
			if r.HasSkills(required) {
				filtered = append(filtered, r)
			}
		}
		members = filtered
	}

	if len(members) == 0 {
		return nil, httperr.ErrNoCandidateResource("no_candidate_resource")
	}
	return members, nil
}

func outcome(err error) string {
	if err == nil {
		return "scheduled"
	}
	switch httperr.KindOf(err) {
	case httperr.KindNoCandidateResource:
		return "no_candidate"
	case httperr.KindNoFeasibleSlot:
		return "no_slot"
	case httperr.KindConflict:
		return "conflict"
	case httperr.KindValidation, httperr.KindNotFound, httperr.KindInvalidState:
		return "rejected"
	}
	return "error"
}
