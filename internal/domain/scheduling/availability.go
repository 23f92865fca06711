package scheduling

import (
	"context"
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

const (
	DefaultDayStartHour = 8
	DefaultDayEndHour   = 18

	dateLayout = "2006-01-02"
)

// Window is a resource's business window on one day. Breaks inside the
// window (lunch) block slots the same way absences do.
type Window struct {
	Interval
	Breaks []Interval
}

func (w Window) blocks(start, end time.Time) bool {
	for _, b := range w.Breaks {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// Snapshot is the calendar of one resource over a date window, loaded once
// and queried many times by the slot finder and the optimizer.
type Snapshot struct {
	ResourceID   uint
	Appointments []models.Appointment
	Absences     []models.ResourceAbsence

	capacities map[string]models.ResourceCapacity
	weekly     map[int]models.WorkingHours
	loc        *time.Location
}

func NewSnapshot(
	resourceID uint,
	loc *time.Location,
	appointments []models.Appointment,
	absences []models.ResourceAbsence,
	capacities []models.ResourceCapacity,
	hours []models.WorkingHours,
) *Snapshot {
	s := &Snapshot{
		ResourceID:   resourceID,
		Appointments: appointments,
		Absences:     absences,
		capacities:   make(map[string]models.ResourceCapacity, len(capacities)),
		weekly:       make(map[int]models.WorkingHours, len(hours)),
		loc:          loc,
	}
	// Capacity dates are calendar dates; read them in their stored zone.
	for _, c := range capacities {
		s.capacities[c.Date.Format(dateLayout)] = c
	}
	for _, h := range hours {
		s.weekly[h.Weekday] = h
	}
	return s
}

// BusinessWindow resolves the working window of day: a dated capacity wins,
// then weekly working hours, then the 08:00-18:00 default. ok is false when
// the resource does not work that day.
func (s *Snapshot) BusinessWindow(day time.Time) (Window, bool) {
	day = StartOfDay(day.In(s.loc))

	if c, found := s.capacities[day.Format(dateLayout)]; found {
		from, err1 := atClock(day, c.AvailableFrom)
		to, err2 := atClock(day, c.AvailableTo)
		if err1 != nil || err2 != nil || !to.After(from) {
			return Window{}, false
		}
		return Window{Interval: Interval{Start: from, End: to}}, true
	}

	if len(s.weekly) > 0 {
		wh, found := s.weekly[int(day.Weekday())]
		if !found || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
			return Window{}, false
		}
		from, err1 := atClock(day, wh.StartTime)
		to, err2 := atClock(day, wh.EndTime)
		if err1 != nil || err2 != nil || !to.After(from) {
			return Window{}, false
		}
		w := Window{Interval: Interval{Start: from, End: to}}
		if wh.LunchStart != "" && wh.LunchEnd != "" {
			ls, err1 := atClock(day, wh.LunchStart)
			le, err2 := atClock(day, wh.LunchEnd)
			if err1 == nil && err2 == nil && le.After(ls) {
				w.Breaks = append(w.Breaks, Interval{Start: ls, End: le})
			}
		}
		return w, true
	}

	return Window{Interval: Interval{
		Start: atHour(day, DefaultDayStartHour),
		End:   atHour(day, DefaultDayEndHour),
	}}, true
}

// Conflicts checks [start, end) against the snapshot. Appointments block
// their scheduled interval extended by buffer at the end; absences block
// their raw interval.
func (s *Snapshot) Conflicts(start, end time.Time, buffer time.Duration, exclude uint) AvailabilityResult {
	res := AvailabilityResult{
		ConflictingAppointments: []models.Appointment{},
		ConflictingAbsences:     []models.ResourceAbsence{},
	}
	for _, ap := range s.Appointments {
		iv, ok := blockedInterval(ap, buffer)
		if !ok || ap.ID == exclude {
			continue
		}
		if iv.Overlaps(start, end) {
			res.ConflictingAppointments = append(res.ConflictingAppointments, ap)
		}
	}
	for _, ab := range s.Absences {
		if (Interval{Start: ab.Start, End: ab.End}).Overlaps(start, end) {
			res.ConflictingAbsences = append(res.ConflictingAbsences, ab)
		}
	}
	res.IsAvailable = len(res.ConflictingAppointments) == 0 && len(res.ConflictingAbsences) == 0
	return res
}

// CommittedOn counts blocking appointments starting on day.
func (s *Snapshot) CommittedOn(day time.Time, exclude uint) int {
	from := StartOfDay(day.In(s.loc))
	to := from.AddDate(0, 0, 1)
	n := 0
	for _, ap := range s.Appointments {
		iv, ok := blockedInterval(ap, 0)
		if !ok || ap.ID == exclude {
			continue
		}
		if !iv.Start.Before(from) && iv.Start.Before(to) {
			n++
		}
	}
	return n
}

// AbsentOn reports whether any absence touches day.
func (s *Snapshot) AbsentOn(day time.Time) bool {
	from := StartOfDay(day.In(s.loc))
	to := from.AddDate(0, 0, 1)
	for _, ab := range s.Absences {
		if (Interval{Start: ab.Start, End: ab.End}).Overlaps(from, to) {
			return true
		}
	}
	return false
}

// gapBefore is the idle time between the last busy boundary and start.
func (s *Snapshot) gapBefore(start time.Time, w Window, buffer time.Duration, exclude uint) int {
	edge := w.Start
	for _, ap := range s.Appointments {
		iv, ok := blockedInterval(ap, buffer)
		if !ok || ap.ID == exclude {
			continue
		}
		if !iv.End.After(start) && iv.End.After(edge) {
			edge = iv.End
		}
	}
	for _, b := range w.Breaks {
		if !b.End.After(start) && b.End.After(edge) {
			edge = b.End
		}
	}
	if edge.After(start) {
		return 0
	}
	return int(start.Sub(edge).Minutes())
}

func blockedInterval(ap models.Appointment, buffer time.Duration) (Interval, bool) {
	if !BlocksCalendar(AppointmentStatus(ap.Status)) || ap.ScheduledStart == nil {
		return Interval{}, false
	}
	end := ap.ScheduledStart.Add(time.Duration(ap.DurationMinutes) * time.Minute)
	if ap.ScheduledEnd != nil {
		end = *ap.ScheduledEnd
	}
	return Interval{Start: *ap.ScheduledStart, End: end.Add(buffer)}, true
}

// ===============================
// Resolver
// ===============================

// Resolver answers availability questions for one resource at a time. It is
// read-only.
type Resolver struct {
	repo AvailabilityRepository
	loc  *time.Location
}

func NewResolver(repo AvailabilityRepository, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{repo: repo, loc: loc}
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Load fetches the resource calendar intersecting [from, to]. Appointments
// ending up to buffer before from are included since their buffer may still
// reach into the window.
func (r *Resolver) Load(
	ctx context.Context,
	resourceID uint,
	from time.Time,
	to time.Time,
	buffer time.Duration,
) (*Snapshot, error) {

	if _, err := r.repo.GetResource(ctx, resourceID); err != nil {
		return nil, NotFoundAs(err, "resource_not_found")
	}

	appointments, err := r.repo.ListAppointmentsForResource(ctx, resourceID, from.Add(-buffer), to)
	if err != nil {
		return nil, err
	}

	absences, err := r.repo.ListAbsences(ctx, resourceID, from, to)
	if err != nil {
		return nil, err
	}

	capacities, err := r.repo.ListCapacities(ctx, resourceID, from.AddDate(0, 0, -1), to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	hours, err := r.repo.ListWorkingHours(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	return NewSnapshot(resourceID, r.loc, appointments, absences, capacities, hours), nil
}

// Check is the point-in-time conflict query for [start, end).
func (r *Resolver) Check(
	ctx context.Context,
	resourceID uint,
	start time.Time,
	end time.Time,
	buffer time.Duration,
	exclude uint,
) (*AvailabilityResult, error) {

	if !end.After(start) {
		return nil, httperr.ErrValidation("invalid_interval")
	}

	snap, err := r.Load(ctx, resourceID, start, end, buffer)
	if err != nil {
		return nil, err
	}

	res := snap.Conflicts(start, end, buffer, exclude)
	return &res, nil
}

// ===============================
// Time helpers
// ===============================

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// atHour is the wall-clock hour on day, so DST changes do not shift it.
func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

func atClock(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}
