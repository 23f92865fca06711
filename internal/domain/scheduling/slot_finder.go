package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

const DefaultMaxSlots = 10

type SlotQuery struct {
	ResourceID           uint
	EarliestStart        time.Time
	DueDate              time.Time
	DurationMinutes      int
	Policy               *models.SchedulingPolicy
	IncludeWeekends      bool
	MaxSlots             int
	ExcludeAppointmentID uint
}

func (q SlotQuery) validate() error {
	if q.DurationMinutes <= 0 {
		return httperr.ErrValidation("invalid_duration")
	}
	if q.EarliestStart.IsZero() || q.DueDate.IsZero() {
		return httperr.ErrValidation("invalid_window")
	}
	if q.DueDate.Before(q.EarliestStart) {
		return httperr.ErrValidation("due_date_before_earliest_start")
	}
	return nil
}

// SlotFinder enumerates feasible slots for one resource.
type SlotFinder struct {
	resolver *Resolver
}

func NewSlotFinder(resolver *Resolver) *SlotFinder {
	return &SlotFinder{resolver: resolver}
}

func (f *SlotFinder) FindSlots(ctx context.Context, q SlotQuery) ([]Slot, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	loc := f.resolver.Location()
	from := StartOfDay(q.EarliestStart.In(loc))

	snap, err := f.resolver.Load(ctx, q.ResourceID, from, q.DueDate, Buffer(q.Policy))
	if err != nil {
		return nil, err
	}

	return FindSlotsIn(snap, q), nil
}

// FindSlotsIn walks the days between earliest start and due date and steps
// candidates through each business window. After every candidate, accepted
// or not, the next one starts buffer minutes after its end. Results are
// ordered by grade, best first, then by start.
func FindSlotsIn(snap *Snapshot, q SlotQuery) []Slot {
	loc := snap.loc
	earliest := q.EarliestStart.In(loc)
	due := q.DueDate.In(loc)
	duration := time.Duration(q.DurationMinutes) * time.Minute
	buffer := Buffer(q.Policy)

	maxPerDay := 0
	if q.Policy != nil {
		maxPerDay = q.Policy.Constraints.MaxAppointmentsPerDay
	}

	maxSlots := q.MaxSlots
	if maxSlots <= 0 {
		maxSlots = DefaultMaxSlots
	}

	slots := []Slot{}

	for day := StartOfDay(earliest); !day.After(due); day = day.AddDate(0, 0, 1) {
		if !q.IncludeWeekends && isWeekend(day) {
			continue
		}

		win, ok := snap.BusinessWindow(day)
		if !ok {
			continue
		}

		if maxPerDay > 0 && snap.CommittedOn(day, q.ExcludeAppointmentID) >= maxPerDay {
			continue
		}

		cur := win.Start
		if earliest.After(cur) {
			cur = earliest
		}

		for {
			end := cur.Add(duration)
			if end.After(win.End) || end.After(due) {
				break
			}

			if !win.blocks(cur, end) &&
				snap.Conflicts(cur, end, buffer, q.ExcludeAppointmentID).IsAvailable {
				slots = append(slots, Slot{
					Start:           cur,
					End:             end,
					DurationMinutes: q.DurationMinutes,
					Grade:           Grade(cur, earliest),
					GapMinutes:      snap.gapBefore(cur, win, buffer, q.ExcludeAppointmentID),
				})
			}

			cur = end.Add(buffer)
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Grade != slots[j].Grade {
			return slots[i].Grade > slots[j].Grade
		}
		return slots[i].Start.Before(slots[j].Start)
	})

	if len(slots) > maxSlots {
		slots = slots[:maxSlots]
	}
	return slots
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
