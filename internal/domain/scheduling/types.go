package scheduling

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

// Slot is a candidate interval. It lives only in memory.
type Slot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	Grade           int       `json:"grade"`
	GapMinutes      int       `json:"gap_minutes"`
}

// ScheduleChange is one appointment move proposed or applied by a run.
type ScheduleChange struct {
	AppointmentID   uint      `json:"appointment_id"`
	ResourceID      uint      `json:"resource_id"`
	OriginalStart   time.Time `json:"original_start"`
	NewStart        time.Time `json:"new_start"`
	DurationMinutes int       `json:"duration_minutes"`
	Reason          string    `json:"reason"`
}

func (c ScheduleChange) NewEnd() time.Time {
	return c.NewStart.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

type AvailabilityResult struct {
	IsAvailable             bool                     `json:"is_available"`
	ConflictingAppointments []models.Appointment     `json:"conflicting_appointments"`
	ConflictingAbsences     []models.ResourceAbsence `json:"conflicting_absences"`
}

// Interval is a half-open [Start, End) span.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(start, end time.Time) bool {
	return start.Before(i.End) && end.After(i.Start)
}

func (i Interval) Minutes() int {
	return int(i.End.Sub(i.Start).Minutes())
}

// DecodeChanges reads a stored change list. Empty input yields no changes.
func DecodeChanges(raw []byte) ([]ScheduleChange, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out []ScheduleChange
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode schedule changes: %w", err)
	}
	return out, nil
}
