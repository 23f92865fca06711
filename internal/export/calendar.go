package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

const productID = "-//field-scheduler//resource calendar//EN"

// ResourceCalendar renders a resource's scheduled appointments as an
// iCalendar feed. Appointments without a scheduled start are left out.
func ResourceCalendar(resource *models.Resource, appointments []models.Appointment, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(resource.Name)

	for _, ap := range appointments {
		if ap.ScheduledStart == nil {
			continue
		}
		end := ap.ScheduledStart.Add(time.Duration(ap.DurationMinutes) * time.Minute)
		if ap.ScheduledEnd != nil {
			end = *ap.ScheduledEnd
		}

		ev := cal.AddEvent(fmt.Sprintf("appointment-%d@field-scheduler", ap.ID))
		ev.SetDtStampTime(stamp.UTC())
		ev.SetStartAt(ap.ScheduledStart.UTC())
		ev.SetEndAt(end.UTC())
		ev.SetSummary(summary(ap))
		if loc := address(ap); loc != "" {
			ev.SetLocation(loc)
		}
		ev.SetDescription("Status: " + ap.Status)
	}

	return cal.Serialize()
}

func summary(ap models.Appointment) string {
	name := ap.AppointmentNumber
	if name == "" {
		name = fmt.Sprintf("Appointment %d", ap.ID)
	}
	if ap.WorkOrder.WorkType != nil && ap.WorkOrder.WorkType.Name != "" {
		return name + " - " + ap.WorkOrder.WorkType.Name
	}
	return name
}

func address(ap models.Appointment) string {
	var parts []string
	for _, p := range []string{ap.Street, ap.City, ap.State, ap.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
