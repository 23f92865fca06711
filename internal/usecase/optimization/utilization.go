package optimization

import (
	"math"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

type usage struct {
	before float64
	after  float64
}

// utilization is the share of available working minutes spent on service
// plus travel, computed for the current routes and for the optimized ones.
// Weekend days only count when the resource has work on them.
func utilization(
	jobs []dayJob,
	results []dayResult,
	snapshots map[uint]*domain.Snapshot,
	resources []models.Resource,
	from time.Time,
	to time.Time,
) usage {

	service := 0
	travelBefore, travelAfter := 0.0, 0.0
	worked := map[workKey]bool{}

	for i, j := range jobs {
		worked[workKey{j.date, j.resource}] = true
		for _, s := range j.stops {
			service += s.DurationMinutes
		}
		travelBefore += results[i].res.OriginalTravelMinutes
		travelAfter += results[i].res.OptimizedTravelMinutes
	}

	available := 0
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		weekend := day.Weekday() == time.Saturday || day.Weekday() == time.Sunday

		for _, r := range resources {
			snap := snapshots[r.ID]
			if snap.AbsentOn(day) {
				continue
			}
			if weekend && !worked[workKey{date, r.ID}] {
				continue
			}
			w, ok := snap.BusinessWindow(day)
			if !ok {
				continue
			}
			minutes := w.Minutes()
			for _, b := range w.Breaks {
				minutes -= b.Minutes()
			}
			available += minutes
		}
	}

	if available <= 0 {
		return usage{}
	}

	return usage{
		before: (float64(service) + travelBefore) / float64(available) * 100,
		after:  (float64(service) + travelAfter) / float64(available) * 100,
	}
}

type workKey struct {
	date     string
	resource uint
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func lower(s string) string {
	return strings.ToLower(s)
}
