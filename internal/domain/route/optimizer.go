package route

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
)

const (
	TravelBuffer = 15 * time.Minute

	ReasonReordered = "route_optimization"
	ReasonShifted   = "route_optimization_shift"

	// savings below this are float noise, not a shorter route
	minSavingMinutes = 1e-9
)

// Stop is one appointment on a resource's day.
type Stop struct {
	AppointmentID   uint
	ResourceID      uint
	PostalCode      string
	Latitude        *float64
	Longitude       *float64
	Start           time.Time
	EarliestStart   time.Time
	DurationMinutes int
}

type Result struct {
	Order                  []uint
	OriginalTravelMinutes  float64
	OptimizedTravelMinutes float64
	TimeSaved              float64
	Changes                []scheduling.ScheduleChange
}

// Changed reports whether the pass produced anything to apply.
func (r Result) Changed() bool {
	return len(r.Changes) > 0
}

type Optimizer struct {
	lookup CoordinateLookup
	log    *zap.Logger
}

func NewOptimizer(lookup CoordinateLookup, log *zap.Logger) *Optimizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Optimizer{lookup: lookup, log: log}
}

// Optimize reorders one resource's day with a nearest-neighbour pass starting
// from the first stop. Stops are expected in their current scheduled order.
// Changes are emitted only when the new order is strictly shorter.
func (o *Optimizer) Optimize(ctx context.Context, stops []Stop) (Result, error) {
	if len(stops) < 2 {
		return Result{Order: ids(stops)}, nil
	}

	coords := make([]Coordinate, len(stops))
	for i, s := range stops {
		c, err := o.coordinateOf(ctx, s)
		if err != nil {
			return Result{}, fmt.Errorf("coordinates for appointment %d: %w", s.AppointmentID, err)
		}
		coords[i] = c
	}

	order := nearestNeighbour(coords)

	res := Result{
		OriginalTravelMinutes:  travel(coords, identity(len(coords))),
		OptimizedTravelMinutes: travel(coords, order),
	}
	res.TimeSaved = res.OriginalTravelMinutes - res.OptimizedTravelMinutes

	if res.TimeSaved <= minSavingMinutes {
		res.TimeSaved = 0
		res.OptimizedTravelMinutes = res.OriginalTravelMinutes
		res.Order = ids(stops)
		return res, nil
	}

	res.Order = make([]uint, len(order))
	for i, idx := range order {
		res.Order[i] = stops[idx].AppointmentID
	}
	res.Changes = chain(stops, order)

	o.log.Debug("route reordered",
		zap.Uint("resource_id", stops[0].ResourceID),
		zap.Int("stops", len(stops)),
		zap.Float64("time_saved_min", res.TimeSaved),
	)

	return res, nil
}

func (o *Optimizer) coordinateOf(ctx context.Context, s Stop) (Coordinate, error) {
	if s.Latitude != nil && s.Longitude != nil {
		return Coordinate{Lat: *s.Latitude, Lng: *s.Longitude}, nil
	}
	return o.lookup.CoordinatesFor(ctx, s.PostalCode)
}

// chain lays the new order out back to back from the first original start,
// each stop beginning TravelBuffer after the previous one ends but never
// before its own earliest start. Stops that keep both position and start are
// left alone.
func chain(stops []Stop, order []int) []scheduling.ScheduleChange {
	changes := []scheduling.ScheduleChange{}

	cursor := stops[0].Start
	for pos, idx := range order {
		s := stops[idx]
		start := cursor
		if start.Before(s.EarliestStart) {
			start = s.EarliestStart
		}
		cursor = start.Add(time.Duration(s.DurationMinutes)*time.Minute + TravelBuffer)

		moved := idx != pos
		if !moved && start.Equal(s.Start) {
			continue
		}

		reason := ReasonShifted
		if moved {
			reason = ReasonReordered
		}

		changes = append(changes, scheduling.ScheduleChange{
			AppointmentID:   s.AppointmentID,
			ResourceID:      s.ResourceID,
			OriginalStart:   s.Start,
			NewStart:        start,
			DurationMinutes: s.DurationMinutes,
			Reason:          reason,
		})
	}
	return changes
}

func nearestNeighbour(coords []Coordinate) []int {
	visited := make([]bool, len(coords))
	order := make([]int, 0, len(coords))

	cur := 0
	visited[0] = true
	order = append(order, 0)

	for len(order) < len(coords) {
		next := -1
		best := 0.0
		for i, c := range coords {
			if visited[i] {
				continue
			}
			d := DistanceMiles(coords[cur], c)
			if next < 0 || d < best {
				next, best = i, d
			}
		}
		visited[next] = true
		order = append(order, next)
		cur = next
	}
	return order
}

func travel(coords []Coordinate, order []int) float64 {
	total := 0.0
	for i := 1; i < len(order); i++ {
		total += TravelMinutes(DistanceMiles(coords[order[i-1]], coords[order[i]]))
	}
	return total
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func ids(stops []Stop) []uint {
	out := make([]uint, len(stops))
	for i, s := range stops {
		out[i] = s.AppointmentID
	}
	return out
}
