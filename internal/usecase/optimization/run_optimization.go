package optimization

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/field-scheduler/internal/audit"
	"github.com/BruksfildServices01/field-scheduler/internal/domain/route"
	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/metrics"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

const DefaultWorkers = 4

// Archiver stores a copy of a finished run outside the database.
type Archiver interface {
	Archive(ctx context.Context, run *models.OptimizationRun) error
}

// ======================================================
// INPUT
// ======================================================

// RunOptimizationInput scopes a run to whole days: StartDate and EndDate are
// calendar dates in the engine's zone, both inclusive.
type RunOptimizationInput struct {
	TerritoryID *uint
	StartDate   time.Time
	EndDate     time.Time
	RunType     string
	AutoApply   bool
	UserID      *string
}

// ======================================================
// USE CASE
// ======================================================

type RunOptimization struct {
	repo      domain.RunRepository
	optimizer *route.Optimizer
	archiver  Archiver
	audit     *audit.Dispatcher
	log       *zap.Logger
	loc       *time.Location
	workers   int

	now func() time.Time
}

func NewRunOptimization(
	repo domain.RunRepository,
	optimizer *route.Optimizer,
	archiver Archiver,
	audit *audit.Dispatcher,
	log *zap.Logger,
	loc *time.Location,
	workers int,
) *RunOptimization {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &RunOptimization{
		repo:      repo,
		optimizer: optimizer,
		archiver:  archiver,
		audit:     audit,
		log:       log,
		loc:       loc,
		workers:   workers,
		now:       time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute runs to completion or failure once the run row exists; caller
// cancellation does not abort it.
func (uc *RunOptimization) Execute(
	ctx context.Context,
	in RunOptimizationInput,
) (*models.OptimizationRun, error) {

	runType, err := domain.ParseRunType(in.RunType)
	if err != nil {
		return nil, err
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || in.EndDate.Before(in.StartDate) {
		return nil, httperr.ErrValidation("invalid_date_range")
	}

	ctx = context.WithoutCancel(ctx)
	started := uc.now()

	from := domain.StartOfDay(in.StartDate.In(uc.loc))
	to := domain.StartOfDay(in.EndDate.In(uc.loc)).AddDate(0, 0, 1)

	run := &models.OptimizationRun{
		RunDate:     started,
		RunType:     string(runType),
		Status:      string(domain.RunRunning),
		TerritoryID: in.TerritoryID,
		StartDate:   from,
		EndDate:     to.AddDate(0, 0, -1),
		AutoApply:   in.AutoApply,
	}
	if err := uc.repo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create optimization run: %w", err)
	}

	uc.log.Info("optimization run started",
		zap.Uint("run_id", run.ID),
		zap.String("run_type", run.RunType),
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Bool("auto_apply", in.AutoApply),
	)

	changes, err := uc.optimize(ctx, run, from, to)
	if err != nil {
		return run, uc.fail(ctx, run, started, err)
	}

	raw, err := json.Marshal(changes)
	if err != nil {
		return run, uc.fail(ctx, run, started, err)
	}

	run.ExecutionTimeMs = uc.now().Sub(started).Milliseconds()

	applied := changes
	if in.AutoApply {
		run.Status = string(domain.RunCompleted)
		run.Changes = datatypes.JSON(raw)
	} else {
		run.Status = string(domain.RunAwaitingApproval)
		run.SuggestedChanges = datatypes.JSON(raw)
		applied = nil
	}

	if err := uc.repo.TransitionRun(ctx, run, domain.RunRunning, applied); err != nil {
		return run, uc.fail(ctx, run, started, err)
	}

	metrics.OptimizationRunsTotal.WithLabelValues(run.Status).Inc()
	metrics.OptimizationRunDuration.Observe(float64(run.ExecutionTimeMs) / 1000)
	if in.AutoApply {
		metrics.TravelMinutesSaved.Add(run.TravelTimeReducedMinutes)
	}

	uc.log.Info("optimization run finished",
		zap.Uint("run_id", run.ID),
		zap.String("status", run.Status),
		zap.Int("changes", len(changes)),
		zap.Float64("travel_reduced_min", run.TravelTimeReducedMinutes),
		zap.Int64("execution_ms", run.ExecutionTimeMs),
	)

	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "optimization_run_" + lower(run.Status),
		Entity:   "optimization_run",
		EntityID: &run.ID,
		Metadata: map[string]any{"changes": len(changes), "auto_apply": in.AutoApply},
	})

	uc.archive(ctx, run)
	return run, nil
}

// fail records the run as FAILED and hands back the original error.
func (uc *RunOptimization) fail(
	ctx context.Context,
	run *models.OptimizationRun,
	started time.Time,
	cause error,
) error {

	run.Status = string(domain.RunFailed)
	run.ErrorMessage = cause.Error()
	run.ExecutionTimeMs = uc.now().Sub(started).Milliseconds()
	run.Changes = nil
	run.SuggestedChanges = nil

	if err := uc.repo.TransitionRun(ctx, run, domain.RunRunning, nil); err != nil {
		uc.log.Error("could not mark optimization run failed",
			zap.Uint("run_id", run.ID),
			zap.Error(err),
		)
	}

	metrics.OptimizationRunsTotal.WithLabelValues(run.Status).Inc()
	uc.log.Error("optimization run failed", zap.Uint("run_id", run.ID), zap.Error(cause))

	uc.audit.Dispatch(audit.Event{
		Action:   "optimization_run_failed",
		Entity:   "optimization_run",
		EntityID: &run.ID,
		Metadata: map[string]any{"error": cause.Error()},
	})

	uc.archive(ctx, run)
	return cause
}

func (uc *RunOptimization) archive(ctx context.Context, run *models.OptimizationRun) {
	if uc.archiver == nil || !domain.IsTerminal(domain.RunStatus(run.Status)) {
		return
	}
	if err := uc.archiver.Archive(ctx, run); err != nil {
		uc.log.Warn("optimization run archive failed", zap.Uint("run_id", run.ID), zap.Error(err))
	}
}

// ======================================================
// ROUTE PASSES
// ======================================================

type dayJob struct {
	date     string
	resource uint
	stops    []route.Stop
}

type dayResult struct {
	res route.Result
}

// optimize fills the run's counters and returns the concatenated changes.
func (uc *RunOptimization) optimize(
	ctx context.Context,
	run *models.OptimizationRun,
	from time.Time,
	to time.Time,
) ([]domain.ScheduleChange, error) {

	appointments, err := uc.repo.ListAppointmentsForOptimization(ctx, run.TerritoryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	resources, err := uc.repo.ListActiveResources(ctx, run.TerritoryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].ID < resources[j].ID })

	run.AppointmentsConsidered = len(appointments)
	run.ResourcesConsidered = len(resources)

	// date -> resource -> stops
	byDay := map[string]map[uint][]route.Stop{}
	for _, ap := range appointments {
		rid := ap.PrimaryResourceID()
		if rid == 0 || ap.ScheduledStart == nil {
			continue
		}
		date := ap.ScheduledStart.In(uc.loc).Format("2006-01-02")
		if byDay[date] == nil {
			byDay[date] = map[uint][]route.Stop{}
		}
		byDay[date][rid] = append(byDay[date][rid], stopOf(ap, rid))
	}

	snapshots := make(map[uint]*domain.Snapshot, len(resources))
	for _, r := range resources {
		snapshots[r.ID] = domain.NewSnapshot(r.ID, uc.loc, nil, r.Absences, r.Capacities, r.WorkingHours)
	}

	var jobs []dayJob
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		for _, r := range resources {
			if snapshots[r.ID].AbsentOn(day) {
				continue
			}
			stops := byDay[date][r.ID]
			if len(stops) == 0 {
				continue
			}
			sort.SliceStable(stops, func(i, j int) bool {
				if !stops[i].Start.Equal(stops[j].Start) {
					return stops[i].Start.Before(stops[j].Start)
				}
				return stops[i].AppointmentID < stops[j].AppointmentID
			})
			jobs = append(jobs, dayJob{date: date, resource: r.ID, stops: stops})
		}
	}

	results := make([]dayResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := uc.optimizer.Optimize(gctx, job.stops)
			if err != nil {
				return fmt.Errorf("route pass %s resource %d: %w", job.date, job.resource, err)
			}
			results[i].res = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	changes := []domain.ScheduleChange{}
	optimized := map[uint]bool{}
	rescheduled := map[uint]bool{}
	travelReduced := 0.0

	for _, r := range results {
		if !r.res.Changed() {
			continue
		}
		for _, id := range r.res.Order {
			optimized[id] = true
		}
		for _, c := range r.res.Changes {
			rescheduled[c.AppointmentID] = true
		}
		travelReduced += r.res.TimeSaved
		changes = append(changes, r.res.Changes...)
	}

	run.AppointmentsOptimized = len(optimized)
	run.AppointmentsRescheduled = len(rescheduled)
	run.TravelTimeReducedMinutes = round2(travelReduced)

	u := utilization(jobs, results, snapshots, resources, from, to)
	run.UtilizationBeforePct = round2(u.before)
	run.UtilizationAfterPct = round2(u.after)
	run.UtilizationImprovedPct = round2(u.before - u.after)

	return changes, nil
}

func stopOf(ap models.Appointment, resourceID uint) route.Stop {
	postal := ap.PostalCode
	if postal == "" {
		postal = ap.WorkOrder.PostalCode
	}

	duration := ap.DurationMinutes
	if duration <= 0 && ap.ScheduledEnd != nil {
		duration = int(ap.ScheduledEnd.Sub(*ap.ScheduledStart).Minutes())
	}

	return route.Stop{
		AppointmentID:   ap.ID,
		ResourceID:      resourceID,
		PostalCode:      postal,
		Latitude:        ap.Latitude,
		Longitude:       ap.Longitude,
		Start:           *ap.ScheduledStart,
		EarliestStart:   ap.EarliestStart,
		DurationMinutes: duration,
	}
}
