package optimization

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

type ApproveOptimization struct {
	repo     domain.RunRepository
	archiver Archiver
	audit    *audit.Dispatcher
	log      *zap.Logger

	now func() time.Time
}

func NewApproveOptimization(
	repo domain.RunRepository,
	archiver Archiver,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *ApproveOptimization {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApproveOptimization{
		repo:     repo,
		archiver: archiver,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// Execute applies a run's suggested changes and completes it. A run that is
// not awaiting approval, or whose appointments moved since the run, is left
// untouched.
func (uc *ApproveOptimization) Execute(
	ctx context.Context,
	runID uint,
	userID string,
) (*models.OptimizationRun, error) {

	if userID == "" {
		return nil, httperr.ErrValidation("approver_required")
	}

	run, err := uc.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, domain.NotFoundAs(err, "run_not_found")
	}

	if err := domain.CanApprove(domain.RunStatus(run.Status)); err != nil {
		return nil, err
	}

	changes, err := domain.DecodeChanges(run.SuggestedChanges)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	approved := *run
	approved.Changes = run.SuggestedChanges
	approved.SuggestedChanges = nil
	approved.Status = string(domain.RunCompleted)
	approved.ApprovedBy = &userID
	approved.ApprovedAt = &now

	if err := uc.repo.TransitionRun(ctx, &approved, domain.RunAwaitingApproval, changes); err != nil {
		return nil, err
	}

	metrics.OptimizationRunsTotal.WithLabelValues(approved.Status).Inc()
	metrics.TravelMinutesSaved.Add(approved.TravelTimeReducedMinutes)

	uc.log.Info("optimization run approved",
		zap.Uint("run_id", approved.ID),
		zap.String("approved_by", userID),
		zap.Int("changes", len(changes)),
	)

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "optimization_run_approved",
		Entity:   "optimization_run",
		EntityID: &approved.ID,
		Metadata: map[string]any{"changes": len(changes)},
	})

	if uc.archiver != nil {
		if err := uc.archiver.Archive(ctx, &approved); err != nil {
			uc.log.Warn("optimization run archive failed", zap.Uint("run_id", approved.ID), zap.Error(err))
		}
	}

	return &approved, nil
}
