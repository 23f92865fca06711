package scheduling

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/field-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

// ======================================================
// GET DEFAULT
// ======================================================

type GetDefaultPolicy struct {
	repo domain.PolicyRepository
	log  *zap.Logger
}

func NewGetDefaultPolicy(repo domain.PolicyRepository, log *zap.Logger) *GetDefaultPolicy {
	if log == nil {
		log = zap.NewNop()
	}
	return &GetDefaultPolicy{repo: repo, log: log}
}

// Execute returns the active default policy, creating the built-in one on
// first use.
func (uc *GetDefaultPolicy) Execute(ctx context.Context) (*models.SchedulingPolicy, error) {
	p, err := uc.repo.GetDefault(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load default policy: %w", err)
	}

	p = domain.DefaultPolicy()
	if err := uc.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("create default policy: %w", err)
	}

	uc.log.Info("default scheduling policy created", zap.Uint("policy_id", p.ID))
	return p, nil
}

// Resolve loads the given policy, or the default one when id is nil.
func (uc *GetDefaultPolicy) Resolve(ctx context.Context, id *uint) (*models.SchedulingPolicy, error) {
	if id == nil || *id == 0 {
		return uc.Execute(ctx)
	}
	p, err := uc.repo.GetByID(ctx, *id)
	if err != nil {
		return nil, domain.NotFoundAs(err, "policy_not_found")
	}
	return p, nil
}

// ======================================================
// LIST
// ======================================================

type ListPolicies struct {
	repo domain.PolicyRepository
}

func NewListPolicies(repo domain.PolicyRepository) *ListPolicies {
	return &ListPolicies{repo: repo}
}

func (uc *ListPolicies) Execute(ctx context.Context) ([]models.SchedulingPolicy, error) {
	return uc.repo.List(ctx)
}

// ======================================================
// UPSERT
// ======================================================

type UpsertPolicy struct {
	repo  domain.PolicyRepository
	audit *audit.Dispatcher
}

func NewUpsertPolicy(repo domain.PolicyRepository, audit *audit.Dispatcher) *UpsertPolicy {
	return &UpsertPolicy{repo: repo, audit: audit}
}

func (uc *UpsertPolicy) Execute(
	ctx context.Context,
	userID *string,
	p *models.SchedulingPolicy,
) (*models.SchedulingPolicy, error) {

	if err := validatePolicy(p); err != nil {
		return nil, err
	}

	if p.ID != 0 {
		existing, err := uc.repo.GetByID(ctx, p.ID)
		if err != nil {
			return nil, domain.NotFoundAs(err, "policy_not_found")
		}
		p.CreatedAt = existing.CreatedAt
	}

	if err := uc.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("save policy: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "policy_saved",
		Entity:   "scheduling_policy",
		EntityID: &p.ID,
		Metadata: map[string]any{"is_default": p.IsDefault},
	})

	return p, nil
}

func validatePolicy(p *models.SchedulingPolicy) error {
	if p == nil || p.Name == "" {
		return httperr.ErrValidation("policy_name_required")
	}

	c := p.Constraints
	if c.MinBufferMinutes < 0 || c.MaxAppointmentsPerDay < 0 || c.MaxTravelTimeMinutes < 0 {
		return httperr.ErrValidation("invalid_policy_constraints")
	}

	w := p.Weights
	for _, v := range []float64{
		w.CustomerPreference, w.SkillMatch, w.TravelDistance,
		w.ResourceUtilization, w.SameDayCompletion, w.Priority,
	} {
		if v < 0 {
			return httperr.ErrValidation("invalid_policy_weights")
		}
	}
	return nil
}
