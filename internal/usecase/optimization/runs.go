package optimization

import (
	"bytes"
	"context"
	"time"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/export"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ======================================================
// GET
// ======================================================

type GetRun struct {
	repo domain.RunRepository
}

func NewGetRun(repo domain.RunRepository) *GetRun {
	return &GetRun{repo: repo}
}

func (uc *GetRun) Execute(ctx context.Context, id uint) (*models.OptimizationRun, error) {
	run, err := uc.repo.GetRun(ctx, id)
	if err != nil {
		return nil, domain.NotFoundAs(err, "run_not_found")
	}
	return run, nil
}

// ======================================================
// LIST
// ======================================================

type ListRunsInput struct {
	Status string
	Page   int
	Limit  int
}

type ListRunsOutput struct {
	Runs  []models.OptimizationRun `json:"runs"`
	Total int64                    `json:"total"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
}

type ListRuns struct {
	repo domain.RunRepository
}

func NewListRuns(repo domain.RunRepository) *ListRuns {
	return &ListRuns{repo: repo}
}

func (uc *ListRuns) Execute(ctx context.Context, in ListRunsInput) (*ListRunsOutput, error) {
	switch domain.RunStatus(in.Status) {
	case "", domain.RunRunning, domain.RunCompleted, domain.RunAwaitingApproval, domain.RunFailed:
	default:
		return nil, httperr.ErrValidation("invalid_run_status")
	}

	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > MaxPageSize {
		in.Limit = DefaultPageSize
	}

	runs, total, err := uc.repo.ListRuns(ctx, in.Status, in.Limit, (in.Page-1)*in.Limit)
	if err != nil {
		return nil, err
	}

	return &ListRunsOutput{Runs: runs, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// ======================================================
// REPORT
// ======================================================

type ExportRunReport struct {
	repo domain.RunRepository
	loc  *time.Location
}

func NewExportRunReport(repo domain.RunRepository, loc *time.Location) *ExportRunReport {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportRunReport{repo: repo, loc: loc}
}

func (uc *ExportRunReport) Execute(ctx context.Context, id uint) (*bytes.Buffer, error) {
	run, err := uc.repo.GetRun(ctx, id)
	if err != nil {
		return nil, domain.NotFoundAs(err, "run_not_found")
	}
	return export.RunWorkbook(run, uc.loc)
}
