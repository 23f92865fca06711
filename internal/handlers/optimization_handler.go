package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/field-scheduler/internal/dto"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/field-scheduler/internal/middleware"
	"github.com/BruksfildServices01/field-scheduler/internal/timezone"
	"github.com/BruksfildServices01/field-scheduler/internal/usecase/optimization"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ======================================================
// HANDLER
// ======================================================

type OptimizationUseCases struct {
	Run     *optimization.RunOptimization
	Approve *optimization.ApproveOptimization
	Get     *optimization.GetRun
	List    *optimization.ListRuns
	Report  *optimization.ExportRunReport
}

type OptimizationHandler struct {
	cases OptimizationUseCases
	loc   *time.Location
}

func NewOptimizationHandler(useCases OptimizationUseCases, loc *time.Location) *OptimizationHandler {
	return &OptimizationHandler{cases: useCases, loc: loc}
}

// ======================================================
// RUN
// ======================================================

// Run executes synchronously. Failed runs are still persisted and the
// response carries the business error.
func (h *OptimizationHandler) Run(c *gin.Context) {
	var req dto.RunOptimizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	start, err1 := timezone.ParseDate(req.StartDate, h.loc)
	end, err2 := timezone.ParseDate(req.EndDate, h.loc)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date", "Dates must be YYYY-MM-DD.")
		return
	}

	run, err := h.cases.Run.Execute(c.Request.Context(), optimization.RunOptimizationInput{
		TerritoryID: req.TerritoryID,
		StartDate:   start,
		EndDate:     end,
		RunType:     req.RunType,
		AutoApply:   req.AutoApply,
		UserID:      middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err, "optimization_failed")
		return
	}

	c.JSON(http.StatusCreated, run)
}

// ======================================================
// APPROVE
// ======================================================

func (h *OptimizationHandler) Approve(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid run id.")
		return
	}

	var userID string
	if uid := middleware.UserID(c); uid != nil {
		userID = *uid
	}

	run, err := h.cases.Approve.Execute(c.Request.Context(), id, userID)
	if err != nil {
		httperr.FromError(c, err, "approve_failed")
		return
	}
	httpresp.OK(c, run)
}

// ======================================================
// READ
// ======================================================

func (h *OptimizationHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid run id.")
		return
	}

	run, err := h.cases.Get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err, "run_load_failed")
		return
	}
	httpresp.OK(c, run)
}

func (h *OptimizationHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(optimization.DefaultPageSize)))

	out, err := h.cases.List.Execute(c.Request.Context(), optimization.ListRunsInput{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		httperr.FromError(c, err, "run_list_failed")
		return
	}
	httpresp.Page(c, out.Runs, out.Total, out.Page, out.Limit)
}

func (h *OptimizationHandler) Report(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid run id.")
		return
	}

	buf, err := h.cases.Report.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err, "report_failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="optimization-run-%d.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
