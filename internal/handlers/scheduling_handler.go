package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/dto"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/field-scheduler/internal/middleware"
	"github.com/BruksfildServices01/field-scheduler/internal/timezone"
	uc "github.com/BruksfildServices01/field-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type SchedulingUseCases struct {
	DefaultPolicy *uc.GetDefaultPolicy
	ListPolicies  *uc.ListPolicies
	UpsertPolicy  *uc.UpsertPolicy
	DueDate       *uc.CalculateDueDate
	FindSlots     *uc.FindAvailableSlots
	Availability  *uc.CheckResourceAvailability
	AutoSchedule  *uc.AutoScheduleAppointment
	UpdateStatus  *uc.UpdateAppointmentStatus
	StatusCounts  *uc.AppointmentStatusCounts
	Calendar      *uc.ExportResourceCalendar
}

type SchedulingHandler struct {
	cases SchedulingUseCases
	loc   *time.Location
}

func NewSchedulingHandler(useCases SchedulingUseCases, loc *time.Location) *SchedulingHandler {
	return &SchedulingHandler{cases: useCases, loc: loc}
}

// ======================================================
// POLICIES
// ======================================================

func (h *SchedulingHandler) DefaultPolicy(c *gin.Context) {
	p, err := h.cases.DefaultPolicy.Execute(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err, "policy_load_failed")
		return
	}
	httpresp.OK(c, p)
}

func (h *SchedulingHandler) ListPolicies(c *gin.Context) {
	list, err := h.cases.ListPolicies.Execute(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err, "policy_list_failed")
		return
	}
	httpresp.List(c, list)
}

func (h *SchedulingHandler) CreatePolicy(c *gin.Context) {
	h.savePolicy(c, 0)
}

func (h *SchedulingHandler) UpdatePolicy(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid policy id.")
		return
	}
	h.savePolicy(c, id)
}

func (h *SchedulingHandler) savePolicy(c *gin.Context, id uint) {
	var req dto.PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	saved, err := h.cases.UpsertPolicy.Execute(c.Request.Context(), middleware.UserID(c), req.Model(id))
	if err != nil {
		httperr.FromError(c, err, "policy_save_failed")
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, saved)
}

// ======================================================
// DUE DATE
// ======================================================

func (h *SchedulingHandler) DueDate(c *gin.Context) {
	var req dto.DueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	start, err := parseTimestamp(h.loc, req.EarliestStart)
	if err != nil {
		httperr.BadRequest(c, "invalid_earliest_start", "Invalid earliest_start.")
		return
	}

	due, err := h.cases.DueDate.Execute(c.Request.Context(), uc.CalculateDueDateInput{
		EarliestStart: start,
		Mode:          domain.DueDateMode(req.Mode),
		WorkTypeID:    req.WorkTypeID,
	})
	if err != nil {
		httperr.FromError(c, err, "due_date_failed")
		return
	}

	httpresp.OK(c, gin.H{"earliest_start": start, "due_date": due})
}

// ======================================================
// SLOTS
// ======================================================

func (h *SchedulingHandler) FindSlots(c *gin.Context) {
	var req dto.SlotSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	start, err := parseTimestamp(h.loc, req.EarliestStart)
	if err != nil {
		httperr.BadRequest(c, "invalid_earliest_start", "Invalid earliest_start.")
		return
	}

	var due *time.Time
	if req.DueDate != "" {
		d, err := parseTimestamp(h.loc, req.DueDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_due_date", "Invalid due_date.")
			return
		}
		due = &d
	}

	slots, err := h.cases.FindSlots.Execute(c.Request.Context(), uc.FindAvailableSlotsInput{
		ResourceID:      req.ResourceID,
		EarliestStart:   start,
		DueDate:         due,
		DurationMinutes: req.DurationMinutes,
		PolicyID:        req.PolicyID,
		IncludeWeekends: req.IncludeWeekends,
		MaxSlots:        req.MaxSlots,
	})
	if err != nil {
		httperr.FromError(c, err, "slot_search_failed")
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *SchedulingHandler) Availability(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid resource id.")
		return
	}

	start, err1 := parseTimestamp(h.loc, c.Query("start"))
	end, err2 := parseTimestamp(h.loc, c.Query("end"))
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_interval", "start and end are required.")
		return
	}

	res, err := h.cases.Availability.Execute(c.Request.Context(), id, start, end)
	if err != nil {
		httperr.FromError(c, err, "availability_failed")
		return
	}
	httpresp.OK(c, res)
}

// ======================================================
// AUTO SCHEDULE
// ======================================================

func (h *SchedulingHandler) AutoSchedule(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req dto.AutoScheduleRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", err.Error())
			return
		}
	}

	res, err := h.cases.AutoSchedule.Execute(c.Request.Context(), uc.AutoScheduleInput{
		AppointmentID: id,
		ResourceID:    req.ResourceID,
		PolicyID:      req.PolicyID,
		UserID:        middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err, "auto_schedule_failed")
		return
	}

	httpresp.OK(c, dto.ScheduledAppointmentDTO{
		ID:                res.Appointment.ID,
		AppointmentNumber: res.Appointment.AppointmentNumber,
		ResourceID:        res.ResourceID,
		StartTime:         res.Slot.Start,
		EndTime:           res.Slot.End,
		Status:            res.Appointment.Status,
		Grade:             res.Slot.Grade,
	})
}

func (h *SchedulingHandler) UpdateStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req dto.AppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.cases.UpdateStatus.Execute(c.Request.Context(), middleware.UserID(c), id, req.Status)
	if err != nil {
		httperr.FromError(c, err, "appointment_status_failed")
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// STATS
// ======================================================

func (h *SchedulingHandler) StatusCounts(c *gin.Context) {
	from, to, ok := parseDayRange(c, h.loc, 1)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Dates must be YYYY-MM-DD.")
		return
	}

	counts, err := h.cases.StatusCounts.Execute(c.Request.Context(), from, to)
	if err != nil {
		httperr.FromError(c, err, "stats_failed")
		return
	}

	httpresp.OK(c, gin.H{
		"from":   from.Format(timezone.DateLayout),
		"to":     to.AddDate(0, 0, -1).Format(timezone.DateLayout),
		"counts": counts,
	})
}

// ======================================================
// CALENDAR
// ======================================================

func (h *SchedulingHandler) Calendar(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid resource id.")
		return
	}

	from, to, ok := parseDayRange(c, h.loc, 30)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Dates must be YYYY-MM-DD.")
		return
	}

	body, err := h.cases.Calendar.Execute(c.Request.Context(), id, from, to)
	if err != nil {
		httperr.FromError(c, err, "calendar_failed")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="resource-calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
