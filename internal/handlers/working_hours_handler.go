package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/field-scheduler/internal/dto"
	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
	"github.com/BruksfildServices01/field-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/field-scheduler/internal/middleware"
	"github.com/BruksfildServices01/field-scheduler/internal/usecase/scheduling"
)

type WorkingHoursHandler struct {
	get     *scheduling.GetWorkingHours
	replace *scheduling.ReplaceWorkingHours
}

func NewWorkingHoursHandler(get *scheduling.GetWorkingHours, replace *scheduling.ReplaceWorkingHours) *WorkingHoursHandler {
	return &WorkingHoursHandler{get: get, replace: replace}
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid resource id.")
		return
	}

	hours, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err, "failed_to_get_working_hours")
		return
	}
	httpresp.List(c, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid resource id.")
		return
	}

	var req dto.WorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	hours, err := h.replace.Execute(c.Request.Context(), middleware.UserID(c), id, req.Models())
	if err != nil {
		httperr.FromError(c, err, "failed_to_update_working_hours")
		return
	}
	httpresp.List(c, hours)
}
