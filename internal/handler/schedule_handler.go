package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/timetable-api/internal/service"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
	"github.com/edupanel/timetable-api/pkg/response"
)

// ScheduleHandler serves assembled schedules, validation reports and exports.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

func scheduleParams(c *gin.Context) (string, string, error) {
	groupID := c.Param("groupId")
	semesterID := c.Query("semesterId")
	if semesterID == "" {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "semesterId query parameter is required")
	}
	return groupID, semesterID, nil
}

// Get godoc
// @Summary Get a group's schedule for a semester
// @Tags Schedules
// @Produce json
// @Param groupId path string true "Group ID"
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{groupId} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	groupID, semesterID, err := scheduleParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	schedule, err := h.service.Get(c.Request.Context(), groupID, semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Validate godoc
// @Summary Validate a group's schedule against the semester
// @Tags Schedules
// @Produce json
// @Param groupId path string true "Group ID"
// @Param semesterId query string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{groupId}/validate [get]
func (h *ScheduleHandler) Validate(c *gin.Context) {
	groupID, semesterID, err := scheduleParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.Validate(c.Request.Context(), groupID, semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ExportCSV godoc
// @Summary Export a group's schedule as CSV
// @Tags Schedules
// @Produce text/csv
// @Param groupId path string true "Group ID"
// @Param semesterId query string true "Semester ID"
// @Success 200 {file} file
// @Router /schedules/{groupId}/export/csv [get]
func (h *ScheduleHandler) ExportCSV(c *gin.Context) {
	groupID, semesterID, err := scheduleParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, filename, err := h.service.ExportCSV(c.Request.Context(), groupID, semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF godoc
// @Summary Export a group's schedule as PDF
// @Tags Schedules
// @Produce application/pdf
// @Param groupId path string true "Group ID"
// @Param semesterId query string true "Semester ID"
// @Success 200 {file} file
// @Router /schedules/{groupId}/export/pdf [get]
func (h *ScheduleHandler) ExportPDF(c *gin.Context) {
	groupID, semesterID, err := scheduleParams(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, filename, err := h.service.ExportPDF(c.Request.Context(), groupID, semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
