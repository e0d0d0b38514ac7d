package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/timetable-api/internal/service"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
	"github.com/edupanel/timetable-api/pkg/response"
)

// LessonHandler manages lesson endpoints.
type LessonHandler struct {
	service *service.LessonService
}

// NewLessonHandler constructs handler.
func NewLessonHandler(svc *service.LessonService) *LessonHandler {
	return &LessonHandler{service: svc}
}

// List godoc
// @Summary List lessons
// @Tags Lessons
// @Produce json
// @Param groupId query string false "Filter by group"
// @Param semesterId query string false "Filter by semester"
// @Param subjectId query string false "Filter by subject"
// @Param teacherId query string false "Filter by teacher"
// @Param room query string false "Filter by room"
// @Param dayOfWeek query int false "Filter by day of week"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	var req service.LessonListRequest
	req.GroupID = c.Query("groupId")
	req.SemesterID = c.Query("semesterId")
	req.SubjectID = c.Query("subjectId")
	req.TeacherID = c.Query("teacherId")
	req.Room = c.Query("room")
	if day, err := strconv.Atoi(c.DefaultQuery("dayOfWeek", "0")); err == nil {
		req.DayOfWeek = day
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		req.PageSize = limit
	}
	req.SortBy = c.Query("sort")
	req.SortOrder = c.Query("order")

	lessons, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, pagination)
}

// ListForTeacher godoc
// @Summary List a teacher's lessons across all groups
// @Tags Lessons
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/lessons [get]
func (h *LessonHandler) ListForTeacher(c *gin.Context) {
	lessons, err := h.service.ListForTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// Get godoc
// @Summary Get lesson
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	lesson, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Create godoc
// @Summary Create lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body service.LessonRequest true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req service.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Update godoc
// @Summary Update lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param payload body service.LessonRequest true "Lesson payload"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [put]
func (h *LessonHandler) Update(c *gin.Context) {
	var req service.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lesson, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Delete godoc
// @Summary Delete lesson
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 204
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
