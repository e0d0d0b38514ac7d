package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/timetable-api/internal/models"
	"github.com/edupanel/timetable-api/internal/service"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
	"github.com/edupanel/timetable-api/pkg/response"
)

// CatalogHandler serves the reference data endpoints.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListGroups godoc
// @Summary List groups
// @Tags Catalog
// @Produce json
// @Param search query string false "Search keyword"
// @Param course query int false "Filter by course"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /groups [get]
func (h *CatalogHandler) ListGroups(c *gin.Context) {
	var filter models.GroupFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if course, err := strconv.Atoi(c.DefaultQuery("course", "0")); err == nil {
		filter.Course = course
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	groups, pagination, err := h.service.ListGroups(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, pagination)
}

// GetGroup godoc
// @Summary Get group by id
// @Tags Catalog
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /groups/{id} [get]
func (h *CatalogHandler) GetGroup(c *gin.Context) {
	group, err := h.service.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// CreateGroup godoc
// @Summary Create group
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.GroupRequest true "Group payload"
// @Success 201 {object} response.Envelope
// @Router /groups [post]
func (h *CatalogHandler) CreateGroup(c *gin.Context) {
	var req service.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.CreateGroup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// UpdateGroup godoc
// @Summary Update group
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Group ID"
// @Param payload body service.GroupRequest true "Group payload"
// @Success 200 {object} response.Envelope
// @Router /groups/{id} [put]
func (h *CatalogHandler) UpdateGroup(c *gin.Context) {
	var req service.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.UpdateGroup(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// ListSubjects godoc
// @Summary List subjects
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.service.ListSubjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// CreateSubject godoc
// @Summary Create subject
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.SubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Router /subjects [post]
func (h *CatalogHandler) CreateSubject(c *gin.Context) {
	var req service.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.service.CreateSubject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// ListTeachers godoc
// @Summary List teachers
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *CatalogHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.service.ListTeachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// CreateTeacher godoc
// @Summary Create teacher
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.TeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *CatalogHandler) CreateTeacher(c *gin.Context) {
	var req service.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	teacher, err := h.service.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// ListSemesters godoc
// @Summary List semesters
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /semesters [get]
func (h *CatalogHandler) ListSemesters(c *gin.Context) {
	semesters, err := h.service.ListSemesters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semesters, nil)
}

// CreateSemester godoc
// @Summary Create semester
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.SemesterRequest true "Semester payload"
// @Success 201 {object} response.Envelope
// @Router /semesters [post]
func (h *CatalogHandler) CreateSemester(c *gin.Context) {
	var req service.SemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	semester, err := h.service.CreateSemester(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, semester)
}
