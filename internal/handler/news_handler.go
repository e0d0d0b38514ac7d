package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/timetable-api/internal/service"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
	"github.com/edupanel/timetable-api/pkg/response"
)

// NewsHandler manages announcement endpoints.
type NewsHandler struct {
	service *service.NewsService
}

// NewNewsHandler constructs a news handler.
func NewNewsHandler(svc *service.NewsService) *NewsHandler {
	return &NewsHandler{service: svc}
}

// List godoc
// @Summary List news items
// @Tags News
// @Produce json
// @Param audience query string false "Filter by audience"
// @Param groupId query string false "Filter by group"
// @Param priority query string false "Filter by priority"
// @Param published query bool false "Published items only"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /news [get]
func (h *NewsHandler) List(c *gin.Context) {
	var req service.NewsListRequest
	req.Audience = c.Query("audience")
	req.GroupID = c.Query("groupId")
	req.Priority = c.Query("priority")
	req.PublishedOnly = c.Query("published") == "true"
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		req.PageSize = limit
	}

	items, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get news item
// @Tags News
// @Produce json
// @Param id path string true "News ID"
// @Success 200 {object} response.Envelope
// @Router /news/{id} [get]
func (h *NewsHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create news item
// @Tags News
// @Accept json
// @Produce json
// @Param payload body service.NewsRequest true "News payload"
// @Success 201 {object} response.Envelope
// @Router /news [post]
func (h *NewsHandler) Create(c *gin.Context) {
	var req service.NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update news item
// @Tags News
// @Accept json
// @Produce json
// @Param id path string true "News ID"
// @Param payload body service.NewsRequest true "News payload"
// @Success 200 {object} response.Envelope
// @Router /news/{id} [put]
func (h *NewsHandler) Update(c *gin.Context) {
	var req service.NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete news item
// @Tags News
// @Produce json
// @Param id path string true "News ID"
// @Success 204
// @Router /news/{id} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
