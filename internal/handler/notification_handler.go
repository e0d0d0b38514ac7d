package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/timetable-api/internal/service"
	"github.com/edupanel/timetable-api/pkg/response"
)

// NotificationHandler lists queued and sent notifications.
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List godoc
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param groupId query string false "Filter by group"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var req service.NotificationListRequest
	req.GroupID = c.Query("groupId")
	req.Status = c.Query("status")
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
