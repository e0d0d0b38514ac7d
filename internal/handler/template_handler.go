package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/timetable-api/internal/service"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
	"github.com/edupanel/timetable-api/pkg/response"
)

// TemplateHandler copies one group's schedule onto others.
type TemplateHandler struct {
	service *service.TemplateService
}

// NewTemplateHandler constructs a template handler.
func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: svc}
}

// Apply godoc
// @Summary Apply a source group's schedule to target groups
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.ApplyTemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/template [post]
func (h *TemplateHandler) Apply(c *gin.Context) {
	var req service.ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
