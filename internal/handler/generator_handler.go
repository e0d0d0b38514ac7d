package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/timetable-api/internal/service"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
	"github.com/edupanel/timetable-api/pkg/response"
)

// GeneratorHandler exposes bulk lesson generation.
type GeneratorHandler struct {
	service *service.GeneratorService
}

// NewGeneratorHandler constructs a generator handler.
func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{service: svc}
}

// Generate godoc
// @Summary Generate lessons from a day/slot pattern
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.GenerateRequest true "Generation payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *GeneratorHandler) Generate(c *gin.Context) {
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
