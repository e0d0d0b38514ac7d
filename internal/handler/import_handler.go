package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupanel/timetable-api/internal/service"
	appErrors "github.com/edupanel/timetable-api/pkg/errors"
	"github.com/edupanel/timetable-api/pkg/response"
)

// ImportHandler accepts XLS timetable uploads.
type ImportHandler struct {
	service *service.ImportService
}

// NewImportHandler constructs an import handler.
func NewImportHandler(svc *service.ImportService) *ImportHandler {
	return &ImportHandler{service: svc}
}

// Import godoc
// @Summary Import lessons from an XLS workbook
// @Tags Schedules
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLS workbook"
// @Param groupId formData string true "Group ID"
// @Param semesterId formData string true "Semester ID"
// @Param partialOnError formData bool false "Commit clean rows, report conflicted ones"
// @Success 201 {object} response.Envelope
// @Router /schedules/import [post]
func (h *ImportHandler) Import(c *gin.Context) {
	req := service.ImportRequest{
		GroupID:        c.PostForm("groupId"),
		SemesterID:     c.PostForm("semesterId"),
		PartialOnError: c.PostForm("partialOnError") == "true",
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "workbook file is required"))
		return
	}
	if header.Size > h.service.MaxFileSize() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "workbook is too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read uploaded workbook"))
		return
	}
	defer file.Close()

	result, err := h.service.Import(c.Request.Context(), req, header.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
