package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/edupanel/timetable-api/pkg/response"
)

func TestScheduleHandlerRequiresSemesterID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewScheduleHandler(nil)

	req, _ := http.NewRequest(http.MethodGet, "/schedules/group-1", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "groupId", Value: "group-1"}}

	h.Get(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	require.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestScheduleHandlerValidateRequiresSemesterID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewScheduleHandler(nil)

	req, _ := http.NewRequest(http.MethodGet, "/schedules/group-1/validate", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "groupId", Value: "group-1"}}

	h.Validate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
