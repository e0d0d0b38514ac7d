package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestLessonHandlerCreateRejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewLessonHandler(nil)

	req, _ := http.NewRequest(http.MethodPost, "/lessons", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLessonHandlerUpdateRejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewLessonHandler(nil)

	req, _ := http.NewRequest(http.MethodPut, "/lessons/l1", bytes.NewBufferString("[]"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "l1"}}

	h.Update(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
