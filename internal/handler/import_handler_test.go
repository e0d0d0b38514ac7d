package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestImportHandlerRequiresFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewImportHandler(nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("groupId", "group-1"))
	require.NoError(t, writer.WriteField("semesterId", "sem-1"))
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, "/schedules/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Import(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
