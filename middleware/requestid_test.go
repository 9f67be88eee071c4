package middleware

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"testing"

	"budgetbook/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestLogger(base))
	router.GET("/ping", func(c *gin.Context) {
		logger.FromContext(c.Request.Context()).Info("handler")
		c.String(200, "pong")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte(`"request_id":"`+id+`"`)))
	assert.Contains(t, buf.String(), `"status":200`)

	// 沿用调用方传入的请求 ID
	buf.Reset()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
}
