package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{
			name:   "traceparent",
			header: map[string]string{TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"},
			want:   "4bf92f3577b34da6a3ce929d0e0e4736",
		},
		{
			name:   "x-trace-id fallback",
			header: map[string]string{TraceIDHeader: "abc123"},
			want:   "abc123",
		},
		{
			name:   "malformed traceparent falls through",
			header: map[string]string{TraceParentHeader: "garbage", TraceIDHeader: "fallback"},
			want:   "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestGetTraceID_Generated(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	id := GetTraceID(c)
	assert.Len(t, id, 32)
	assert.NotEqual(t, id, GetTraceID(c))
}

func TestLoggingMiddleware_InjectsLoggerAndHeader(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware())

	var hasLogger bool
	r.GET("/x", func(c *gin.Context) {
		hasLogger = zerolog.Ctx(c.Request.Context()).GetLevel() != zerolog.Disabled
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(TraceIDHeader, "trace-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-1", w.Header().Get(TraceIDHeader))
	assert.True(t, hasLogger)
}
