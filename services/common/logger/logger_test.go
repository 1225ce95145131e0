package logger

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("plain context", func(t *testing.T) {
		ctx := WithContext(context.Background(), "req-1")
		assert.Equal(t, "req-1", RequestID(ctx))
	})

	t.Run("missing", func(t *testing.T) {
		assert.Equal(t, "unknown", RequestID(context.Background()))
	})

	t.Run("gin context key", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Set(RequestIDKey, "req-2")
		assert.Equal(t, "req-2", RequestID(c))
	})

	t.Run("gin context falls back to request context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		req := httptest.NewRequest("GET", "/", nil)
		c.Request = req.WithContext(WithContext(req.Context(), "req-3"))
		assert.Equal(t, "req-3", RequestID(c))
	})
}

func TestInitializeWithWriterTeesJSON(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("production", &buf)
	t.Cleanup(func() { Initialize("development") })

	Info(WithContext(context.Background(), "abc"), "hello")
	_ = Log.Sync()

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}
