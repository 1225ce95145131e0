package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorWrapping(t *testing.T) {
	cause := stderrors.New("boom")
	err := Internal("Failed to create product", cause)

	assert.Equal(t, "Failed to create product: boom", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.JSONEq(t, `{"code":500,"message":"Failed to create product"}`, err.JSON())
}

func TestFromAndMessage(t *testing.T) {
	wrapped := fmt.Errorf("controller: %w", NotFound("Product not found", nil))

	assert.Equal(t, http.StatusNotFound, From(wrapped).Code)
	assert.Equal(t, "Product not found", Message(wrapped))
	assert.True(t, IsNotFound(wrapped))

	plain := stderrors.New("dial tcp: refused")
	assert.Equal(t, http.StatusInternalServerError, From(plain).Code)
	assert.Equal(t, "dial tcp: refused", Message(plain))
	assert.False(t, IsNotFound(plain))
	assert.Equal(t, "", Message(nil))
}

func TestErrorMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/bad", func(c *gin.Context) {
		_ = c.Error(BadRequest("Price must be greater than 0", nil))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(stderrors.New("unexpected"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"code":400,"message":"Price must be greater than 0"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":500,"message":"Internal server error"}`, rec.Body.String())
}
