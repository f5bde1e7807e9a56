package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tokenRelay/internal/model"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		model.NewError(model.ErrNotFound, "TX not found"):           http.StatusNotFound,
		model.NewError(model.ErrInvalidAddress, "Invalid address"):  http.StatusBadRequest,
		model.NewError(model.ErrUnauthorized, "Unauthorized User"):  http.StatusBadRequest,
		model.NewError(model.ErrMissingField, "missing"):            http.StatusBadRequest,
		model.NewError(model.ErrInvalidAmount, "Invalid amount"):    http.StatusBadRequest,
		model.NewError(model.ErrInvalidParam, "bad"):                http.StatusBadRequest,
		fmt.Errorf("wrapped: %w", model.ErrUnauthorized):            http.StatusBadRequest,
		model.WrapError(model.ErrChainCallFailure, errors.New("x")): http.StatusInternalServerError,
		errors.New("dial tcp: connection refused"):                  http.StatusInternalServerError,
	}

	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), err.Error())
	}
}

func TestEngineRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := NewEngine(zap.NewNop())
	engine.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, rec.Body.String())
}

func TestEngineNoRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := NewEngine(nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"route not found"}`, rec.Body.String())
}
