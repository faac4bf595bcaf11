package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iam-sarthakdev/MockMate-AI/internal/config"
	"github.com/iam-sarthakdev/MockMate-AI/internal/prompts"
	"github.com/iam-sarthakdev/MockMate-AI/internal/testhelpers"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthzHandler(t *testing.T) {
	handler := NewHealthHandler(nil, nil, nil, nil, nil)
	rec := httptest.NewRecorder()
	handler.HealthzHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestReadyzHandler(t *testing.T) {
	pm, err := prompts.NewPromptManager()
	require.NoError(t, err)
	store := testhelpers.SetupTestStore(t)
	healthy := pingFunc(func(context.Context) error { return nil })

	t.Run("ready", func(t *testing.T) {
		handler := NewHealthHandler(testhelpers.Respond(""), pm, store, healthy, &config.Config{})
		rec := httptest.NewRecorder()
		handler.ReadyzHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[ReadinessResponse](t, rec)
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, "ok", resp.Checks["store"].Status)
		assert.Equal(t, "ok", resp.Checks["redis"].Status)
	})

	t.Run("store down", func(t *testing.T) {
		down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
		handler := NewHealthHandler(testhelpers.Respond(""), pm, down, nil, &config.Config{})
		rec := httptest.NewRecorder()
		handler.ReadyzHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		resp := decode[ReadinessResponse](t, rec)
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "connection refused", resp.Checks["store"].Message)
		_, hasRedis := resp.Checks["redis"]
		assert.False(t, hasRedis, "redis is only checked when configured")
	})

	t.Run("nothing initialized", func(t *testing.T) {
		handler := NewHealthHandler(nil, nil, nil, nil, nil)
		rec := httptest.NewRecorder()
		handler.ReadyzHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		resp := decode[ReadinessResponse](t, rec)
		for _, name := range []string{"provider", "prompt_manager", "store", "configuration"} {
			assert.Equal(t, "failed", resp.Checks[name].Status, name)
		}
	})
}
