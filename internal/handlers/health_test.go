package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHealth(t *testing.T) {
	h := NewHealthHandler("1.2.3")
	r := gin.New()
	r.GET("/health", h.Health)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[HealthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestDeepHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantDeps   map[string]string
	}{
		{
			name:       "all healthy",
			checks:     map[string]HealthCheck{"database": ok, "redis": ok, "nats": nil},
			wantStatus: http.StatusOK,
			wantDeps:   map[string]string{"database": "healthy", "redis": "healthy", "nats": "not configured"},
		},
		{
			name:       "redis down",
			checks:     map[string]HealthCheck{"database": ok, "redis": down},
			wantStatus: http.StatusServiceUnavailable,
			wantDeps:   map[string]string{"database": "healthy", "redis": "unhealthy: connection refused"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("test")
			for name, check := range tt.checks {
				h.Register(name, check)
			}
			r := gin.New()
			r.GET("/health/deep", h.DeepHealth)

			w := doJSON(t, r, http.MethodGet, "/health/deep", "", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantDeps, decode[HealthResponse](t, w).Dependencies)
		})
	}
}

type stubReporter struct{ mock.Mock }

func (s *stubReporter) Summary(ctx context.Context, userID uuid.UUID, window time.Duration) ([]models.UsageSummary, error) {
	ret := s.Called(ctx, userID, window)
	out, _ := ret.Get(0).([]models.UsageSummary)
	return out, ret.Error(1)
}

func TestUsageSummary(t *testing.T) {
	r, api, userID, token := authed(t)
	reporter := &stubReporter{}
	reporter.On("Summary", mock.Anything, userID, 7*24*time.Hour).
		Return([]models.UsageSummary{{Kind: models.GenerationPlan, Total: 3, Failed: 1, AvgLatencyMs: 1200}}, nil).Once()

	h := NewUsageHandler(reporter, zap.NewNop())
	api.GET("/usage", h.Summary)

	w := doJSON(t, r, http.MethodGet, "/api/usage?days=7", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[UsageResponse](t, w)
	assert.Equal(t, 7, resp.Days)
	require.Len(t, resp.Kinds, 1)
	assert.Equal(t, int64(3), resp.Kinds[0].Total)
	reporter.AssertExpectations(t)

	w = doJSON(t, r, http.MethodGet, "/api/usage?days=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
