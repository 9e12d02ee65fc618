package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/middleware"
	"github.com/kidwise/api/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type recordedEvent struct {
	Subject string
	Data    any
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEvents) Emit(_ context.Context, subject string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{Subject: subject, Data: data})
}

func (f *fakeEvents) subjects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Subject)
	}
	return out
}

type usageEntry struct {
	UserID uuid.UUID
	Kind   models.GenerationKind
	Err    error
}

type fakeUsage struct {
	mu      sync.Mutex
	entries []usageEntry
}

func (f *fakeUsage) RecordGeneration(_ context.Context, userID uuid.UUID, kind models.GenerationKind, _ time.Time, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, usageEntry{UserID: userID, Kind: kind, Err: err})
}

// authed returns a router whose group requires a session, and a bearer token
// for a fresh user.
func authed(t *testing.T) (*gin.Engine, *gin.RouterGroup, uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	token, _, err := middleware.IssueToken(testSecret, userID, "parent@example.com", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.Auth(testSecret, nil, zap.NewNop()))
	return r, api, userID, token
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error middleware.APIError `json:"error"`
}
