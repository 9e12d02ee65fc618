package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsTokenRevoked(_ context.Context, id string) (bool, error) {
	return f.revoked[id], f.err
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body struct {
		Error APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

func authRouter(revocations TokenRevocations) *gin.Engine {
	r := gin.New()
	r.Use(Auth(testSecret, revocations, zap.NewNop()))
	r.GET("/me", func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return r
}

func TestAuth(t *testing.T) {
	userID := uuid.New()
	token, claims, err := IssueToken(testSecret, userID, "parent@example.com", time.Hour)
	require.NoError(t, err)

	expired, _, err := IssueToken(testSecret, userID, "parent@example.com", -time.Minute)
	require.NoError(t, err)
	foreign, _, err := IssueToken("other-secret", userID, "parent@example.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name        string
		cookie      string
		bearer      string
		revocations TokenRevocations
		wantStatus  int
	}{
		{name: "cookie", cookie: token, wantStatus: http.StatusOK},
		{name: "bearer header", bearer: token, wantStatus: http.StatusOK},
		{name: "missing token", wantStatus: http.StatusUnauthorized},
		{name: "expired", cookie: expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", bearer: foreign, wantStatus: http.StatusUnauthorized},
		{name: "garbage", bearer: "not.a.jwt", wantStatus: http.StatusUnauthorized},
		{
			name:        "revoked",
			cookie:      token,
			revocations: &fakeRevocations{revoked: map[string]bool{claims.ID: true}},
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "revocation store down",
			cookie:      token,
			revocations: &fakeRevocations{err: errors.New("redis down")},
			wantStatus:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			w := httptest.NewRecorder()
			authRouter(tt.revocations).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			} else {
				assert.Equal(t, ErrCodeUnauthorized, decodeError(t, w).Code)
			}
		})
	}
}

func TestParseTokenClaims(t *testing.T) {
	userID := uuid.New()
	token, issued, err := IssueToken(testSecret, userID, "a@b.co", 2*time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@b.co", claims.Email)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(NewWindowLimiter(2, time.Minute)))
	r.GET("/api/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := do("10.0.0.1")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1").Code)

	limited := do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))
	apiErr := decodeError(t, limited)
	assert.Equal(t, ErrCodeRateLimited, apiErr.Code)
	assert.Equal(t, 60000, apiErr.RetryAfter)

	assert.Equal(t, http.StatusNoContent, do("10.0.0.2").Code, "other clients keep their own window")
}

func TestRateLimitMiddleware_KeysOnUser(t *testing.T) {
	r := gin.New()
	r.Use(Auth(testSecret, nil, zap.NewNop()), RateLimitMiddleware(NewWindowLimiter(1, time.Minute)))
	r.GET("/api/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tokenA, _, err := IssueToken(testSecret, uuid.New(), "a@example.com", time.Hour)
	require.NoError(t, err)
	tokenB, _, err := IssueToken(testSecret, uuid.New(), "b@example.com", time.Hour)
	require.NoError(t, err)

	do := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, do(tokenA))
	assert.Equal(t, http.StatusTooManyRequests, do(tokenA))
	assert.Equal(t, http.StatusNoContent, do(tokenB), "same IP, different user")
}

func TestRateLimiterEvictsIdleKeys(t *testing.T) {
	rl := NewWindowLimiter(2, 20*time.Millisecond)
	for _, key := range []string{"a", "b", "c"} {
		assert.True(t, rl.Allow(key))
	}
	assert.Equal(t, 3, rl.Len())

	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow("d"))
	assert.Equal(t, 1, rl.Len())
	assert.Equal(t, 1, rl.Remaining("d"))
}

func TestRateLimiterRefillsAfterWindow(t *testing.T) {
	rl := NewWindowLimiter(1, 20*time.Millisecond)
	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow("k"))
}

func TestCircuitBreakerStates(t *testing.T) {
	cb := NewCircuitBreakerWithConfig(2, 1, 20*time.Millisecond)
	var transitions []string
	cb.OnStateChange = func(from, to CircuitState) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}

	cb.RecordFailure()
	assert.Equal(t, CircuitClosed, cb.State())
	cb.RecordFailure()
	assert.Equal(t, CircuitOpen, cb.State())
	assert.False(t, cb.Allow())

	time.Sleep(30 * time.Millisecond)
	assert.True(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.State())
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())

	assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, transitions)
}

func TestCircuitBreakerMiddleware(t *testing.T) {
	cb := NewCircuitBreakerWithConfig(1, 1, time.Minute)
	r := gin.New()
	r.Use(CircuitBreakerMiddleware(cb))
	r.POST("/ask", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	cb.RecordFailure()

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, ErrCodeAIServiceUnavailable, apiErr.Code)
	assert.Equal(t, 60000, apiErr.RetryAfter)
}

func TestRespondAIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid band", apperr.InvalidAgeBand("13-15"), http.StatusBadRequest, ErrCodeBadRequest},
		{"invalid plan type", apperr.InvalidPlanType("chores"), http.StatusBadRequest, ErrCodeBadRequest},
		{"missing credential", apperr.MissingCredential("gemini"), http.StatusInternalServerError, ErrCodeAINotConfigured},
		{"unavailable", apperr.ProviderUnavailable(errors.New("503")), http.StatusServiceUnavailable, ErrCodeAIServiceUnavailable},
		{"empty", apperr.EmptyResponse(), http.StatusBadGateway, ErrCodeAIBadResponse},
		{"malformed", apperr.Malformed("bad json", "{", nil), http.StatusBadGateway, ErrCodeAIBadResponse},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondAIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			apiErr := decodeError(t, w)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.NotContains(t, apiErr.Message, "{", "raw provider text never reaches the client")
		})
	}
}

func TestRespondValidationError(t *testing.T) {
	type body struct {
		Question string `json:"question" binding:"required,min=5"`
	}
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var b body
		if err := c.ShouldBindJSON(&b); err != nil {
			RespondValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"question":"hi"}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, ErrCodeValidationFailed, apiErr.Code)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "question", apiErr.Fields[0].Field)
	assert.Equal(t, "must be at least 5 characters", apiErr.Fields[0].Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", jsonBody(`{`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrCodeValidationFailed, decodeError(t, w).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}
