package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/kidwise/api/internal/apperr"
)

// APIError represents a structured error response
type APIError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Details    string       `json:"details,omitempty"`
	Fields     []FieldError `json:"fields,omitempty"`
	RetryAfter int          `json:"retry_after_ms,omitempty"`
}

// FieldError names one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Common error codes
const (
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeAIServiceUnavailable = "AI_SERVICE_UNAVAILABLE"
	ErrCodeAINotConfigured      = "AI_NOT_CONFIGURED"
	ErrCodeAIBadResponse        = "AI_BAD_RESPONSE"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeRateLimited          = "RATE_LIMITED"
)

// aiRetryAfterMs is the retry hint sent with AI_SERVICE_UNAVAILABLE.
const aiRetryAfterMs = 5000

// RespondError sends a structured error response
func RespondError(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": APIError{
			Code:    code,
			Message: message,
		},
	})
}

// RespondErrorWithDetails sends a structured error response with details
func RespondErrorWithDetails(c *gin.Context, status int, code string, message string, details string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// RespondErrorWithRetry sends a structured error response with retry hint
func RespondErrorWithRetry(c *gin.Context, status int, code string, message string, retryAfterMs int) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": APIError{
			Code:       code,
			Message:    message,
			RetryAfter: retryAfterMs,
		},
	})
}

// RespondValidationError reports a binding failure. Validator errors are
// broken down per field; anything else (malformed JSON) is a plain 400.
func RespondValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		RespondErrorWithDetails(c, http.StatusBadRequest, ErrCodeValidationFailed, "Invalid request body", err.Error())
		return
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   lowerFirst(fe.Field()),
			Message: describeTag(fe),
		})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": APIError{
			Code:    ErrCodeValidationFailed,
			Message: "Invalid request",
			Fields:  fields,
		},
	})
}

// RespondAIError maps a content generation error to its HTTP response.
// Provider details stay in the logs; the client sees a stable code.
func RespondAIError(c *gin.Context, err error) {
	_ = c.Error(err)

	kind, ok := apperr.KindOf(err)
	if !ok {
		InternalError(c, "Failed to generate content")
		return
	}
	switch kind {
	case apperr.KindInvalidAgeBand, apperr.KindInvalidPlanType:
		BadRequest(c, err.Error())
	case apperr.KindMissingCredential:
		RespondError(c, http.StatusInternalServerError, ErrCodeAINotConfigured, "AI provider is not configured")
	case apperr.KindProviderUnavailable:
		AIServiceUnavailable(c)
	case apperr.KindEmptyResponse, apperr.KindMalformedResponse, apperr.KindProviderError:
		RespondError(c, http.StatusBadGateway, ErrCodeAIBadResponse, "AI provider returned an unusable response")
	default:
		InternalError(c, "Failed to generate content")
	}
}

// BadRequest sends a 400 error
func BadRequest(c *gin.Context, message string) {
	RespondError(c, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 error
func Unauthorized(c *gin.Context, message string) {
	RespondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// NotFound sends a 404 error
func NotFound(c *gin.Context, message string) {
	RespondError(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// Conflict sends a 409 error
func Conflict(c *gin.Context, message string) {
	RespondError(c, http.StatusConflict, ErrCodeConflict, message)
}

// InternalError sends a 500 error
func InternalError(c *gin.Context, message string) {
	RespondError(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// AIServiceUnavailable sends a 503 error for AI service issues
func AIServiceUnavailable(c *gin.Context) {
	RespondErrorWithRetry(c, http.StatusServiceUnavailable, ErrCodeAIServiceUnavailable, "AI service is temporarily unavailable", aiRetryAfterMs)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "uuid":
		return "must be a valid id"
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
