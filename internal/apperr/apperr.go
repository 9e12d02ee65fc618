package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures raised while generating AI content.
type Kind string

const (
	KindInvalidAgeBand      Kind = "invalid_age_band"
	KindInvalidPlanType     Kind = "invalid_plan_type"
	KindMissingCredential   Kind = "missing_credential"
	KindProviderUnavailable Kind = "provider_unavailable"
	KindEmptyResponse       Kind = "empty_response"
	KindMalformedResponse   Kind = "malformed_ai_response"
	// KindProviderError covers non-transient provider rejections such as 400 or 401.
	KindProviderError Kind = "provider_error"
)

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrInvalidAgeBand      = &Error{Kind: KindInvalidAgeBand}
	ErrInvalidPlanType     = &Error{Kind: KindInvalidPlanType}
	ErrMissingCredential   = &Error{Kind: KindMissingCredential}
	ErrProviderUnavailable = &Error{Kind: KindProviderUnavailable}
	ErrEmptyResponse       = &Error{Kind: KindEmptyResponse}
	ErrMalformedResponse   = &Error{Kind: KindMalformedResponse}
	ErrProviderError       = &Error{Kind: KindProviderError}
)

const snippetLimit = 180

type Error struct {
	Kind    Kind
	Message string
	// Snippet holds a truncated copy of unparseable provider output.
	Snippet string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Snippet != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Snippet)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can compare against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidAgeBand(band string) *Error {
	return New(KindInvalidAgeBand, fmt.Sprintf("invalid age band %q", band))
}

func InvalidPlanType(planType string) *Error {
	return New(KindInvalidPlanType, fmt.Sprintf("invalid plan type %q", planType))
}

func MissingCredential(provider string) *Error {
	return New(KindMissingCredential, provider+" API key is not configured")
}

func ProviderUnavailable(err error) *Error {
	return Wrap(KindProviderUnavailable, "AI provider is temporarily unavailable", err)
}

func EmptyResponse() *Error {
	return New(KindEmptyResponse, "AI provider returned no content")
}

// Malformed builds a MalformedAIResponse error carrying at most 180
// characters of the offending text.
func Malformed(message, raw string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: message, Snippet: Snippet(raw), Err: err}
}

// Snippet truncates s to the diagnostic snippet length, counting runes.
func Snippet(s string) string {
	r := []rune(s)
	if len(r) <= snippetLimit {
		return s
	}
	return string(r[:snippetLimit])
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsClientInput reports whether err was caused by caller-supplied input.
func IsClientInput(err error) bool {
	return errors.Is(err, ErrInvalidAgeBand) || errors.Is(err, ErrInvalidPlanType)
}
