// Package llm talks to generative-AI completion endpoints and hands back raw text.
package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// Request is a single completion call.
type Request struct {
	Prompt          string
	MaxOutputTokens int
	Temperature     float32
	// JSON asks the provider for a JSON response body when it supports a format hint.
	JSON bool
}

// Completer returns the raw text a provider produced for a prompt.
//
// Implementations report failures with apperr kinds: MissingCredential when no
// key is configured, ProviderUnavailable for transient outages and
// EmptyResponse when no text could be extracted.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// textShape extracts text from one known layout of a provider response.
type textShape[T any] struct {
	name    string
	extract func(T) string
}

// firstText walks shapes in order and returns the first non-blank text along
// with the name of the shape that produced it.
func firstText[T any](resp T, shapes []textShape[T]) (string, string) {
	for _, s := range shapes {
		if text := s.extract(resp); strings.TrimSpace(text) != "" {
			return text, s.name
		}
	}
	return "", ""
}

// isConnectionFailure reports network-level errors that mean the provider
// could not be reached at all.
func isConnectionFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
