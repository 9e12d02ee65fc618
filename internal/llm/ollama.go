package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kidwise/api/internal/apperr"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const providerOllama = "ollama"

// Ollama calls a local Ollama server through its native chat API. No API key
// is needed.
type Ollama struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

func NewOllama(cfg Config, logger *zap.Logger) (*Ollama, error) {
	baseURL := strings.TrimSuffix(strings.TrimSuffix(cfg.BaseURL, "/"), "/v1")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url %q: %w", baseURL, err)
	}
	return &Ollama{
		client: api.NewClient(parsed, &http.Client{Timeout: cfg.Timeout}),
		model:  cfg.Model,
		logger: logger.Named("ollama"),
	}, nil
}

var ollamaShapes = []textShape[api.ChatResponse]{
	{name: "message", extract: func(r api.ChatResponse) string { return r.Message.Content }},
}

func (o *Ollama) Complete(ctx context.Context, req Request) (string, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model:    o.model,
		Messages: []api.Message{{Role: "user", Content: req.Prompt}},
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": req.MaxOutputTokens,
		},
	}
	if req.JSON {
		chatReq.Format = json.RawMessage(`"json"`)
	}

	var resp api.ChatResponse
	start := time.Now()
	err := o.client.Chat(ctx, chatReq, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	elapsed := time.Since(start)
	if err != nil {
		classified := classifyOllamaError(ctx, err)
		status := statusError
		if errors.Is(classified, apperr.ErrProviderUnavailable) {
			status = statusUnavailable
		}
		observeRequest(providerOllama, o.model, status, elapsed)
		o.logger.Warn("chat failed", zap.Duration("latency", elapsed), zap.Error(err))
		return "", classified
	}

	text, _ := firstText(resp, ollamaShapes)
	if text == "" {
		observeRequest(providerOllama, o.model, statusEmpty, elapsed)
		return "", apperr.EmptyResponse()
	}
	observeRequest(providerOllama, o.model, statusSuccess, elapsed)
	observeTokens(providerOllama, o.model, resp.PromptEvalCount, resp.EvalCount)
	return text, nil
}

func classifyOllamaError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperr.ProviderUnavailable(fmt.Errorf("ollama request aborted: %w", ctxErr))
	}
	code := 0
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		code = statusErr.StatusCode
	}
	if code == http.StatusServiceUnavailable || isConnectionFailure(err) {
		return apperr.ProviderUnavailable(err)
	}
	return apperr.Wrap(apperr.KindProviderError, fmt.Sprintf("ollama request failed (status %d)", code), err)
}
