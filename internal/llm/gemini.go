package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kidwise/api/internal/apperr"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const providerGemini = "gemini"

// Gemini calls the Google Gemini API through the genai SDK.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini builds a Gemini completer. The SDK client is created lazily on
// the first call so a missing key surfaces per request, not at startup.
func NewGemini(cfg Config, logger *zap.Logger) *Gemini {
	return &Gemini{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		logger:  logger.Named("gemini"),
	}
}

var geminiShapes = []textShape[*genai.GenerateContentResponse]{
	{name: "text", extract: func(r *genai.GenerateContentResponse) string {
		if r == nil {
			return ""
		}
		return r.Text()
	}},
	{name: "candidate_parts", extract: func(r *genai.GenerateContentResponse) string {
		if r == nil || len(r.Candidates) == 0 {
			return ""
		}
		c := r.Candidates[0]
		if c == nil || c.Content == nil {
			return ""
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			// Thought parts are the model's reasoning, never the answer.
			if p == nil || p.Thought {
				continue
			}
			b.WriteString(p.Text)
		}
		return b.String()
	}},
}

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", apperr.MissingCredential(providerGemini)
	}
	client, err := g.getClient(ctx)
	if err != nil {
		return "", apperr.Wrap(apperr.KindProviderError, "failed to create gemini client", err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxOutputTokens),
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	elapsed := time.Since(start)
	if err != nil {
		classified := classifyGeminiError(ctx, err)
		status := statusError
		if errors.Is(classified, apperr.ErrProviderUnavailable) {
			status = statusUnavailable
		}
		observeRequest(providerGemini, g.model, status, elapsed)
		g.logger.Warn("generate content failed", zap.Duration("latency", elapsed), zap.Error(err))
		return "", classified
	}

	text, shape := firstText(resp, geminiShapes)
	if text == "" {
		observeRequest(providerGemini, g.model, statusEmpty, elapsed)
		return "", apperr.EmptyResponse()
	}
	observeRequest(providerGemini, g.model, statusSuccess, elapsed)
	if resp.UsageMetadata != nil {
		observeTokens(providerGemini, g.model, int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount))
	}
	g.logger.Debug("generate content",
		zap.String("model", g.model),
		zap.String("shape", shape),
		zap.Duration("latency", elapsed),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

func (g *Gemini) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: g.timeout}
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}

func classifyGeminiError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperr.ProviderUnavailable(fmt.Errorf("gemini request aborted: %w", ctxErr))
	}
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	if code == http.StatusServiceUnavailable || isConnectionFailure(err) {
		return apperr.ProviderUnavailable(err)
	}
	return apperr.Wrap(apperr.KindProviderError, fmt.Sprintf("gemini request failed (status %d)", code), err)
}
