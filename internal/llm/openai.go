package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/kidwise/api/internal/apperr"
	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const providerOpenAI = "openai"

// OpenAI calls any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client *openai.Client
	apiKey string
	model  string
	logger *zap.Logger
}

func NewOpenAI(cfg Config, logger *zap.Logger) *OpenAI {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &OpenAI{
		client: openai.NewClientWithConfig(oc),
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		logger: logger.Named("openai"),
	}
}

var openAIShapes = []textShape[openai.ChatCompletionResponse]{
	{name: "message", extract: func(r openai.ChatCompletionResponse) string {
		if len(r.Choices) == 0 {
			return ""
		}
		return r.Choices[0].Message.Content
	}},
	{name: "multi_content", extract: func(r openai.ChatCompletionResponse) string {
		if len(r.Choices) == 0 {
			return ""
		}
		var b strings.Builder
		for _, part := range r.Choices[0].Message.MultiContent {
			if part.Type == openai.ChatMessagePartTypeText {
				b.WriteString(part.Text)
			}
		}
		return b.String()
	}},
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	if o.apiKey == "" {
		return "", apperr.MissingCredential(providerOpenAI)
	}

	temperature := req.Temperature
	if temperature == 0 {
		// A zero temperature is dropped by omitempty; send the smallest positive value instead.
		temperature = math.SmallestNonzeroFloat32
	}
	chatReq := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: temperature,
		MaxTokens:   req.MaxOutputTokens,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	elapsed := time.Since(start)
	if err != nil {
		classified := classifyOpenAIError(ctx, err)
		status := statusError
		if errors.Is(classified, apperr.ErrProviderUnavailable) {
			status = statusUnavailable
		}
		observeRequest(providerOpenAI, o.model, status, elapsed)
		o.logger.Warn("chat completion failed", zap.Duration("latency", elapsed), zap.Error(err))
		return "", classified
	}

	text, shape := firstText(resp, openAIShapes)
	if text == "" {
		observeRequest(providerOpenAI, o.model, statusEmpty, elapsed)
		return "", apperr.EmptyResponse()
	}
	observeRequest(providerOpenAI, o.model, statusSuccess, elapsed)

	promptTokens, completionTokens := resp.Usage.PromptTokens, resp.Usage.CompletionTokens
	if resp.Usage.TotalTokens == 0 {
		promptTokens = o.countTokens(req.Prompt)
		completionTokens = o.countTokens(text)
	}
	observeTokens(providerOpenAI, o.model, promptTokens, completionTokens)

	o.logger.Debug("chat completion",
		zap.String("model", o.model),
		zap.String("shape", shape),
		zap.Duration("latency", elapsed),
		zap.Int("prompt_tokens", promptTokens),
		zap.Int("completion_tokens", completionTokens),
	)
	return text, nil
}

// countTokens estimates tokens when the endpoint omits usage data.
func (o *OpenAI) countTokens(s string) int {
	enc, err := tiktoken.EncodingForModel(o.model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err != nil {
			return 0
		}
	}
	return len(enc.Encode(s, nil, nil))
}

func classifyOpenAIError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperr.ProviderUnavailable(fmt.Errorf("openai request aborted: %w", ctxErr))
	}
	code := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		code = reqErr.HTTPStatusCode
	}
	if code == http.StatusServiceUnavailable || isConnectionFailure(err) {
		return apperr.ProviderUnavailable(err)
	}
	return apperr.Wrap(apperr.KindProviderError, fmt.Sprintf("openai request failed (status %d)", code), err)
}
