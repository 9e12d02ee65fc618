package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kidwise/api/internal/apperr"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func jsonHandler(t *testing.T, status int, body string, inspect func(*http.Request, []byte)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if inspect != nil {
			inspect(r, raw)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestGemini_Complete_Success(t *testing.T) {
	body := `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"answer\":\"Stars are far away suns.\"}"}]},"finishReason":"STOP"}],"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":7}}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, body, func(r *http.Request, raw []byte) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash-lite:generateContent")
		assert.Contains(t, string(raw), `"responseMimeType":"application/json"`)
		assert.Contains(t, string(raw), "Why do stars twinkle?")
	}))
	defer srv.Close()

	g := NewGemini(Config{APIKey: "test-key", Model: "gemini-2.5-flash-lite", BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
	text, err := g.Complete(context.Background(), Request{Prompt: "Why do stars twinkle?", MaxOutputTokens: 600, Temperature: 0.7, JSON: true})

	require.NoError(t, err)
	assert.Equal(t, `{"answer":"Stars are far away suns."}`, text)
}

func TestGemini_Complete_MissingCredential(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	g := NewGemini(Config{Model: "gemini-2.5-flash-lite", BaseURL: srv.URL}, zap.NewNop())
	_, err := g.Complete(context.Background(), Request{Prompt: "hi"})

	assert.ErrorIs(t, err, apperr.ErrMissingCredential)
	assert.Zero(t, calls.Load())
}

func TestGemini_Complete_Unavailable(t *testing.T) {
	body := `{"error":{"code":503,"message":"The model is overloaded.","status":"UNAVAILABLE"}}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusServiceUnavailable, body, nil))
	defer srv.Close()

	g := NewGemini(Config{APIKey: "k", Model: "gemini-2.5-flash-lite", BaseURL: srv.URL}, zap.NewNop())
	_, err := g.Complete(context.Background(), Request{Prompt: "hi"})

	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
}

func TestGemini_Complete_BadRequestIsNotTransient(t *testing.T) {
	body := `{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusBadRequest, body, nil))
	defer srv.Close()

	g := NewGemini(Config{APIKey: "k", Model: "gemini-2.5-flash-lite", BaseURL: srv.URL}, zap.NewNop())
	_, err := g.Complete(context.Background(), Request{Prompt: "hi"})

	assert.ErrorIs(t, err, apperr.ErrProviderError)
	assert.NotErrorIs(t, err, apperr.ErrProviderUnavailable)
}

func TestGemini_Complete_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, `{"candidates":[]}`, nil))
	defer srv.Close()

	g := NewGemini(Config{APIKey: "k", Model: "gemini-2.5-flash-lite", BaseURL: srv.URL}, zap.NewNop())
	_, err := g.Complete(context.Background(), Request{Prompt: "hi"})

	assert.ErrorIs(t, err, apperr.ErrEmptyResponse)
}

func TestGemini_Complete_ThoughtOnlyIsEmpty(t *testing.T) {
	body := `{"candidates":[{"content":{"role":"model","parts":[{"text":"internal reasoning about the child","thought":true}]},"finishReason":"STOP"}]}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, body, nil))
	defer srv.Close()

	g := NewGemini(Config{APIKey: "k", Model: "gemini-2.5-flash", BaseURL: srv.URL}, zap.NewNop())
	text, err := g.Complete(context.Background(), Request{Prompt: "hi"})

	assert.ErrorIs(t, err, apperr.ErrEmptyResponse)
	assert.Empty(t, text)
}

func TestGemini_Complete_SkipsThoughtParts(t *testing.T) {
	body := `{"candidates":[{"content":{"role":"model","parts":[{"text":"let me think","thought":true},{"text":"{\"answer\":\"yes\"}"}]}},{"content":{"role":"model","parts":[{"text":"second candidate"}]}}]}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, body, nil))
	defer srv.Close()

	g := NewGemini(Config{APIKey: "k", Model: "gemini-2.5-flash", BaseURL: srv.URL}, zap.NewNop())
	text, err := g.Complete(context.Background(), Request{Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, `{"answer":"yes"}`, text)
}

func TestGeminiCandidateParts(t *testing.T) {
	extract := geminiShapes[1].extract
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Parts: []*genai.Part{
			nil,
			{Text: "hidden", Thought: true},
			{Text: "{\"answer\":"},
			{Text: "\"ok\"}"},
		}}},
		{Content: &genai.Content{Parts: []*genai.Part{{Text: "other candidate"}}}},
	}}

	assert.Equal(t, `{"answer":"ok"}`, extract(resp))
	assert.Empty(t, extract(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "hidden", Thought: true}}}}}}))
	assert.Empty(t, extract(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{nil}}))
	assert.Empty(t, extract(nil))
}

func TestOpenAI_Complete_Success(t *testing.T) {
	body := `{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"{\"flag\":\"safe\"}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":20,"completion_tokens":4,"total_tokens":24}}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, body, func(r *http.Request, raw []byte) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.Unmarshal(raw, &req))
		assert.Equal(t, "gpt-4o-mini", req["model"])
		assert.Equal(t, map[string]any{"type": "json_object"}, req["response_format"])
		assert.Greater(t, req["temperature"], 0.0)
	}))
	defer srv.Close()

	o := NewOpenAI(Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
	text, err := o.Complete(context.Background(), Request{Prompt: "review", Temperature: 0, JSON: true})

	require.NoError(t, err)
	assert.Equal(t, `{"flag":"safe"}`, text)
}

func TestOpenAI_Complete_MultiContent(t *testing.T) {
	body := `{"id":"chatcmpl-2","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":[{"type":"text","text":"{\"flag\":"},{"type":"image_url","image_url":{"url":"https://example.com/x.png"}},{"type":"text","text":"\"unsafe\"}"}]},"finish_reason":"stop"}]}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, body, nil))
	defer srv.Close()

	o := NewOpenAI(Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
	text, err := o.Complete(context.Background(), Request{Prompt: "review", JSON: true})

	require.NoError(t, err)
	assert.Equal(t, `{"flag":"unsafe"}`, text)
}

func TestOpenAIShapes(t *testing.T) {
	resp := openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{
		Message: openai.ChatCompletionMessage{MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: "hello "},
			{Type: openai.ChatMessagePartTypeImageURL},
			{Type: openai.ChatMessagePartTypeText, Text: "world"},
		}},
	}}}

	text, shape := firstText(resp, openAIShapes)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, "multi_content", shape)

	text, shape = firstText(openai.ChatCompletionResponse{}, openAIShapes)
	assert.Empty(t, text)
	assert.Empty(t, shape)
}

func TestOpenAI_Complete_Unavailable(t *testing.T) {
	body := `{"error":{"message":"overloaded","type":"server_error"}}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusServiceUnavailable, body, nil))
	defer srv.Close()

	o := NewOpenAI(Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
	_, err := o.Complete(context.Background(), Request{Prompt: "x"})

	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
}

func TestOpenAI_Complete_ConnectionRefused(t *testing.T) {
	o := NewOpenAI(Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: "http://127.0.0.1:1", Timeout: 2 * time.Second}, zap.NewNop())
	_, err := o.Complete(context.Background(), Request{Prompt: "x"})

	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
}

func TestOpenAI_Complete_EmptyChoices(t *testing.T) {
	body := `{"id":"chatcmpl-1","object":"chat.completion","choices":[],"usage":{"prompt_tokens":1,"completion_tokens":0,"total_tokens":1}}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, body, nil))
	defer srv.Close()

	o := NewOpenAI(Config{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
	_, err := o.Complete(context.Background(), Request{Prompt: "x"})

	assert.ErrorIs(t, err, apperr.ErrEmptyResponse)
}

func TestOpenAI_Complete_MissingCredential(t *testing.T) {
	o := NewOpenAI(Config{Model: "gpt-4o-mini", BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	_, err := o.Complete(context.Background(), Request{Prompt: "x"})

	assert.ErrorIs(t, err, apperr.ErrMissingCredential)
}

func TestOllama_Complete_Success(t *testing.T) {
	body := `{"model":"llama3.1","message":{"role":"assistant","content":"{\"overview\":\"Calm evenings\"}"},"done":true,"prompt_eval_count":30,"eval_count":12}`
	srv := httptest.NewServer(jsonHandler(t, http.StatusOK, body, func(r *http.Request, raw []byte) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.Unmarshal(raw, &req))
		assert.Equal(t, "json", req["format"])
		assert.Equal(t, false, req["stream"])
	}))
	defer srv.Close()

	o, err := NewOllama(Config{Model: "llama3.1", BaseURL: srv.URL + "/v1", Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	text, err := o.Complete(context.Background(), Request{Prompt: "plan", Temperature: 0.35, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"overview":"Calm evenings"}`, text)
}

func TestOllama_Complete_Unavailable(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, http.StatusServiceUnavailable, `{}`, nil))
	defer srv.Close()

	o, err := NewOllama(Config{Model: "llama3.1", BaseURL: srv.URL, Timeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), Request{Prompt: "plan"})
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
}

func TestNew_SelectsProvider(t *testing.T) {
	c, err := New(Config{Provider: "OpenAI", APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, c)

	c, err = New(Config{}, zap.NewNop())
	require.NoError(t, err)
	g, ok := c.(*Gemini)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.5-flash-lite", g.model)

	_, err = New(Config{Provider: "bard"}, zap.NewNop())
	assert.Error(t, err)
}
