package content

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kidwise/api/internal/apperr"
	"github.com/kidwise/api/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reply struct {
	text string
	err  error
}

// scriptedCompleter returns replies in order and records every request.
type scriptedCompleter struct {
	mu       sync.Mutex
	replies  []reply
	fallback reply
	requests []llm.Request
}

func (s *scriptedCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return s.fallback.text, s.fallback.err
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.text, r.err
}

func (s *scriptedCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func newTestOrchestrator(c llm.Completer) (*Orchestrator, *[]time.Duration) {
	o := NewOrchestrator(c, Options{Retry: RetryPolicy{MaxRetries: 2, BaseDelay: 500 * time.Millisecond}}, zap.NewNop())
	var slept []time.Duration
	o.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return o, &slept
}

func unavailable() error { return apperr.ProviderUnavailable(errors.New("503 Service Unavailable")) }

const contentJSON = `{"analysis":{"topic":"space"},"answer":"The moon reflects sunlight.","parent_tips":["Look up together"],"story":"Luna glowed.","activities":["Draw the moon","Moon walk","Shadow play"]}`

func TestGenerateContent_Success(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{{text: contentJSON}}}
	o, _ := newTestOrchestrator(c)

	got, err := o.GenerateContent(context.Background(), GenerationRequest{Question: "Why does the moon shine?", AgeBand: AgeBand6to8})
	require.NoError(t, err)
	assert.Equal(t, "The moon reflects sunlight.", got.Answer)
	assert.Equal(t, "space", got.Analysis.Topic)

	require.Len(t, c.requests, 1)
	assert.Equal(t, float32(0.7), c.requests[0].Temperature)
	assert.Equal(t, 600, c.requests[0].MaxOutputTokens)
	assert.True(t, c.requests[0].JSON)
}

func TestGenerateContent_InvalidBandMakesNoCall(t *testing.T) {
	c := &scriptedCompleter{fallback: reply{text: contentJSON}}
	o, _ := newTestOrchestrator(c)

	_, err := o.GenerateContent(context.Background(), GenerationRequest{Question: "q", AgeBand: "13-15"})
	assert.ErrorIs(t, err, apperr.ErrInvalidAgeBand)
	assert.Zero(t, c.calls())
}

func TestGenerateContent_TransientFailuresAreMasked(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{{err: unavailable()}, {err: unavailable()}, {text: contentJSON}}}
	o, slept := newTestOrchestrator(c)

	got, err := o.GenerateContent(context.Background(), GenerationRequest{Question: "q", AgeBand: AgeBand3to5})
	require.NoError(t, err)
	assert.Equal(t, "The moon reflects sunlight.", got.Answer)
	assert.Equal(t, 3, c.calls())
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, *slept)
}

func TestGenerateContent_RetriesExhausted(t *testing.T) {
	c := &scriptedCompleter{fallback: reply{err: unavailable()}}
	o, _ := newTestOrchestrator(c)

	_, err := o.GenerateContent(context.Background(), GenerationRequest{Question: "q", AgeBand: AgeBand3to5})
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
	assert.Equal(t, 3, c.calls())
}

func TestGenerateContent_NonTransientNotRetried(t *testing.T) {
	for _, e := range []error{apperr.MissingCredential("gemini"), apperr.EmptyResponse()} {
		c := &scriptedCompleter{fallback: reply{err: e}}
		o, _ := newTestOrchestrator(c)

		_, err := o.GenerateContent(context.Background(), GenerationRequest{Question: "q", AgeBand: AgeBand3to5})
		assert.ErrorIs(t, err, e)
		assert.Equal(t, 1, c.calls())
	}
}

func TestGenerateContent_MalformedNotRetried(t *testing.T) {
	c := &scriptedCompleter{fallback: reply{text: "I cannot answer that."}}
	o, _ := newTestOrchestrator(c)

	_, err := o.GenerateContent(context.Background(), GenerationRequest{Question: "q", AgeBand: AgeBand3to5})
	assert.ErrorIs(t, err, apperr.ErrMalformedResponse)
	assert.Equal(t, 1, c.calls())
}

func TestRetry_StopsWhenContextCancelled(t *testing.T) {
	c := &scriptedCompleter{fallback: reply{err: unavailable()}}
	o := NewOrchestrator(c, Options{Retry: RetryPolicy{MaxRetries: 2, BaseDelay: time.Hour}}, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := o.GenerateContent(ctx, GenerationRequest{Question: "q", AgeBand: AgeBand3to5})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
	kind, typed := apperr.KindOf(err)
	assert.True(t, typed)
	assert.Equal(t, apperr.KindProviderUnavailable, kind)
	assert.Equal(t, 1, c.calls())
}

func TestSafetyCheck_UsesZeroTemperature(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{{text: `{"flag":"safe","notes":[]}`}}}
	o, _ := newTestOrchestrator(c)

	v, err := o.SafetyCheck(context.Background(), SafetyRequest{Question: "q", AgeBand: AgeBand9to12, Content: GeneratedContent{Answer: "a"}})
	require.NoError(t, err)
	assert.Equal(t, FlagSafe, v.Flag)
	assert.Equal(t, float32(0), c.requests[0].Temperature)
}

func TestAnswer_UnsafeRewriteBecomesFinalAnswer(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{
		{text: contentJSON},
		{text: `{"flag":"unsafe","notes":["mentions danger"],"safe_answer":"X"}`},
	}}
	o, _ := newTestOrchestrator(c)

	got, err := o.Answer(context.Background(), GenerationRequest{Question: "q", AgeBand: AgeBand6to8})
	require.NoError(t, err)
	assert.Equal(t, "X", got.FinalAnswer())
	assert.Equal(t, "The moon reflects sunlight.", got.Content.Answer)
	assert.Equal(t, 2, c.calls())
}

func TestAnswer_SafeKeepsOriginal(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{{text: contentJSON}, {text: `{"flag":"safe"}`}}}
	o, _ := newTestOrchestrator(c)

	got, err := o.Answer(context.Background(), GenerationRequest{Question: "q", AgeBand: AgeBand6to8})
	require.NoError(t, err)
	assert.Equal(t, "The moon reflects sunlight.", got.FinalAnswer())
}

func TestAnswer_MissingFlagFails(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{{text: contentJSON}, {text: `{"notes":["ok"]}`}}}
	o, _ := newTestOrchestrator(c)

	_, err := o.Answer(context.Background(), GenerationRequest{Question: "q", AgeBand: AgeBand6to8})
	assert.ErrorIs(t, err, apperr.ErrMalformedResponse)
}

const planJSON = `{"overview":"Calm evenings","schedule":[{"block":"7pm","items":["bath"]}],"script":"Goodnight","tips":[],"boundaries":[],"activities":[],"reminders":[]}`

func TestGeneratePlanContent_StrictSucceeds(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{{text: planJSON}}}
	o, _ := newTestOrchestrator(c)

	p, err := o.GeneratePlanContent(context.Background(), PlanRequest{Type: PlanBedtimeScript, AgeBand: AgeBand3to5, Goal: "sleep"})
	require.NoError(t, err)
	assert.Equal(t, "Calm evenings", p.Overview)
	require.Len(t, c.requests, 1)
	assert.Equal(t, float32(0.35), c.requests[0].Temperature)
}

func TestGeneratePlanContent_MalformedStrictFallsBackOnce(t *testing.T) {
	c := &scriptedCompleter{fallback: reply{text: "Here is a lovely plan without any JSON."}}
	o, _ := newTestOrchestrator(c)

	_, err := o.GeneratePlanContent(context.Background(), PlanRequest{Type: PlanDailyRoutine, AgeBand: AgeBand6to8, Goal: "smoother mornings"})
	assert.ErrorIs(t, err, apperr.ErrMalformedResponse)
	require.Equal(t, 2, c.calls())
	assert.Equal(t, float32(0.35), c.requests[0].Temperature)
	assert.Equal(t, float32(0.55), c.requests[1].Temperature)
	assert.Contains(t, c.requests[0].Prompt, "Use exactly these keys:")
	assert.NotContains(t, c.requests[1].Prompt, "Use exactly these keys:")
}

func TestGeneratePlanContent_LooseRecovers(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{{text: "{broken"}, {text: "```json\n" + planJSON + "\n```"}}}
	o, _ := newTestOrchestrator(c)

	p, err := o.GeneratePlanContent(context.Background(), PlanRequest{Type: PlanScreenTime, AgeBand: AgeBand9to12, Goal: "less tablet"})
	require.NoError(t, err)
	assert.Equal(t, "Goodnight", p.Script)
	assert.Equal(t, 2, c.calls())
}

func TestGeneratePlanContent_EachTierRetriesTransientFailures(t *testing.T) {
	c := &scriptedCompleter{fallback: reply{err: unavailable()}}
	o, slept := newTestOrchestrator(c)

	_, err := o.GeneratePlanContent(context.Background(), PlanRequest{Type: PlanDailyRoutine, AgeBand: AgeBand6to8, Goal: "routine"})
	assert.ErrorIs(t, err, apperr.ErrProviderUnavailable)
	assert.Equal(t, 6, c.calls())
	assert.Len(t, *slept, 4)
}

func TestGeneratePlanContent_MissingCredentialSkipsLoose(t *testing.T) {
	c := &scriptedCompleter{fallback: reply{err: apperr.MissingCredential("gemini")}}
	o, _ := newTestOrchestrator(c)

	_, err := o.GeneratePlanContent(context.Background(), PlanRequest{Type: PlanDailyRoutine, AgeBand: AgeBand6to8, Goal: "routine"})
	assert.ErrorIs(t, err, apperr.ErrMissingCredential)
	assert.Equal(t, 1, c.calls())
}

func TestGeneratePlanContent_InvalidInputMakesNoCall(t *testing.T) {
	c := &scriptedCompleter{fallback: reply{text: planJSON}}
	o, _ := newTestOrchestrator(c)

	_, err := o.GeneratePlanContent(context.Background(), PlanRequest{Type: "homework", AgeBand: AgeBand6to8})
	assert.ErrorIs(t, err, apperr.ErrInvalidPlanType)

	_, err = o.GeneratePlanContent(context.Background(), PlanRequest{Type: PlanDailyRoutine, AgeBand: "2-3"})
	assert.ErrorIs(t, err, apperr.ErrInvalidAgeBand)
	assert.Zero(t, c.calls())
}
