package content

import (
	"context"
	"errors"

	"github.com/kidwise/api/internal/apperr"
	"github.com/kidwise/api/internal/llm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	temperatureContent     float32 = 0.7
	temperatureSafety      float32 = 0
	temperaturePlanStrict  float32 = 0.35
	temperaturePlanLoose   float32 = 0.55
	defaultMaxOutputTokens         = 600
)

// Generator is the content surface used by the HTTP layer.
type Generator interface {
	Answer(ctx context.Context, req GenerationRequest) (*ReviewedContent, error)
	GeneratePlanContent(ctx context.Context, req PlanRequest) (*PlanContent, error)
}

var _ Generator = (*Orchestrator)(nil)

type Options struct {
	MaxOutputTokens int
	Retry           RetryPolicy
}

// Orchestrator builds prompts, calls the completer and normalizes replies.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	completer llm.Completer
	opts      Options
	logger    *zap.Logger
	tracer    trace.Tracer
	sleep     sleepFunc
}

func NewOrchestrator(completer llm.Completer, opts Options, logger *zap.Logger) *Orchestrator {
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = defaultMaxOutputTokens
	}
	if opts.Retry.MaxRetries < 0 {
		opts.Retry.MaxRetries = 0
	}
	return &Orchestrator{
		completer: completer,
		opts:      opts,
		logger:    logger.Named("content"),
		tracer:    otel.Tracer("github.com/kidwise/api/internal/content"),
		sleep:     sleepCtx,
	}
}

// GenerateContent produces structured help for a question or follow-up.
func (o *Orchestrator) GenerateContent(ctx context.Context, req GenerationRequest) (*GeneratedContent, error) {
	ctx, span := o.tracer.Start(ctx, "content.GenerateContent", trace.WithAttributes(
		attribute.String("age_band", string(req.AgeBand)),
		attribute.Int("prior_turns", len(req.PriorTurns)),
	))
	defer span.End()

	prompt, err := BuildContentPrompt(req)
	if err != nil {
		return nil, spanError(span, err)
	}
	raw, err := o.complete(ctx, "content", prompt, temperatureContent)
	if err != nil {
		return nil, spanError(span, err)
	}
	c, err := NormalizeContent(raw)
	if err != nil {
		return nil, spanError(span, err)
	}
	return c, nil
}

// SafetyCheck asks the reviewer for a verdict on generated content.
func (o *Orchestrator) SafetyCheck(ctx context.Context, req SafetyRequest) (*SafetyVerdict, error) {
	ctx, span := o.tracer.Start(ctx, "content.SafetyCheck", trace.WithAttributes(
		attribute.String("age_band", string(req.AgeBand)),
	))
	defer span.End()

	prompt, err := BuildSafetyPrompt(req)
	if err != nil {
		return nil, spanError(span, err)
	}
	raw, err := o.complete(ctx, "safety", prompt, temperatureSafety)
	if err != nil {
		return nil, spanError(span, err)
	}
	v, err := NormalizeSafety(raw)
	if err != nil {
		return nil, spanError(span, err)
	}
	span.SetAttributes(attribute.String("safety_flag", string(v.Flag)))
	return v, nil
}

// Answer generates content for req and runs the safety review over it.
func (o *Orchestrator) Answer(ctx context.Context, req GenerationRequest) (*ReviewedContent, error) {
	c, err := o.GenerateContent(ctx, req)
	if err != nil {
		return nil, err
	}
	v, err := o.SafetyCheck(ctx, SafetyRequest{
		Question: req.Question,
		AgeBand:  req.AgeBand,
		Content:  *c,
		Tone:     req.Tone,
		Language: req.Language,
	})
	if err != nil {
		return nil, err
	}
	if v.Flag == FlagUnsafe {
		o.logger.Info("content flagged unsafe",
			zap.String("age_band", string(req.AgeBand)),
			zap.Bool("rewritten", v.SafeAnswer != ""),
			zap.Strings("notes", v.Notes),
		)
	}
	return &ReviewedContent{Content: *c, Safety: *v}, nil
}

// GeneratePlanContent tries the strict plan prompt first and falls back to a
// single loose attempt when the strict tier fails or returns unusable output.
func (o *Orchestrator) GeneratePlanContent(ctx context.Context, req PlanRequest) (*PlanContent, error) {
	ctx, span := o.tracer.Start(ctx, "content.GeneratePlanContent", trace.WithAttributes(
		attribute.String("plan_type", string(req.Type)),
		attribute.String("age_band", string(req.AgeBand)),
	))
	defer span.End()

	strictPrompt, err := BuildPlanPrompt(req, true)
	if err != nil {
		return nil, spanError(span, err)
	}

	plan, err := o.planAttempt(ctx, "plan_strict", strictPrompt, temperaturePlanStrict)
	if err == nil {
		span.SetAttributes(attribute.String("plan_tier", "strict"))
		return plan, nil
	}
	if !fallsBack(ctx, err) {
		return nil, spanError(span, err)
	}
	o.logger.Warn("strict plan attempt failed, using loose prompt",
		zap.String("plan_type", string(req.Type)),
		zap.Error(err),
	)

	loosePrompt, err := BuildPlanPrompt(req, false)
	if err != nil {
		return nil, spanError(span, err)
	}
	plan, err = o.planAttempt(ctx, "plan_loose", loosePrompt, temperaturePlanLoose)
	if err != nil {
		return nil, spanError(span, err)
	}
	span.SetAttributes(attribute.String("plan_tier", "loose"))
	return plan, nil
}

func (o *Orchestrator) planAttempt(ctx context.Context, op, prompt string, temperature float32) (*PlanContent, error) {
	raw, err := o.complete(ctx, op, prompt, temperature)
	if err != nil {
		return nil, err
	}
	return NormalizePlan(raw)
}

// fallsBack reports whether a strict plan failure should move on to the loose
// prompt. A missing credential or an abandoned request would fail the same way.
func fallsBack(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, apperr.ErrMissingCredential) {
		return false
	}
	_, typed := apperr.KindOf(err)
	return typed
}

func (o *Orchestrator) complete(ctx context.Context, op, prompt string, temperature float32) (string, error) {
	req := llm.Request{
		Prompt:          prompt,
		MaxOutputTokens: o.opts.MaxOutputTokens,
		Temperature:     temperature,
		JSON:            true,
	}
	return withRetry(ctx, o.opts.Retry, o.sleep, o.logger, op, func(ctx context.Context) (string, error) {
		return o.completer.Complete(ctx, req)
	})
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if kind, ok := apperr.KindOf(err); ok {
		span.SetAttributes(attribute.String("error_kind", string(kind)))
	}
	return err
}
