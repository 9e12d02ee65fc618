package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kidwise/api/internal/content"
	"github.com/kidwise/api/internal/eventbus"
	"github.com/kidwise/api/internal/middleware"
	"github.com/kidwise/api/internal/models"
	"github.com/kidwise/api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// QuestionHandler answers parent questions and manages their history
type QuestionHandler struct {
	generator content.Generator
	questions repository.QuestionRepository
	children  repository.ChildRepository
	usage     UsageRecorder
	events    EventPublisher
	logger    *zap.Logger
}

func NewQuestionHandler(
	generator content.Generator,
	questions repository.QuestionRepository,
	children repository.ChildRepository,
	usage UsageRecorder,
	events EventPublisher,
	logger *zap.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		generator: generator,
		questions: questions,
		children:  children,
		usage:     usage,
		events:    events,
		logger:    logger,
	}
}

type AskRequest struct {
	Question     string `json:"question" binding:"required,min=5,max=500"`
	AgeGroup     string `json:"ageGroup" binding:"omitempty,oneof=3-5 6-8 9-12"`
	ChildEmotion string `json:"childEmotion" binding:"max=50"`
	ChildID      string `json:"childId" binding:"omitempty,uuid"`
	Tone         string `json:"tone" binding:"omitempty,oneof=supportive concise"`
	Language     string `json:"language" binding:"max=20"`
}

type FollowUpRequest struct {
	Question     string `json:"question" binding:"required,min=5,max=500"`
	ChildEmotion string `json:"childEmotion" binding:"max=50"`
	Tone         string `json:"tone" binding:"omitempty,oneof=supportive concise"`
	Language     string `json:"language" binding:"max=20"`
}

type FeedbackRequest struct {
	Helpful *bool  `json:"helpful"`
	Rating  *int   `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment string `json:"comment" binding:"max=500"`
}

type HistoryQuery struct {
	Page  int `form:"page,default=1" binding:"min=1,max=1000000"`
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

// AnswerResponse carries the reviewed answer. Answer is the final answer:
// the safe rewrite when the content was flagged.
type AnswerResponse struct {
	ID         *uuid.UUID            `json:"id,omitempty"`
	Analysis   content.Analysis      `json:"analysis"`
	Answer     string                `json:"answer"`
	ParentTips []string              `json:"parentTips"`
	Story      string                `json:"story"`
	Activities []string              `json:"activities"`
	Safety     content.SafetyVerdict `json:"safety"`
	Tone       string                `json:"tone"`
	Language   string                `json:"language"`
}

type HistoryResponse struct {
	Items []*models.QuestionSession `json:"items"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
	Total int64                     `json:"total"`
}

func newAnswerResponse(r *content.ReviewedContent, tone content.Tone, language string) AnswerResponse {
	return AnswerResponse{
		Analysis:   r.Content.Analysis,
		Answer:     r.FinalAnswer(),
		ParentTips: r.Content.ParentTips,
		Story:      r.Content.Story,
		Activities: r.Content.Activities,
		Safety:     r.Safety,
		Tone:       string(tone),
		Language:   language,
	}
}

// Ask godoc
// @Summary Ask a question about a child
// @Description Generates age-appropriate help, reviews it for safety and stores the session.
// @Tags questions
// @Accept json
// @Produce json
// @Param body body AskRequest true "Question"
// @Success 200 {object} AnswerResponse
// @Failure 400 {object} middleware.APIError
// @Failure 404 {object} middleware.APIError "Child not found"
// @Failure 502 {object} middleware.APIError
// @Failure 503 {object} middleware.APIError
// @Router /api/question/ask [post]
func (h *QuestionHandler) Ask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	band := content.AgeBand(req.AgeGroup)
	var childID *uuid.UUID

	if req.ChildID != "" {
		id := uuid.MustParse(req.ChildID)
		child, err := h.children.Get(ctx, userID, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				middleware.NotFound(c, "Child not found")
				return
			}
			h.logger.Error("failed to load child", zap.Error(err))
			middleware.InternalError(c, "Failed to process question")
			return
		}
		band = content.AgeBand(child.AgeGroup)
		childID = &child.ID
	}
	if band == "" {
		middleware.BadRequest(c, "Provide ageGroup or childId")
		return
	}

	genReq := content.GenerationRequest{
		Question: strings.TrimSpace(req.Question),
		AgeBand:  band,
		Emotion:  strings.TrimSpace(req.ChildEmotion),
		Tone:     content.Tone(req.Tone).Normalize(),
		Language: content.LanguageOrDefault(req.Language),
	}

	started := time.Now()
	reviewed, err := h.generator.Answer(ctx, genReq)
	h.usage.RecordGeneration(ctx, userID, models.GenerationQuestion, started, err)
	if err != nil {
		h.logger.Warn("question generation failed", zap.String("user_id", userID.String()), zap.Error(err))
		middleware.RespondAIError(c, err)
		return
	}

	session := models.NewQuestionSession(userID, childID, genReq, reviewed)
	if err := h.questions.Create(ctx, session); err != nil {
		h.logger.Error("failed to save question session", zap.Error(err))
		middleware.InternalError(c, "Failed to process question")
		return
	}

	h.events.Emit(ctx, eventbus.SubjectQuestionAsked, eventbus.QuestionEvent{
		SessionID:  session.ID,
		UserID:     userID,
		AgeGroup:   session.AgeGroup,
		SafetyFlag: session.SafetyFlag,
		Turn:       1,
	})

	resp := newAnswerResponse(reviewed, genReq.Tone, genReq.Language)
	resp.ID = &session.ID
	c.JSON(http.StatusOK, resp)
}

// FollowUp godoc
// @Summary Ask a follow-up within a session
// @Description Earlier questions and the answers shown for them are sent as context.
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body FollowUpRequest true "Follow-up"
// @Success 200 {object} AnswerResponse
// @Failure 404 {object} middleware.APIError
// @Router /api/question/{id}/follow-up [post]
func (h *QuestionHandler) FollowUp(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req FollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	session, err := h.questions.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.NotFound(c, "Not found")
			return
		}
		h.logger.Error("failed to load question session", zap.Error(err))
		middleware.InternalError(c, "Failed to process follow-up")
		return
	}

	tone := req.Tone
	if tone == "" {
		tone = session.Tone
	}
	language := req.Language
	if strings.TrimSpace(language) == "" {
		language = session.Language
	}

	genReq := content.GenerationRequest{
		Question:   strings.TrimSpace(req.Question),
		AgeBand:    content.AgeBand(session.AgeGroup),
		Emotion:    strings.TrimSpace(req.ChildEmotion),
		Tone:       content.Tone(tone).Normalize(),
		Language:   content.LanguageOrDefault(language),
		PriorTurns: session.Turns(),
	}

	started := time.Now()
	reviewed, err := h.generator.Answer(ctx, genReq)
	h.usage.RecordGeneration(ctx, userID, models.GenerationFollowUp, started, err)
	if err != nil {
		h.logger.Warn("follow-up generation failed", zap.String("session_id", id.String()), zap.Error(err))
		middleware.RespondAIError(c, err)
		return
	}

	if err := h.questions.AppendFollowUp(ctx, userID, id, models.NewFollowUp(genReq, reviewed)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.NotFound(c, "Not found")
			return
		}
		h.logger.Error("failed to save follow-up", zap.Error(err))
		middleware.InternalError(c, "Failed to process follow-up")
		return
	}

	h.events.Emit(ctx, eventbus.SubjectQuestionFollowUp, eventbus.QuestionEvent{
		SessionID:  id,
		UserID:     userID,
		AgeGroup:   session.AgeGroup,
		SafetyFlag: string(reviewed.Safety.Flag),
		Turn:       len(session.FollowUps) + 2,
	})

	c.JSON(http.StatusOK, newAnswerResponse(reviewed, genReq.Tone, genReq.Language))
}

// History godoc
// @Summary Paginated question history, newest first
// @Tags questions
// @Produce json
// @Param page query int false "Page" default(1) minimum(1) maximum(1000000)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} HistoryResponse
// @Router /api/question/history [get]
func (h *QuestionHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.RespondValidationError(c, err)
		return
	}

	var (
		items []*models.QuestionSession
		total int64
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		items, err = h.questions.List(ctx, userID, q.Limit, (q.Page-1)*q.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = h.questions.Count(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("failed to fetch history", zap.Error(err))
		middleware.InternalError(c, "Failed to fetch history")
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{Items: items, Page: q.Page, Limit: q.Limit, Total: total})
}

// Get godoc
// @Summary One question session with its follow-ups
// @Tags questions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.QuestionSession
// @Failure 404 {object} middleware.APIError
// @Router /api/question/{id} [get]
func (h *QuestionHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	session, err := h.questions.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.NotFound(c, "Not found")
			return
		}
		h.logger.Error("failed to fetch question session", zap.Error(err))
		middleware.InternalError(c, "Failed to fetch entry")
		return
	}
	c.JSON(http.StatusOK, session)
}

// Feedback godoc
// @Summary Rate an answer
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body FeedbackRequest true "Feedback"
// @Success 200 {object} OKResponse
// @Failure 400 {object} middleware.APIError
// @Failure 404 {object} middleware.APIError
// @Router /api/question/{id}/feedback [post]
func (h *QuestionHandler) Feedback(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondValidationError(c, err)
		return
	}
	comment := strings.TrimSpace(req.Comment)
	if req.Helpful == nil && req.Rating == nil && comment == "" {
		middleware.RespondError(c, http.StatusBadRequest, middleware.ErrCodeValidationFailed, "Provide helpful, rating, or comment")
		return
	}

	fb := models.Feedback{
		Helpful:   req.Helpful,
		Rating:    req.Rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	ctx := c.Request.Context()
	if err := h.questions.AppendFeedback(ctx, userID, id, fb); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			middleware.NotFound(c, "Not found")
			return
		}
		h.logger.Error("failed to save feedback", zap.Error(err))
		middleware.InternalError(c, "Failed to save feedback")
		return
	}

	h.events.Emit(ctx, eventbus.SubjectQuestionFeedback, eventbus.FeedbackEvent{
		SessionID: id,
		UserID:    userID,
		Helpful:   req.Helpful,
		Rating:    req.Rating,
	})
	c.JSON(http.StatusOK, OKResponse{OK: true})
}
