package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kidwise/api/internal/content"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// User is a parent account
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Child is a child profile owned by a user
type Child struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	AgeGroup  string    `json:"ageGroup" db:"age_group"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ChildUpdate carries the fields of a partial child update. Nil means unchanged.
type ChildUpdate struct {
	Name     *string
	AgeGroup *string
	Notes    *string
}

// QuestionSession is one asked question with its reviewed answer and any follow-ups.
type QuestionSession struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	UserID       uuid.UUID        `json:"userId" db:"user_id"`
	ChildID      *uuid.UUID       `json:"childId,omitempty" db:"child_id"`
	Question     string           `json:"question" db:"question"`
	AgeGroup     string           `json:"ageGroup" db:"age_group"`
	ChildEmotion string           `json:"childEmotion,omitempty" db:"child_emotion"`
	Tone         string           `json:"tone" db:"tone"`
	Language     string           `json:"language" db:"language"`
	Analysis     content.Analysis `json:"analysis" db:"analysis"`
	Answer       string           `json:"answer" db:"answer"`
	FinalAnswer  string           `json:"finalAnswer" db:"final_answer"`
	ParentTips   []string         `json:"parentTips" db:"parent_tips"`
	Story        string           `json:"story" db:"story"`
	Activities   []string         `json:"activities" db:"activities"`
	SafetyFlag   string           `json:"safetyFlag" db:"safety_flag"`
	SafetyNotes  []string         `json:"safetyNotes" db:"safety_notes"`
	SafeAnswer   string           `json:"safeAnswer,omitempty" db:"safe_answer"`
	FollowUps    []FollowUp       `json:"followUps" db:"follow_ups"`
	Feedback     []Feedback       `json:"feedback" db:"feedback"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time        `json:"updatedAt" db:"updated_at"`
}

// FollowUp is a later question asked within a session. Stored as jsonb.
type FollowUp struct {
	Question     string           `json:"question"`
	ChildEmotion string           `json:"childEmotion,omitempty"`
	Tone         string           `json:"tone"`
	Language     string           `json:"language"`
	Analysis     content.Analysis `json:"analysis"`
	Answer       string           `json:"answer"`
	FinalAnswer  string           `json:"finalAnswer"`
	ParentTips   []string         `json:"parentTips"`
	Story        string           `json:"story"`
	Activities   []string         `json:"activities"`
	SafetyFlag   string           `json:"safetyFlag"`
	SafetyNotes  []string         `json:"safetyNotes"`
	SafeAnswer   string           `json:"safeAnswer,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// Feedback is a parent's rating of an answer. Stored as jsonb.
type Feedback struct {
	Helpful   *bool     `json:"helpful,omitempty"`
	Rating    *int      `json:"rating,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewQuestionSession builds a session from reviewed content. The final
// answer is derived here, at write time.
func NewQuestionSession(userID uuid.UUID, childID *uuid.UUID, req content.GenerationRequest, r *content.ReviewedContent) *QuestionSession {
	return &QuestionSession{
		ID:           uuid.New(),
		UserID:       userID,
		ChildID:      childID,
		Question:     req.Question,
		AgeGroup:     string(req.AgeBand),
		ChildEmotion: req.Emotion,
		Tone:         string(req.Tone),
		Language:     req.Language,
		Analysis:     r.Content.Analysis,
		Answer:       r.Content.Answer,
		FinalAnswer:  r.FinalAnswer(),
		ParentTips:   r.Content.ParentTips,
		Story:        r.Content.Story,
		Activities:   r.Content.Activities,
		SafetyFlag:   string(r.Safety.Flag),
		SafetyNotes:  r.Safety.Notes,
		SafeAnswer:   r.Safety.SafeAnswer,
		FollowUps:    []FollowUp{},
		Feedback:     []Feedback{},
	}
}

// NewFollowUp builds a follow-up entry from reviewed content.
func NewFollowUp(req content.GenerationRequest, r *content.ReviewedContent) FollowUp {
	return FollowUp{
		Question:     req.Question,
		ChildEmotion: req.Emotion,
		Tone:         string(req.Tone),
		Language:     req.Language,
		Analysis:     r.Content.Analysis,
		Answer:       r.Content.Answer,
		FinalAnswer:  r.FinalAnswer(),
		ParentTips:   r.Content.ParentTips,
		Story:        r.Content.Story,
		Activities:   r.Content.Activities,
		SafetyFlag:   string(r.Safety.Flag),
		SafetyNotes:  r.Safety.Notes,
		SafeAnswer:   r.Safety.SafeAnswer,
		CreatedAt:    time.Now().UTC(),
	}
}

// Turns returns the conversation so far, oldest first, for a follow-up
// prompt. Each turn uses the answer that was shown to the parent.
func (s *QuestionSession) Turns() []content.Turn {
	turns := make([]content.Turn, 0, len(s.FollowUps)+1)
	add := func(q, final, answer string) {
		a := final
		if a == "" {
			a = answer
		}
		if q == "" || a == "" {
			return
		}
		turns = append(turns, content.Turn{Question: q, Answer: a})
	}
	add(s.Question, s.FinalAnswer, s.Answer)
	for _, f := range s.FollowUps {
		add(f.Question, f.FinalAnswer, f.Answer)
	}
	return turns
}

// PlanTemplate is a generated plan saved for reuse
type PlanTemplate struct {
	ID           uuid.UUID           `json:"id" db:"id"`
	UserID       uuid.UUID           `json:"userId" db:"user_id"`
	Title        string              `json:"title" db:"title"`
	Type         string              `json:"type" db:"type"`
	AgeGroup     string              `json:"ageGroup" db:"age_group"`
	Goal         string              `json:"goal" db:"goal"`
	ChildEmotion string              `json:"childEmotion,omitempty" db:"child_emotion"`
	Tone         string              `json:"tone" db:"tone"`
	Language     string              `json:"language" db:"language"`
	Plan         content.PlanContent `json:"plan" db:"plan"`
	CreatedAt    time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time           `json:"updatedAt" db:"updated_at"`
}

// GenerationKind names the AI operation recorded in a generation log.
type GenerationKind string

const (
	GenerationQuestion GenerationKind = "question"
	GenerationFollowUp GenerationKind = "follow_up"
	GenerationPlan     GenerationKind = "plan"
)

// GenerationLog records one AI generation for usage tracking
type GenerationLog struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    uuid.UUID      `json:"userId" db:"user_id"`
	Kind      GenerationKind `json:"kind" db:"kind"`
	Provider  string         `json:"provider" db:"provider"`
	Success   bool           `json:"success" db:"success"`
	ErrorKind string         `json:"errorKind,omitempty" db:"error_kind"`
	LatencyMs int64          `json:"latencyMs" db:"latency_ms"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

// UsageSummary aggregates generation logs per kind
type UsageSummary struct {
	Kind         GenerationKind `json:"kind" db:"kind"`
	Total        int64          `json:"total" db:"total"`
	Failed       int64          `json:"failed" db:"failed"`
	AvgLatencyMs float64        `json:"avgLatencyMs" db:"avg_latency_ms"`
}
