package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const SubjectPrefix = "kidwise."

// Subjects
const (
	SubjectQuestionAsked    = SubjectPrefix + "question.asked"
	SubjectQuestionFollowUp = SubjectPrefix + "question.followup"
	SubjectQuestionFeedback = SubjectPrefix + "question.feedback"
	SubjectPlanGenerated    = SubjectPrefix + "plan.generated"
)

// Event wraps the payload with metadata
type Event struct {
	ID        string          `json:"id"`
	Subject   string          `json:"subject"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewEvent(subject string, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event data: %w", err)
	}
	return &Event{
		ID:        uuid.NewString(),
		Subject:   subject,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	}, nil
}

// QuestionEvent is published when a question or follow-up is answered.
// It carries identifiers and the safety outcome, never the child's text.
type QuestionEvent struct {
	SessionID  uuid.UUID `json:"sessionId"`
	UserID     uuid.UUID `json:"userId"`
	AgeGroup   string    `json:"ageGroup"`
	SafetyFlag string    `json:"safetyFlag"`
	Turn       int       `json:"turn"`
}

type FeedbackEvent struct {
	SessionID uuid.UUID `json:"sessionId"`
	UserID    uuid.UUID `json:"userId"`
	Helpful   *bool     `json:"helpful,omitempty"`
	Rating    *int      `json:"rating,omitempty"`
}

type PlanEvent struct {
	UserID     uuid.UUID  `json:"userId"`
	Type       string     `json:"type"`
	AgeGroup   string     `json:"ageGroup"`
	Saved      bool       `json:"saved"`
	TemplateID *uuid.UUID `json:"templateId,omitempty"`
}
