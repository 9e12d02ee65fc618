package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kidwise/api/internal/content"
	"github.com/stretchr/testify/assert"
)

func TestNewQuestionSession_StoresFinalAnswer(t *testing.T) {
	req := content.GenerationRequest{Question: "Why do cats purr?", AgeBand: content.AgeBand3to5, Tone: content.ToneSupportive, Language: "en"}
	reviewed := &content.ReviewedContent{
		Content: content.GeneratedContent{Answer: "original", ParentTips: []string{}, Activities: []string{}},
		Safety:  content.SafetyVerdict{Flag: content.FlagUnsafe, Notes: []string{"n"}, SafeAnswer: "rewritten"},
	}

	s := NewQuestionSession(uuid.New(), nil, req, reviewed)

	assert.Equal(t, "original", s.Answer)
	assert.Equal(t, "rewritten", s.FinalAnswer)
	assert.Equal(t, "unsafe", s.SafetyFlag)
	assert.Equal(t, "3-5", s.AgeGroup)
	assert.NotNil(t, s.FollowUps)
	assert.NotNil(t, s.Feedback)
}

func TestQuestionSession_Turns(t *testing.T) {
	s := &QuestionSession{
		Question:    "First?",
		Answer:      "raw first",
		FinalAnswer: "shown first",
		FollowUps: []FollowUp{
			{Question: "Second?", Answer: "raw second"},
			{Question: "", Answer: "dangling"},
			{Question: "Third?", FinalAnswer: "shown third"},
		},
	}

	assert.Equal(t, []content.Turn{
		{Question: "First?", Answer: "shown first"},
		{Question: "Second?", Answer: "raw second"},
		{Question: "Third?", Answer: "shown third"},
	}, s.Turns())
}
