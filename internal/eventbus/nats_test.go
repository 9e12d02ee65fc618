package eventbus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopPublisherDropsEvents(t *testing.T) {
	var nilPub *Publisher
	assert.NoError(t, nilPub.Publish(context.Background(), SubjectQuestionAsked, QuestionEvent{}))
	assert.False(t, nilPub.Connected())
	nilPub.Close()

	p := Noop()
	assert.NoError(t, p.Publish(context.Background(), SubjectPlanGenerated, PlanEvent{Type: "bedtime_script"}))
	assert.False(t, p.Connected())
	p.Emit(context.Background(), SubjectPlanGenerated, nil)
	p.Close()
}

func TestNewEventEnvelope(t *testing.T) {
	sid := uuid.New()
	evt, err := NewEvent(SubjectQuestionFollowUp, QuestionEvent{SessionID: sid, AgeGroup: "6-8", SafetyFlag: "safe", Turn: 2})
	require.NoError(t, err)

	assert.Equal(t, "kidwise.question.followup", evt.Subject)
	assert.NotEmpty(t, evt.ID)
	assert.False(t, evt.Timestamp.IsZero())

	var data QuestionEvent
	require.NoError(t, json.Unmarshal(evt.Data, &data))
	assert.Equal(t, sid, data.SessionID)
	assert.Equal(t, 2, data.Turn)
}

func TestNewEventRejectsUnencodable(t *testing.T) {
	_, err := NewEvent(SubjectQuestionAsked, make(chan int))
	assert.Error(t, err)
}
