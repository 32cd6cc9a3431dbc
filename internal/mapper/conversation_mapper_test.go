package mapper

import (
	"testing"

	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestConversationMapperRoundTrip(t *testing.T) {
	m := NewConversationMapper()

	conv := &entity.Conversation{
		Id:         uuid.New(),
		BotId:      uuid.New(),
		SessionKey: "visitor-42",
		Status:     entity.ConversationStatusActive,
		State: map[string]string{
			"draft_status": "collecting",
			"patient_name": "Ana",
		},
	}

	back := m.ToEntity(m.ToModel(conv))

	assert.Equal(t, conv.Id, back.Id)
	assert.Equal(t, conv.BotId, back.BotId)
	assert.Equal(t, conv.SessionKey, back.SessionKey)
	assert.Equal(t, conv.Status, back.Status)
	assert.Equal(t, conv.State, back.State)
}

func TestStateToStringMapCoercesNonStrings(t *testing.T) {
	// JSONB read back through GORM yields interface{} values; numbers and
	// booleans from hand-edited rows must survive as strings.
	raw := datatypes.JSONMap{
		"patient_name": "Ben",
		"retries":      float64(2),
		"confirmed":    true,
		"stale":        nil,
	}

	state := stateToStringMap(raw)

	assert.Equal(t, "Ben", state["patient_name"])
	assert.Equal(t, "2", state["retries"])
	assert.Equal(t, "true", state["confirmed"])
	assert.NotContains(t, state, "stale")
}

func TestMessageMappingPreservesFields(t *testing.T) {
	m := NewConversationMapper()

	msg := &model.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: uuid.New(),
		Sender:         "bot",
		Text:           "Hi! How can I help?",
	}

	e := m.MessageToEntity(msg)
	assert.Equal(t, msg.Id, e.Id)
	assert.Equal(t, msg.ConversationId, e.ConversationId)
	assert.Equal(t, msg.Sender, e.Sender)
	assert.Equal(t, msg.Text, e.Text)

	assert.Nil(t, m.MessageToEntity(nil))
	assert.Nil(t, m.ToEntity(nil))
}
