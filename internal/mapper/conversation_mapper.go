package mapper

import (
	"fmt"

	"clinic-assist-be/internal/entity"
	"clinic-assist-be/internal/model"

	"gorm.io/datatypes"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}
	return &entity.Conversation{
		Id:         c.Id,
		BotId:      c.BotId,
		SessionKey: c.SessionKey,
		Status:     entity.ConversationStatus(c.Status),
		State:      stateToStringMap(c.State),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}
	state := make(datatypes.JSONMap, len(c.State))
	for k, v := range c.State {
		state[k] = v
	}
	return &model.Conversation{
		Id:         c.Id,
		BotId:      c.BotId,
		SessionKey: c.SessionKey,
		Status:     string(c.Status),
		State:      state,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (m *ConversationMapper) MessageToEntity(msg *model.ConversationMessage) *entity.ConversationMessage {
	if msg == nil {
		return nil
	}
	return &entity.ConversationMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Sender:         msg.Sender,
		Text:           msg.Text,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ConversationMapper) MessageToModel(msg *entity.ConversationMessage) *model.ConversationMessage {
	if msg == nil {
		return nil
	}
	return &model.ConversationMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Sender:         msg.Sender,
		Text:           msg.Text,
		CreatedAt:      msg.CreatedAt,
	}
}

// stateToStringMap flattens the stored JSONB map to strings. Dialog state
// values are written as strings; anything else (hand-edited rows, older
// writers) is stringified rather than dropped.
func stateToStringMap(raw datatypes.JSONMap) map[string]string {
	state := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			state[k] = val
		case nil:
			// skip
		default:
			state[k] = fmt.Sprintf("%v", val)
		}
	}
	return state
}
