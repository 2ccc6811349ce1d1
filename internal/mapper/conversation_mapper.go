package mapper

import (
	"whisperlink-be/internal/dto"
	"whisperlink-be/internal/entity"

	"github.com/samber/lo"
)

func ToMessageResponse(m entity.Message) dto.MessageResponse {
	return dto.MessageResponse{
		Id:         m.Id,
		Text:       m.Text,
		AuthorRole: string(m.AuthorRole),
		SentAt:     m.SentAt,
	}
}

func ToConversationResponse(c *entity.Conversation) dto.ConversationResponse {
	return dto.ConversationResponse{
		Id:                 c.Id,
		LinkId:             c.LinkId,
		AnonymousSessionId: c.AnonymousSessionId,
		Messages:           lo.Map(c.Messages, func(m entity.Message, _ int) dto.MessageResponse { return ToMessageResponse(m) }),
		CreatedAt:          c.CreatedAt,
		LastMessageAt:      c.LastMessageAt,
	}
}

func ToConversationList(convs []*entity.Conversation) []dto.ConversationResponse {
	return lo.Map(convs, func(c *entity.Conversation, _ int) dto.ConversationResponse { return ToConversationResponse(c) })
}
