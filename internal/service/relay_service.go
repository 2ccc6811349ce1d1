package service

import (
	"context"
	"encoding/json"
	"errors"

	"whisperlink-be/internal/dto"
	"whisperlink-be/internal/entity"
	"whisperlink-be/internal/mapper"
	"whisperlink-be/internal/pkg/logger"
	"whisperlink-be/internal/repository/memory"
	"whisperlink-be/internal/store"
	ws "whisperlink-be/internal/websocket"
)

// IRelayService is the session gateway: it receives inbound session events,
// mutates the store, and fans the result out to the rooms implied by the
// entity's relationships.
type IRelayService interface {
	ws.EventHandler
}

type relayService struct {
	store     *store.Store
	hub       *ws.Hub
	tokens    *memory.TokenRepository
	publisher IPublisherService
	logger    logger.ILogger
}

func NewRelayService(
	st *store.Store,
	hub *ws.Hub,
	tokens *memory.TokenRepository,
	publisher IPublisherService,
	log logger.ILogger,
) IRelayService {
	return &relayService{
		store:     st,
		hub:       hub,
		tokens:    tokens,
		publisher: publisher,
		logger:    log,
	}
}

// HandleJoinConversation adds the session to the conversation room and
// delivers the current TTL-filtered message sequence to that session only.
func (s *relayService) HandleJoinConversation(c *ws.Client, p dto.JoinConversationPayload) {
	conv, err := s.store.GetConversation(p.ConversationId)
	if err != nil {
		s.sendError(c, err)
		return
	}

	s.hub.Join(c, ws.ConversationRoom(conv.Id))
	s.sendTo(c, dto.EventLoadMessages, dto.LoadMessagesPayload{
		Messages: mapper.ToConversationResponse(conv).Messages,
	})
}

// HandleJoinLink adds the session to the link's dashboard room and delivers
// the current visible-conversations list to that session only.
func (s *relayService) HandleJoinLink(c *ws.Client, p dto.JoinLinkPayload) {
	link, err := s.store.GetLink(p.LinkId)
	if err != nil {
		s.sendError(c, err)
		return
	}

	if p.CreatorToken != nil {
		linkId, ok := s.tokens.Resolve(*p.CreatorToken)
		if !ok || linkId != link.Id || *p.CreatorToken != link.CreatorId {
			s.sendErrorMessage(c, "invalid creator token")
			return
		}
	}

	convs, err := s.store.ListVisibleConversations(link.Id)
	if err != nil {
		s.sendError(c, err)
		return
	}

	s.hub.Join(c, ws.LinkRoom(link.Id))
	s.sendTo(c, dto.EventLoadConversations, dto.LoadConversationsPayload{
		Conversations: mapper.ToConversationList(convs),
	})
}

// HandleSendMessage appends the message and broadcasts the result. The
// new-message frame goes to every conversation-room member including the
// sender; the client reconciles its optimistic echo by message id. On a
// promotion the link room sees new-conversation first, then
// conversation-updated, in that order.
func (s *relayService) HandleSendMessage(c *ws.Client, p dto.SendMessagePayload) {
	role := entity.RoleFromCreatorFlag(p.IsCreator)

	msg, promoted, err := s.store.AppendMessage(p.ConversationId, p.Text, role)
	if err != nil {
		s.sendError(c, err)
		return
	}

	conv, err := s.store.GetConversation(p.ConversationId)
	if err != nil {
		// Swept between append and read; the message is gone with it.
		s.sendError(c, err)
		return
	}
	convRes := mapper.ToConversationResponse(conv)

	s.broadcast(ws.ConversationRoom(conv.Id), dto.EventNewMessage, dto.NewMessagePayload{
		ConversationId: conv.Id,
		Message:        mapper.ToMessageResponse(msg),
	})

	if promoted {
		s.broadcast(ws.LinkRoom(conv.LinkId), dto.EventNewConversation, dto.NewConversationPayload{
			Conversation: convRes,
		})
		s.logger.Info("RelayService", "Conversation promoted", map[string]interface{}{
			"conversation_id": conv.Id,
			"link_id":         conv.LinkId,
		})
	}
	s.broadcast(ws.LinkRoom(conv.LinkId), dto.EventConversationUpdated, dto.ConversationUpdatedPayload{
		Conversation: convRes,
	})

	s.publishArchiveTask(conv, msg)
}

// HandleTyping relays the hint to the other members only; a sender echo
// would self-flicker and typing carries no correctness requirement.
func (s *relayService) HandleTyping(c *ws.Client, p dto.TypingPayload) {
	payload, err := dto.NewEvent(dto.EventUserTyping, dto.UserTypingPayload{IsCreator: p.IsCreator})
	if err != nil {
		return
	}
	s.hub.BroadcastExcept(ws.ConversationRoom(p.ConversationId), payload, c)
}

func (s *relayService) HandleStopTyping(c *ws.Client, p dto.StopTypingPayload) {
	payload, err := dto.NewEvent(dto.EventUserStopTyping, nil)
	if err != nil {
		return
	}
	s.hub.BroadcastExcept(ws.ConversationRoom(p.ConversationId), payload, c)
}

// HandleDisconnect performs no entity-store mutation; room memberships are
// removed by the hub when the session unregisters.
func (s *relayService) HandleDisconnect(c *ws.Client) {
	s.logger.Debug("RelayService", "Session disconnected", map[string]interface{}{"session_id": c.Id})
}

func (s *relayService) publishArchiveTask(conv *entity.Conversation, msg entity.Message) {
	task := dto.ArchiveMessageTask{
		ConversationId: conv.Id,
		MessageId:      msg.Id,
		Text:           msg.Text,
		AuthorRole:     string(msg.AuthorRole),
		SentAt:         msg.SentAt,
	}
	payload, err := json.Marshal(task)
	if err == nil {
		err = s.publisher.Publish(context.Background(), payload)
	}
	if err != nil {
		s.logger.Warn("RelayService", "Failed to queue archive task", map[string]interface{}{
			"message_id": msg.Id,
			"error":      err.Error(),
		})
	}
}

func (s *relayService) broadcast(key ws.RoomKey, eventType dto.EventType, data any) {
	payload, err := dto.NewEvent(eventType, data)
	if err != nil {
		s.logger.Error("RelayService", "Failed to encode event", map[string]interface{}{
			"event": string(eventType),
			"error": err.Error(),
		})
		return
	}
	s.hub.Broadcast(key, payload)
}

func (s *relayService) sendTo(c *ws.Client, eventType dto.EventType, data any) {
	payload, err := dto.NewEvent(eventType, data)
	if err != nil {
		s.logger.Error("RelayService", "Failed to encode event", map[string]interface{}{
			"event": string(eventType),
			"error": err.Error(),
		})
		return
	}
	s.hub.SendTo(c, payload)
}

func (s *relayService) sendError(c *ws.Client, err error) {
	switch {
	case errors.Is(err, store.ErrLinkExpired):
		s.sendErrorMessage(c, "this link has expired")
	case errors.Is(err, store.ErrLinkNotFound):
		s.sendErrorMessage(c, "link not found")
	case errors.Is(err, store.ErrConversationNotFound):
		s.sendErrorMessage(c, "conversation not found")
	case errors.Is(err, store.ErrEmptyMessage):
		s.sendErrorMessage(c, "message text is empty")
	case errors.Is(err, store.ErrMessageTooLong):
		s.sendErrorMessage(c, "message text is too long")
	default:
		s.logger.Error("RelayService", "Unexpected relay error", map[string]interface{}{"error": err.Error()})
		s.sendErrorMessage(c, "internal error")
	}
}

func (s *relayService) sendErrorMessage(c *ws.Client, message string) {
	s.sendTo(c, dto.EventError, dto.ErrorPayload{Message: message})
}
