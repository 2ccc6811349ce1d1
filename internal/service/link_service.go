package service

import (
	"context"

	"whisperlink-be/internal/dto"
	"whisperlink-be/internal/mapper"
	"whisperlink-be/internal/pkg/logger"
	"whisperlink-be/internal/repository/memory"
	"whisperlink-be/internal/store"

	"github.com/google/uuid"
)

// ILinkService is the transport-agnostic boundary the HTTP layer calls into.
type ILinkService interface {
	CreateLink(ctx context.Context) (*dto.CreateLinkResponse, error)
	GetLink(ctx context.Context, linkId uuid.UUID) (*dto.ShowLinkResponse, error)
	VerifyLink(ctx context.Context, linkId uuid.UUID) *dto.VerifyLinkResponse
	ListVisibleConversations(ctx context.Context, linkId uuid.UUID) ([]dto.ConversationResponse, error)
	CreateConversation(ctx context.Context, linkId uuid.UUID) (*dto.ConversationResponse, error)
	GetConversation(ctx context.Context, conversationId uuid.UUID) (*dto.ConversationResponse, error)
}

type linkService struct {
	store  *store.Store
	tokens *memory.TokenRepository
	logger logger.ILogger
}

func NewLinkService(st *store.Store, tokens *memory.TokenRepository, log logger.ILogger) ILinkService {
	return &linkService{
		store:  st,
		tokens: tokens,
		logger: log,
	}
}

func (s *linkService) CreateLink(ctx context.Context) (*dto.CreateLinkResponse, error) {
	link := s.store.CreateLink()
	s.tokens.Save(link.CreatorId, link.Id)

	s.logger.Info("LinkService", "Link created", map[string]interface{}{"link_id": link.Id})
	return &dto.CreateLinkResponse{
		LinkId:       link.Id,
		CreatorToken: link.CreatorId,
	}, nil
}

func (s *linkService) GetLink(ctx context.Context, linkId uuid.UUID) (*dto.ShowLinkResponse, error) {
	link, err := s.store.GetLink(linkId)
	if err != nil {
		return nil, err
	}

	res := &dto.ShowLinkResponse{
		Id:        link.Id,
		CreatedAt: link.CreatedAt,
	}
	if ttl := s.store.Policy().LinkTTL; ttl > 0 {
		expiresAt := link.CreatedAt.Add(ttl)
		res.ExpiresAt = &expiresAt
	}
	return res, nil
}

func (s *linkService) VerifyLink(ctx context.Context, linkId uuid.UUID) *dto.VerifyLinkResponse {
	_, err := s.store.GetLink(linkId)
	return &dto.VerifyLinkResponse{Exists: err == nil}
}

func (s *linkService) ListVisibleConversations(ctx context.Context, linkId uuid.UUID) ([]dto.ConversationResponse, error) {
	convs, err := s.store.ListVisibleConversations(linkId)
	if err != nil {
		return nil, err
	}
	return mapper.ToConversationList(convs), nil
}

func (s *linkService) CreateConversation(ctx context.Context, linkId uuid.UUID) (*dto.ConversationResponse, error) {
	conv, err := s.store.CreateConversation(linkId)
	if err != nil {
		return nil, err
	}

	s.logger.Info("LinkService", "Conversation created", map[string]interface{}{
		"link_id":         linkId,
		"conversation_id": conv.Id,
	})
	res := mapper.ToConversationResponse(conv)
	return &res, nil
}

func (s *linkService) GetConversation(ctx context.Context, conversationId uuid.UUID) (*dto.ConversationResponse, error) {
	conv, err := s.store.GetConversation(conversationId)
	if err != nil {
		return nil, err
	}
	res := mapper.ToConversationResponse(conv)
	return &res, nil
}
