package archive

import (
	"context"

	"whisperlink-be/internal/entity"

	"github.com/google/uuid"
)

// NoopArchive is used when no durable backend is configured.
type NoopArchive struct{}

func NewNoopArchive() *NoopArchive {
	return &NoopArchive{}
}

func (NoopArchive) SaveMessage(ctx context.Context, conversationId uuid.UUID, msg entity.Message) error {
	return nil
}

func (NoopArchive) Messages(ctx context.Context, conversationId uuid.UUID) ([]entity.Message, error) {
	return nil, nil
}

func (NoopArchive) DeleteConversation(ctx context.Context, conversationId uuid.UUID) error {
	return nil
}

func (NoopArchive) Close() error {
	return nil
}
