package service

import (
	"context"
	"encoding/json"

	"whisperlink-be/internal/dto"
	"whisperlink-be/internal/entity"
	"whisperlink-be/internal/pkg/logger"
	"whisperlink-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IArchiverService drains the archive topic into the durable backend, off the
// send path: a slow disk never delays the mutation or broadcast that queued
// the task.
type IArchiverService interface {
	Consume(ctx context.Context) error
}

type archiverService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	archive   contract.MessageArchive
	logger    logger.ILogger
}

func NewArchiverService(
	pubSub *gochannel.GoChannel,
	topicName string,
	archive contract.MessageArchive,
	log logger.ILogger,
) IArchiverService {
	return &archiverService{
		pubSub:    pubSub,
		topicName: topicName,
		archive:   archive,
		logger:    log,
	}
}

func (s *archiverService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *archiverService) processMessage(ctx context.Context, msg *message.Message) {
	var task dto.ArchiveMessageTask
	if err := json.Unmarshal(msg.Payload, &task); err != nil {
		s.logger.Error("Archiver", "Failed to unmarshal archive task", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	err := s.archive.SaveMessage(ctx, task.ConversationId, entity.Message{
		Id:         task.MessageId,
		Text:       task.Text,
		AuthorRole: entity.Role(task.AuthorRole),
		SentAt:     task.SentAt,
	})
	if err != nil {
		s.logger.Error("Archiver", "Failed to archive message", map[string]interface{}{
			"conversation_id": task.ConversationId,
			"message_id":      task.MessageId,
			"error":           err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
