package service

import (
	"context"
	"time"

	"whisperlink-be/internal/pkg/logger"
	"whisperlink-be/internal/repository/contract"
	"whisperlink-be/internal/store"
	ws "whisperlink-be/internal/websocket"
)

// ISweeperService runs the garbage collector on a fixed period. A failed
// sweep is logged and retried at the next interval; it never crashes the
// process, and a partial sweep is fine since the pass is idempotent.
type ISweeperService interface {
	Run(ctx context.Context) error
	SweepOnce(ctx context.Context) store.SweepResult
}

type sweeperService struct {
	store    *store.Store
	hub      *ws.Hub
	archive  contract.MessageArchive
	interval time.Duration
	logger   logger.ILogger
}

func NewSweeperService(
	st *store.Store,
	hub *ws.Hub,
	archive contract.MessageArchive,
	interval time.Duration,
	log logger.ILogger,
) ISweeperService {
	return &sweeperService{
		store:    st,
		hub:      hub,
		archive:  archive,
		interval: interval,
		logger:   log,
	}
}

func (s *sweeperService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Sweeper", "Garbage collector started", map[string]interface{}{
		"interval": s.interval.String(),
	})

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("Sweeper", "Garbage collector stopped", nil)
			return nil
		}
	}
}

// SweepOnce runs one pass and propagates the removals: dead rooms are dropped
// from the hub so no broadcast targets a swept entity, and the archive is
// purged for cascaded conversations.
func (s *sweeperService) SweepOnce(ctx context.Context) store.SweepResult {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Sweeper", "Sweep panicked, retrying next interval", map[string]interface{}{"panic": r})
		}
	}()

	res := s.store.Sweep()

	keys := make([]ws.RoomKey, 0, len(res.RemovedConversationIds)+len(res.RemovedLinkIds))
	for _, convId := range res.RemovedConversationIds {
		keys = append(keys, ws.ConversationRoom(convId))
	}
	for _, linkId := range res.RemovedLinkIds {
		keys = append(keys, ws.LinkRoom(linkId))
	}
	if len(keys) > 0 {
		s.hub.DropRooms(keys...)
	}

	for _, convId := range res.RemovedConversationIds {
		if err := s.archive.DeleteConversation(ctx, convId); err != nil {
			s.logger.Warn("Sweeper", "Failed to purge archived conversation", map[string]interface{}{
				"conversation_id": convId,
				"error":           err.Error(),
			})
		}
	}

	if res.LinksRemoved > 0 || res.ConversationsRemoved > 0 || res.MessagesRemoved > 0 {
		s.logger.Info("Sweeper", "Sweep completed", map[string]interface{}{
			"links_removed":         res.LinksRemoved,
			"conversations_removed": res.ConversationsRemoved,
			"messages_removed":      res.MessagesRemoved,
		})
	} else {
		s.logger.Debug("Sweeper", "Sweep completed, nothing to remove", nil)
	}

	return res
}
