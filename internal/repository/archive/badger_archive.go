package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"whisperlink-be/internal/entity"
	"whisperlink-be/internal/pkg/logger"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerArchive persists messages in an embedded BadgerDB. Entries are
// written with a TTL equal to the message TTL, so the durable copy ages out
// on the same schedule as the relay copy without a second sweeper.
type BadgerArchive struct {
	db         *badger.DB
	messageTTL time.Duration
	log        logger.ILogger
}

func NewBadgerArchive(dbPath string, messageTTL time.Duration, log logger.ILogger) (*BadgerArchive, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{log: log}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger archive at %s: %w", dbPath, err)
	}
	log.Info("Archive", "Badger archive opened", map[string]interface{}{"path": dbPath})

	return &BadgerArchive{db: db, messageTTL: messageTTL, log: log}, nil
}

// messageKey yields conv:{conversationId}:msg:{messageId}. Message ids are
// ULIDs, so a prefix scan returns messages in send order.
func messageKey(conversationId uuid.UUID, messageId string) []byte {
	return []byte(fmt.Sprintf("conv:%s:msg:%s", conversationId, messageId))
}

func conversationPrefix(conversationId uuid.UUID) []byte {
	return []byte(fmt.Sprintf("conv:%s:msg:", conversationId))
}

func (a *BadgerArchive) SaveMessage(ctx context.Context, conversationId uuid.UUID, msg entity.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message %s: %w", msg.Id, err)
	}

	err = a.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(messageKey(conversationId, msg.Id), payload)
		if a.messageTTL > 0 {
			e = e.WithTTL(a.messageTTL)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("failed to archive message %s: %w", msg.Id, err)
	}
	return nil
}

func (a *BadgerArchive) Messages(ctx context.Context, conversationId uuid.UUID) ([]entity.Message, error) {
	var messages []entity.Message

	err := a.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := conversationPrefix(conversationId)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var msg entity.Message
				if err := json.Unmarshal(val, &msg); err != nil {
					return fmt.Errorf("failed to unmarshal archived message %s: %w", string(item.Key()), err)
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read archive for conversation %s: %w", conversationId, err)
	}
	return messages, nil
}

func (a *BadgerArchive) DeleteConversation(ctx context.Context, conversationId uuid.UUID) error {
	var keys [][]byte

	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := conversationPrefix(conversationId)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan archive for conversation %s: %w", conversationId, err)
	}

	err = a.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete archive for conversation %s: %w", conversationId, err)
	}
	return nil
}

func (a *BadgerArchive) Close() error {
	return a.db.Close()
}

// badgerLogger adapts ILogger to Badger's internal logger interface.
type badgerLogger struct {
	log logger.ILogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.log.Error("Archive", fmt.Sprintf(f, v...), nil)
}

func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.log.Warn("Archive", fmt.Sprintf(f, v...), nil)
}

func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.log.Debug("Archive", fmt.Sprintf(f, v...), nil)
}

func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.log.Debug("Archive", fmt.Sprintf(f, v...), nil)
}
