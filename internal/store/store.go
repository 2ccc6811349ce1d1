package store

import (
	crand "crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"whisperlink-be/internal/entity"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
)

// Store owns every Link, Conversation and Message record. All mutations run
// under one write lock so that "is this the first message" and "append to the
// link's conversation list" are observed and applied as a single unit; reads
// hand out snapshot copies, never live references.
type Store struct {
	mu            sync.RWMutex
	links         map[uuid.UUID]*entity.Link
	conversations map[uuid.UUID]*entity.Conversation

	policy        TTLPolicy
	maxMessageLen int
	now           func() time.Time

	// entropy feeds message ULIDs; guarded by mu since the monotonic reader
	// is not safe for concurrent use.
	entropy io.Reader
}

// NewStore creates an empty store. A nil clock defaults to time.Now; tests
// inject a fake clock to simulate TTL expiry deterministically.
func NewStore(policy TTLPolicy, maxMessageLen int, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		links:         make(map[uuid.UUID]*entity.Link),
		conversations: make(map[uuid.UUID]*entity.Conversation),
		policy:        policy,
		maxMessageLen: maxMessageLen,
		now:           now,
		entropy:       ulid.Monotonic(crand.Reader, 0),
	}
}

func (s *Store) Policy() TTLPolicy {
	return s.policy
}

// CreateLink generates a fresh link with its creator token. Never fails.
func (s *Store) CreateLink() *entity.Link {
	s.mu.Lock()
	defer s.mu.Unlock()

	link := &entity.Link{
		Id:              uuid.New(),
		CreatorId:       uuid.New(),
		CreatedAt:       s.now(),
		ConversationIds: make([]uuid.UUID, 0),
	}
	s.links[link.Id] = link
	return cloneLink(link)
}

// GetLink returns a snapshot of the link. A link that aged out but has not
// been swept yet reports ErrLinkExpired, distinct from ErrLinkNotFound.
func (s *Store) GetLink(id uuid.UUID) (*entity.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[id]
	if !ok {
		return nil, ErrLinkNotFound
	}
	if s.policy.LinkExpired(link, s.now()) {
		return nil, ErrLinkExpired
	}
	return cloneLink(link), nil
}

// CreateConversation starts an invisible conversation under a live link. The
// conversation is not appended to the link's conversation list until its
// first message promotes it.
func (s *Store) CreateConversation(linkId uuid.UUID) (*entity.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[linkId]
	if !ok {
		return nil, ErrLinkNotFound
	}
	if s.policy.LinkExpired(link, s.now()) {
		return nil, ErrLinkExpired
	}

	conv := &entity.Conversation{
		Id:                 uuid.New(),
		LinkId:             linkId,
		AnonymousSessionId: uuid.New(),
		Messages:           make([]entity.Message, 0),
		CreatedAt:          s.now(),
		Visible:            false,
	}
	s.conversations[conv.Id] = conv
	return s.snapshotConversation(conv), nil
}

// AppendMessage assigns the send instant and a ULID, appends the message and
// reports whether this append promoted the conversation. Promotion and the
// link-list append happen under the same lock acquisition, so two
// near-simultaneous first messages can never both observe Visible == false.
func (s *Store) AppendMessage(convId uuid.UUID, text string, role entity.Role) (entity.Message, bool, error) {
	if strings.TrimSpace(text) == "" {
		return entity.Message{}, false, ErrEmptyMessage
	}
	if s.maxMessageLen > 0 && len(text) > s.maxMessageLen {
		return entity.Message{}, false, ErrMessageTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[convId]
	if !ok {
		return entity.Message{}, false, ErrConversationNotFound
	}

	now := s.now()
	msg := entity.Message{
		Id:         ulid.MustNew(ulid.Timestamp(now), s.entropy).String(),
		Text:       text,
		AuthorRole: role,
		SentAt:     now,
	}
	conv.Messages = append(conv.Messages, msg)
	conv.LastMessageAt = &now

	promoted := false
	if !conv.Visible {
		conv.Visible = true
		promoted = true
		if link, ok := s.links[conv.LinkId]; ok {
			if !lo.Contains(link.ConversationIds, conv.Id) {
				link.ConversationIds = append(link.ConversationIds, conv.Id)
			}
		}
	}

	return msg, promoted, nil
}

// GetConversation returns a snapshot with expired messages filtered out at
// read time, in addition to the periodic sweep.
func (s *Store) GetConversation(convId uuid.UUID) (*entity.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[convId]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return s.snapshotConversation(conv), nil
}

// ListVisibleConversations returns the link's promoted conversations in
// promotion order, each TTL-filtered at read time.
func (s *Store) ListVisibleConversations(linkId uuid.UUID) ([]*entity.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[linkId]
	if !ok {
		return nil, ErrLinkNotFound
	}
	if s.policy.LinkExpired(link, s.now()) {
		return nil, ErrLinkExpired
	}

	result := make([]*entity.Conversation, 0, len(link.ConversationIds))
	for _, convId := range link.ConversationIds {
		if conv, ok := s.conversations[convId]; ok && conv.Visible {
			result = append(result, s.snapshotConversation(conv))
		}
	}
	return result, nil
}

// SweepResult summarises one garbage-collection pass, including the ids the
// relay needs to drop from its room table.
type SweepResult struct {
	LinksRemoved         int
	ConversationsRemoved int
	MessagesRemoved      int

	RemovedLinkIds         []uuid.UUID
	RemovedConversationIds []uuid.UUID
}

// Sweep runs one TTL-enforcement pass: expired links cascade to their
// conversations, expired messages are pruned, and unpromoted conversations
// past their grace period are dropped. The lock is acquired per entity rather
// than for the whole pass, and the algorithm is idempotent; running it twice
// back-to-back removes nothing on the second run.
func (s *Store) Sweep() SweepResult {
	var res SweepResult

	// 1. Expired links cascade to every conversation referencing them,
	// promoted or not.
	for _, linkId := range s.linkIds() {
		s.mu.Lock()
		link, ok := s.links[linkId]
		if !ok || !s.policy.LinkExpired(link, s.now()) {
			s.mu.Unlock()
			continue
		}
		delete(s.links, linkId)
		res.LinksRemoved++
		res.RemovedLinkIds = append(res.RemovedLinkIds, linkId)
		for convId, conv := range s.conversations {
			if conv.LinkId == linkId {
				res.MessagesRemoved += len(conv.Messages)
				delete(s.conversations, convId)
				res.ConversationsRemoved++
				res.RemovedConversationIds = append(res.RemovedConversationIds, convId)
			}
		}
		s.mu.Unlock()
	}

	// 2+3. Prune expired messages; drop abandoned unpromoted conversations.
	// Promoted conversations survive with zero messages: Visible reflects
	// historical promotion, not current content.
	for _, convId := range s.conversationIds() {
		s.mu.Lock()
		conv, ok := s.conversations[convId]
		if !ok {
			s.mu.Unlock()
			continue
		}
		now := s.now()
		kept := lo.Filter(conv.Messages, func(m entity.Message, _ int) bool {
			return !s.policy.MessageExpired(m, now)
		})
		res.MessagesRemoved += len(conv.Messages) - len(kept)
		conv.Messages = kept

		if len(conv.Messages) == 0 && s.policy.Abandoned(conv, now) {
			delete(s.conversations, convId)
			res.ConversationsRemoved++
			res.RemovedConversationIds = append(res.RemovedConversationIds, convId)
		}
		s.mu.Unlock()
	}

	return res
}

func (s *Store) linkIds() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Keys(s.links)
}

func (s *Store) conversationIds() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Keys(s.conversations)
}

func cloneLink(l *entity.Link) *entity.Link {
	clone := *l
	clone.ConversationIds = append([]uuid.UUID(nil), l.ConversationIds...)
	return &clone
}

// snapshotConversation copies the conversation with expired messages filtered
// out. Callers must hold at least a read lock.
func (s *Store) snapshotConversation(c *entity.Conversation) *entity.Conversation {
	now := s.now()
	clone := *c
	clone.Messages = lo.Filter(c.Messages, func(m entity.Message, _ int) bool {
		return !s.policy.MessageExpired(m, now)
	})
	if c.LastMessageAt != nil {
		last := *c.LastMessageAt
		clone.LastMessageAt = &last
	}
	return &clone
}
