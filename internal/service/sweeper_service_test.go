package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"whisperlink-be/internal/entity"
	"whisperlink-be/internal/store"
	ws "whisperlink-be/internal/websocket"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// recordingArchive tracks the saves and purges made against it.
type recordingArchive struct {
	mu      sync.Mutex
	saved   []entity.Message
	deleted []uuid.UUID
}

func (a *recordingArchive) SaveMessage(ctx context.Context, conversationId uuid.UUID, msg entity.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved = append(a.saved, msg)
	return nil
}

func (a *recordingArchive) Messages(ctx context.Context, conversationId uuid.UUID) ([]entity.Message, error) {
	return nil, nil
}

func (a *recordingArchive) DeleteConversation(ctx context.Context, conversationId uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, conversationId)
	return nil
}

func (a *recordingArchive) Close() error { return nil }

func (a *recordingArchive) savedMessages() []entity.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entity.Message(nil), a.saved...)
}

func (a *recordingArchive) deletions() []uuid.UUID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uuid.UUID(nil), a.deleted...)
}

func TestSweepOnce_DropsRoomsAndPurgesArchive(t *testing.T) {
	clock := newFakeClock()
	st := store.NewStore(store.TTLPolicy{
		LinkTTL:                6 * time.Hour,
		MessageTTL:             24 * time.Hour,
		EmptyConversationGrace: time.Hour,
	}, 2000, clock.Now)
	hub := ws.NewHub(nopLogger{})
	archive := &recordingArchive{}

	sweeper := NewSweeperService(st, hub, archive, time.Hour, nopLogger{})

	link := st.CreateLink()
	conv, err := st.CreateConversation(link.Id)
	require.NoError(t, err)
	_, _, err = st.AppendMessage(conv.Id, "hello", entity.RoleAnonymous)
	require.NoError(t, err)

	member := ws.NewClient(hub, nil, nil)
	hub.Join(member, ws.ConversationRoom(conv.Id))
	hub.Join(member, ws.LinkRoom(link.Id))

	clock.Advance(7 * time.Hour)
	res := sweeper.SweepOnce(context.Background())

	assert.Equal(t, 1, res.LinksRemoved)
	assert.Equal(t, 1, res.ConversationsRemoved)
	assert.Equal(t, 0, hub.RoomSize(ws.ConversationRoom(conv.Id)))
	assert.Equal(t, 0, hub.RoomSize(ws.LinkRoom(link.Id)))
	assert.Equal(t, []uuid.UUID{conv.Id}, archive.deletions())
}

func TestSweepOnce_NothingToRemove(t *testing.T) {
	clock := newFakeClock()
	st := store.NewStore(store.TTLPolicy{
		LinkTTL:                6 * time.Hour,
		MessageTTL:             24 * time.Hour,
		EmptyConversationGrace: time.Hour,
	}, 2000, clock.Now)
	hub := ws.NewHub(nopLogger{})
	archive := &recordingArchive{}

	sweeper := NewSweeperService(st, hub, archive, time.Hour, nopLogger{})

	link := st.CreateLink()
	conv, err := st.CreateConversation(link.Id)
	require.NoError(t, err)
	_, _, err = st.AppendMessage(conv.Id, "hello", entity.RoleAnonymous)
	require.NoError(t, err)

	res := sweeper.SweepOnce(context.Background())

	assert.Zero(t, res.LinksRemoved)
	assert.Zero(t, res.ConversationsRemoved)
	assert.Zero(t, res.MessagesRemoved)
	assert.Empty(t, archive.deletions())
}

func TestSweeperRun_StopsOnContextCancel(t *testing.T) {
	st := store.NewStore(store.TTLPolicy{}, 2000, nil)
	hub := ws.NewHub(nopLogger{})
	sweeper := NewSweeperService(st, hub, &recordingArchive{}, time.Millisecond, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sweeper.Run(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
