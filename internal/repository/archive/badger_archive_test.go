package archive

import (
	"context"
	"testing"
	"time"

	"whisperlink-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestArchive(t *testing.T) *BadgerArchive {
	t.Helper()

	a, err := NewBadgerArchive(t.TempDir(), 24*time.Hour, nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}

func testMessage(id, text string) entity.Message {
	return entity.Message{
		Id:         id,
		Text:       text,
		AuthorRole: entity.RoleAnonymous,
		SentAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestSaveAndReadBack(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()
	convId := uuid.New()

	msg := testMessage("01JFZX2G9M0000000000000000", "hello")
	require.NoError(t, a.SaveMessage(ctx, convId, msg))

	got, err := a.Messages(ctx, convId)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, msg, got[0])
}

func TestMessages_ReturnedInIdOrder(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()
	convId := uuid.New()

	// Written out of order; ULID keys make the prefix scan return send order.
	require.NoError(t, a.SaveMessage(ctx, convId, testMessage("01JFZX2G9M000000000000000C", "third")))
	require.NoError(t, a.SaveMessage(ctx, convId, testMessage("01JFZX2G9M000000000000000A", "first")))
	require.NoError(t, a.SaveMessage(ctx, convId, testMessage("01JFZX2G9M000000000000000B", "second")))

	got, err := a.Messages(ctx, convId)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, "third", got[2].Text)
}

func TestMessages_EmptyConversation(t *testing.T) {
	a := newTestArchive(t)

	got, err := a.Messages(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeleteConversation_ScopedToPrefix(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	doomed := uuid.New()
	kept := uuid.New()
	require.NoError(t, a.SaveMessage(ctx, doomed, testMessage("01JFZX2G9M000000000000000A", "bye")))
	require.NoError(t, a.SaveMessage(ctx, doomed, testMessage("01JFZX2G9M000000000000000B", "bye too")))
	require.NoError(t, a.SaveMessage(ctx, kept, testMessage("01JFZX2G9M000000000000000C", "still here")))

	require.NoError(t, a.DeleteConversation(ctx, doomed))

	gone, err := a.Messages(ctx, doomed)
	require.NoError(t, err)
	assert.Empty(t, gone)

	remaining, err := a.Messages(ctx, kept)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "still here", remaining[0].Text)
}

func TestDeleteConversation_NoEntriesIsNoop(t *testing.T) {
	a := newTestArchive(t)

	assert.NoError(t, a.DeleteConversation(context.Background(), uuid.New()))
}
