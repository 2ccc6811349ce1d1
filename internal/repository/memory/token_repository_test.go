package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSaveAndResolve(t *testing.T) {
	r := NewTokenRepository(6 * time.Hour)

	token := uuid.New()
	linkId := uuid.New()
	r.Save(token, linkId)

	got, found := r.Resolve(token)
	assert.True(t, found)
	assert.Equal(t, linkId, got)
}

func TestResolve_UnknownToken(t *testing.T) {
	r := NewTokenRepository(6 * time.Hour)

	_, found := r.Resolve(uuid.New())
	assert.False(t, found)
}

func TestDelete(t *testing.T) {
	r := NewTokenRepository(6 * time.Hour)

	token := uuid.New()
	r.Save(token, uuid.New())
	r.Delete(token)

	_, found := r.Resolve(token)
	assert.False(t, found)
}

func TestUnboundedTTLNeverExpires(t *testing.T) {
	r := NewTokenRepository(0)

	token := uuid.New()
	linkId := uuid.New()
	r.Save(token, linkId)

	got, found := r.Resolve(token)
	assert.True(t, found)
	assert.Equal(t, linkId, got)
}

func TestTokenExpiresWithItsLink(t *testing.T) {
	r := NewTokenRepository(10 * time.Millisecond)

	token := uuid.New()
	r.Save(token, uuid.New())

	time.Sleep(20 * time.Millisecond)

	_, found := r.Resolve(token)
	assert.False(t, found)
}
