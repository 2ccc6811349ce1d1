package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// TokenRepository maps creator tokens to link ids. Entries carry the link TTL
// so a token dies with its link without an extra sweep.
type TokenRepository struct {
	cache *cache.Cache
}

func NewTokenRepository(linkTTL time.Duration) *TokenRepository {
	ttl := linkTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	// Purge expired entries every 10 minutes
	return &TokenRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *TokenRepository) Save(creatorToken, linkId uuid.UUID) {
	r.cache.Set(creatorToken.String(), linkId, cache.DefaultExpiration)
}

func (r *TokenRepository) Resolve(creatorToken uuid.UUID) (uuid.UUID, bool) {
	if x, found := r.cache.Get(creatorToken.String()); found {
		return x.(uuid.UUID), true
	}
	return uuid.Nil, false
}

func (r *TokenRepository) Delete(creatorToken uuid.UUID) {
	r.cache.Delete(creatorToken.String())
}
