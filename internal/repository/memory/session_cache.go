package memory

import (
	"time"

	"clinic-assist-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionCache keeps recently active conversations in memory so a chat
// turn does not have to hit Postgres for the session row on every message.
// The database stays the source of truth; this is a read-through cache.
// Cached conversations are treated as immutable: writers store a fresh
// copy instead of mutating an entry other goroutines may be reading.
type SessionCache struct {
	cache *cache.Cache
}

func NewSessionCache() *SessionCache {
	// Sessions idle for an hour fall out; expired entries are purged
	// every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionCache{
		cache: c,
	}
}

func (r *SessionCache) Save(conversation *entity.Conversation) {
	r.cache.Set(conversation.SessionKey, conversation, cache.DefaultExpiration)
}

func (r *SessionCache) Get(sessionKey string) (*entity.Conversation, bool) {
	if x, found := r.cache.Get(sessionKey); found {
		return x.(*entity.Conversation), true
	}
	return nil, false
}

func (r *SessionCache) Delete(sessionKey string) {
	r.cache.Delete(sessionKey)
}
