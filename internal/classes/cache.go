package classes

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "classtrack:code:"

// codeCache is a read-through cache of active session codes. Entries expire
// with the code itself, so redis never outlives the DB row's validity; the
// DB remains authoritative and cache failures degrade to DB lookups.
type codeCache struct {
	client *redis.Client
}

func (c *codeCache) get(ctx context.Context, code string) (Session, bool) {
	if c == nil || c.client == nil {
		return Session{}, false
	}
	raw, err := c.client.Get(ctx, cacheKeyPrefix+code).Bytes()
	if err != nil {
		return Session{}, false
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, false
	}
	return s, true
}

func (c *codeCache) put(ctx context.Context, s Session) {
	if c == nil || c.client == nil {
		return
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+s.Code, raw, ttl).Err(); err != nil {
		log.Printf("code cache set failed: %v", err)
	}
}
