package acquire

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"jangat/internal/platform/digest"
	"jangat/internal/platform/logger"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// redisPrefix namespaces shared cache keys
const redisPrefix = "jangat:acquire:"

// textCache keeps acquired documents by source for a TTL; a zero TTL disables it.
// The in process tier sits in front of an optional redis tier shared by replicas
type textCache struct {
	ttl    time.Duration
	c      *gocache.Cache
	remote *redis.Client
	log    *logger.Logger
}

func newTextCache(ttl time.Duration, remote *redis.Client, log *logger.Logger) *textCache {
	if ttl <= 0 {
		return &textCache{}
	}
	return &textCache{ttl: ttl, c: gocache.New(ttl, 2*ttl), remote: remote, log: log}
}

func cacheKey(s Source) string { return string(s.Kind) + "\x00" + s.Location }

func remoteKey(s Source) string {
	return redisPrefix + digest.Hex(digest.Parts(string(s.Kind), s.Location))
}

func (t *textCache) get(ctx context.Context, s Source) (*Document, bool) {
	if t.c == nil {
		return nil, false
	}
	var d Document
	if v, ok := t.c.Get(cacheKey(s)); ok {
		d = *v.(*Document)
	} else if !t.fetchRemote(ctx, s, &d) {
		return nil, false
	}
	// the cached copy keeps the label it was first acquired under
	d.Source = s
	d.Label = s.DisplayLabel()
	return &d, true
}

func (t *textCache) fetchRemote(ctx context.Context, s Source, d *Document) bool {
	if t.remote == nil {
		return false
	}
	raw, err := t.remote.Get(ctx, remoteKey(s)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			t.log.Warn().Err(err).Str("source", s.String()).Msg("shared cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, d); err != nil {
		t.log.Warn().Err(err).Str("source", s.String()).Msg("shared cache entry unreadable")
		return false
	}
	cp := *d
	t.c.SetDefault(cacheKey(s), &cp)
	return true
}

func (t *textCache) set(ctx context.Context, s Source, d *Document) {
	if t.c == nil {
		return
	}
	cp := *d
	t.c.SetDefault(cacheKey(s), &cp)
	if t.remote == nil {
		return
	}
	raw, err := json.Marshal(&cp)
	if err == nil {
		err = t.remote.Set(ctx, remoteKey(s), raw, t.ttl).Err()
	}
	if err != nil {
		t.log.Warn().Err(err).Str("source", s.String()).Msg("shared cache write failed")
	}
}

// Len reports entries in the in process tier
func (t *textCache) Len() int {
	if t.c == nil {
		return 0
	}
	return t.c.ItemCount()
}
