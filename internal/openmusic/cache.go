package openmusic

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entries age out after this TTL; it also bounds how long a stale
// song-search permutation can survive (only the exact tuple touched by a
// write is invalidated).
const defaultCacheTTL = 30 * time.Minute

const (
	sourceCache    = "cache"
	sourceDatabase = "database"
)

// Cache is a thin accelerator over redis. It is never authoritative: a nil
// client or any redis error behaves like a miss, and deletes are
// best-effort.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb, ttl: defaultCacheTTL}
}

// Get returns the raw payload and whether the key was present. Redis
// failures are downgraded to a miss, never surfaced.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("openmusic: cache marshal %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("openmusic: cache set %s: %v", key, err)
	}
}

// Delete invalidates keys after a committed write. Failures are logged and
// swallowed; the next read falls back to the database anyway.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("openmusic: cache delete %v: %v", keys, err)
	}
}

// cachedRead is the cache-aside read path: cache hit short-circuits, a miss
// runs the loader against the store and populates the key. The returned
// source tells the handler what to put in X-Data-Source.
func cachedRead[T any](ctx context.Context, c *Cache, key string, loader func(context.Context) (T, error)) (T, string, error) {
	if raw, ok := c.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, sourceCache, nil
		}
		// corrupt entry: fall through to the loader
	}
	v, err := loader(ctx)
	if err != nil {
		var zero T
		return zero, "", err
	}
	c.SetJSON(ctx, key, v)
	return v, sourceDatabase, nil
}

func albumKey(id string) string               { return "albums:" + id }
func albumSongsKey(albumID string) string     { return "album_songs:" + albumID }
func albumLikesKey(albumID string) string     { return "album_likes:" + albumID }
func playlistListKey(username string) string  { return "playlist-list:" + username }
func playlistSongsKey(playlistID string) string { return "playlist-songs:" + playlistID }

func songSearchKey(title, performer string) string {
	return "songs:" + title + "-" + performer
}
