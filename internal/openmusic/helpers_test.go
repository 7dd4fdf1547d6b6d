package openmusic

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testConfig() Config {
	return Config{
		JWTSecret:  []byte("test-secret"),
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

// newTestServer wires a server with a no-op cache and no redis; handler
// behavior is driven entirely by the MockStore.
func newTestServer(store Store) *Server {
	return NewServer(store, NewCache(nil), nil, nil, testConfig())
}

// newCachedTestServer wires a server against a miniredis-backed cache.
func newCachedTestServer(t *testing.T, store Store) (*Server, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewServer(store, NewCache(rdb), rdb, nil, testConfig()), mr
}

func bearerFor(t *testing.T, s *Server, username string) string {
	t.Helper()
	tokens, err := s.issueTokens(username)
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}
	return "Bearer " + tokens.AccessToken
}
