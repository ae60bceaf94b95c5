package enrichment

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/menulens/core/internal/pkg/redis"
)

const searchCachePrefix = "ml:search:"

// cachedSearcher serves repeated item-name lookups from Redis. A cache miss
// or a Redis failure falls through to the wrapped searcher.
type cachedSearcher struct {
	next  ImageSearcher
	cache *redis.Client
	ttl   time.Duration
}

func newCachedSearcher(next ImageSearcher, cache *redis.Client, ttl time.Duration) *cachedSearcher {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &cachedSearcher{next: next, cache: cache, ttl: ttl}
}

func (s *cachedSearcher) SearchImages(ctx context.Context, query string) ([]string, error) {
	key := searchCachePrefix + normalizeQuery(query)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var urls []string
		if err := json.Unmarshal([]byte(cached), &urls); err == nil {
			return urls, nil
		}
	}

	urls, err := s.next.SearchImages(ctx, query)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(urls); err == nil {
		_ = s.cache.Set(ctx, key, string(encoded), s.ttl)
	}
	return urls, nil
}

func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
