package enrichment

import (
	"context"
	"sync"
	"time"

	"github.com/menulens/core/internal/config"
	"github.com/menulens/core/internal/pkg/redis"
	"go.uber.org/zap"
)

// Enricher runs one image search per named menu item, all in parallel, and
// returns the URL lists in the same order as the queries. A failed search
// yields an empty slot instead of failing the batch.
type Enricher struct {
	searcher ImageSearcher
	timeout  time.Duration
	logger   *zap.Logger
}

func NewEnricher(opts config.SearchOptions, cache *redis.Client, logger *zap.Logger) *Enricher {
	timeout := time.Duration(opts.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	var searcher ImageSearcher = NewGoogleSearcher(opts)
	if cache != nil {
		searcher = newCachedSearcher(searcher, cache, time.Duration(opts.CacheTTLHours)*time.Hour)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{searcher: searcher, timeout: timeout, logger: logger}
}

// NewEnricherWith builds an Enricher around an explicit searcher (used by
// tests and by callers that already wrapped the searcher).
func NewEnricherWith(searcher ImageSearcher, timeout time.Duration, logger *zap.Logger) *Enricher {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{searcher: searcher, timeout: timeout, logger: logger}
}

// EnrichItems searches for "<name> food" per item name. Result slot i always
// corresponds to names[i], regardless of completion order.
func (e *Enricher) EnrichItems(ctx context.Context, names []string) [][]string {
	results := make([][]string, len(names))
	if len(names) == 0 {
		return results
	}

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(slot int, itemName string) {
			defer wg.Done()

			searchCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			urls, err := e.searcher.SearchImages(searchCtx, itemName+" food")
			if err != nil {
				e.logger.Warn("image search failed",
					zap.String("item", itemName),
					zap.Error(err),
				)
				results[slot] = []string{}
				return
			}
			if len(urls) > imagesPerItem {
				urls = urls[:imagesPerItem]
			}
			results[slot] = urls
		}(i, name)
	}
	wg.Wait()

	return results
}
