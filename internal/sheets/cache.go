package sheets

import (
	"context"
	"sync"
	"time"

	"github.com/peoplebot-poc/server/internal/people"
	logx "github.com/peoplebot-poc/server/pkg/logger"
)

// Source abstracts the remote People table read so the cache can be tested
// without the Sheets API.
type Source interface {
	FetchPeople(ctx context.Context) ([]people.PersonRecord, error)
}

// TableCache fronts a Source with a single-entry TTL cache. The mutex is held
// across the fetch so concurrent misses coalesce into one upstream call. A
// failed fetch caches nothing; the next caller retries.
type TableCache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	records   []people.PersonRecord
	fetchedAt time.Time
}

// NewTableCache wraps source with the given TTL. Non-positive TTLs fall back
// to one minute.
func NewTableCache(source Source, ttl time.Duration) *TableCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &TableCache{source: source, ttl: ttl, now: time.Now}
}

// Get returns the cached snapshot while it is fresh, otherwise refetches and
// replaces it atomically.
func (c *TableCache) Get(ctx context.Context) ([]people.PersonRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.records, nil
	}

	records, err := c.source.FetchPeople(ctx)
	if err != nil {
		return nil, err
	}
	c.records = records
	c.fetchedAt = c.now()
	logx.Debug().Int("records", len(records)).Msg("people table cache refreshed")
	return records, nil
}
