package cache

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/hachrisjordan/newroutebuilder-sub001/business/availability"
)

// AvailabilityCache adapts a Store to the availability client's query cache.
// Cache failures are logged and treated as misses so a degraded redis never
// fails a query.
type AvailabilityCache struct {
	store *Store
	log   logrus.FieldLogger
}

func NewAvailabilityCache(store *Store, log logrus.FieldLogger) *AvailabilityCache {
	return &AvailabilityCache{store: store, log: log}
}

func (c *AvailabilityCache) Get(ctx context.Context, key string) (availability.QueryResult, bool) {
	var result availability.QueryResult
	ok, err := c.store.Get(ctx, key, &result)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("availability cache read failed")
		return availability.QueryResult{}, false
	}

	return result, ok
}

func (c *AvailabilityCache) Put(ctx context.Context, key string, result availability.QueryResult) {
	if err := c.store.Put(ctx, key, result); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("availability cache write failed")
	}
}
