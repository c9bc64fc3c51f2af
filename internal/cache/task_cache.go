package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	dom "github.com/julienby/taskflow/internal/domain"
)

const (
	keyPrefix = "task:"
	keyList   = keyPrefix + "list:"
	keyCount  = keyPrefix + "count:"
)

// TaskCache caches filtered list and count results in Redis. Keys are
// derived from the filter set so List and Count stay consistent per filter.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// FilterKey renders a filter set as a stable cache key fragment. Each
// field is escaped so values containing the delimiter cannot collide
// with a different filter set, and the search term is kept verbatim:
// the engine's LIKE only folds ASCII case, so the key must not fold more.
func FilterKey(f dom.TaskFilter) string {
	var b strings.Builder
	if f.Search != nil {
		b.WriteString("s=" + url.QueryEscape(*f.Search))
	}
	b.WriteByte('|')
	if f.Category != nil {
		b.WriteString("c=" + url.QueryEscape(string(*f.Category)))
	}
	b.WriteByte('|')
	if f.Priority != nil {
		b.WriteString("p=" + url.QueryEscape(string(*f.Priority)))
	}
	b.WriteByte('|')
	if f.Status != nil {
		b.WriteString("st=" + url.QueryEscape(string(*f.Status)))
	}
	return b.String()
}

// GetList returns the cached list for the filter set, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, f dom.TaskFilter) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, keyList+FilterKey(f)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list for the filter set.
func (c *TaskCache) SetList(ctx context.Context, f dom.TaskFilter, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList+FilterKey(f), b, c.ttl).Err()
}

// GetCount returns the cached count for the filter set; ok is false on miss.
func (c *TaskCache) GetCount(ctx context.Context, f dom.TaskFilter) (int, bool, error) {
	s, err := c.rdb.Get(ctx, keyCount+FilterKey(f)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// SetCount stores the count for the filter set.
func (c *TaskCache) SetCount(ctx context.Context, f dom.TaskFilter, n int) error {
	return c.rdb.Set(ctx, keyCount+FilterKey(f), strconv.Itoa(n), c.ttl).Err()
}

// InvalidateAll removes every cached list and count (cache invalidation on write).
func (c *TaskCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
