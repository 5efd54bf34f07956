package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/rpggio/kanban/internal/domain/activity"
)

// DefaultActivityCap bounds the activity list.
const DefaultActivityCap = 1000

// ActivityRepository implements activity.Repository on a capped Redis list,
// newest entry first.
type ActivityRepository struct {
	rdb    redis.Cmdable
	prefix string
	cap    int64
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(rdb redis.Cmdable, prefix string) *ActivityRepository {
	if prefix == "" {
		prefix = "kanban"
	}
	return &ActivityRepository{rdb: rdb, prefix: prefix, cap: DefaultActivityCap}
}

func (r *ActivityRepository) listKey() string { return r.prefix + ":activity" }
func (r *ActivityRepository) seqKey() string  { return r.prefix + ":activity:seq" }

// Log appends an entry and trims the list to its cap.
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	id, err := r.rdb.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return wrapErr("log activity", err)
	}
	entry.ID = id

	data, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode activity: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, r.listKey(), data)
		pipe.LTrim(ctx, r.listKey(), 0, r.cap-1)
		return nil
	})
	if err != nil {
		return wrapErr("log activity", err)
	}
	return nil
}

// List returns entries matching the filters, newest first.
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	rows, err := r.rdb.LRange(ctx, r.listKey(), 0, -1).Result()
	if err != nil {
		return nil, wrapErr("list activity", err)
	}

	var (
		entries []activity.ActivityEntry
		skipped int
	)
	for _, row := range rows {
		var entry activity.ActivityEntry
		if err := sonic.UnmarshalString(row, &entry); err != nil {
			return nil, fmt.Errorf("failed to decode activity entry: %w", err)
		}
		if !matches(entry, opts) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		entries = append(entries, entry)
		if opts.Limit > 0 && len(entries) == opts.Limit {
			break
		}
	}
	return entries, nil
}

func matches(e activity.ActivityEntry, opts activity.ListActivityOptions) bool {
	if opts.BoardID != "" && e.BoardID != opts.BoardID {
		return false
	}
	if opts.EntityID != nil && (e.EntityID == nil || *e.EntityID != *opts.EntityID) {
		return false
	}
	if opts.ActivityType != nil && e.ActivityType != *opts.ActivityType {
		return false
	}
	return true
}
