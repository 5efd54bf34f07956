package redisstore

import (
	"context"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/rpggio/kanban/internal/repository"
)

// KV implements repository.KV with one hash per collection.
type KV struct {
	rdb    redis.Cmdable
	prefix string
}

// NewKV creates a KV whose keys are namespaced by prefix.
func NewKV(rdb redis.Cmdable, prefix string) *KV {
	if prefix == "" {
		prefix = "kanban"
	}
	return &KV{rdb: rdb, prefix: prefix}
}

func (s *KV) key(c repository.Collection) string {
	return s.prefix + ":" + string(c)
}

func (s *KV) Get(ctx context.Context, c repository.Collection, id string) ([]byte, error) {
	data, err := s.rdb.HGet(ctx, s.key(c), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get", err)
	}
	return data, nil
}

func (s *KV) Put(ctx context.Context, c repository.Collection, id string, data []byte) error {
	if err := s.rdb.HSet(ctx, s.key(c), id, data).Err(); err != nil {
		return wrapErr("put", err)
	}
	return nil
}

func (s *KV) Delete(ctx context.Context, c repository.Collection, id string) error {
	n, err := s.rdb.HDel(ctx, s.key(c), id).Result()
	if err != nil {
		return wrapErr("delete", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Scan returns every record of the collection ordered by id.
func (s *KV) Scan(ctx context.Context, c repository.Collection) ([][]byte, error) {
	all, err := s.rdb.HGetAll(ctx, s.key(c)).Result()
	if err != nil {
		return nil, wrapErr("scan", err)
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([][]byte, len(ids))
	for i, id := range ids {
		out[i] = []byte(all[id])
	}
	return out, nil
}

// Batch applies the staged writes in one MULTI/EXEC transaction.
func (s *KV) Batch(ctx context.Context, fn func(w repository.Writer) error) error {
	buf := &repository.OpBuffer{}
	if err := fn(buf); err != nil {
		return err
	}
	if len(buf.Ops) == 0 {
		return nil
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range buf.Ops {
			if op.Delete {
				pipe.HDel(ctx, s.key(op.Collection), op.ID)
				continue
			}
			pipe.HSet(ctx, s.key(op.Collection), op.ID, op.Data)
		}
		return nil
	})
	if err != nil {
		return wrapErr("batch", err)
	}
	return nil
}
