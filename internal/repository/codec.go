package repository

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
)

// Record is implemented by every persisted entity.
type Record interface {
	RecordID() string
}

// Get loads and decodes a single record.
func Get[T any](ctx context.Context, kv KV, c Collection, id string) (T, error) {
	var out T
	data, err := kv.Get(ctx, c, id)
	if err != nil {
		return out, err
	}
	if err := sonic.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode %s/%s: %w", c, id, ErrInvalidInput)
	}
	return out, nil
}

// Put encodes and writes a single record.
func Put(ctx context.Context, kv KV, c Collection, rec Record) error {
	data, err := sonic.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c, rec.RecordID(), ErrInvalidInput)
	}
	return kv.Put(ctx, c, rec.RecordID(), data)
}

// Stage encodes a record into a batch.
func Stage(w Writer, c Collection, rec Record) error {
	data, err := sonic.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", c, rec.RecordID(), ErrInvalidInput)
	}
	w.Put(c, rec.RecordID(), data)
	return nil
}

// Query decodes every record of a collection and keeps those matching pred.
// A nil pred keeps everything.
func Query[T any](ctx context.Context, kv KV, c Collection, pred func(T) bool) ([]T, error) {
	rows, err := kv.Scan(ctx, c)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, data := range rows {
		var rec T
		if err := sonic.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c, ErrInvalidInput)
		}
		if pred == nil || pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}
