package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rpggio/kanban/internal/repository"
)

// KV implements repository.KV on the records table.
type KV struct {
	db *DB
}

// NewKV creates a new KV store.
func NewKV(db *DB) *KV {
	return &KV{db: db}
}

const upsertRecord = `
	INSERT INTO records (collection, id, data, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
`

// Get returns the encoded record.
func (s *KV) Get(ctx context.Context, c repository.Collection, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE collection = ? AND id = ?`,
		string(c), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get record", err)
	}
	return data, nil
}

// Put inserts or replaces the record.
func (s *KV) Put(ctx context.Context, c repository.Collection, id string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertRecord, string(c), id, data, time.Now()); err != nil {
		return wrapErr("put record", err)
	}
	return nil
}

// Delete removes the record.
func (s *KV) Delete(ctx context.Context, c repository.Collection, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND id = ?`,
		string(c), id)
	if err != nil {
		return wrapErr("delete record", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return wrapErr("delete record", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Scan returns every record of the collection ordered by id.
func (s *KV) Scan(ctx context.Context, c repository.Collection) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM records WHERE collection = ? ORDER BY id`,
		string(c))
	if err != nil {
		return nil, wrapErr("scan records", err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, wrapErr("scan record", err)
		}
		out = append(out, data)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate records", err)
	}
	return out, nil
}

// Batch applies the staged writes in one transaction. Deleting a missing
// record inside a batch is not an error.
func (s *KV) Batch(ctx context.Context, fn func(w repository.Writer) error) error {
	buf := &repository.OpBuffer{}
	if err := fn(buf); err != nil {
		return err
	}
	if len(buf.Ops) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("begin batch", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, op := range buf.Ops {
		if op.Delete {
			_, err = tx.ExecContext(ctx,
				`DELETE FROM records WHERE collection = ? AND id = ?`,
				string(op.Collection), op.ID)
		} else {
			_, err = tx.ExecContext(ctx, upsertRecord, string(op.Collection), op.ID, op.Data, now)
		}
		if err != nil {
			return wrapErr("apply batch", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("commit batch", err)
	}
	return nil
}
