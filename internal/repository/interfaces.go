package repository

import "context"

// Collection names a keyspace of records.
type Collection string

const (
	Boards Collection = "boards"
	Lists  Collection = "lists"
	Items  Collection = "items"
	Tags   Collection = "tags"
)

// KV is the persistence contract shared by every backend. Records are opaque
// encoded documents keyed by string id within a collection.
type KV interface {
	Get(ctx context.Context, c Collection, id string) ([]byte, error)
	Put(ctx context.Context, c Collection, id string, data []byte) error
	Delete(ctx context.Context, c Collection, id string) error
	Scan(ctx context.Context, c Collection) ([][]byte, error)
	// Batch stages the writes issued by fn and applies them atomically.
	// Nothing is written if fn or the commit fails.
	Batch(ctx context.Context, fn func(w Writer) error) error
}

// Writer stages writes inside a batch.
type Writer interface {
	Put(c Collection, id string, data []byte)
	Delete(c Collection, id string)
}

// Op is a single staged write.
type Op struct {
	Collection Collection
	ID         string
	Data       []byte // nil for deletes
	Delete     bool
}

// OpBuffer is a Writer that records operations for backends to replay.
type OpBuffer struct {
	Ops []Op
}

func (b *OpBuffer) Put(c Collection, id string, data []byte) {
	b.Ops = append(b.Ops, Op{Collection: c, ID: id, Data: data})
}

func (b *OpBuffer) Delete(c Collection, id string) {
	b.Ops = append(b.Ops, Op{Collection: c, ID: id, Delete: true})
}
