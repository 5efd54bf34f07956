// Package order keeps sibling rank values consistent with slice position.
//
// Every function returns a fresh slice and leaves its input untouched, so
// callers can compute a new arrangement, persist it, and only then swap it in.
package order

import "errors"

var (
	// ErrIndexOutOfRange indicates a source index outside the sequence.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotFound indicates the sibling id is not part of the sequence.
	ErrNotFound = errors.New("sibling not found")
)

// Sibling is an entity ranked among its siblings.
type Sibling[T any] interface {
	SiblingID() string
	WithOrder(order int) T
}

// Reindex returns a copy of siblings with order equal to position.
func Reindex[T Sibling[T]](siblings []T) []T {
	out := make([]T, len(siblings))
	for i, s := range siblings {
		out[i] = s.WithOrder(i)
	}
	return out
}

// MoveWithin removes the element at from and inserts it at to. The
// destination is clamped to the bounds of the sequence after removal.
func MoveWithin[T Sibling[T]](seq []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(seq) {
		return nil, ErrIndexOutOfRange
	}
	if from == to {
		return Reindex(seq), nil
	}

	moved := seq[from]
	rest := make([]T, 0, len(seq))
	rest = append(rest, seq[:from]...)
	rest = append(rest, seq[from+1:]...)

	return Reindex(insertAt(rest, moved, to)), nil
}

// MoveAcross moves the sibling with the given id from src into dst at
// destIndex and re-ranks both sequences independently.
func MoveAcross[T Sibling[T]](src, dst []T, id string, destIndex int) ([]T, []T, error) {
	from := IndexOf(src, id)
	if from < 0 {
		return nil, nil, ErrNotFound
	}

	moved := src[from]
	rest := make([]T, 0, len(src))
	rest = append(rest, src[:from]...)
	rest = append(rest, src[from+1:]...)

	return Reindex(rest), Reindex(insertAt(dst, moved, destIndex)), nil
}

// IndexOf returns the position of the sibling with the given id, or -1.
func IndexOf[T Sibling[T]](seq []T, id string) int {
	for i, s := range seq {
		if s.SiblingID() == id {
			return i
		}
	}
	return -1
}

// NextOrder returns the rank that sorts after every value in orders.
func NextOrder(orders []int) int {
	next := 0
	for _, o := range orders {
		if o >= next {
			next = o + 1
		}
	}
	return next
}

// IsContiguous reports whether the ranks are exactly 0..len-1 in position order.
func IsContiguous(orders []int) bool {
	for i, o := range orders {
		if o != i {
			return false
		}
	}
	return true
}

// PlaceByRank inserts v before the first element whose rank is not lower
// than v's retained rank. The second result reports whether that element
// shares v's rank, in which case the caller must re-index.
func PlaceByRank[T any](seq []T, v T, rankOf func(T) int) ([]T, bool) {
	rank := rankOf(v)
	at := len(seq)
	for i, s := range seq {
		if rankOf(s) >= rank {
			at = i
			break
		}
	}
	collided := at < len(seq) && rankOf(seq[at]) == rank
	return insertAt(seq, v, at), collided
}

func insertAt[T any](seq []T, v T, at int) []T {
	if at < 0 {
		at = 0
	}
	if at > len(seq) {
		at = len(seq)
	}
	out := make([]T, 0, len(seq)+1)
	out = append(out, seq[:at]...)
	out = append(out, v)
	out = append(out, seq[at:]...)
	return out
}
