package board

import (
	"context"
	"fmt"

	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/domain/order"
	"github.com/rpggio/kanban/internal/repository"
)

// Locate returns the current slot of an active list or item.
func (s *Store) Locate(kind EntityKind, id string) (Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return Location{}, false
	}
	switch kind {
	case KindList:
		if li := s.selected.FindList(id); li >= 0 {
			return Location{Index: li}, true
		}
	case KindItem:
		if li, ii, ok := s.selected.FindItem(id); ok {
			return Location{ListID: s.selected.Lists[li].ID, Index: ii}, true
		}
	}
	return Location{}, false
}

// CommitReorder applies a finished drag. Every touched sibling is written in
// one batch before the in-memory sequences are replaced, so a failed write
// leaves the selected board exactly as it was.
func (s *Store) CommitReorder(ctx context.Context, req ReorderRequest) (ReorderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return ReorderResult{}, err
	}

	var res ReorderResult
	switch req.Kind {
	case KindList:
		res, err = s.commitList(ctx, cur, req)
	case KindItem:
		res, err = s.commitItem(ctx, cur, req)
	default:
		return ReorderResult{}, fmt.Errorf("unknown entity kind %q: %w", req.Kind, ErrInvalidInput)
	}
	if err != nil {
		return ReorderResult{}, err
	}

	s.logger.Debug("reorder committed",
		"kind", req.Kind,
		"id", req.EntityID,
		"from_list", req.From.ListID,
		"from", req.From.Index,
		"to_list", req.To.ListID,
		"to", req.To.Index,
	)
	s.logActivity(ctx, cur.Board.ID, req.EntityID, activity.TypeReorderCommitted,
		"moved %s to index %d", req.Kind, req.To.Index)
	return res, nil
}

func (s *Store) commitList(ctx context.Context, cur *Snapshot, req ReorderRequest) (ReorderResult, error) {
	from := cur.FindList(req.EntityID)
	if from < 0 || from != req.From.Index {
		return ReorderResult{}, ErrStaleReference
	}
	if req.To.Index < 0 || req.To.Index >= len(cur.Lists) {
		return ReorderResult{}, ErrInvalidTarget
	}

	next, err := order.MoveWithin(cur.Lists, from, req.To.Index)
	if err != nil {
		return ReorderResult{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}

	err = s.kv.Batch(ctx, func(w repository.Writer) error {
		return stageListOrders(w, cur.Lists, next)
	})
	if err != nil {
		return ReorderResult{}, fmt.Errorf("committing list reorder: %w", err)
	}
	cur.Lists = next

	lists := make([]List, len(next))
	for i, v := range next {
		lists[i] = v.List
	}
	return ReorderResult{Kind: KindList, Moved: req.EntityID, Lists: lists}, nil
}

func (s *Store) commitItem(ctx context.Context, cur *Snapshot, req ReorderRequest) (ReorderResult, error) {
	src, from, ok := cur.FindItem(req.EntityID)
	if !ok || cur.Lists[src].ID != req.From.ListID || from != req.From.Index {
		return ReorderResult{}, ErrStaleReference
	}
	dst := cur.FindList(req.To.ListID)
	if dst < 0 {
		return ReorderResult{}, ErrStaleReference
	}

	if src == dst {
		items := cur.Lists[src].Items
		if req.To.Index < 0 || req.To.Index >= len(items) {
			return ReorderResult{}, ErrInvalidTarget
		}
		next, err := order.MoveWithin(items, from, req.To.Index)
		if err != nil {
			return ReorderResult{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
		}

		err = s.kv.Batch(ctx, func(w repository.Writer) error {
			return stageItems(w, items, next)
		})
		if err != nil {
			return ReorderResult{}, fmt.Errorf("committing item reorder: %w", err)
		}
		cur.Lists[src].Items = next

		view := cur.Lists[src].clone()
		return ReorderResult{Kind: KindItem, Moved: req.EntityID, Source: &view, Dest: &view}, nil
	}

	srcItems, dstItems := cur.Lists[src].Items, cur.Lists[dst].Items
	if req.To.Index < 0 || req.To.Index > len(dstItems) {
		return ReorderResult{}, ErrInvalidTarget
	}
	nextSrc, nextDst, err := order.MoveAcross(srcItems, dstItems, req.EntityID, req.To.Index)
	if err != nil {
		return ReorderResult{}, fmt.Errorf("%w: %v", ErrStaleReference, err)
	}
	nextDst[req.To.Index].ListID = req.To.ListID

	err = s.kv.Batch(ctx, func(w repository.Writer) error {
		if err := stageItems(w, srcItems, nextSrc); err != nil {
			return err
		}
		return stageItems(w, append(append([]Item(nil), srcItems...), dstItems...), nextDst)
	})
	if err != nil {
		return ReorderResult{}, fmt.Errorf("committing item move: %w", err)
	}
	cur.Lists[src].Items = nextSrc
	cur.Lists[dst].Items = nextDst

	source, dest := cur.Lists[src].clone(), cur.Lists[dst].clone()
	return ReorderResult{Kind: KindItem, Moved: req.EntityID, Source: &source, Dest: &dest}, nil
}
