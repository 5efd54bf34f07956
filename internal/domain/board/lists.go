package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/domain/order"
	"github.com/rpggio/kanban/internal/repository"
)

// AddList appends a new list to the selected board.
func (s *Store) AddList(ctx context.Context, title string) (*List, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return nil, err
	}

	l := List{
		ID:      uuid.NewString(),
		BoardID: cur.Board.ID,
		Title:   title,
		Created: s.now(),
		Order:   order.NextOrder(listOrders(cur.Lists)),
	}
	if err := repository.Put(ctx, s.kv, repository.Lists, l); err != nil {
		return nil, fmt.Errorf("creating list: %w", err)
	}
	cur.Lists = append(cur.Lists, ListView{List: l, Items: []Item{}})

	s.logActivity(ctx, cur.Board.ID, l.ID, activity.TypeListCreated, "created list %q", l.Title)
	return &l, nil
}

// UpdateList merges the update into an active list of the selected board.
func (s *Store) UpdateList(ctx context.Context, id string, upd ListUpdate) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return nil, err
	}
	li := cur.FindList(id)
	if li < 0 {
		return nil, ErrListNotFound
	}

	updated := cur.Lists[li].List
	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return nil, err
		}
		updated.Title = *upd.Title
	}

	if err := repository.Put(ctx, s.kv, repository.Lists, updated); err != nil {
		return nil, fmt.Errorf("updating list: %w", err)
	}
	cur.Lists[li].List = updated

	s.logActivity(ctx, cur.Board.ID, id, activity.TypeListUpdated, "updated list %q", updated.Title)
	return &updated, nil
}

// ArchiveList soft-deletes an active list. Sibling orders are left as they are
// and the list keeps its own order so a restore can find its slot again.
func (s *Store) ArchiveList(ctx context.Context, id string) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return nil, err
	}
	li := cur.FindList(id)
	if li < 0 {
		return nil, ErrListNotFound
	}

	archived := cur.Lists[li].List
	archived.Archived = true
	if err := repository.Put(ctx, s.kv, repository.Lists, archived); err != nil {
		return nil, fmt.Errorf("archiving list: %w", err)
	}
	cur.Lists = removeAt(cur.Lists, li)

	s.logActivity(ctx, cur.Board.ID, id, activity.TypeListArchived, "archived list %q", archived.Title)
	return &archived, nil
}

// RestoreList brings an archived list back at the slot implied by its retained
// order. If that order is taken the whole sequence is re-indexed. An archived
// list left behind by a deleted board is adopted by the selected board.
func (s *Store) RestoreList(ctx context.Context, id string) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return nil, err
	}
	l, err := s.getList(ctx, cur.Board.ID, id)
	if err != nil {
		return nil, err
	}
	if !l.Archived {
		return nil, fmt.Errorf("list is not archived: %w", ErrInvalidInput)
	}
	l.Archived = false
	l.BoardID = cur.Board.ID

	items, err := repository.Query(ctx, s.kv, repository.Items, func(it Item) bool {
		return it.ListID == id && !it.Archived
	})
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	sortItems(items)

	next, collided := order.PlaceByRank(cur.Lists, ListView{List: l, Items: items}, func(v ListView) int {
		return v.Order
	})
	if collided {
		next = order.Reindex(next)
	}

	err = s.kv.Batch(ctx, func(w repository.Writer) error {
		for _, v := range next {
			if v.ID != id && !collided {
				continue
			}
			if err := repository.Stage(w, repository.Lists, v.List); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("restoring list: %w", err)
	}
	cur.Lists = next

	restored := next[order.IndexOf(next, id)].List
	s.logActivity(ctx, cur.Board.ID, id, activity.TypeListRestored, "restored list %q", restored.Title)
	return &restored, nil
}

// DeleteList hard-deletes a list with its active items and re-indexes the
// remaining lists in the same batch. Archived lists of the board may be
// deleted too.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return err
	}

	li := cur.FindList(id)
	var (
		title string
		items []Item
		rest  []ListView
	)
	if li >= 0 {
		title = cur.Lists[li].Title
		items = cur.Lists[li].Items
		rest = order.Reindex(removeAt(cur.Lists, li))
	} else {
		l, err := s.getList(ctx, cur.Board.ID, id)
		if err != nil {
			return err
		}
		title = l.Title
		items, err = repository.Query(ctx, s.kv, repository.Items, func(it Item) bool {
			return it.ListID == id && !it.Archived
		})
		if err != nil {
			return fmt.Errorf("loading items: %w", err)
		}
		rest = cur.Lists
	}

	err = s.kv.Batch(ctx, func(w repository.Writer) error {
		w.Delete(repository.Lists, id)
		for _, it := range items {
			w.Delete(repository.Items, it.ID)
		}
		return stageListOrders(w, cur.Lists, rest)
	})
	if err != nil {
		return fmt.Errorf("deleting list: %w", err)
	}
	cur.Lists = rest

	s.logActivity(ctx, cur.Board.ID, id, activity.TypeListDeleted, "deleted list %q", title)
	return nil
}

// ArchivedLists returns the archived lists of the selected board by retained
// order, followed by archived lists whose board was deleted.
func (s *Store) ArchivedLists(ctx context.Context) ([]List, error) {
	s.mu.Lock()
	boardID := ""
	if s.selected != nil {
		boardID = s.selected.Board.ID
	}
	s.mu.Unlock()

	if boardID == "" {
		return nil, ErrNoBoardSelected
	}

	boards, err := s.boardIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing archived lists: %w", err)
	}
	var own, orphans []List
	archived, err := repository.Query(ctx, s.kv, repository.Lists, func(l List) bool {
		return l.Archived
	})
	if err != nil {
		return nil, fmt.Errorf("listing archived lists: %w", err)
	}
	for _, l := range archived {
		switch {
		case l.BoardID == boardID:
			own = append(own, l)
		case !boards[l.BoardID]:
			orphans = append(orphans, l)
		}
	}
	sortLists(own)
	sortLists(orphans)
	return append(own, orphans...), nil
}

// getList loads a list record that belongs to boardID, or whose board no
// longer exists.
func (s *Store) getList(ctx context.Context, boardID, id string) (List, error) {
	l, err := repository.Get[List](ctx, s.kv, repository.Lists, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return List{}, ErrListNotFound
		}
		return List{}, fmt.Errorf("getting list: %w", err)
	}
	if l.BoardID == boardID {
		return l, nil
	}
	_, err = s.getBoard(ctx, l.BoardID)
	switch {
	case errors.Is(err, ErrBoardNotFound):
		return l, nil
	case err != nil:
		return List{}, err
	}
	return List{}, ErrListNotFound
}

// boardIDs returns the ids of every stored board.
func (s *Store) boardIDs(ctx context.Context) (map[string]bool, error) {
	boards, err := repository.Query(ctx, s.kv, repository.Boards, func(Board) bool { return true })
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(boards))
	for _, b := range boards {
		ids[b.ID] = true
	}
	return ids, nil
}

// stageListOrders stages every list in after whose order differs from before.
func stageListOrders(w repository.Writer, before, after []ListView) error {
	prev := make(map[string]int, len(before))
	for _, v := range before {
		prev[v.ID] = v.Order
	}
	for _, v := range after {
		if o, ok := prev[v.ID]; ok && o == v.Order {
			continue
		}
		if err := repository.Stage(w, repository.Lists, v.List); err != nil {
			return err
		}
	}
	return nil
}

func removeAt[T any](seq []T, i int) []T {
	out := make([]T, 0, len(seq)-1)
	out = append(out, seq[:i]...)
	return append(out, seq[i+1:]...)
}
