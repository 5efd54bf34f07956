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

// AddItem appends a new item to an active list of the selected board.
func (s *Store) AddItem(ctx context.Context, listID, title string) (*Item, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return nil, err
	}
	li := cur.FindList(listID)
	if li < 0 {
		return nil, ErrListNotFound
	}

	it := Item{
		ID:      uuid.NewString(),
		ListID:  listID,
		Title:   title,
		Created: s.now(),
		Order:   order.NextOrder(itemOrders(cur.Lists[li].Items)),
	}
	if err := repository.Put(ctx, s.kv, repository.Items, it); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	cur.Lists[li].Items = append(cur.Lists[li].Items, it)

	s.logActivity(ctx, cur.Board.ID, it.ID, activity.TypeItemCreated, "created item %q", it.Title)
	return &it, nil
}

// UpdateItem merges the update into an active item.
func (s *Store) UpdateItem(ctx context.Context, id string, upd ItemUpdate) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return nil, err
	}
	li, ii, ok := cur.FindItem(id)
	if !ok {
		return nil, ErrItemNotFound
	}

	updated := cur.Lists[li].Items[ii]
	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return nil, err
		}
		updated.Title = *upd.Title
	}
	if upd.Description != nil {
		updated.Description = *upd.Description
	}

	if err := repository.Put(ctx, s.kv, repository.Items, updated); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	cur.Lists[li].Items[ii] = updated

	s.logActivity(ctx, cur.Board.ID, id, activity.TypeItemUpdated, "updated item %q", updated.Title)
	return &updated, nil
}

// ArchiveItem soft-deletes an active item without touching its siblings.
func (s *Store) ArchiveItem(ctx context.Context, id string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return nil, err
	}
	li, ii, ok := cur.FindItem(id)
	if !ok {
		return nil, ErrItemNotFound
	}

	archived := cur.Lists[li].Items[ii]
	archived.Archived = true
	if err := repository.Put(ctx, s.kv, repository.Items, archived); err != nil {
		return nil, fmt.Errorf("archiving item: %w", err)
	}
	cur.Lists[li].Items = removeAt(cur.Lists[li].Items, ii)

	s.logActivity(ctx, cur.Board.ID, id, activity.TypeItemArchived, "archived item %q", archived.Title)
	return &archived, nil
}

// RestoreItem brings an archived item back into its list at the slot implied
// by its retained order. The owning list must be active. An item whose list
// was deleted is restored into listID, an active list of the selected board;
// otherwise listID must be empty or name the owning list.
func (s *Store) RestoreItem(ctx context.Context, id, listID string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return nil, err
	}
	it, err := s.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !it.Archived {
		return nil, fmt.Errorf("item is not archived: %w", ErrInvalidInput)
	}

	li := cur.FindList(it.ListID)
	switch {
	case li >= 0:
		if listID != "" && listID != it.ListID {
			return nil, fmt.Errorf("item still belongs to list %s: %w", it.ListID, ErrInvalidInput)
		}
	case listID == "":
		gone, err := s.listGone(ctx, it.ListID)
		if err != nil {
			return nil, err
		}
		if gone {
			return nil, fmt.Errorf("item's list was deleted, a destination list is required: %w", ErrInvalidInput)
		}
		return nil, ErrListNotFound
	default:
		gone, err := s.listGone(ctx, it.ListID)
		if err != nil {
			return nil, err
		}
		if !gone {
			return nil, ErrListNotFound
		}
		if li = cur.FindList(listID); li < 0 {
			return nil, ErrListNotFound
		}
		it.ListID = listID
	}
	it.Archived = false

	next, collided := order.PlaceByRank(cur.Lists[li].Items, it, func(v Item) int {
		return v.Order
	})
	if collided {
		next = order.Reindex(next)
	}

	err = s.kv.Batch(ctx, func(w repository.Writer) error {
		if !collided {
			return repository.Stage(w, repository.Items, it)
		}
		for _, v := range next {
			if err := repository.Stage(w, repository.Items, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("restoring item: %w", err)
	}
	cur.Lists[li].Items = next

	restored := next[order.IndexOf(next, id)]
	s.logActivity(ctx, cur.Board.ID, id, activity.TypeItemRestored, "restored item %q", restored.Title)
	return &restored, nil
}

// DeleteItem hard-deletes an item. When it was active, the remaining items of
// its list are re-indexed in the same batch.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return err
	}

	li, ii, ok := cur.FindItem(id)
	if !ok {
		it, err := s.getItem(ctx, id)
		if err != nil {
			return err
		}
		if cur.FindList(it.ListID) < 0 {
			gone, err := s.listGone(ctx, it.ListID)
			if err != nil {
				return err
			}
			if !gone {
				return ErrItemNotFound
			}
		}
		if err := s.kv.Delete(ctx, repository.Items, id); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		s.logActivity(ctx, cur.Board.ID, id, activity.TypeItemDeleted, "deleted item %q", it.Title)
		return nil
	}

	before := cur.Lists[li].Items
	title := before[ii].Title
	rest := order.Reindex(removeAt(before, ii))

	err = s.kv.Batch(ctx, func(w repository.Writer) error {
		w.Delete(repository.Items, id)
		return stageItems(w, before, rest)
	})
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	cur.Lists[li].Items = rest

	s.logActivity(ctx, cur.Board.ID, id, activity.TypeItemDeleted, "deleted item %q", title)
	return nil
}

// ArchivedItems returns the archived items of the selected board's active
// lists, annotated with the owning list title, followed by archived items
// whose list was deleted.
func (s *Store) ArchivedItems(ctx context.Context) ([]ArchivedItem, error) {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return nil, ErrNoBoardSelected
	}
	titles := make(map[string]string, len(s.selected.Lists))
	for _, l := range s.selected.Lists {
		titles[l.ID] = l.Title
	}
	s.mu.Unlock()

	lists, err := repository.Query(ctx, s.kv, repository.Lists, func(List) bool { return true })
	if err != nil {
		return nil, fmt.Errorf("listing archived items: %w", err)
	}
	stored := make(map[string]bool, len(lists))
	for _, l := range lists {
		stored[l.ID] = true
	}

	var own, orphans []Item
	archived, err := repository.Query(ctx, s.kv, repository.Items, func(it Item) bool {
		return it.Archived
	})
	if err != nil {
		return nil, fmt.Errorf("listing archived items: %w", err)
	}
	for _, it := range archived {
		if _, ok := titles[it.ListID]; ok {
			own = append(own, it)
		} else if !stored[it.ListID] {
			orphans = append(orphans, it)
		}
	}
	sortItems(own)
	sortItems(orphans)

	out := make([]ArchivedItem, 0, len(own)+len(orphans))
	for _, it := range own {
		out = append(out, ArchivedItem{Item: it, ListTitle: titles[it.ListID]})
	}
	for _, it := range orphans {
		out = append(out, ArchivedItem{Item: it, Orphaned: true})
	}
	return out, nil
}

// listGone reports whether the list record no longer exists.
func (s *Store) listGone(ctx context.Context, id string) (bool, error) {
	_, err := repository.Get[List](ctx, s.kv, repository.Lists, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("getting list: %w", err)
	}
	return false, nil
}

func (s *Store) getItem(ctx context.Context, id string) (Item, error) {
	it, err := repository.Get[Item](ctx, s.kv, repository.Items, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// stageItems stages every item in after whose order or owning list differs
// from before. Items absent from before are always staged.
func stageItems(w repository.Writer, before, after []Item) error {
	prev := make(map[string]Item, len(before))
	for _, it := range before {
		prev[it.ID] = it
	}
	for _, it := range after {
		if p, ok := prev[it.ID]; ok && p.Order == it.Order && p.ListID == it.ListID {
			continue
		}
		if err := repository.Stage(w, repository.Items, it); err != nil {
			return err
		}
	}
	return nil
}
