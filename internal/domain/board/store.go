package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/repository"
)

// MaxTitleLength bounds board, list and item titles in runes.
const MaxTitleLength = 255

// Store owns the in-memory state of the selected board and mediates every
// write to persistence. State changes only after the write has succeeded.
type Store struct {
	kv         repository.KV
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	selected *Snapshot
}

// NewStore creates a new board store.
func NewStore(kv repository.KV, activities ActivityRepository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		kv:         kv,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateBoard creates and persists a new board. It does not select it.
func (s *Store) CreateBoard(ctx context.Context, title string) (*Board, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	b := Board{
		ID:      uuid.NewString(),
		Title:   title,
		Created: s.now(),
	}
	if err := repository.Put(ctx, s.kv, repository.Boards, b); err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}

	s.logActivity(ctx, b.ID, b.ID, activity.TypeBoardCreated, "created board %q", b.Title)
	return &b, nil
}

// ListBoards returns boards ordered by creation time.
func (s *Store) ListBoards(ctx context.Context, includeArchived bool) ([]Board, error) {
	boards, err := repository.Query(ctx, s.kv, repository.Boards, func(b Board) bool {
		return includeArchived || !b.Archived
	})
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	sort.SliceStable(boards, func(i, j int) bool {
		return lessRank(0, 0, boards[i].Created, boards[j].Created, boards[i].ID, boards[j].ID)
	})
	return boards, nil
}

// Select loads a board with its active lists and items and makes it current.
func (s *Store) Select(ctx context.Context, boardID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.getBoard(ctx, boardID)
	if err != nil {
		return Snapshot{}, err
	}

	snap, err := s.load(ctx, b)
	if err != nil {
		return Snapshot{}, err
	}
	s.selected = &snap
	s.logger.Debug("board selected", "board_id", b.ID, "lists", len(snap.Lists))
	return snap.clone(), nil
}

// View returns a copy of the selected board state.
func (s *Store) View() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return Snapshot{}, false
	}
	return s.selected.clone(), true
}

// UpdateSelectedBoard merges the update into the selected board and writes it through.
func (s *Store) UpdateSelectedBoard(ctx context.Context, upd BoardUpdate) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return nil, err
	}

	updated := cur.Board
	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return nil, err
		}
		updated.Title = *upd.Title
	}

	if err := repository.Put(ctx, s.kv, repository.Boards, updated); err != nil {
		return nil, fmt.Errorf("updating board: %w", err)
	}
	cur.Board = updated

	s.logActivity(ctx, updated.ID, updated.ID, activity.TypeBoardUpdated, "updated board %q", updated.Title)
	return &updated, nil
}

// ArchiveBoard soft-deletes the selected board. It stays selected.
func (s *Store) ArchiveBoard(ctx context.Context) (*Board, error) {
	return s.setBoardArchived(ctx, true)
}

// RestoreBoard clears the archived flag of the selected board.
func (s *Store) RestoreBoard(ctx context.Context) (*Board, error) {
	return s.setBoardArchived(ctx, false)
}

func (s *Store) setBoardArchived(ctx context.Context, archived bool) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return nil, err
	}

	updated := cur.Board
	updated.Archived = archived
	if err := repository.Put(ctx, s.kv, repository.Boards, updated); err != nil {
		return nil, fmt.Errorf("archiving board: %w", err)
	}
	cur.Board = updated

	typ := activity.TypeBoardArchived
	if !archived {
		typ = activity.TypeBoardRestored
	}
	s.logActivity(ctx, updated.ID, updated.ID, typ, "%s board %q", typ, updated.Title)
	return &updated, nil
}

// DeleteBoard hard-deletes the selected board together with its active lists,
// their active items and the board's tags. Archived lists and items are kept.
func (s *Store) DeleteBoard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return err
	}
	boardID := cur.Board.ID

	tags, err := repository.Query(ctx, s.kv, repository.Tags, func(t boardRef) bool {
		return t.BoardID == boardID
	})
	if err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}

	err = s.kv.Batch(ctx, func(w repository.Writer) error {
		w.Delete(repository.Boards, boardID)
		for _, l := range cur.Lists {
			w.Delete(repository.Lists, l.ID)
			for _, it := range l.Items {
				w.Delete(repository.Items, it.ID)
			}
		}
		for _, t := range tags {
			w.Delete(repository.Tags, t.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting board: %w", err)
	}
	s.selected = nil

	s.logActivity(ctx, boardID, boardID, activity.TypeBoardDeleted, "deleted board %q", cur.Board.Title)
	return nil
}

// boardRef decodes just enough of a board-owned record to filter it.
type boardRef struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
}

func (s *Store) getBoard(ctx context.Context, id string) (Board, error) {
	b, err := repository.Get[Board](ctx, s.kv, repository.Boards, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Board{}, ErrBoardNotFound
		}
		return Board{}, fmt.Errorf("getting board: %w", err)
	}
	return b, nil
}

func (s *Store) load(ctx context.Context, b Board) (Snapshot, error) {
	lists, err := repository.Query(ctx, s.kv, repository.Lists, func(l List) bool {
		return l.BoardID == b.ID && !l.Archived
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading lists: %w", err)
	}
	sortLists(lists)

	owners := make(map[string]int, len(lists))
	for i, l := range lists {
		owners[l.ID] = i
	}
	items, err := repository.Query(ctx, s.kv, repository.Items, func(it Item) bool {
		_, ok := owners[it.ListID]
		return ok && !it.Archived
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading items: %w", err)
	}
	sortItems(items)

	snap := Snapshot{Board: b, Lists: make([]ListView, len(lists))}
	for i, l := range lists {
		snap.Lists[i] = ListView{List: l, Items: []Item{}}
	}
	for _, it := range items {
		i := owners[it.ListID]
		snap.Lists[i].Items = append(snap.Lists[i].Items, it)
	}
	return snap, nil
}

// current returns the selected snapshot. Callers must hold s.mu.
func (s *Store) current() (*Snapshot, error) {
	if s.selected == nil {
		return nil, ErrNoBoardSelected
	}
	return s.selected, nil
}

func (s *Store) logActivity(ctx context.Context, boardID, entityID string, typ activity.ActivityType, format string, args ...any) {
	if s.activities == nil {
		return
	}
	id := entityID
	_ = s.activities.Log(ctx, &activity.ActivityEntry{
		BoardID:      boardID,
		EntityID:     &id,
		ActivityType: typ,
		Summary:      fmt.Sprintf(format, args...),
		CreatedAt:    s.now(),
	})
}

func validateTitle(title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrInvalidInput
	}
	if strings.ContainsAny(title, "\n\r") {
		return ErrInvalidInput
	}
	return nil
}
