package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/repository"
	"github.com/rpggio/kanban/internal/repository/mocks"
	"github.com/rpggio/kanban/internal/sqlite"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *sqlite.KV {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	return sqlite.NewKV(db)
}

func newTestStore(t *testing.T, kv repository.KV) *Store {
	t.Helper()

	s := NewStore(kv, nil, nil)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

// seedBoard creates and selects a board with one list per entry of lists,
// each holding items with the given titles.
func seedBoard(t *testing.T, s *Store, lists ...[]string) Snapshot {
	t.Helper()
	ctx := context.Background()

	b, err := s.CreateBoard(ctx, "Board")
	require.NoError(t, err)
	_, err = s.Select(ctx, b.ID)
	require.NoError(t, err)

	for i, items := range lists {
		l, err := s.AddList(ctx, "L"+string(rune('A'+i)))
		require.NoError(t, err)
		for _, title := range items {
			_, err := s.AddItem(ctx, l.ID, title)
			require.NoError(t, err)
		}
	}

	snap, ok := s.View()
	require.True(t, ok)
	return snap
}

func itemTitles(v ListView) []string {
	out := make([]string, len(v.Items))
	for i, it := range v.Items {
		out[i] = it.Title
	}
	return out
}

func listTitles(snap Snapshot) []string {
	out := make([]string, len(snap.Lists))
	for i, l := range snap.Lists {
		out[i] = l.Title
	}
	return out
}

// reload reads the board back through a fresh store to check persisted state.
func reload(t *testing.T, kv repository.KV, boardID string) Snapshot {
	t.Helper()

	snap, err := NewStore(kv, nil, nil).Select(context.Background(), boardID)
	require.NoError(t, err)
	return snap
}

func TestCommitReorder_ItemFirstToLast(t *testing.T) {
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, []string{"item1", "item2", "item3"})
	a := snap.Lists[0]

	res, err := s.CommitReorder(context.Background(), ReorderRequest{
		Kind:     KindItem,
		EntityID: a.Items[0].ID,
		From:     Location{ListID: a.ID, Index: 0},
		To:       Location{ListID: a.ID, Index: 2},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"item2", "item3", "item1"}, itemTitles(*res.Dest))

	for _, got := range []Snapshot{mustView(t, s), reload(t, kv, snap.Board.ID)} {
		require.Equal(t, []string{"item2", "item3", "item1"}, itemTitles(got.Lists[0]))
		require.Equal(t, []int{0, 1, 2}, itemOrders(got.Lists[0].Items))
	}
}

func TestCommitReorder_ItemAcrossLists(t *testing.T) {
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, []string{"item1", "item2"}, []string{"item3"})
	a, b := snap.Lists[0], snap.Lists[1]

	res, err := s.CommitReorder(context.Background(), ReorderRequest{
		Kind:     KindItem,
		EntityID: a.Items[0].ID,
		From:     Location{ListID: a.ID, Index: 0},
		To:       Location{ListID: b.ID, Index: 0},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"item2"}, itemTitles(*res.Source))
	require.Equal(t, []string{"item1", "item3"}, itemTitles(*res.Dest))

	for _, got := range []Snapshot{mustView(t, s), reload(t, kv, snap.Board.ID)} {
		require.Equal(t, []string{"item2"}, itemTitles(got.Lists[0]))
		require.Equal(t, []int{0}, itemOrders(got.Lists[0].Items))
		require.Equal(t, []string{"item1", "item3"}, itemTitles(got.Lists[1]))
		require.Equal(t, []int{0, 1}, itemOrders(got.Lists[1].Items))
		require.Equal(t, b.ID, got.Lists[1].Items[0].ListID)
	}
}

func TestCommitReorder_ItemIntoEmptyList(t *testing.T) {
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, []string{"x", "y"}, nil)
	a, b := snap.Lists[0], snap.Lists[1]

	_, err := s.CommitReorder(context.Background(), ReorderRequest{
		Kind:     KindItem,
		EntityID: a.Items[1].ID,
		From:     Location{ListID: a.ID, Index: 1},
		To:       Location{ListID: b.ID, Index: 0},
	})
	require.NoError(t, err)

	got := reload(t, kv, snap.Board.ID)
	require.Equal(t, []string{"x"}, itemTitles(got.Lists[0]))
	require.Equal(t, []string{"y"}, itemTitles(got.Lists[1]))
	require.Equal(t, []int{0}, itemOrders(got.Lists[1].Items))
}

func TestCommitReorder_ListLastToFirst(t *testing.T) {
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, nil, nil, nil)

	res, err := s.CommitReorder(context.Background(), ReorderRequest{
		Kind:     KindList,
		EntityID: snap.Lists[2].ID,
		From:     Location{Index: 2},
		To:       Location{Index: 0},
	})
	require.NoError(t, err)
	require.Len(t, res.Lists, 3)

	for _, got := range []Snapshot{mustView(t, s), reload(t, kv, snap.Board.ID)} {
		require.Equal(t, []string{"LC", "LA", "LB"}, listTitles(got))
		require.Equal(t, []int{0, 1, 2}, listOrders(got.Lists))
	}
}

func TestCommitReorder_SameSlotKeepsOrder(t *testing.T) {
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, []string{"a", "b"})
	a := snap.Lists[0]

	_, err := s.CommitReorder(context.Background(), ReorderRequest{
		Kind:     KindItem,
		EntityID: a.Items[1].ID,
		From:     Location{ListID: a.ID, Index: 1},
		To:       Location{ListID: a.ID, Index: 1},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, itemTitles(mustView(t, s).Lists[0]))
}

func TestCommitReorder_StaleReference(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, []string{"a", "b"}, []string{"c"})
	a, b := snap.Lists[0], snap.Lists[1]

	// Wrong source index.
	_, err := s.CommitReorder(ctx, ReorderRequest{
		Kind:     KindItem,
		EntityID: a.Items[0].ID,
		From:     Location{ListID: a.ID, Index: 1},
		To:       Location{ListID: a.ID, Index: 0},
	})
	require.ErrorIs(t, err, ErrStaleReference)

	// Destination archived mid-gesture.
	_, err = s.ArchiveList(ctx, b.ID)
	require.NoError(t, err)
	_, err = s.CommitReorder(ctx, ReorderRequest{
		Kind:     KindItem,
		EntityID: a.Items[0].ID,
		From:     Location{ListID: a.ID, Index: 0},
		To:       Location{ListID: b.ID, Index: 0},
	})
	require.ErrorIs(t, err, ErrStaleReference)

	// Entity archived mid-gesture.
	_, err = s.ArchiveItem(ctx, a.Items[1].ID)
	require.NoError(t, err)
	_, err = s.CommitReorder(ctx, ReorderRequest{
		Kind:     KindItem,
		EntityID: a.Items[1].ID,
		From:     Location{ListID: a.ID, Index: 1},
		To:       Location{ListID: a.ID, Index: 0},
	})
	require.ErrorIs(t, err, ErrStaleReference)

	require.Equal(t, []string{"a"}, itemTitles(mustView(t, s).Lists[0]))
}

func TestCommitReorder_InvalidTarget(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newTestKV(t))
	snap := seedBoard(t, s, []string{"a", "b"}, []string{"c"})
	a, b := snap.Lists[0], snap.Lists[1]

	tests := []ReorderRequest{
		{Kind: KindItem, EntityID: a.Items[0].ID, From: Location{ListID: a.ID}, To: Location{ListID: a.ID, Index: 2}},
		{Kind: KindItem, EntityID: a.Items[0].ID, From: Location{ListID: a.ID}, To: Location{ListID: a.ID, Index: -1}},
		{Kind: KindItem, EntityID: a.Items[0].ID, From: Location{ListID: a.ID}, To: Location{ListID: b.ID, Index: 2}},
		{Kind: KindList, EntityID: a.ID, From: Location{Index: 0}, To: Location{Index: 2}},
	}
	for _, req := range tests {
		_, err := s.CommitReorder(ctx, req)
		require.ErrorIs(t, err, ErrInvalidTarget, "%+v", req)
	}

	require.Equal(t, snap, mustView(t, s))
}

func TestCommitReorder_NoBoardSelected(t *testing.T) {
	s := newTestStore(t, newTestKV(t))
	_, err := s.CommitReorder(context.Background(), ReorderRequest{Kind: KindList})
	require.ErrorIs(t, err, ErrNoBoardSelected)
}

func TestCommitReorder_WriteFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	b := Board{ID: "b1", Title: "Board", Created: created}
	lists := []List{{ID: "la", BoardID: "b1", Title: "A", Created: created, Order: 0}}
	items := []Item{
		{ID: "i1", ListID: "la", Title: "item1", Created: created, Order: 0},
		{ID: "i2", ListID: "la", Title: "item2", Created: created, Order: 1},
		{ID: "i3", ListID: "la", Title: "item3", Created: created, Order: 2},
	}

	kv := &mocks.KV{}
	kv.On("Get", mock.Anything, repository.Boards, "b1").Return(encode(t, b), nil)
	kv.On("Scan", mock.Anything, repository.Lists).Return(encodeAll(t, lists), nil)
	kv.On("Scan", mock.Anything, repository.Items).Return(encodeAll(t, items), nil)
	kv.On("Batch", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	s := newTestStore(t, kv)
	before, err := s.Select(ctx, "b1")
	require.NoError(t, err)

	_, err = s.CommitReorder(ctx, ReorderRequest{
		Kind:     KindItem,
		EntityID: "i1",
		From:     Location{ListID: "la", Index: 0},
		To:       Location{ListID: "la", Index: 2},
	})
	require.Error(t, err)
	require.Equal(t, before, mustView(t, s))
	kv.AssertExpectations(t)
}

func TestCommitReorder_StagesOnlyTouchedSiblings(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	b := Board{ID: "b1", Title: "Board", Created: created}
	lists := []List{{ID: "la", BoardID: "b1", Title: "A", Created: created, Order: 0}}
	items := []Item{
		{ID: "i1", ListID: "la", Title: "item1", Created: created, Order: 0},
		{ID: "i2", ListID: "la", Title: "item2", Created: created, Order: 1},
		{ID: "i3", ListID: "la", Title: "item3", Created: created, Order: 2},
	}

	kv := &mocks.KV{}
	kv.On("Get", mock.Anything, repository.Boards, "b1").Return(encode(t, b), nil)
	kv.On("Scan", mock.Anything, repository.Lists).Return(encodeAll(t, lists), nil)
	kv.On("Scan", mock.Anything, repository.Items).Return(encodeAll(t, items), nil)
	kv.On("Batch", mock.Anything, mock.MatchedBy(func(ops []repository.Op) bool {
		if len(ops) != 2 {
			return false
		}
		for _, op := range ops {
			if op.Collection != repository.Items || op.ID == "i3" || op.Delete {
				return false
			}
		}
		return true
	})).Return(nil)

	s := newTestStore(t, kv)
	_, err := s.Select(ctx, "b1")
	require.NoError(t, err)

	_, err = s.CommitReorder(ctx, ReorderRequest{
		Kind:     KindItem,
		EntityID: "i1",
		From:     Location{ListID: "la", Index: 0},
		To:       Location{ListID: "la", Index: 1},
	})
	require.NoError(t, err)
	kv.AssertExpectations(t)
}

func TestLocate(t *testing.T) {
	s := newTestStore(t, newTestKV(t))

	_, ok := s.Locate(KindList, "x")
	require.False(t, ok)

	snap := seedBoard(t, s, []string{"a"}, []string{"b", "c"})

	loc, ok := s.Locate(KindList, snap.Lists[1].ID)
	require.True(t, ok)
	require.Equal(t, Location{Index: 1}, loc)

	loc, ok = s.Locate(KindItem, snap.Lists[1].Items[1].ID)
	require.True(t, ok)
	require.Equal(t, Location{ListID: snap.Lists[1].ID, Index: 1}, loc)

	_, ok = s.Locate(KindItem, "missing")
	require.False(t, ok)
}

func TestArchiveList_LeavesSiblingOrders(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, nil, nil, nil)

	archived, err := s.ArchiveList(ctx, snap.Lists[1].ID)
	require.NoError(t, err)
	require.True(t, archived.Archived)
	require.Equal(t, 1, archived.Order)

	for _, got := range []Snapshot{mustView(t, s), reload(t, kv, snap.Board.ID)} {
		require.Equal(t, []string{"LA", "LC"}, listTitles(got))
		require.Equal(t, []int{0, 2}, listOrders(got.Lists))
	}

	lists, err := s.ArchivedLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Equal(t, "LB", lists[0].Title)

	restored, err := s.RestoreList(ctx, snap.Lists[1].ID)
	require.NoError(t, err)
	require.False(t, restored.Archived)
	require.Equal(t, []string{"LA", "LB", "LC"}, listTitles(mustView(t, s)))
	require.Equal(t, []int{0, 1, 2}, listOrders(mustView(t, s).Lists))
}

func TestRestoreList_CollisionReindexes(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, []string{"kept"}, nil, nil)

	_, err := s.ArchiveList(ctx, snap.Lists[0].ID)
	require.NoError(t, err)

	// Moving LC to the front re-ranks [LC, LB] to 0,1 so LA's retained 0 collides.
	_, err = s.CommitReorder(ctx, ReorderRequest{
		Kind:     KindList,
		EntityID: snap.Lists[2].ID,
		From:     Location{Index: 1},
		To:       Location{Index: 0},
	})
	require.NoError(t, err)

	_, err = s.RestoreList(ctx, snap.Lists[0].ID)
	require.NoError(t, err)

	for _, got := range []Snapshot{mustView(t, s), reload(t, kv, snap.Board.ID)} {
		require.Equal(t, []string{"LA", "LC", "LB"}, listTitles(got))
		require.Equal(t, []int{0, 1, 2}, listOrders(got.Lists))
		require.Equal(t, []string{"kept"}, itemTitles(got.Lists[0]))
	}
}

func TestRestoreList_NotArchived(t *testing.T) {
	s := newTestStore(t, newTestKV(t))
	snap := seedBoard(t, s, nil)

	_, err := s.RestoreList(context.Background(), snap.Lists[0].ID)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.RestoreList(context.Background(), "missing")
	require.ErrorIs(t, err, ErrListNotFound)
}

func TestDeleteList_ReindexesAndCascades(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, nil, []string{"x", "y"}, nil)

	require.NoError(t, s.DeleteList(ctx, snap.Lists[1].ID))

	got := reload(t, kv, snap.Board.ID)
	require.Equal(t, []string{"LA", "LC"}, listTitles(got))
	require.Equal(t, []int{0, 1}, listOrders(got.Lists))

	_, err := kv.Get(ctx, repository.Items, snap.Lists[1].Items[0].ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, s.DeleteList(ctx, snap.Lists[1].ID), ErrListNotFound)
}

func TestItemLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, []string{"a", "b", "c"})
	a := snap.Lists[0]

	desc := "details"
	title := "b2"
	updated, err := s.UpdateItem(ctx, a.Items[1].ID, ItemUpdate{Title: &title, Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "b2", updated.Title)
	require.Equal(t, "details", updated.Description)

	_, err = s.ArchiveItem(ctx, a.Items[1].ID)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, itemOrders(mustView(t, s).Lists[0].Items))

	archived, err := s.ArchivedItems(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	require.Equal(t, "b2", archived[0].Title)
	require.Equal(t, "LA", archived[0].ListTitle)

	_, err = s.RestoreItem(ctx, a.Items[1].ID, "")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b2", "c"}, itemTitles(mustView(t, s).Lists[0]))

	require.NoError(t, s.DeleteItem(ctx, a.Items[0].ID))
	got := reload(t, kv, snap.Board.ID)
	require.Equal(t, []string{"b2", "c"}, itemTitles(got.Lists[0]))
	require.Equal(t, []int{0, 1}, itemOrders(got.Lists[0].Items))

	require.ErrorIs(t, s.DeleteItem(ctx, a.Items[0].ID), ErrItemNotFound)
}

func TestDeleteItem_Archived(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, []string{"a", "b"})
	id := snap.Lists[0].Items[0].ID

	_, err := s.ArchiveItem(ctx, id)
	require.NoError(t, err)
	require.NoError(t, s.DeleteItem(ctx, id))

	_, err = kv.Get(ctx, repository.Items, id)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Equal(t, []int{1}, itemOrders(mustView(t, s).Lists[0].Items))
}

func TestAddItem_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newTestKV(t))

	_, err := s.AddItem(ctx, "l1", "x")
	require.ErrorIs(t, err, ErrNoBoardSelected)

	seedBoard(t, s, nil)
	_, err = s.AddItem(ctx, "missing", "x")
	require.ErrorIs(t, err, ErrListNotFound)

	_, err = s.AddList(ctx, "two\nlines")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBoardLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, []string{"a"}, []string{"b"})

	other, err := s.CreateBoard(ctx, "Other")
	require.NoError(t, err)

	title := "Renamed"
	b, err := s.UpdateSelectedBoard(ctx, BoardUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Renamed", b.Title)

	_, err = s.ArchiveBoard(ctx)
	require.NoError(t, err)
	boards, err := s.ListBoards(ctx, false)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	require.Equal(t, other.ID, boards[0].ID)

	boards, err = s.ListBoards(ctx, true)
	require.NoError(t, err)
	require.Len(t, boards, 2)
	require.Equal(t, snap.Board.ID, boards[0].ID)

	_, err = s.RestoreBoard(ctx)
	require.NoError(t, err)

	_, err = s.Select(ctx, "missing")
	require.ErrorIs(t, err, ErrBoardNotFound)
}

func TestDeleteBoard_CascadesActiveOnly(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	snap := seedBoard(t, s, []string{"a"}, []string{"b"})

	_, err := s.ArchiveList(ctx, snap.Lists[1].ID)
	require.NoError(t, err)
	require.NoError(t, repository.Put(ctx, kv, repository.Tags, testTag{ID: "t1", BoardID: snap.Board.ID}))
	require.NoError(t, repository.Put(ctx, kv, repository.Tags, testTag{ID: "t2", BoardID: "other"}))

	require.NoError(t, s.DeleteBoard(ctx))
	_, ok := s.View()
	require.False(t, ok)

	_, err = kv.Get(ctx, repository.Boards, snap.Board.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = kv.Get(ctx, repository.Lists, snap.Lists[0].ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = kv.Get(ctx, repository.Items, snap.Lists[0].Items[0].ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = kv.Get(ctx, repository.Tags, "t1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = kv.Get(ctx, repository.Lists, snap.Lists[1].ID)
	require.NoError(t, err)
	_, err = kv.Get(ctx, repository.Tags, "t2")
	require.NoError(t, err)
}

func TestDeleteBoard_ArchivedSurvivorsRestorable(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	s := newTestStore(t, kv)
	old := seedBoard(t, s, []string{"a", "b"}, []string{"c"})
	la, lb := old.Lists[0], old.Lists[1]

	_, err := s.ArchiveList(ctx, lb.ID)
	require.NoError(t, err)
	_, err = s.ArchiveItem(ctx, la.Items[1].ID)
	require.NoError(t, err)
	require.NoError(t, s.DeleteBoard(ctx))

	b, err := s.CreateBoard(ctx, "Next")
	require.NoError(t, err)
	_, err = s.Select(ctx, b.ID)
	require.NoError(t, err)
	fresh, err := s.AddList(ctx, "Fresh")
	require.NoError(t, err)

	lists, err := s.ArchivedLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Equal(t, lb.ID, lists[0].ID)

	restored, err := s.RestoreList(ctx, lb.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, restored.BoardID)

	items, err := s.ArchivedItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "b", items[0].Title)
	require.True(t, items[0].Orphaned)

	_, err = s.RestoreItem(ctx, items[0].ID, "")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.RestoreItem(ctx, items[0].ID, "missing")
	require.ErrorIs(t, err, ErrListNotFound)
	item, err := s.RestoreItem(ctx, items[0].ID, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, fresh.ID, item.ListID)

	for _, got := range []Snapshot{mustView(t, s), reload(t, kv, b.ID)} {
		require.Equal(t, []string{"Fresh", "LB"}, listTitles(got))
		require.Equal(t, []int{0, 1}, listOrders(got.Lists))
		require.Equal(t, []string{"b"}, itemTitles(got.Lists[0]))
		require.Equal(t, []string{"c"}, itemTitles(got.Lists[1]))
	}

	items, err = s.ArchivedItems(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestRestoreItem_DestinationOnlyForOrphans(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newTestKV(t))
	snap := seedBoard(t, s, []string{"a"}, nil)

	_, err := s.ArchiveItem(ctx, snap.Lists[0].Items[0].ID)
	require.NoError(t, err)

	_, err = s.RestoreItem(ctx, snap.Lists[0].Items[0].ID, snap.Lists[1].ID)
	require.ErrorIs(t, err, ErrInvalidInput)

	item, err := s.RestoreItem(ctx, snap.Lists[0].Items[0].ID, snap.Lists[0].ID)
	require.NoError(t, err)
	require.Equal(t, snap.Lists[0].ID, item.ListID)
}

func TestStore_LogsActivity(t *testing.T) {
	ctx := context.Background()
	activities := &mocks.ActivityRepository{}
	activities.On("Log", mock.Anything, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeBoardCreated && e.Summary == `created board "Board"`
	})).Return(nil).Once()

	s := NewStore(newTestKV(t), activities, nil)
	_, err := s.CreateBoard(ctx, "Board")
	require.NoError(t, err)
	activities.AssertExpectations(t)
}

func TestView_IsACopy(t *testing.T) {
	s := newTestStore(t, newTestKV(t))
	snap := seedBoard(t, s, []string{"a", "b"})

	snap.Lists[0].Items[0].Title = "mutated"
	snap.Lists[0].Items = snap.Lists[0].Items[1:]

	require.Equal(t, []string{"a", "b"}, itemTitles(mustView(t, s).Lists[0]))
}

type testTag struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
}

func (t testTag) RecordID() string { return t.ID }

func mustView(t *testing.T, s *Store) Snapshot {
	t.Helper()
	snap, ok := s.View()
	require.True(t, ok)
	return snap
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	data, err := sonic.Marshal(v)
	require.NoError(t, err)
	return data
}

func encodeAll[T any](t *testing.T, vs []T) [][]byte {
	t.Helper()
	out := make([][]byte, len(vs))
	for i, v := range vs {
		out[i] = encode(t, v)
	}
	return out
}
