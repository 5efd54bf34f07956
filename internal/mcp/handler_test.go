package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/rpggio/kanban/internal/domain/tag"
	"github.com/rpggio/kanban/internal/drag"
	"github.com/rpggio/kanban/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) Services {
	t.Helper()
	return newTestServicesWithDrag(t, drag.Config{Threshold: 1})
}

func newTestServicesWithDrag(t *testing.T, dragCfg drag.Config) Services {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	kv := sqlite.NewKV(db)
	activityRepo := sqlite.NewActivityRepository(db)
	store := board.NewStore(kv, activityRepo, nil)

	return Services{
		Boards:   store,
		Tags:     tag.NewService(kv, activityRepo, nil),
		Activity: activity.NewService(activityRepo, nil),
		Mover:    drag.NewEngine(dragCfg, store, nil, nil),
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func call[T any](t *testing.T, h *Handler, method string, params any) T {
	t.Helper()
	var raw json.RawMessage
	if params != nil {
		raw = mustJSON(t, params)
	}
	res, err := h.Handle(context.Background(), "sess1", method, raw)
	require.NoError(t, err)
	out, ok := res.(T)
	require.True(t, ok, "unexpected result type %T", res)
	return out
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, code, apiErr.Code)
}

// seed creates and selects a board with one list per entry of lists.
func seed(t *testing.T, h *Handler, lists ...[]string) BoardResponse {
	t.Helper()
	b := call[*board.Board](t, h, "create_board", CreateBoardParams{Title: "Board", Select: true})
	require.NotEmpty(t, b.ID)

	for i, items := range lists {
		l := call[*board.List](t, h, "add_list", AddListParams{Title: "L" + string(rune('A'+i))})
		for _, title := range items {
			call[*board.Item](t, h, "add_item", AddItemParams{ListID: l.ID, Title: title})
		}
	}
	return call[BoardResponse](t, h, "get_board", nil)
}

func itemTitles(l ListResponse) []string {
	out := make([]string, len(l.Items))
	for i, it := range l.Items {
		out[i] = it.Title
	}
	return out
}

func TestHandler_BoardCommands(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)
	ctx := context.Background()

	_, err := h.Handle(ctx, "", "get_board", nil)
	requireCode(t, err, "NO_BOARD_SELECTED")

	view := seed(t, h, []string{"a"})
	require.Equal(t, "Board", view.Board.Title)
	require.Len(t, view.Lists, 1)

	boards := call[ListBoardsResponse](t, h, "list_boards", nil)
	require.Len(t, boards.Boards, 1)
	require.True(t, boards.Boards[0].Selected)

	title := "Renamed"
	updated := call[*board.Board](t, h, "update_board", UpdateBoardParams{Title: &title})
	require.Equal(t, "Renamed", updated.Title)

	archived := call[*board.Board](t, h, "archive_board", nil)
	require.True(t, archived.Archived)
	boards = call[ListBoardsResponse](t, h, "list_boards", nil)
	require.Empty(t, boards.Boards)
	boards = call[ListBoardsResponse](t, h, "list_boards", ListBoardsParams{IncludeArchived: true})
	require.Len(t, boards.Boards, 1)

	restored := call[*board.Board](t, h, "restore_board", nil)
	require.False(t, restored.Archived)

	deleted := call[DeletedResponse](t, h, "delete_board", nil)
	require.Equal(t, view.Board.ID, deleted.ID)

	_, err = h.Handle(ctx, "", "select_board", mustJSON(t, SelectBoardParams{ID: view.Board.ID}))
	requireCode(t, err, "BOARD_NOT_FOUND")
}

func TestHandler_ListAndItemCommands(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)
	ctx := context.Background()
	view := seed(t, h, []string{"a", "b", "c"}, []string{"d"})
	la, lb := view.Lists[0], view.Lists[1]

	call[*board.List](t, h, "archive_list", IDParams{ID: la.ID})
	archivedLists := call[[]board.List](t, h, "list_archived_lists", nil)
	require.Len(t, archivedLists, 1)
	call[*board.List](t, h, "restore_list", IDParams{ID: la.ID})

	view = call[BoardResponse](t, h, "get_board", nil)
	require.Equal(t, la.ID, view.Lists[0].ID)

	b := la.Items[1]
	call[*board.Item](t, h, "archive_item", IDParams{ID: b.ID})
	archivedItems := call[[]board.ArchivedItem](t, h, "list_archived_items", nil)
	require.Len(t, archivedItems, 1)
	require.Equal(t, "LA", archivedItems[0].ListTitle)

	restored := call[*board.Item](t, h, "restore_item", IDParams{ID: b.ID})
	require.Equal(t, 1, restored.Order)

	desc := "details"
	item := call[*board.Item](t, h, "update_item", UpdateItemParams{ID: b.ID, Description: &desc})
	require.Equal(t, "details", item.Description)

	call[DeletedResponse](t, h, "delete_item", IDParams{ID: b.ID})
	view = call[BoardResponse](t, h, "get_board", nil)
	require.Equal(t, []string{"a", "c"}, itemTitles(view.Lists[0]))
	require.Equal(t, 1, view.Lists[0].Items[1].Order)

	call[DeletedResponse](t, h, "delete_list", IDParams{ID: lb.ID})
	view = call[BoardResponse](t, h, "get_board", nil)
	require.Len(t, view.Lists, 1)

	_, err := h.Handle(ctx, "", "archive_item", mustJSON(t, IDParams{ID: "missing"}))
	requireCode(t, err, "ITEM_NOT_FOUND")
	_, err = h.Handle(ctx, "", "add_item", mustJSON(t, AddItemParams{ListID: lb.ID, Title: "x"}))
	requireCode(t, err, "LIST_NOT_FOUND")
	_, err = h.Handle(ctx, "", "add_list", mustJSON(t, AddListParams{Title: "two\nlines"}))
	requireCode(t, err, "INVALID_INPUT")
	_, err = h.Handle(ctx, "", "update_list", json.RawMessage(`{"id":`))
	requireCode(t, err, "INVALID_INPUT")
}

func TestHandler_RestoreAfterBoardDelete(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)
	ctx := context.Background()
	old := seed(t, h, []string{"a", "b"})

	call[*board.Item](t, h, "archive_item", IDParams{ID: old.Lists[0].Items[1].ID})
	call[DeletedResponse](t, h, "delete_board", nil)

	seed(t, h, nil)
	view := call[BoardResponse](t, h, "get_board", nil)
	archived := call[[]board.ArchivedItem](t, h, "list_archived_items", nil)
	require.Len(t, archived, 1)
	require.True(t, archived[0].Orphaned)

	_, err := h.Handle(ctx, "", "restore_item", mustJSON(t, IDParams{ID: archived[0].ID}))
	requireCode(t, err, "INVALID_INPUT")

	item := call[*board.Item](t, h, "restore_item", RestoreItemParams{ID: archived[0].ID, ListID: view.Lists[0].ID})
	require.Equal(t, view.Lists[0].ID, item.ListID)
	view = call[BoardResponse](t, h, "get_board", nil)
	require.Equal(t, []string{"b"}, itemTitles(view.Lists[0]))
}

func TestHandler_MoveItem(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)
	view := seed(t, h, []string{"item1", "item2", "item3"}, []string{"item4"})
	la, lb := view.Lists[0], view.Lists[1]

	resp := call[MoveResponse](t, h, "move_item", MoveItemParams{ID: la.Items[0].ID, ListID: la.ID, Index: 2})
	require.Equal(t, "committed", resp.Outcome)
	require.Equal(t, []string{"item2", "item3", "item1"}, itemTitles(resp.Board.Lists[0]))
	for i, it := range resp.Board.Lists[0].Items {
		require.Equal(t, i, it.Order)
	}

	resp = call[MoveResponse](t, h, "move_item", MoveItemParams{ID: la.Items[0].ID, ListID: lb.ID, Index: 0})
	require.Equal(t, "committed", resp.Outcome)
	require.Equal(t, []string{"item2", "item3"}, itemTitles(resp.Board.Lists[0]))
	require.Equal(t, []string{"item1", "item4"}, itemTitles(resp.Board.Lists[1]))
}

func TestHandler_MoveList(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)
	view := seed(t, h, nil, nil, nil)

	resp := call[MoveResponse](t, h, "move_list", MoveListParams{ID: view.Lists[2].ID, Index: 0})
	require.Equal(t, "committed", resp.Outcome)
	require.Equal(t, []string{"LC", "LA", "LB"}, []string{resp.Board.Lists[0].Title, resp.Board.Lists[1].Title, resp.Board.Lists[2].Title})
	for i, l := range resp.Board.Lists {
		require.Equal(t, i, l.Order)
	}
}

func TestHandler_MoveWithLargeDragThreshold(t *testing.T) {
	h := NewHandler(newTestServicesWithDrag(t, drag.Config{Threshold: 3}), nil)
	view := seed(t, h, []string{"a", "b", "c"})
	la := view.Lists[0]

	// Archiving leaves a gap in the orders: a=0, c=2.
	call[*board.Item](t, h, "archive_item", IDParams{ID: la.Items[1].ID})

	resp := call[MoveResponse](t, h, "move_item", MoveItemParams{ID: la.Items[2].ID, ListID: la.ID, Index: 1})
	require.Equal(t, "committed", resp.Outcome)
	require.Equal(t, []string{"a", "c"}, itemTitles(resp.Board.Lists[0]))
	for i, it := range resp.Board.Lists[0].Items {
		require.Equal(t, i, it.Order)
	}

	resp = call[MoveResponse](t, h, "move_item", MoveItemParams{ID: la.Items[0].ID, ListID: la.ID, Index: 1})
	require.Equal(t, "committed", resp.Outcome)
	require.Equal(t, []string{"c", "a"}, itemTitles(resp.Board.Lists[0]))
}

func TestHandler_UntitledEntities(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)

	b := call[*board.Board](t, h, "create_board", CreateBoardParams{Select: true})
	require.Empty(t, b.Title)
	l := call[*board.List](t, h, "add_list", AddListParams{})
	it := call[*board.Item](t, h, "add_item", AddItemParams{ListID: l.ID})
	require.Empty(t, it.Title)
	tg := call[*tag.Tag](t, h, "add_tag", AddTagParams{})
	require.Empty(t, tg.Title)

	empty := ""
	named := call[*board.List](t, h, "update_list", UpdateListParams{ID: l.ID, Title: &empty})
	require.Empty(t, named.Title)
}

func TestHandler_MoveErrors(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)
	ctx := context.Background()

	_, err := h.Handle(ctx, "", "move_list", mustJSON(t, MoveListParams{ID: "x", Index: 0}))
	requireCode(t, err, "NO_BOARD_SELECTED")

	view := seed(t, h, []string{"a", "b"}, []string{})
	la, lb := view.Lists[0], view.Lists[1]

	_, err = h.Handle(ctx, "", "move_item", mustJSON(t, MoveItemParams{ID: la.Items[0].ID, ListID: la.ID, Index: 2}))
	requireCode(t, err, "INVALID_TARGET")
	_, err = h.Handle(ctx, "", "move_item", mustJSON(t, MoveItemParams{ID: la.Items[0].ID, ListID: lb.ID, Index: 1}))
	requireCode(t, err, "INVALID_TARGET")
	_, err = h.Handle(ctx, "", "move_item", mustJSON(t, MoveItemParams{ID: "missing", ListID: lb.ID}))
	requireCode(t, err, "ITEM_NOT_FOUND")
	_, err = h.Handle(ctx, "", "move_item", mustJSON(t, MoveItemParams{ID: la.Items[0].ID, ListID: "missing"}))
	requireCode(t, err, "LIST_NOT_FOUND")
	_, err = h.Handle(ctx, "", "move_list", mustJSON(t, MoveListParams{ID: la.ID, Index: -1}))
	requireCode(t, err, "INVALID_INPUT")
	_, err = h.Handle(ctx, "", "move_list", mustJSON(t, MoveListParams{ID: la.ID, Index: 2}))
	requireCode(t, err, "INVALID_TARGET")

	// Into an empty list at index 0 is valid.
	resp := call[MoveResponse](t, h, "move_item", MoveItemParams{ID: la.Items[0].ID, ListID: lb.ID, Index: 0})
	require.Equal(t, "committed", resp.Outcome)
	require.Equal(t, []string{"a"}, itemTitles(resp.Board.Lists[1]))
}

func TestHandler_TagCommands(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)
	ctx := context.Background()
	seed(t, h)

	created := call[*tag.Tag](t, h, "add_tag", AddTagParams{Title: "bug"})
	require.Equal(t, tag.DefaultColor, created.Color)

	color := "#ff0000"
	updated := call[*tag.Tag](t, h, "update_tag", UpdateTagParams{ID: created.ID, Color: &color})
	require.Equal(t, "#ff0000", updated.Color)

	tags := call[[]tag.Tag](t, h, "list_tags", nil)
	require.Len(t, tags, 1)

	call[DeletedResponse](t, h, "delete_tag", IDParams{ID: created.ID})
	_, err := h.Handle(ctx, "", "delete_tag", mustJSON(t, IDParams{ID: created.ID}))
	requireCode(t, err, "TAG_NOT_FOUND")
}

func TestHandler_RecentActivity(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)
	view := seed(t, h, []string{"a", "b"})

	call[MoveResponse](t, h, "move_item", MoveItemParams{ID: view.Lists[0].Items[0].ID, ListID: view.Lists[0].ID, Index: 1})

	typ := activity.TypeReorderCommitted
	entries := call[[]ActivityEntryResponse](t, h, "get_recent_activity", GetRecentActivityParams{Type: &typ})
	require.Len(t, entries, 1)
	require.Equal(t, view.Lists[0].Items[0].ID, *entries[0].EntityID)

	all := call[[]ActivityEntryResponse](t, h, "get_recent_activity", GetRecentActivityParams{Limit: 2})
	require.Len(t, all, 2)
	require.Equal(t, activity.TypeReorderCommitted, all[0].Type)
}

func TestHandler_UnknownMethod(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)
	_, err := h.Handle(context.Background(), "", "nope", nil)
	require.Error(t, err)
	require.Nil(t, MapError(err))
}

func TestToolCatalog_MatchesHandler(t *testing.T) {
	h := NewHandler(newTestServices(t), nil)
	ctx := context.Background()

	seen := map[string]bool{}
	for _, def := range buildToolCatalog() {
		require.False(t, seen[def.Name], "duplicate tool %s", def.Name)
		seen[def.Name] = true
		require.Equal(t, "object", def.InputSchema["type"])

		_, err := h.Handle(ctx, "", def.Name, nil)
		if err != nil {
			require.NotContains(t, err.Error(), "unknown method", def.Name)
		}
	}
	require.Len(t, seen, 27)
}

func TestMapError(t *testing.T) {
	cases := map[error]string{
		board.ErrNoBoardSelected: "NO_BOARD_SELECTED",
		board.ErrBoardNotFound:   "BOARD_NOT_FOUND",
		board.ErrListNotFound:    "LIST_NOT_FOUND",
		board.ErrItemNotFound:    "ITEM_NOT_FOUND",
		board.ErrStaleReference:  "STALE_REFERENCE",
		board.ErrInvalidTarget:   "INVALID_TARGET",
		board.ErrInvalidInput:    "INVALID_INPUT",
		tag.ErrTagNotFound:       "TAG_NOT_FOUND",
		tag.ErrInvalidInput:      "INVALID_INPUT",
	}
	for err, code := range cases {
		apiErr := MapError(errors.Join(errors.New("context"), err))
		require.NotNil(t, apiErr, err.Error())
		require.Equal(t, code, apiErr.Code)
	}
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("other")))
}
