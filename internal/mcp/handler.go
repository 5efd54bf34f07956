package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/rpggio/kanban/internal/domain/tag"
	"github.com/rpggio/kanban/internal/drag"
	"github.com/rpggio/kanban/internal/layout"
)

// Handler dispatches MCP commands.
type Handler struct {
	boards   BoardService
	tags     TagService
	activity ActivityService
	mover    Mover
	layout   layout.Config
	logger   *slog.Logger

	// moveMu pairs SetRegions with the Drive that uses them.
	moveMu sync.Mutex
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		boards:   services.Boards,
		tags:     services.Tags,
		activity: services.Activity,
		mover:    services.Mover,
		layout:   layout.DefaultConfig(),
		logger:   logger,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	h.logger.Debug("handling method", "method", method, "session_id", sessionID)

	switch method {
	// Boards
	case "list_boards":
		var req ListBoardsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		boards, err := h.boards.ListBoards(ctx, req.IncludeArchived)
		if err != nil {
			return nil, mapError(err)
		}
		selected := ""
		if snap, ok := h.boards.View(); ok {
			selected = snap.Board.ID
		}
		resp := ListBoardsResponse{Boards: make([]BoardSummaryResponse, 0, len(boards))}
		for _, b := range boards {
			resp.Boards = append(resp.Boards, BoardSummaryResponse{
				ID:       b.ID,
				Title:    b.Title,
				Archived: b.Archived,
				Created:  b.Created,
				Selected: b.ID == selected,
			})
		}
		return resp, nil
	case "create_board":
		var req CreateBoardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		b, err := h.boards.CreateBoard(ctx, req.Title)
		if err != nil {
			return nil, mapError(err)
		}
		if req.Select {
			if _, err := h.boards.Select(ctx, b.ID); err != nil {
				return nil, mapError(err)
			}
		}
		return b, nil
	case "select_board":
		var req SelectBoardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ID == "" {
			return nil, invalidParams("id is required")
		}
		snap, err := h.boards.Select(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return newBoardResponse(snap), nil
	case "get_board":
		return h.view()
	case "update_board":
		var req UpdateBoardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return wrap(h.boards.UpdateSelectedBoard(ctx, board.BoardUpdate{Title: req.Title}))
	case "archive_board":
		return wrap(h.boards.ArchiveBoard(ctx))
	case "restore_board":
		return wrap(h.boards.RestoreBoard(ctx))
	case "delete_board":
		snap, ok := h.boards.View()
		if !ok {
			return nil, mapError(board.ErrNoBoardSelected)
		}
		if err := h.boards.DeleteBoard(ctx); err != nil {
			return nil, mapError(err)
		}
		return DeletedResponse{ID: snap.Board.ID, Deleted: true}, nil

	// Lists
	case "add_list":
		var req AddListParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return wrap(h.boards.AddList(ctx, req.Title))
	case "update_list":
		var req UpdateListParams
		if err := decodeID(params, &req, &req.ID); err != nil {
			return nil, err
		}
		return wrap(h.boards.UpdateList(ctx, req.ID, board.ListUpdate{Title: req.Title}))
	case "archive_list", "restore_list", "delete_list":
		var req IDParams
		if err := decodeID(params, &req, &req.ID); err != nil {
			return nil, err
		}
		switch method {
		case "archive_list":
			return wrap(h.boards.ArchiveList(ctx, req.ID))
		case "restore_list":
			return wrap(h.boards.RestoreList(ctx, req.ID))
		}
		if err := h.boards.DeleteList(ctx, req.ID); err != nil {
			return nil, mapError(err)
		}
		return DeletedResponse{ID: req.ID, Deleted: true}, nil
	case "list_archived_lists":
		return wrap(h.boards.ArchivedLists(ctx))

	// Items
	case "add_item":
		var req AddItemParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.ListID == "" {
			return nil, invalidParams("list_id is required")
		}
		return wrap(h.boards.AddItem(ctx, req.ListID, req.Title))
	case "update_item":
		var req UpdateItemParams
		if err := decodeID(params, &req, &req.ID); err != nil {
			return nil, err
		}
		return wrap(h.boards.UpdateItem(ctx, req.ID, board.ItemUpdate{
			Title:       req.Title,
			Description: req.Description,
		}))
	case "restore_item":
		var req RestoreItemParams
		if err := decodeID(params, &req, &req.ID); err != nil {
			return nil, err
		}
		return wrap(h.boards.RestoreItem(ctx, req.ID, req.ListID))
	case "archive_item", "delete_item":
		var req IDParams
		if err := decodeID(params, &req, &req.ID); err != nil {
			return nil, err
		}
		if method == "archive_item" {
			return wrap(h.boards.ArchiveItem(ctx, req.ID))
		}
		if err := h.boards.DeleteItem(ctx, req.ID); err != nil {
			return nil, mapError(err)
		}
		return DeletedResponse{ID: req.ID, Deleted: true}, nil
	case "list_archived_items":
		return wrap(h.boards.ArchivedItems(ctx))

	// Tags
	case "list_tags":
		snap, ok := h.boards.View()
		if !ok {
			return nil, mapError(board.ErrNoBoardSelected)
		}
		return wrap(h.tags.List(ctx, snap.Board.ID))
	case "add_tag":
		var req AddTagParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		snap, ok := h.boards.View()
		if !ok {
			return nil, mapError(board.ErrNoBoardSelected)
		}
		return wrap(h.tags.Create(ctx, tag.CreateRequest{
			BoardID: snap.Board.ID,
			Title:   req.Title,
			Color:   req.Color,
		}))
	case "update_tag":
		var req UpdateTagParams
		if err := decodeID(params, &req, &req.ID); err != nil {
			return nil, err
		}
		return wrap(h.tags.Update(ctx, req.ID, tag.UpdateRequest{Title: req.Title, Color: req.Color}))
	case "delete_tag":
		var req IDParams
		if err := decodeID(params, &req, &req.ID); err != nil {
			return nil, err
		}
		if err := h.tags.Delete(ctx, req.ID); err != nil {
			return nil, mapError(err)
		}
		return DeletedResponse{ID: req.ID, Deleted: true}, nil

	// Reordering
	case "move_item":
		var req MoveItemParams
		if err := decodeID(params, &req, &req.ID); err != nil {
			return nil, err
		}
		if req.ListID == "" {
			return nil, invalidParams("list_id is required")
		}
		return h.move(ctx, board.KindItem, req.ID, req.ListID, req.Index)
	case "move_list":
		var req MoveListParams
		if err := decodeID(params, &req, &req.ID); err != nil {
			return nil, err
		}
		return h.move(ctx, board.KindList, req.ID, "", req.Index)

	// Activity
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		snap, ok := h.boards.View()
		if !ok {
			return nil, mapError(board.ErrNoBoardSelected)
		}
		entries, err := h.activity.GetRecentActivity(ctx, activity.ListActivityOptions{
			BoardID:      snap.Board.ID,
			EntityID:     req.EntityID,
			ActivityType: req.Type,
			Limit:        req.Limit,
			Offset:       req.Offset,
		})
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				EntityID:  entry.EntityID,
				Summary:   entry.Summary,
				Details:   entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

// move replays a drag of the given entity onto slot index through the drag
// engine, over the geometry of the current snapshot.
func (h *Handler) move(ctx context.Context, kind board.EntityKind, id, listID string, index int) (any, error) {
	if index < 0 {
		return nil, invalidParams("index must not be negative")
	}

	h.moveMu.Lock()
	defer h.moveMu.Unlock()

	snap, ok := h.boards.View()
	if !ok {
		return nil, mapError(board.ErrNoBoardSelected)
	}
	if err := checkMoveTarget(snap, kind, id, listID, index); err != nil {
		return nil, mapError(err)
	}

	grid := layout.New(h.layout, snap)
	grab, start, ok := grid.GrabFor(kind, id)
	if !ok {
		return nil, mapError(notFound(kind))
	}
	drop, ok := grid.DropPoint(kind, id, listID, index)
	if !ok {
		return nil, mapError(board.ErrListNotFound)
	}

	h.mover.SetRegions(grid)
	outcome, err := h.mover.Drive(ctx, grab, []drag.Point{start, drop})
	if err != nil {
		return nil, mapError(err)
	}

	after, _ := h.boards.View()
	return MoveResponse{Outcome: outcome.String(), Board: newBoardResponse(after)}, nil
}

// checkMoveTarget rejects moves the engine would silently revert, so callers
// get a reason.
func checkMoveTarget(snap board.Snapshot, kind board.EntityKind, id, listID string, index int) error {
	if kind == board.KindList {
		if snap.FindList(id) < 0 {
			return board.ErrListNotFound
		}
		if index >= len(snap.Lists) {
			return board.ErrInvalidTarget
		}
		return nil
	}

	src, _, ok := snap.FindItem(id)
	if !ok {
		return board.ErrItemNotFound
	}
	dst := snap.FindList(listID)
	if dst < 0 {
		return board.ErrListNotFound
	}
	limit := len(snap.Lists[dst].Items)
	if src == dst {
		limit--
	}
	if index > limit {
		return board.ErrInvalidTarget
	}
	return nil
}

func (h *Handler) view() (any, error) {
	snap, ok := h.boards.View()
	if !ok {
		return nil, mapError(board.ErrNoBoardSelected)
	}
	return newBoardResponse(snap), nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return invalidParams("malformed arguments: %v", err)
	}
	return nil
}

// decodeID decodes params and requires the id field to be set.
func decodeID(params json.RawMessage, out any, id *string) error {
	if err := decodeParams(params, out); err != nil {
		return err
	}
	if *id == "" {
		return invalidParams("id is required")
	}
	return nil
}

func notFound(kind board.EntityKind) error {
	if kind == board.KindList {
		return board.ErrListNotFound
	}
	return board.ErrItemNotFound
}

// wrap maps the error of a (value, error) service call.
func wrap[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
