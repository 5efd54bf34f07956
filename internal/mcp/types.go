package mcp

import (
	"time"

	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/domain/board"
)

type ListBoardsParams struct {
	IncludeArchived bool `json:"include_archived,omitempty"`
}

type CreateBoardParams struct {
	Title  string `json:"title"`
	Select bool   `json:"select,omitempty"`
}

type SelectBoardParams struct {
	ID string `json:"id"`
}

type UpdateBoardParams struct {
	Title *string `json:"title,omitempty"`
}

type AddListParams struct {
	Title string `json:"title"`
}

type UpdateListParams struct {
	ID    string  `json:"id"`
	Title *string `json:"title,omitempty"`
}

// IDParams addresses a single list, item or tag.
type IDParams struct {
	ID string `json:"id"`
}

type RestoreItemParams struct {
	ID     string `json:"id"`
	ListID string `json:"list_id,omitempty"`
}

type AddItemParams struct {
	ListID string `json:"list_id"`
	Title  string `json:"title"`
}

type UpdateItemParams struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type AddTagParams struct {
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
}

type UpdateTagParams struct {
	ID    string  `json:"id"`
	Title *string `json:"title,omitempty"`
	Color *string `json:"color,omitempty"`
}

type MoveItemParams struct {
	ID     string `json:"id"`
	ListID string `json:"list_id"`
	Index  int    `json:"index"`
}

type MoveListParams struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
}

type GetRecentActivityParams struct {
	EntityID *string                `json:"entity_id,omitempty"`
	Type     *activity.ActivityType `json:"type,omitempty"`
	Limit    int                    `json:"limit,omitempty"`
	Offset   int                    `json:"offset,omitempty"`
}

type BoardSummaryResponse struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Archived bool      `json:"archived"`
	Created  time.Time `json:"created"`
	Selected bool      `json:"selected"`
}

type ListBoardsResponse struct {
	Boards []BoardSummaryResponse `json:"boards"`
}

type BoardResponse struct {
	Board board.Board    `json:"board"`
	Lists []ListResponse `json:"lists"`
}

type ListResponse struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Order int            `json:"order"`
	Items []ItemResponse `json:"items"`
}

type ItemResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

type MoveResponse struct {
	Outcome string        `json:"outcome"`
	Board   BoardResponse `json:"board"`
}

type DeletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	EntityID  *string               `json:"entity_id,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
}

func newBoardResponse(snap board.Snapshot) BoardResponse {
	resp := BoardResponse{Board: snap.Board, Lists: make([]ListResponse, 0, len(snap.Lists))}
	for _, l := range snap.Lists {
		lr := ListResponse{ID: l.ID, Title: l.Title, Order: l.Order, Items: make([]ItemResponse, 0, len(l.Items))}
		for _, it := range l.Items {
			lr.Items = append(lr.Items, ItemResponse{
				ID:          it.ID,
				Title:       it.Title,
				Description: it.Description,
				Order:       it.Order,
			})
		}
		resp.Lists = append(resp.Lists, lr)
	}
	return resp
}
