package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeBoardCreated     ActivityType = "board_created"
	TypeBoardUpdated     ActivityType = "board_updated"
	TypeBoardArchived    ActivityType = "board_archived"
	TypeBoardRestored    ActivityType = "board_restored"
	TypeBoardDeleted     ActivityType = "board_deleted"
	TypeListCreated      ActivityType = "list_created"
	TypeListUpdated      ActivityType = "list_updated"
	TypeListArchived     ActivityType = "list_archived"
	TypeListRestored     ActivityType = "list_restored"
	TypeListDeleted      ActivityType = "list_deleted"
	TypeItemCreated      ActivityType = "item_created"
	TypeItemUpdated      ActivityType = "item_updated"
	TypeItemArchived     ActivityType = "item_archived"
	TypeItemRestored     ActivityType = "item_restored"
	TypeItemDeleted      ActivityType = "item_deleted"
	TypeTagCreated       ActivityType = "tag_created"
	TypeTagUpdated       ActivityType = "tag_updated"
	TypeTagDeleted       ActivityType = "tag_deleted"
	TypeReorderCommitted ActivityType = "reorder_committed"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	BoardID      string       `json:"board_id"`
	EntityID     *string      `json:"entity_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
