package tag

// DefaultColor is used when a tag is created without a color.
const DefaultColor = "#402579"

// Tag is a colored label scoped to a board.
type Tag struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	Title   string `json:"title"`
	Color   string `json:"color"`
}

func (t Tag) RecordID() string { return t.ID }

// CreateRequest defines tag creation inputs.
type CreateRequest struct {
	BoardID string
	Title   string
	Color   string
}

// UpdateRequest merges optional fields into a tag.
type UpdateRequest struct {
	Title *string
	Color *string
}
