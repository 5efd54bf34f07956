package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `kanban manages boards of ordered lists holding ordered items.

Core concepts:
- Board: top-level container. One board is selected at a time; most tools act on it.
- List: a column on the board. Item: a card in a list.
- Order: every active list (per board) and every active item (per list) has a
  0-based position. Positions are rewritten only by moves, deletes and restores.
- Archive is a soft delete: siblings keep their positions and restore puts the
  entity back where it was.

Default workflow:
1) list_boards, then select_board (or create_board with select=true).
2) get_board to read lists and items in display order.
3) add_list / add_item / update_* to edit.
4) move_item / move_list to reorder. Moves replay a drag gesture; the result
   outcome is "committed" when positions were written and "reverted" when the
   board changed under the move.
5) get_recent_activity to review what changed.

Docs:
- kanban://docs/ordering (how positions and moves behave)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "kanban://docs/ordering",
		Name:        "docs_ordering",
		Title:       "Ordering and moves",
		Description: "How list and item positions are kept and how move tools target slots.",
		Content: `# Ordering and moves

## Positions

- A move renumbers the affected sequences 0..n-1 in one write. A failed
  write leaves every position as it was.
- Archiving does not touch the siblings, so a gap may remain until the next
  move. The archived entity keeps its old position and is placed back there
  on restore; if the slot is taken the sequence is renumbered.
- Deleting renumbers the remaining siblings.
- Deleting a board keeps its archived lists and items. They show up in
  ` + "`list_archived_lists`" + ` and ` + "`list_archived_items`" + ` of any board. A restored list
  joins the selected board; an item whose list is gone needs ` + "`list_id`" + `.

## Moves

- ` + "`move_item`" + ` takes the destination list and index. Within the same
  list the index is counted after taking the item out, so it ranges 0..n-1.
  Into another list it ranges 0..n, where n appends.
- ` + "`move_list`" + ` takes the destination index 0..n-1.
- An item moved into another list takes that list as its owner.
- Moves run through the same drag engine as the interactive board. When the
  entity or its destination disappeared meanwhile the move is reverted and
  nothing is written.

## Errors

- STALE_REFERENCE: the entity moved, was archived or was deleted. Call
  ` + "`get_board`" + ` and retry.
- INVALID_TARGET: the index is outside the destination sequence.
- NO_BOARD_SELECTED: call ` + "`select_board`" + ` first.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
