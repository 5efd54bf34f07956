package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bytedance/sonic"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func object(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func field(typ, description string) map[string]any {
	return map[string]any{
		"type":        typ,
		"description": description,
	}
}

func idOnly(description string) map[string]any {
	return object(map[string]any{"id": field("string", description)}, "id")
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Boards
		{
			Name:        "list_boards",
			Description: "List boards by creation time; the selected board is flagged",
			InputSchema: object(map[string]any{
				"include_archived": field("boolean", "Include archived boards"),
			}),
		},
		{
			Name:        "create_board",
			Description: "Create a new board",
			InputSchema: object(map[string]any{
				"title":  field("string", "Board title (single line, at most 255 characters)"),
				"select": field("boolean", "Select the board after creating it"),
			}),
		},
		{
			Name:        "select_board",
			Description: "Load a board with its active lists and items and make it current",
			InputSchema: idOnly("Board ID"),
		},
		{
			Name:        "get_board",
			Description: "Get the selected board with its lists and items in display order",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "update_board",
			Description: "Rename the selected board",
			InputSchema: object(map[string]any{
				"title": field("string", "New board title"),
			}),
		},
		{
			Name:        "archive_board",
			Description: "Archive the selected board",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "restore_board",
			Description: "Restore the selected board from the archive",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "delete_board",
			Description: "Permanently delete the selected board with its active lists, items and tags",
			InputSchema: object(map[string]any{}),
		},

		// Lists
		{
			Name:        "add_list",
			Description: "Append a list to the selected board",
			InputSchema: object(map[string]any{
				"title": field("string", "List title"),
			}),
		},
		{
			Name:        "update_list",
			Description: "Rename a list",
			InputSchema: object(map[string]any{
				"id":    field("string", "List ID"),
				"title": field("string", "New list title"),
			}, "id"),
		},
		{
			Name:        "archive_list",
			Description: "Archive a list; the other lists keep their positions",
			InputSchema: idOnly("List ID"),
		},
		{
			Name:        "restore_list",
			Description: "Restore an archived list to its previous position; a list left by a deleted board joins the selected board",
			InputSchema: idOnly("List ID"),
		},
		{
			Name:        "delete_list",
			Description: "Permanently delete a list and its active items",
			InputSchema: idOnly("List ID"),
		},
		{
			Name:        "list_archived_lists",
			Description: "List archived lists of the selected board, then those left by deleted boards",
			InputSchema: object(map[string]any{}),
		},

		// Items
		{
			Name:        "add_item",
			Description: "Append an item to a list",
			InputSchema: object(map[string]any{
				"list_id": field("string", "List ID"),
				"title":   field("string", "Item title"),
			}, "list_id"),
		},
		{
			Name:        "update_item",
			Description: "Update an item's title or description",
			InputSchema: object(map[string]any{
				"id":          field("string", "Item ID"),
				"title":       field("string", "New title"),
				"description": field("string", "New description"),
			}, "id"),
		},
		{
			Name:        "archive_item",
			Description: "Archive an item; the other items keep their positions",
			InputSchema: idOnly("Item ID"),
		},
		{
			Name:        "restore_item",
			Description: "Restore an archived item to its previous position in its list",
			InputSchema: object(map[string]any{
				"id":      field("string", "Item ID"),
				"list_id": field("string", "Destination list, required when the item's list was deleted"),
			}, "id"),
		},
		{
			Name:        "delete_item",
			Description: "Permanently delete an item",
			InputSchema: idOnly("Item ID"),
		},
		{
			Name:        "list_archived_items",
			Description: "List archived items of the selected board with their list titles; items whose list was deleted are flagged orphaned",
			InputSchema: object(map[string]any{}),
		},

		// Tags
		{
			Name:        "list_tags",
			Description: "List tags of the selected board",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "add_tag",
			Description: "Create a tag on the selected board",
			InputSchema: object(map[string]any{
				"title": field("string", "Tag title"),
				"color": field("string", "Hex color such as #402579"),
			}),
		},
		{
			Name:        "update_tag",
			Description: "Update a tag's title or color",
			InputSchema: object(map[string]any{
				"id":    field("string", "Tag ID"),
				"title": field("string", "New title"),
				"color": field("string", "New hex color"),
			}, "id"),
		},
		{
			Name:        "delete_tag",
			Description: "Delete a tag",
			InputSchema: idOnly("Tag ID"),
		},

		// Reordering
		{
			Name:        "move_item",
			Description: "Drag an item to a slot in the same or another list",
			InputSchema: object(map[string]any{
				"id":      field("string", "Item ID"),
				"list_id": field("string", "Destination list ID"),
				"index":   field("integer", "Destination index, counted without the moved item"),
			}, "id", "list_id", "index"),
		},
		{
			Name:        "move_list",
			Description: "Drag a list to another position on the board",
			InputSchema: object(map[string]any{
				"id":    field("string", "List ID"),
				"index": field("integer", "Destination index"),
			}, "id", "index"),
		},

		// Activity
		{
			Name:        "get_recent_activity",
			Description: "Get recent activity on the selected board, newest first",
			InputSchema: object(map[string]any{
				"entity_id": field("string", "Only entries about this board, list, item or tag"),
				"type":      field("string", "Only entries of this activity type"),
				"limit":     field("integer", "Maximum entries (default 50)"),
				"offset":    field("integer", "Entries to skip"),
			}),
		},
	}
}

// registerTools exposes every catalog entry as an MCP tool routed through h.
func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, def := range buildToolCatalog() {
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, toolHandler(h, def.Name))
	}
}

func toolHandler(h *Handler, name string) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}

		result, err := h.Handle(ctx, getSessionID(ctx), name, args)
		if err != nil {
			return toolError(err), nil
		}

		data, err := sonic.Marshal(result)
		if err != nil {
			return nil, err
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		}, nil
	}
}

// toolError reports err as a tool-level failure so the model can recover.
func toolError(err error) *sdkmcp.CallToolResult {
	text := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if data, mErr := sonic.Marshal(apiErr); mErr == nil {
			text = string(data)
		}
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
		IsError: true,
	}
}
