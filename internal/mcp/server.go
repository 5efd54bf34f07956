package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/rpggio/kanban/internal/domain/tag"
	"github.com/rpggio/kanban/internal/drag"
)

// BoardService defines board store operations needed by MCP.
type BoardService interface {
	CreateBoard(ctx context.Context, title string) (*board.Board, error)
	ListBoards(ctx context.Context, includeArchived bool) ([]board.Board, error)
	Select(ctx context.Context, boardID string) (board.Snapshot, error)
	View() (board.Snapshot, bool)
	UpdateSelectedBoard(ctx context.Context, upd board.BoardUpdate) (*board.Board, error)
	ArchiveBoard(ctx context.Context) (*board.Board, error)
	RestoreBoard(ctx context.Context) (*board.Board, error)
	DeleteBoard(ctx context.Context) error

	AddList(ctx context.Context, title string) (*board.List, error)
	UpdateList(ctx context.Context, id string, upd board.ListUpdate) (*board.List, error)
	ArchiveList(ctx context.Context, id string) (*board.List, error)
	RestoreList(ctx context.Context, id string) (*board.List, error)
	DeleteList(ctx context.Context, id string) error
	ArchivedLists(ctx context.Context) ([]board.List, error)

	AddItem(ctx context.Context, listID, title string) (*board.Item, error)
	UpdateItem(ctx context.Context, id string, upd board.ItemUpdate) (*board.Item, error)
	ArchiveItem(ctx context.Context, id string) (*board.Item, error)
	RestoreItem(ctx context.Context, id, listID string) (*board.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ArchivedItems(ctx context.Context) ([]board.ArchivedItem, error)
}

// TagService defines tag operations needed by MCP.
type TagService interface {
	Create(ctx context.Context, req tag.CreateRequest) (*tag.Tag, error)
	List(ctx context.Context, boardID string) ([]tag.Tag, error)
	Update(ctx context.Context, id string, req tag.UpdateRequest) (*tag.Tag, error)
	Delete(ctx context.Context, id string) error
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Mover replays drag gestures. *drag.Engine implements it.
type Mover interface {
	SetRegions(regions drag.RegionProvider)
	Drive(ctx context.Context, grab drag.Grab, path []drag.Point) (drag.Outcome, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Boards   BoardService
	Tags     TagService
	Activity ActivityService
	Mover    Mover
}

// Config contains server configuration.
type Config struct {
	Handler       *Handler
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "kanban",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(sessionMiddleware(cfg.TransportMode))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Handler)

	return server
}
