// Package testserver runs the full HTTP stack on an in-memory store for tests.
package testserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/rpggio/kanban/internal/domain/tag"
	"github.com/rpggio/kanban/internal/drag"
	"github.com/rpggio/kanban/internal/mcp"
	"github.com/rpggio/kanban/internal/sqlite"
	"github.com/rpggio/kanban/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Boards *board.Store
}

// New starts a server backed by a private in-memory database.
func New(t *testing.T) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	kv := sqlite.NewKV(db)
	activityRepo := sqlite.NewActivityRepository(db)

	boards := board.NewStore(kv, activityRepo, nil)
	handler := mcp.NewHandler(mcp.Services{
		Boards:   boards,
		Tags:     tag.NewService(kv, activityRepo, nil),
		Activity: activity.NewService(activityRepo, nil),
		Mover:    drag.NewEngine(drag.Config{Threshold: 1}, boards, nil, nil),
	}, nil)

	mcpServer := mcp.NewServer(mcp.Config{Handler: handler, TransportMode: "http"})
	streamable := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)
	server := httptest.NewServer(transport.NewServer(handler, streamable, nil))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, DB: db, Boards: boards}
}
