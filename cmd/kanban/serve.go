package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/kanban/internal/config"
	"github.com/rpggio/kanban/internal/drag"
	"github.com/rpggio/kanban/internal/mcp"
	"github.com/rpggio/kanban/internal/transport"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve boards over MCP (stdio) or HTTP",
		Long: `Serve runs the MCP tool server. The transport comes from KANBAN_TRANSPORT
or the --transport flag: stdio for local MCP clients, http for /mcp, /rpc and /health.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, _ := cmd.Flags().GetString("transport")
			boardID, _ := cmd.Flags().GetString("board")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, modeServe, func(cfg *config.Config) {
				if mode != "" {
					cfg.Server.Transport = mode
				}
			})
			if err != nil {
				return err
			}
			defer a.Close()

			if boardID != "" {
				if _, err := a.boards.Select(ctx, boardID); err != nil {
					return fmt.Errorf("failed to select board: %w", err)
				}
			}

			engine := drag.NewEngine(drag.Config{Threshold: a.cfg.Drag.Threshold}, a.boards, nil, a.logger)
			handler := mcp.NewHandler(mcp.Services{
				Boards:   a.boards,
				Tags:     a.tags,
				Activity: a.activity,
				Mover:    engine,
			}, a.logger)
			mcpServer := mcp.NewServer(mcp.Config{
				Handler:       handler,
				TransportMode: a.cfg.Server.Transport,
				Logger:        a.logger,
			})

			if a.cfg.Server.Transport == "stdio" {
				return runStdioMode(ctx, a.logger, mcpServer)
			}
			return runHTTPMode(ctx, a.logger, mcpServer, handler, a.cfg.Server.Host, a.cfg.Server.Port)
		},
	}
	cmd.Flags().String("transport", "", "stdio or http (overrides KANBAN_TRANSPORT)")
	cmd.Flags().String("board", "", "board to select on start")
	return cmd
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or the context is cancelled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server error: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, handler *mcp.Handler, host string, port int) error {
	streamable := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(handler, streamable, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	return waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
