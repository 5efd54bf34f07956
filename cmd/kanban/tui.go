package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rpggio/kanban/internal/drag"
	"github.com/rpggio/kanban/internal/tui"
	"github.com/spf13/cobra"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [board-id]",
		Short: "Open a board in the terminal",
		Long: `Open a board in the terminal. Drag cards and list headers with the mouse;
esc cancels a drag, r reloads and q quits. Without a board id the first
active board is opened.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, modeTUI, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			boardID := ""
			if len(args) == 1 {
				boardID = args[0]
			} else {
				boards, err := a.boards.ListBoards(ctx, false)
				if err != nil {
					return fmt.Errorf("failed to list boards: %w", err)
				}
				if len(boards) == 0 {
					return fmt.Errorf("no boards yet; create one with: kanban boards create <title>")
				}
				boardID = boards[0].ID
			}
			if _, err := a.boards.Select(ctx, boardID); err != nil {
				return fmt.Errorf("failed to open board %s: %w", boardID, err)
			}

			return tui.Run(ctx, a.boards, drag.Config{Threshold: a.cfg.Drag.Threshold}, a.logger)
		},
	}
}
