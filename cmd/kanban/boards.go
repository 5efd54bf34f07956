package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/spf13/cobra"
)

func boardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			ctx := context.Background()

			a, err := openApp(ctx, modeCLI, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			boards, err := a.boards.ListBoards(ctx, all)
			if err != nil {
				return fmt.Errorf("failed to list boards: %w", err)
			}
			printBoards(cmd.OutOrStdout(), boards)
			return nil
		},
	}
	cmd.Flags().BoolP("all", "a", false, "include archived boards")

	cmd.AddCommand(boardsCreateCmd())
	cmd.AddCommand(boardsShowCmd())
	return cmd
}

func boardsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Create a board",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, modeCLI, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := a.boards.CreateBoard(ctx, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to create board: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created board %s: %s\n",
				color.New(color.FgGreen).Sprint("✓"), b.ID, b.Title)
			return nil
		},
	}
}

func boardsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <board-id>",
		Short: "Print a board's lists and items in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, modeCLI, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			snap, err := a.boards.Select(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load board: %w", err)
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func printBoards(w io.Writer, boards []board.Board) {
	if len(boards) == 0 {
		fmt.Fprintln(w, "No boards found")
		return
	}
	for _, b := range boards {
		marker := color.New(color.FgGreen).Sprint("●")
		if b.Archived {
			marker = color.New(color.FgYellow).Sprint("◌")
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n", marker, b.ID,
			color.New(color.Bold).Sprint(board.DisplayTitle(b.Title, "Board")),
			color.New(color.FgHiBlack).Sprint(b.Created.Format("2006-01-02")))
	}
}

func printSnapshot(w io.Writer, snap board.Snapshot) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(board.DisplayTitle(snap.Board.Title, "Board")))
	for _, l := range snap.Lists {
		fmt.Fprintf(w, "\n%s %s\n", color.New(color.FgCyan).Sprintf("[%d]", l.Order), board.DisplayTitle(l.Title, "List"))
		if len(l.Items) == 0 {
			fmt.Fprintln(w, color.New(color.FgHiBlack).Sprint("    (empty)"))
		}
		for _, it := range l.Items {
			fmt.Fprintf(w, "    %s %s\n", color.New(color.FgHiBlack).Sprintf("%d.", it.Order), board.DisplayTitle(it.Title, "item"))
		}
	}
}
