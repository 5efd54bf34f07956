package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rpggio/kanban/internal/drag"
)

// Run shows the selected board until the user quits.
func Run(ctx context.Context, store Store, dragCfg drag.Config, logger *slog.Logger) error {
	m := New(ctx, store, dragCfg, logger)
	_, err := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	).Run()
	return err
}
