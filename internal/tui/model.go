// Package tui is a mouse-driven terminal board. Cards and list headers are
// dragged with the left button; the drop goes through the drag engine.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/rpggio/kanban/internal/drag"
	"github.com/rpggio/kanban/internal/layout"
)

// Rows above the board (title) and below it (status).
const (
	topRows    = 1
	bottomRows = 1
)

// Store is the part of the board store the terminal board needs.
type Store interface {
	drag.Committer
	View() (board.Snapshot, bool)
}

// dropMsg reports the result of a release once the commit has resolved.
type dropMsg struct {
	outcome drag.Outcome
	err     error
}

// Model is the bubbletea model of the selected board.
type Model struct {
	ctx    context.Context
	store  Store
	engine *drag.Engine
	logger *slog.Logger

	cfg    layout.Config
	snap   board.Snapshot
	grid   *layout.Grid
	width  int
	height int

	status string
}

// New creates a model for the board currently selected in store.
func New(ctx context.Context, store Store, dragCfg drag.Config, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := Model{
		ctx:    ctx,
		store:  store,
		logger: logger,
		cfg: layout.Config{
			ColumnWidth:  24,
			ColumnGap:    1,
			HeaderHeight: 2,
			CardHeight:   3,
		},
	}
	m.engine = drag.NewEngine(dragCfg, store, nil, logger)
	m.relayout()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.engine.Busy() {
				m.engine.Cancel()
				m.status = "drag cancelled"
			}
		case "r":
			m.relayout()
		}
		return m, nil

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case dropMsg:
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("move failed: %v", msg.err)
		case msg.outcome == drag.OutcomeCommitted:
			m.status = "moved"
		case msg.outcome == drag.OutcomeReverted:
			m.status = "move reverted"
		default:
			m.status = ""
		}
		m.relayout()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	p := m.point(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		grab, ok := m.grid.Hit(p)
		if !ok {
			return nil
		}
		if !m.engine.PointerDown(grab, p) {
			m.status = "busy"
		}
		return nil

	case tea.MouseActionMotion:
		if m.engine.Busy() {
			m.engine.PointerMove(p)
		}
		return nil

	case tea.MouseActionRelease:
		switch m.engine.State().Phase {
		case drag.Armed, drag.Dragging:
		default:
			return nil
		}
		engine, ctx := m.engine, m.ctx
		return func() tea.Msg {
			out, err := engine.PointerUp(ctx, p)
			return dropMsg{outcome: out, err: err}
		}
	}
	return nil
}

// point maps a terminal cell to board coordinates, using the cell center.
func (m *Model) point(x, y int) drag.Point {
	return drag.Point{X: float64(x) + 0.5, Y: float64(y-topRows) + 0.5}
}

// relayout reloads the snapshot and rebuilds the geometry the engine targets.
func (m *Model) relayout() {
	snap, ok := m.store.View()
	if !ok {
		m.status = "no board selected"
	}
	m.snap = snap
	m.cfg.MinHeight = float64(max(m.height-topRows-bottomRows, 0))
	m.grid = layout.New(m.cfg, snap)
	m.engine.SetRegions(m.grid)
}
