package drag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/kanban/internal/domain/board"
)

var (
	// ErrBusy indicates a gesture is already in progress.
	ErrBusy = errors.New("drag in progress")
	// ErrEmptyPath indicates a scripted gesture without any pointer position.
	ErrEmptyPath = errors.New("empty pointer path")
)

// Outcome summarizes how a gesture ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeClick
	OutcomeCommitted
	OutcomeReverted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClick:
		return "click"
	case OutcomeCommitted:
		return "committed"
	case OutcomeReverted:
		return "reverted"
	default:
		return "none"
	}
}

// Committer is the part of the board store the engine writes through.
type Committer interface {
	Locate(kind board.EntityKind, id string) (board.Location, bool)
	CommitReorder(ctx context.Context, req board.ReorderRequest) (board.ReorderResult, error)
}

// Engine runs the reducer for one pointer and commits finished drags.
type Engine struct {
	cfg    Config
	store  Committer
	logger *slog.Logger

	mu      sync.Mutex
	regions RegionProvider
	state   State
}

// NewEngine creates a new drag engine.
func NewEngine(cfg Config, store Committer, regions RegionProvider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{cfg: cfg, store: store, regions: regions, logger: logger}
}

// SetRegions replaces the geometry used for targeting, typically after the
// board was re-rendered.
func (e *Engine) SetRegions(regions RegionProvider) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.regions = regions
}

// State returns the current gesture state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Busy reports whether a gesture or commit is in progress.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase != Idle
}

// PointerDown arms a gesture. It reports false when one is already running.
func (e *Engine) PointerDown(grab Grab, at Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase != Idle {
		e.logger.Debug("pointer down ignored", "phase", e.state.Phase)
		return false
	}
	e.state, _ = Reduce(e.cfg, e.state, PointerDown{Grab: grab, At: at}, e.regions)
	return true
}

// PointerMove follows the pointer and recomputes the drop target.
func (e *Engine) PointerMove(at Point) {
	e.move(e.cfg, at)
}

func (e *Engine) move(cfg Config, at Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state, _ = Reduce(cfg, e.state, PointerMove{At: at}, e.regions)
}

// Cancel aborts the gesture without writing anything.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	var eff Effect
	e.state, eff = Reduce(e.cfg, e.state, Cancel{}, e.regions)
	if eff.Kind == EffectRevert {
		e.logger.Debug("drag cancelled")
	}
}

// PointerUp ends the gesture. A drop on a valid target is committed through
// the store; the Committing phase holds until the write has resolved. Stale
// references and invalid targets revert without an error.
func (e *Engine) PointerUp(ctx context.Context, at Point) (Outcome, error) {
	e.mu.Lock()
	clicked := e.state.Clicked
	var eff Effect
	e.state, eff = Reduce(e.cfg, e.state, PointerUp{At: at}, e.regions)
	e.mu.Unlock()

	switch eff.Kind {
	case EffectClick:
		return OutcomeClick, nil
	case EffectRevert:
		e.logger.Debug("drop outside targets, reverted")
		return OutcomeReverted, nil
	case EffectCommit:
	default:
		return OutcomeNone, nil
	}

	defer e.finishCommit()

	req, ok := e.request(clicked, eff.Target)
	if !ok {
		e.logger.Debug("stale drag reverted", "kind", clicked.Kind, "id", clicked.ID)
		return OutcomeReverted, nil
	}

	if _, err := e.store.CommitReorder(ctx, req); err != nil {
		if errors.Is(err, board.ErrStaleReference) || errors.Is(err, board.ErrInvalidTarget) {
			e.logger.Debug("drop rejected, reverted", "kind", req.Kind, "id", req.EntityID, "error", err)
			return OutcomeReverted, nil
		}
		e.logger.Error("commit failed", "kind", req.Kind, "id", req.EntityID, "error", err)
		return OutcomeReverted, fmt.Errorf("committing drop: %w", err)
	}
	return OutcomeCommitted, nil
}

// Drive replays a scripted gesture: pointer down at path[0], a move through
// every following point, and release at the last one. Scripted moves start
// dragging on the first move whatever the travel threshold; a path of a
// single point is a click.
func (e *Engine) Drive(ctx context.Context, grab Grab, path []Point) (Outcome, error) {
	if len(path) == 0 {
		return OutcomeNone, ErrEmptyPath
	}
	if !e.PointerDown(grab, path[0]) {
		return OutcomeNone, ErrBusy
	}
	scripted := e.cfg
	scripted.Threshold = 0
	for _, p := range path[1:] {
		if err := ctx.Err(); err != nil {
			e.Cancel()
			return OutcomeReverted, err
		}
		e.move(scripted, p)
	}
	return e.PointerUp(ctx, path[len(path)-1])
}

// request re-checks the gesture against the store and builds the reorder.
func (e *Engine) request(c *Clicked, t *Target) (board.ReorderRequest, bool) {
	loc, ok := e.store.Locate(c.Kind, c.ID)
	if !ok || loc.Index != c.Index {
		return board.ReorderRequest{}, false
	}
	if c.Kind == board.KindItem && loc.ListID != c.ListID {
		return board.ReorderRequest{}, false
	}
	return board.ReorderRequest{
		Kind:     c.Kind,
		EntityID: c.ID,
		From:     loc,
		To:       board.Location{ListID: t.ListID, Index: t.Index},
	}, true
}

func (e *Engine) finishCommit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state, _ = Reduce(e.cfg, e.state, CommitDone{}, e.regions)
}
