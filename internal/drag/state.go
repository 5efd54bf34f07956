package drag

import "github.com/rpggio/kanban/internal/domain/board"

// Phase is the gesture lifecycle.
type Phase int

const (
	Idle Phase = iota
	Armed
	Dragging
	Committing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	default:
		return "unknown"
	}
}

// Target is the slot the dragged entity would land in if released now.
type Target struct {
	ListID  string `json:"list_id,omitempty"`
	Index   int    `json:"index"`
	Initial bool   `json:"initial"`
}

// Clicked is the entity under the pointer for the current gesture.
type Clicked struct {
	Kind        board.EntityKind `json:"kind"`
	ID          string           `json:"id"`
	Index       int              `json:"index"`
	ListID      string           `json:"list_id,omitempty"`
	Dragging    bool             `json:"dragging"`
	ElementID   string           `json:"element_id,omitempty"`
	Rect        Rect             `json:"rect"`
	MouseOffset Point            `json:"mouse_offset"`
}

// State is the full gesture state. The zero value is Idle.
type State struct {
	Phase   Phase
	Clicked *Clicked
	Target  *Target
	Origin  Point
	Pointer Point
	// Clone is where the floating copy of the dragged element is drawn.
	Clone Point
}

// Config tunes the reducer.
type Config struct {
	// Threshold is the pointer travel needed before Armed turns into Dragging.
	Threshold float64
}

// Grab identifies the entity under a pointer-down.
type Grab struct {
	Kind      board.EntityKind
	ID        string
	ListID    string
	Index     int
	ElementID string
	Rect      Rect
}

// Event is a pointer or lifecycle event fed to Reduce.
type Event interface {
	event()
}

type PointerDown struct {
	Grab Grab
	At   Point
}

type PointerMove struct {
	At Point
}

type PointerUp struct {
	At Point
}

// Cancel aborts the gesture (escape key, pointer left the window).
type Cancel struct{}

// CommitDone ends the Committing phase.
type CommitDone struct{}

func (PointerDown) event() {}
func (PointerMove) event() {}
func (PointerUp) event()   {}
func (Cancel) event()      {}
func (CommitDone) event()  {}

// EffectKind tells the caller what to do after a transition.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectClick
	EffectCommit
	EffectRevert
)

// Effect is the side effect requested by a transition.
type Effect struct {
	Kind   EffectKind
	Target *Target
}
