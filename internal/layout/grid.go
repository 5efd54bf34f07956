// Package layout computes deterministic board geometry for drag targeting.
package layout

import (
	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/rpggio/kanban/internal/drag"
)

// Config sizes the grid. Units are arbitrary; the terminal adapter uses cells.
type Config struct {
	ColumnWidth  float64
	ColumnGap    float64
	HeaderHeight float64
	CardHeight   float64
	// MinHeight stretches list regions, e.g. to the terminal height.
	MinHeight float64
}

// DefaultConfig returns the geometry used by the tool surface.
func DefaultConfig() Config {
	return Config{
		ColumnWidth:  28,
		ColumnGap:    2,
		HeaderHeight: 2,
		CardHeight:   3,
	}
}

// Grid is the geometry of one board snapshot. Lists are columns left to
// right; each list region spans the full board height so short lists accept
// drops below their last card.
type Grid struct {
	cfg    Config
	lists  []drag.Region
	items  map[string][]drag.Region
	owner  map[string]string
	height float64
}

// New lays out snap.
func New(cfg Config, snap board.Snapshot) *Grid {
	longest := 0
	for _, l := range snap.Lists {
		longest = max(longest, len(l.Items))
	}
	// One spare card slot below the longest list.
	height := max(cfg.HeaderHeight+float64(longest+1)*cfg.CardHeight, cfg.MinHeight)

	g := &Grid{
		cfg:    cfg,
		lists:  make([]drag.Region, len(snap.Lists)),
		items:  make(map[string][]drag.Region, len(snap.Lists)),
		owner:  make(map[string]string),
		height: height,
	}
	for i, l := range snap.Lists {
		x := float64(i) * (cfg.ColumnWidth + cfg.ColumnGap)
		g.lists[i] = drag.Region{ID: l.ID, Rect: drag.Rect{X: x, Y: 0, W: cfg.ColumnWidth, H: height}}

		regions := make([]drag.Region, len(l.Items))
		for j, it := range l.Items {
			regions[j] = drag.Region{ID: it.ID, Rect: drag.Rect{
				X: x,
				Y: cfg.HeaderHeight + float64(j)*cfg.CardHeight,
				W: cfg.ColumnWidth,
				H: cfg.CardHeight,
			}}
			g.owner[it.ID] = l.ID
		}
		g.items[l.ID] = regions
	}
	return g
}

// Config returns the sizing the grid was built with.
func (g *Grid) Config() Config { return g.cfg }

// Height is the height of every list region.
func (g *Grid) Height() float64 { return g.height }

// Width is the total width of all columns.
func (g *Grid) Width() float64 {
	if len(g.lists) == 0 {
		return 0
	}
	last := g.lists[len(g.lists)-1].Rect
	return last.X + last.W
}

// Lists implements drag.RegionProvider.
func (g *Grid) Lists() []drag.Region {
	return append([]drag.Region(nil), g.lists...)
}

// Items implements drag.RegionProvider.
func (g *Grid) Items(listID string) []drag.Region {
	return append([]drag.Region(nil), g.items[listID]...)
}

// ListRect returns the region of a list.
func (g *Grid) ListRect(id string) (drag.Rect, bool) {
	for _, r := range g.lists {
		if r.ID == id {
			return r.Rect, true
		}
	}
	return drag.Rect{}, false
}

// ItemRect returns the region of an item.
func (g *Grid) ItemRect(id string) (drag.Rect, bool) {
	listID, ok := g.owner[id]
	if !ok {
		return drag.Rect{}, false
	}
	for _, r := range g.items[listID] {
		if r.ID == id {
			return r.Rect, true
		}
	}
	return drag.Rect{}, false
}

// HeaderRect returns the header strip of a list, the handle for list drags.
func (g *Grid) HeaderRect(id string) (drag.Rect, bool) {
	r, ok := g.ListRect(id)
	if !ok {
		return drag.Rect{}, false
	}
	r.H = g.cfg.HeaderHeight
	return r, true
}

// GrabFor describes the entity with the given id as it would be picked up,
// together with the point at which to press.
func (g *Grid) GrabFor(kind board.EntityKind, id string) (drag.Grab, drag.Point, bool) {
	switch kind {
	case board.KindList:
		for i, r := range g.lists {
			if r.ID == id {
				header, _ := g.HeaderRect(id)
				return drag.Grab{
					Kind:      board.KindList,
					ID:        id,
					Index:     i,
					ElementID: "list:" + id,
					Rect:      r.Rect,
				}, header.Center(), true
			}
		}
	case board.KindItem:
		listID, ok := g.owner[id]
		if !ok {
			return drag.Grab{}, drag.Point{}, false
		}
		for i, r := range g.items[listID] {
			if r.ID == id {
				return drag.Grab{
					Kind:      board.KindItem,
					ID:        id,
					ListID:    listID,
					Index:     i,
					ElementID: "item:" + id,
					Rect:      r.Rect,
				}, r.Rect.Center(), true
			}
		}
	}
	return drag.Grab{}, drag.Point{}, false
}

// Hit returns the draggable entity under p: a card, or a list when p is on
// its header.
func (g *Grid) Hit(p drag.Point) (drag.Grab, bool) {
	for _, l := range g.lists {
		if !l.Rect.Contains(p) {
			continue
		}
		if header, _ := g.HeaderRect(l.ID); header.Contains(p) {
			grab, _, ok := g.GrabFor(board.KindList, l.ID)
			return grab, ok
		}
		for _, it := range g.items[l.ID] {
			if it.Rect.Contains(p) {
				grab, _, ok := g.GrabFor(board.KindItem, it.ID)
				return grab, ok
			}
		}
	}
	return drag.Grab{}, false
}

// DropPoint returns a pointer position that targets slot index of listID
// while draggedID is being dragged. Lists ignore listID.
func (g *Grid) DropPoint(kind board.EntityKind, draggedID, listID string, index int) (drag.Point, bool) {
	if kind == board.KindList {
		return g.listDropPoint(draggedID, index)
	}
	return g.itemDropPoint(draggedID, listID, index)
}

func (g *Grid) listDropPoint(draggedID string, index int) (drag.Point, bool) {
	if len(g.lists) == 0 {
		return drag.Point{}, false
	}
	y := g.cfg.HeaderHeight / 2
	siblings := without(g.lists, draggedID)
	if index < 0 {
		index = 0
	}
	if index < len(siblings) {
		r := siblings[index].Rect
		return drag.Point{X: r.X + r.W/4, Y: y}, true
	}
	last := g.lists[len(g.lists)-1].Rect
	return drag.Point{X: last.X + last.W + g.cfg.ColumnGap/2, Y: y}, true
}

func (g *Grid) itemDropPoint(draggedID, listID string, index int) (drag.Point, bool) {
	col, ok := g.ListRect(listID)
	if !ok {
		return drag.Point{}, false
	}
	x := col.X + col.W/2
	items := g.items[listID]
	siblings := without(items, draggedID)
	if index < 0 {
		index = 0
	}
	if index < len(siblings) {
		r := siblings[index].Rect
		return drag.Point{X: x, Y: r.Y + r.H/4}, true
	}
	bottom := g.cfg.HeaderHeight
	if len(items) > 0 {
		last := items[len(items)-1].Rect
		bottom = last.Y + last.H
	}
	return drag.Point{X: x, Y: bottom + g.cfg.CardHeight/2}, true
}

func without(regions []drag.Region, id string) []drag.Region {
	out := make([]drag.Region, 0, len(regions))
	for _, r := range regions {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
