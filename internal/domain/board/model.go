package board

import (
	"sort"
	"time"
)

// EntityKind distinguishes the two draggable entities.
type EntityKind string

const (
	KindItem EntityKind = "item"
	KindList EntityKind = "list"
)

// DisplayTitle returns title, or "(Unnamed <what>)" for an untitled entity.
func DisplayTitle(title, what string) string {
	if title == "" {
		return "(Unnamed " + what + ")"
	}
	return title
}

// Board is the top-level container of lists.
type Board struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Archived bool      `json:"archived"`
	Created  time.Time `json:"created"`
}

func (b Board) RecordID() string { return b.ID }

// List is an ordered container of items within a board.
type List struct {
	ID       string    `json:"id"`
	BoardID  string    `json:"board_id"`
	Title    string    `json:"title"`
	Archived bool      `json:"archived"`
	Created  time.Time `json:"created"`
	Order    int       `json:"order"`
}

func (l List) RecordID() string  { return l.ID }
func (l List) SiblingID() string { return l.ID }

func (l List) WithOrder(order int) List {
	l.Order = order
	return l
}

// Item is a task card within a list.
type Item struct {
	ID          string    `json:"id"`
	ListID      string    `json:"list_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Archived    bool      `json:"archived"`
	Created     time.Time `json:"created"`
	Order       int       `json:"order"`
}

func (i Item) RecordID() string  { return i.ID }
func (i Item) SiblingID() string { return i.ID }

func (i Item) WithOrder(order int) Item {
	i.Order = order
	return i
}

// ListView is a list together with its active items in order.
type ListView struct {
	List
	Items []Item `json:"items"`
}

// ItemIDs returns the ordered ids of the list's active items.
func (v ListView) ItemIDs() []string {
	ids := make([]string, len(v.Items))
	for i, it := range v.Items {
		ids[i] = it.ID
	}
	return ids
}

// Snapshot is the denormalized state of the selected board.
type Snapshot struct {
	Board Board      `json:"board"`
	Lists []ListView `json:"lists"`
}

// ListIDs returns the ordered ids of the board's active lists.
func (s Snapshot) ListIDs() []string {
	ids := make([]string, len(s.Lists))
	for i, l := range s.Lists {
		ids[i] = l.ID
	}
	return ids
}

// FindList returns the index of the active list with the given id, or -1.
func (s Snapshot) FindList(id string) int {
	for i, l := range s.Lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// FindItem returns the list index and item index of an active item.
func (s Snapshot) FindItem(id string) (int, int, bool) {
	for li, l := range s.Lists {
		for ii, it := range l.Items {
			if it.ID == id {
				return li, ii, true
			}
		}
	}
	return -1, -1, false
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{Board: s.Board, Lists: make([]ListView, len(s.Lists))}
	for i, l := range s.Lists {
		out.Lists[i] = l.clone()
	}
	return out
}

func (v ListView) clone() ListView {
	return ListView{List: v.List, Items: append([]Item{}, v.Items...)}
}

// ArchivedItem is an archived item annotated with its owning list title.
// Orphaned items lost their list and need a destination to be restored.
type ArchivedItem struct {
	Item
	ListTitle string `json:"list_title"`
	Orphaned  bool   `json:"orphaned,omitempty"`
}

// Location addresses a sibling slot. ListID is empty for lists.
type Location struct {
	ListID string `json:"list_id,omitempty"`
	Index  int    `json:"index"`
}

// ReorderRequest describes a finished drag to be committed.
type ReorderRequest struct {
	Kind     EntityKind
	EntityID string
	From     Location
	To       Location
}

// ReorderResult carries the sequences written by a reorder.
type ReorderResult struct {
	Kind   EntityKind `json:"kind"`
	Moved  string     `json:"moved"`
	Lists  []List     `json:"lists,omitempty"`
	Source *ListView  `json:"source,omitempty"`
	Dest   *ListView  `json:"dest,omitempty"`
}

// BoardUpdate merges optional fields into the selected board.
type BoardUpdate struct {
	Title *string
}

// ListUpdate merges optional fields into a list.
type ListUpdate struct {
	Title *string
}

// ItemUpdate merges optional fields into an item.
type ItemUpdate struct {
	Title       *string
	Description *string
}

// sortLists orders by rank, then creation time, then id.
func sortLists(lists []List) {
	sort.SliceStable(lists, func(i, j int) bool {
		return lessRank(lists[i].Order, lists[j].Order, lists[i].Created, lists[j].Created, lists[i].ID, lists[j].ID)
	})
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessRank(items[i].Order, items[j].Order, items[i].Created, items[j].Created, items[i].ID, items[j].ID)
	})
}

func lessRank(oa, ob int, ca, cb time.Time, ia, ib string) bool {
	if oa != ob {
		return oa < ob
	}
	if !ca.Equal(cb) {
		return ca.Before(cb)
	}
	return ia < ib
}

func listOrders(lists []ListView) []int {
	out := make([]int, len(lists))
	for i, l := range lists {
		out[i] = l.Order
	}
	return out
}

func itemOrders(items []Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Order
	}
	return out
}

// WithOrder re-ranks the list while keeping its items.
func (v ListView) WithOrder(order int) ListView {
	v.List.Order = order
	return v
}
