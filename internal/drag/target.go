package drag

import "github.com/rpggio/kanban/internal/domain/board"

// computeTarget finds the slot under p, or nil when p is outside every
// valid drop area.
func computeTarget(c *Clicked, p Point, regions RegionProvider) *Target {
	if c == nil || regions == nil {
		return nil
	}
	if c.Kind == board.KindList {
		return listTarget(c, p, regions.Lists())
	}
	return itemTarget(c, p, regions)
}

func listTarget(c *Clicked, p Point, lists []Region) *Target {
	if len(lists) == 0 {
		return nil
	}
	top, bottom := lists[0].Rect.Y, lists[0].Rect.Y+lists[0].Rect.H
	for _, r := range lists[1:] {
		top = min(top, r.Rect.Y)
		bottom = max(bottom, r.Rect.Y+r.Rect.H)
	}
	if p.Y < top || p.Y >= bottom {
		return nil
	}

	if slot, ok := find(lists, c.ID); ok && slot.Rect.Contains(p) {
		return &Target{Index: c.Index, Initial: true}
	}

	idx := 0
	for _, r := range lists {
		if r.ID != c.ID && r.Rect.Center().X < p.X {
			idx++
		}
	}
	return &Target{Index: idx, Initial: idx == c.Index}
}

func itemTarget(c *Clicked, p Point, regions RegionProvider) *Target {
	container, ok := containing(regions.Lists(), p)
	if !ok {
		return nil
	}
	items := regions.Items(container.ID)
	same := container.ID == c.ListID

	if same {
		if slot, ok := find(items, c.ID); ok && slot.Rect.Contains(p) {
			return &Target{ListID: container.ID, Index: c.Index, Initial: true}
		}
	}

	idx := 0
	for _, r := range items {
		if r.ID != c.ID && r.Rect.Center().Y < p.Y {
			idx++
		}
	}
	return &Target{ListID: container.ID, Index: idx, Initial: same && idx == c.Index}
}

func find(regions []Region, id string) (Region, bool) {
	for _, r := range regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

func containing(regions []Region, p Point) (Region, bool) {
	for _, r := range regions {
		if r.Rect.Contains(p) {
			return r, true
		}
	}
	return Region{}, false
}
