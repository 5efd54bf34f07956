package drag

// Reduce returns the state following ev. It never mutates s.
func Reduce(cfg Config, s State, ev Event, regions RegionProvider) (State, Effect) {
	switch ev := ev.(type) {
	case PointerDown:
		if s.Phase != Idle {
			return s, Effect{}
		}
		return arm(ev), Effect{}

	case PointerMove:
		switch s.Phase {
		case Armed:
			s = follow(s, ev.At)
			if ev.At.Dist(s.Origin) < cfg.Threshold {
				return s, Effect{}
			}
			c := *s.Clicked
			c.Dragging = true
			s.Clicked = &c
			s.Phase = Dragging
			s.Target = computeTarget(s.Clicked, ev.At, regions)
			return s, Effect{}
		case Dragging:
			s = follow(s, ev.At)
			s.Target = computeTarget(s.Clicked, ev.At, regions)
			return s, Effect{}
		}
		return s, Effect{}

	case PointerUp:
		switch s.Phase {
		case Armed:
			return State{}, Effect{Kind: EffectClick}
		case Dragging:
			s = follow(s, ev.At)
			target := computeTarget(s.Clicked, ev.At, regions)
			if target == nil {
				return State{}, Effect{Kind: EffectRevert}
			}
			s.Target = target
			s.Phase = Committing
			t := *target
			return s, Effect{Kind: EffectCommit, Target: &t}
		}
		return s, Effect{}

	case Cancel:
		if s.Phase == Armed || s.Phase == Dragging {
			return State{}, Effect{Kind: EffectRevert}
		}
		return s, Effect{}

	case CommitDone:
		if s.Phase == Committing {
			return State{}, Effect{}
		}
		return s, Effect{}
	}
	return s, Effect{}
}

func arm(ev PointerDown) State {
	g := ev.Grab
	c := &Clicked{
		Kind:        g.Kind,
		ID:          g.ID,
		Index:       g.Index,
		ListID:      g.ListID,
		ElementID:   g.ElementID,
		Rect:        g.Rect,
		MouseOffset: ev.At.Sub(g.Rect.Origin()),
	}
	return State{
		Phase:   Armed,
		Clicked: c,
		Target:  &Target{ListID: g.ListID, Index: g.Index, Initial: true},
		Origin:  ev.At,
		Pointer: ev.At,
		Clone:   g.Rect.Origin(),
	}
}

// follow moves the pointer and the clone with it.
func follow(s State, at Point) State {
	s.Pointer = at
	s.Clone = at.Sub(s.Clicked.MouseOffset)
	return s
}
