package engine

// Modifiers are the modifier keys held during a pointer or key event.
type Modifiers struct {
	Ctrl  bool `json:"ctrl"`
	Meta  bool `json:"meta"`
	Shift bool `json:"shift"`
	Alt   bool `json:"alt"`
}

// Multi reports whether the event should add to or toggle the selection.
func (m Modifiers) Multi() bool {
	return m.Ctrl || m.Meta
}

// ClickResult reports what a click did.
type ClickResult struct {
	// Aimed lists beams turned toward Target by an aiming click.
	Aimed    []int     `json:"aimed,omitempty"`
	Target   []float64 `json:"target,omitempty"`
	Picked   int       `json:"picked,omitempty"`
	Selected []int     `json:"selected"`
}

// Click handles a pointer click at screen point (x, y). While box mode is on
// plain clicks are ignored. While any beam is aiming, a click that hits the
// stage turns every aimed beam toward the hit point and is consumed; a miss
// falls through to picking. A plain click replaces the selection with the
// picked fixture or clears it on a miss; Ctrl or Meta toggles membership.
func (e *Engine) Click(x, y float64, mods Modifiers) ClickResult {
	if e.boxMode {
		return ClickResult{Selected: e.Selection()}
	}

	if len(e.aim) > 0 {
		if hit, ok := e.StageHit(x, y); ok {
			aimed := e.aimAt(hit)
			return ClickResult{
				Aimed:    aimed,
				Target:   []float64{hit.X(), hit.Y(), hit.Z()},
				Selected: e.Selection(),
			}
		}
	}

	f, ok := e.PickFixture(x, y)
	switch {
	case ok && mods.Multi():
		e.Select([]int{f.ID()}, Toggle)
	case ok:
		e.Select([]int{f.ID()}, Replace)
	default:
		e.ClearSelection()
	}

	res := ClickResult{Selected: e.Selection()}
	if ok {
		res.Picked = f.ID()
	}
	return res
}
