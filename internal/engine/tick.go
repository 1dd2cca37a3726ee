package engine

// TickStats reports the work done by one Tick.
type TickStats struct {
	BeamsUpdated int `json:"beamsUpdated"`
	Rebuilds     int `json:"rebuilds"`
	LabelsTurned int `json:"labelsTurned"`
}

// Tick runs once per frame. It re-projects every auto-updating beam whose pose
// changed since its last projection and turns visible ID labels toward the
// camera.
func (e *Engine) Tick() TickStats {
	var stats TickStats

	for _, f := range e.reg.Beams() {
		st, _ := f.BeamState()
		if !st.AutoUpdate || !f.NeedsUpdate() {
			continue
		}
		stats.BeamsUpdated++
		if f.UpdateBeamLength() {
			stats.Rebuilds++
		}
	}

	facing := e.camera.Orientation()
	for id, ind := range e.indicators {
		if !ind.LabelVisible || !e.reg.Has(id) {
			continue
		}
		ind.LabelOrientation = facing
		stats.LabelsTurned++
	}

	if stats.BeamsUpdated > 0 {
		e.dirty = true
	}
	return stats
}
