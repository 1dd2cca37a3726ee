package engine

import (
	"encoding/json"
	"slices"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/fixture"
	"github.com/stagerig/rigsim/backend-go/internal/geom"
)

// RenderState is everything the front-end needs to draw one frame. The
// front-end owns meshes and materials; it rebuilds a beam's cone when the
// mesh handle changes.
type RenderState struct {
	Stage    beam.Stage       `json:"stage"`
	Fixtures []FixtureCommand `json:"fixtures"`

	// SelectionBox is the live rubber-band rectangle in screen pixels.
	SelectionBox *geom.Rect `json:"selectionBox,omitempty"`
	BoxMode      bool       `json:"boxMode"`
	Aiming       bool       `json:"aiming"`
	Cursor       string     `json:"cursor"`
	GroupPanel   bool       `json:"groupPanel"`
}

// FixtureCommand describes one fixture for the renderer.
type FixtureCommand struct {
	ID          int           `json:"id"`
	Kind        fixture.Kind  `json:"kind"`
	Position    [3]float64    `json:"position"`
	Quaternion  [4]float64    `json:"quaternion"` // x, y, z, w
	Color       string        `json:"color"`
	Outline     string        `json:"outline"`
	Intensity   float64       `json:"intensity"`
	Angle       float64       `json:"angle"`
	Penumbra    float64       `json:"penumbra"`
	Selected    bool          `json:"selected,omitempty"`
	Aiming      bool          `json:"aiming,omitempty"`
	AxesVisible bool          `json:"axes,omitempty"`
	Label       *LabelCommand `json:"label,omitempty"`
	Beam        *BeamCommand  `json:"beam,omitempty"`
}

// LabelCommand is an ID label sprite above a fixture.
type LabelCommand struct {
	Text       string     `json:"text"`
	OffsetY    float64    `json:"offsetY"`
	Quaternion [4]float64 `json:"quaternion"`
}

// BeamCommand is the visible cone of a beam fixture.
type BeamCommand struct {
	Visible     bool               `json:"visible"`
	Mesh        fixture.MeshHandle `json:"mesh"`
	Frustum     beam.Frustum       `json:"frustum"`
	Range       float64            `json:"range"`
	Length      float64            `json:"length"`
	FocalLength float64            `json:"focalLength"`
}

// CompileRenderState snapshots the session into a RenderState. Fixtures are in
// insertion order.
func CompileRenderState(e *Engine) RenderState {
	rs := RenderState{
		Stage:      *e.stage,
		Fixtures:   make([]FixtureCommand, 0, e.reg.Len()),
		BoxMode:    e.boxMode,
		Aiming:     len(e.aim) > 0,
		Cursor:     "auto",
		GroupPanel: e.groupPanel,
	}
	if rs.BoxMode || rs.Aiming {
		rs.Cursor = "crosshair"
	}
	if r, ok := e.BoxRect(); ok {
		rs.SelectionBox = &r
	}

	for _, f := range e.reg.All() {
		rs.Fixtures = append(rs.Fixtures, compileFixture(e, f))
	}
	return rs
}

func compileFixture(e *Engine, f *fixture.Fixture) FixtureCommand {
	cmd := FixtureCommand{
		ID:         f.ID(),
		Kind:       f.Kind(),
		Position:   [3]float64(f.Position()),
		Quaternion: quatSlice(f.Orientation()),
		Color:      f.Color().Hex(),
		Outline:    f.Color().Inverted().Hex(),
		Intensity:  f.Intensity(),
		Angle:      f.Angle(),
		Penumbra:   f.Penumbra(),
		Selected:   e.IsSelected(f.ID()),
	}

	cmd.Aiming = slices.Contains(e.aim, f.ID())

	if ind, ok := e.indicators[f.ID()]; ok {
		cmd.AxesVisible = ind.AxesVisible
		if ind.LabelVisible {
			cmd.Label = &LabelCommand{
				Text:       strconv.Itoa(f.ID()),
				OffsetY:    labelOffset(f.Kind()),
				Quaternion: quatSlice(ind.LabelOrientation),
			}
		}
	}

	if st, ok := f.BeamState(); ok {
		cmd.Beam = &BeamCommand{
			Visible:     st.Visible,
			Mesh:        st.Mesh,
			Frustum:     st.Frustum,
			Range:       st.Range,
			Length:      st.Length,
			FocalLength: st.FocalLength,
		}
	}
	return cmd
}

func quatSlice(q mgl64.Quat) [4]float64 {
	return [4]float64{q.V[0], q.V[1], q.V[2], q.W}
}

// RenderStateToJSON serializes a render state to JSON.
func RenderStateToJSON(rs RenderState) (string, error) {
	data, err := json.Marshal(rs)
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}

// --- Queries (frontend ← backend) ---

// Render compiles the render state as JSON and clears the dirty flag.
func (e *Engine) Render() string {
	result, err := RenderStateToJSON(CompileRenderState(e))
	if err != nil {
		e.log.Error("render state", "error", err)
	}
	e.dirty = false
	return result
}

// Dirty reports whether anything visible changed since the last Render.
func (e *Engine) Dirty() bool {
	return e.dirty
}

// GetSelection returns the current selection as JSON.
func (e *Engine) GetSelection() string {
	data, _ := json.Marshal(e.Selection())
	return string(data)
}

// GetPanel returns the property panel model as JSON.
func (e *Engine) GetPanel() string {
	data, _ := json.Marshal(e.Panel())
	return string(data)
}
