package engine

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

// Axis indexes X, Y and Z.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("%w: axis %q", ErrInvalidArgument, s)
}

// Intensity bounds for a selection mixing kinds.
const (
	mixedMinIntensity = 0.0
	mixedMaxIntensity = 10.0
)

// PanelState is the model behind the property panel. Values come from the
// first selected fixture.
type PanelState struct {
	IDs         []int          `json:"ids"`
	Kinds       []fixture.Kind `json:"kinds"`
	Homogeneous bool           `json:"homogeneous"`

	Color         string  `json:"color,omitempty"`
	ColorEditable bool    `json:"colorEditable"`
	Intensity     float64 `json:"intensity"`
	IntensityMin  float64 `json:"intensityMin"`
	IntensityMax  float64 `json:"intensityMax"`

	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`

	// Angle and AngleMin/Max are set when every selected fixture has an angle control.
	Angle       *float64 `json:"angle,omitempty"`
	AngleMin    float64  `json:"angleMin,omitempty"`
	AngleMax    float64  `json:"angleMax,omitempty"`
	FocalLength *float64 `json:"focalLength,omitempty"`
	Aim         *bool    `json:"aim,omitempty"`

	LabelsVisible bool `json:"labelsVisible"`
	GroupPanel    bool `json:"groupPanel"`
	BoxMode       bool `json:"boxMode"`
}

// Empty reports whether nothing is selected.
func (p PanelState) Empty() bool {
	return len(p.IDs) == 0
}

// Panel builds the property panel model for the current selection.
func (e *Engine) Panel() PanelState {
	p := PanelState{
		LabelsVisible: e.labelsOn,
		GroupPanel:    e.groupPanel,
		BoxMode:       e.boxMode,
	}

	sel := e.Selected()
	if len(sel) == 0 {
		return p
	}

	for _, f := range sel {
		p.IDs = append(p.IDs, f.ID())
		if !containsKind(p.Kinds, f.Kind()) {
			p.Kinds = append(p.Kinds, f.Kind())
		}
	}
	p.Homogeneous = len(p.Kinds) == 1

	first := sel[0]
	p.Color = first.Color().Hex()
	p.ColorEditable = !containsKind(p.Kinds, fixture.Flat)
	p.Intensity = first.Intensity()
	p.IntensityMin, p.IntensityMax = e.intensityRange(p.Kinds)

	pos, rot := first.Position(), first.Rotation()
	p.Position = [3]float64(pos)
	p.Rotation = [3]float64(rot)

	if !p.Homogeneous {
		return p
	}
	switch p.Kinds[0] {
	case fixture.Flat:
		a := first.Angle()
		p.Angle, p.AngleMin, p.AngleMax = &a, fixture.MinFlatAngle, fixture.MaxFlatAngle
	case fixture.Beam:
		a := first.Angle()
		p.Angle, p.AngleMin, p.AngleMax = &a, fixture.MinBeamAngle, fixture.MaxBeamAngle
		st, _ := first.BeamState()
		focal := st.FocalLength
		p.FocalLength = &focal
		aiming := slices.Contains(e.aim, first.ID())
		p.Aim = &aiming
	case fixture.RGB:
	}
	return p
}

func (e *Engine) intensityRange(kinds []fixture.Kind) (float64, float64) {
	if len(kinds) != 1 {
		return mixedMinIntensity, mixedMaxIntensity
	}
	d := fixture.DefaultsFor(kinds[0])
	return d.MinIntensity, d.MaxIntensity
}

// --- Panel edits ---

// MoveSelection sets one coordinate of the first selected fixture to v and
// moves every other selected fixture by the same offset.
func (e *Engine) MoveSelection(axis Axis, v float64) error {
	sel, err := e.requireSelection("move")
	if err != nil {
		return err
	}
	if axis < AxisX || axis > AxisZ || math.IsNaN(v) {
		return e.diagnose(ErrInvalidArgument, "axis", axis, "value", v)
	}

	offset := v - sel[0].Position()[axis]
	for _, f := range sel {
		p := f.Position()
		p[axis] += offset
		f.SetPosition(p)
	}
	e.dirty = true
	return nil
}

// RotateSelection sets one Euler angle (radians) of every selected fixture.
func (e *Engine) RotateSelection(axis Axis, v float64) error {
	sel, err := e.requireSelection("rotate")
	if err != nil {
		return err
	}
	if axis < AxisX || axis > AxisZ || math.IsNaN(v) {
		return e.diagnose(ErrInvalidArgument, "axis", axis, "value", v)
	}

	for _, f := range sel {
		r := f.Rotation()
		r[axis] = v
		f.SetRotation(r[0], r[1], r[2])
	}
	e.dirty = true
	return nil
}

// SetSelectionColor recolors the selection. Flat fixtures have a fixed warm
// white, so a selection that includes one is rejected.
func (e *Engine) SetSelectionColor(c fixture.Color) error {
	sel, err := e.requireSelection("color")
	if err != nil {
		return err
	}
	for _, f := range sel {
		if f.Kind() == fixture.Flat {
			return e.diagnose(ErrNotApplicable, "op", "color", "kind", f.Kind())
		}
	}
	for _, f := range sel {
		f.SetColor(c)
	}
	e.dirty = true
	return nil
}

// SetSelectionIntensity sets the intensity of every selected fixture, clamped
// to the panel range for the selection.
func (e *Engine) SetSelectionIntensity(v float64) error {
	sel, err := e.requireSelection("intensity")
	if err != nil {
		return err
	}
	lo, hi := e.intensityRange(e.Panel().Kinds)
	v = mgl64.Clamp(v, lo, hi)
	for _, f := range sel {
		f.SetIntensity(v)
	}
	e.dirty = true
	return nil
}

// SetSelectionAngle sets the cone angle. All selected fixtures must share a
// kind that has an angle control.
func (e *Engine) SetSelectionAngle(v float64) error {
	kind, sel, err := e.homogeneous("angle")
	if err != nil {
		return err
	}
	if kind == fixture.RGB {
		return e.diagnose(ErrNotApplicable, "op", "angle", "kind", kind)
	}
	for _, f := range sel {
		f.SetAngle(v)
	}
	e.dirty = true
	return nil
}

// SetSelectionFocalLength sets the focal length of an all-beam selection.
func (e *Engine) SetSelectionFocalLength(v float64) error {
	kind, sel, err := e.homogeneous("focal length")
	if err != nil {
		return err
	}
	if kind != fixture.Beam {
		return e.diagnose(ErrNotApplicable, "op", "focal length", "kind", kind)
	}
	for _, f := range sel {
		f.SetFocalLength(v)
	}
	e.dirty = true
	return nil
}

// DeleteSelection removes every selected fixture.
func (e *Engine) DeleteSelection() (int, error) {
	sel, err := e.requireSelection("delete")
	if err != nil {
		return 0, err
	}
	for _, f := range sel {
		e.reg.Remove(f.ID())
	}
	e.selection = nil
	e.selectionChanged()
	return len(sel), nil
}

func (e *Engine) requireSelection(op string) ([]*fixture.Fixture, error) {
	sel := e.Selected()
	if len(sel) == 0 {
		return nil, e.diagnose(ErrEmptySelection, "op", op)
	}
	return sel, nil
}

func (e *Engine) homogeneous(op string) (fixture.Kind, []*fixture.Fixture, error) {
	sel, err := e.requireSelection(op)
	if err != nil {
		return "", nil, err
	}
	kind := sel[0].Kind()
	for _, f := range sel[1:] {
		if f.Kind() != kind {
			return "", nil, e.diagnose(ErrMixedKinds, "op", op)
		}
	}
	return kind, sel, nil
}

func containsKind(kinds []fixture.Kind, k fixture.Kind) bool {
	return slices.Contains(kinds, k)
}
