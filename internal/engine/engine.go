package engine

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/stagerig/rigsim/backend-go/internal/beam"
	"github.com/stagerig/rigsim/backend-go/internal/fixture"
	"github.com/stagerig/rigsim/backend-go/internal/geom"
	"github.com/stagerig/rigsim/backend-go/internal/groups"
	"github.com/stagerig/rigsim/backend-go/internal/rig"
)

var (
	ErrNoMatches       = errors.New("no fixtures match")
	ErrUnknownGroup    = errors.New("unknown group")
	ErrUnknownKind     = errors.New("unknown fixture kind")
	ErrEmptySelection  = errors.New("no fixtures selected")
	ErrClipboardEmpty  = errors.New("clipboard is empty")
	ErrNoStageHit      = errors.New("point is not over the stage")
	ErrMixedKinds      = errors.New("selected fixtures differ in kind")
	ErrNotApplicable   = errors.New("parameter does not apply to the selected kind")
	ErrUnknownFixture  = errors.New("fixture not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Engine is the editing session context. It owns the stage, the fixture
// registry, the selection, the clipboard, the aim set and the view state.
// It is not safe for concurrent use: every call must come from the one
// goroutine that drives the session.
type Engine struct {
	log *slog.Logger

	stage  *beam.Stage
	meshes *fixture.MeshPool
	reg    *rig.Registry
	groups *groups.Set
	camera geom.Camera

	// Selection in pick order; the first id is the reference for relative edits.
	selection []int
	clipboard []fixture.Descriptor

	// Beams in point-and-click aiming mode, in enrollment order.
	aim []int

	boxMode bool
	drag    *boxDrag

	indicators map[int]*Indicator
	labelsOn   bool
	groupPanel bool

	// Dirty flag - render state changed since the last Render
	dirty bool
}

type Option func(*engineOptions)

type engineOptions struct {
	stage  beam.Stage
	groups *groups.Set
	camera geom.Camera
	logger *slog.Logger
	random func() float64
}

func WithStage(s beam.Stage) Option {
	return func(o *engineOptions) { o.stage = s }
}

func WithGroups(g *groups.Set) Option {
	return func(o *engineOptions) { o.groups = g }
}

func WithCamera(c geom.Camera) Option {
	return func(o *engineOptions) { o.camera = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithRandom sets the placement jitter source for new fixtures.
func WithRandom(fn func() float64) Option {
	return func(o *engineOptions) { o.random = fn }
}

// NewEngine creates an engine with an empty rig.
func NewEngine(opts ...Option) *Engine {
	o := engineOptions{
		stage:  beam.DefaultStage(),
		camera: geom.DefaultCamera(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.groups == nil {
		o.groups = groups.Defaults()
	}
	if o.stage.Validate() != nil {
		o.stage = beam.DefaultStage()
	}

	stage := o.stage
	e := &Engine{
		log:        o.logger,
		stage:      &stage,
		meshes:     fixture.NewMeshPool(),
		groups:     o.groups,
		camera:     o.camera,
		indicators: make(map[int]*Indicator),
		dirty:      true,
	}

	var regOpts []rig.Option
	if o.random != nil {
		regOpts = append(regOpts, rig.WithRandom(o.random))
	}
	e.reg = rig.NewRegistry(fixture.Env{Stage: e.stage, Meshes: e.meshes}, regOpts...)
	e.reg.OnRemove(e.forget)
	return e
}

// forget drops every reference the session holds to a removed fixture.
func (e *Engine) forget(f *fixture.Fixture) {
	id := f.ID()
	e.selection = slices.DeleteFunc(e.selection, func(x int) bool { return x == id })
	e.aim = slices.DeleteFunc(e.aim, func(x int) bool { return x == id })
	delete(e.indicators, id)
	e.dirty = true
}

// --- Commands ---

// Reset empties the rig and clears all session state except the stage,
// camera and groups. Fixture ids restart at 1.
func (e *Engine) Reset() {
	e.CancelBox()
	e.reg.Reset()
	e.selection = nil
	e.clipboard = nil
	e.aim = nil
	e.boxMode = false
	e.labelsOn = false
	e.indicators = make(map[int]*Indicator)
	e.dirty = true
}

// AddFixture places a new fixture for a kind token.
func (e *Engine) AddFixture(token string) (*fixture.Fixture, error) {
	f, ok := e.reg.Add(token)
	if !ok {
		return nil, e.diagnose(ErrUnknownKind, "token", token)
	}
	e.indicatorFor(f.ID()).LabelVisible = e.labelsOn
	e.dirty = true
	return f, nil
}

// RemoveFixture removes one fixture. Selection, aim set and indicators are
// pruned through the registry hook.
func (e *Engine) RemoveFixture(id int) error {
	if !e.reg.Remove(id) {
		return e.diagnose(ErrUnknownFixture, "id", id)
	}
	return nil
}

// ResizeStage changes the stage and rebuilds every beam synchronously.
func (e *Engine) ResizeStage(s beam.Stage) error {
	if err := s.Validate(); err != nil {
		return e.diagnose(err, "width", s.Width, "depth", s.Depth, "height", s.Height)
	}
	*e.stage = s
	for _, f := range e.reg.Beams() {
		f.Invalidate()
		f.UpdateBeamLength()
	}
	e.dirty = true
	return nil
}

// SetCamera replaces the view used for picking, box selection and labels.
func (e *Engine) SetCamera(c geom.Camera) {
	e.camera = c
	e.dirty = true
}

// SetGroups replaces the named groups.
func (e *Engine) SetGroups(g *groups.Set) {
	if g != nil {
		e.groups = g
	}
}

// ToggleGroupPanel shows or hides the group picker in the front-end.
func (e *Engine) ToggleGroupPanel() {
	e.groupPanel = !e.groupPanel
	e.dirty = true
}

// --- Queries ---

func (e *Engine) Registry() *rig.Registry   { return e.reg }
func (e *Engine) Stage() beam.Stage         { return *e.stage }
func (e *Engine) Camera() geom.Camera       { return e.camera }
func (e *Engine) Groups() *groups.Set       { return e.groups }
func (e *Engine) Meshes() *fixture.MeshPool { return e.meshes }
func (e *Engine) BoxMode() bool             { return e.boxMode }
func (e *Engine) LabelsVisible() bool       { return e.labelsOn }
func (e *Engine) GroupPanelVisible() bool   { return e.groupPanel }
func (e *Engine) Clipboard() []fixture.Descriptor {
	return slices.Clone(e.clipboard)
}

// Selection returns the selected ids in pick order, skipping any that are no
// longer in the registry.
func (e *Engine) Selection() []int {
	out := make([]int, 0, len(e.selection))
	for _, id := range e.selection {
		if e.reg.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Selected returns the selected fixtures in pick order.
func (e *Engine) Selected() []*fixture.Fixture {
	out := make([]*fixture.Fixture, 0, len(e.selection))
	for _, id := range e.selection {
		if f, ok := e.reg.Get(id); ok {
			out = append(out, f)
		}
	}
	return out
}

func (e *Engine) IsSelected(id int) bool {
	return slices.Contains(e.selection, id)
}

// diagnose logs a non-fatal user-facing failure and returns it.
func (e *Engine) diagnose(err error, args ...any) error {
	e.log.Info("engine: "+err.Error(), args...)
	return err
}
