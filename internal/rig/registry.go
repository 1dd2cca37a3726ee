// Package rig owns the live fixtures of an editing session.
package rig

import (
	"math/rand/v2"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

const (
	// PlacementHeight is the y every new fixture starts at.
	PlacementHeight = 12.0
	// PlacementJitter bounds the random x/z offset of a new fixture.
	PlacementJitter = 5.0
)

// RemoveHook runs after a fixture has left the registry and released its geometry.
type RemoveHook func(f *fixture.Fixture)

// Registry holds fixtures in insertion order and hands out ids starting at 1.
type Registry struct {
	env      fixture.Env
	fixtures []*fixture.Fixture
	byID     map[int]*fixture.Fixture
	nextID   int
	random   func() float64
	hooks    []RemoveHook
}

type Option func(*Registry)

// WithRandom replaces the source of placement jitter. fn must return values in [0, 1).
func WithRandom(fn func() float64) Option {
	return func(r *Registry) {
		r.random = fn
	}
}

// NewRegistry creates an empty registry whose fixtures share env.
func NewRegistry(env fixture.Env, opts ...Option) *Registry {
	r := &Registry{
		env:    env,
		byID:   make(map[int]*fixture.Fixture),
		nextID: 1,
		random: rand.Float64,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnRemove registers a hook that runs for every removed fixture, including
// removals done by Reset.
func (r *Registry) OnRemove(h RemoveHook) {
	r.hooks = append(r.hooks, h)
}

// Env returns the environment shared by the registry's fixtures.
func (r *Registry) Env() fixture.Env {
	return r.env
}

// --- Commands ---

// Add places a fixture for a kind token. The fixture gets the next id, a
// position jittered around (0, 12, 0) and its kind's placement intensity.
// Beams start auto-updating and are projected at once. An unknown token adds
// nothing and returns false.
func (r *Registry) Add(token string) (*fixture.Fixture, bool) {
	kind, ok := fixture.ParseKind(token)
	if !ok {
		return nil, false
	}
	return r.AddKind(kind)
}

// AddKind is Add for an already parsed kind.
func (r *Registry) AddKind(kind fixture.Kind) (*fixture.Fixture, bool) {
	f, ok := fixture.New(kind, r.nextID, r.env)
	if !ok {
		return nil, false
	}
	r.nextID++

	f.SetIntensity(fixture.DefaultsFor(kind).AddIntensity)
	f.SetPosition(mgl64.Vec3{r.jitter(), PlacementHeight, r.jitter()})
	if f.IsBeam() {
		f.SetAutoUpdate(true)
		f.UpdateBeamLength()
	}

	r.fixtures = append(r.fixtures, f)
	r.byID[f.ID()] = f
	return f, true
}

// Remove disposes a fixture and runs the removal hooks. Returns false for an
// unknown id.
func (r *Registry) Remove(id int) bool {
	f, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	r.fixtures = slices.DeleteFunc(r.fixtures, func(x *fixture.Fixture) bool {
		return x.ID() == id
	})
	f.Dispose()

	for _, h := range r.hooks {
		h(f)
	}
	return true
}

// Reset removes every fixture through the hooks and restarts ids at 1.
func (r *Registry) Reset() {
	for _, f := range slices.Clone(r.fixtures) {
		r.Remove(f.ID())
	}
	r.nextID = 1
}

// --- Queries ---

func (r *Registry) Get(id int) (*fixture.Fixture, bool) {
	f, ok := r.byID[id]
	return f, ok
}

// Has reports whether id is live.
func (r *Registry) Has(id int) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns the fixtures in insertion order. The slice is a copy.
func (r *Registry) All() []*fixture.Fixture {
	return slices.Clone(r.fixtures)
}

func (r *Registry) ByKind(kind fixture.Kind) []*fixture.Fixture {
	var out []*fixture.Fixture
	for _, f := range r.fixtures {
		if f.Kind() == kind {
			out = append(out, f)
		}
	}
	return out
}

// ByIDRange returns fixtures with lo <= id <= hi in insertion order.
func (r *Registry) ByIDRange(lo, hi int) []*fixture.Fixture {
	var out []*fixture.Fixture
	for _, f := range r.fixtures {
		if f.ID() >= lo && f.ID() <= hi {
			out = append(out, f)
		}
	}
	return out
}

// Beams returns every beam fixture.
func (r *Registry) Beams() []*fixture.Fixture {
	return r.ByKind(fixture.Beam)
}

func (r *Registry) Len() int {
	return len(r.fixtures)
}

// NextID is the id the next added fixture will get.
func (r *Registry) NextID() int {
	return r.nextID
}

func (r *Registry) jitter() float64 {
	return r.random()*2*PlacementJitter - PlacementJitter
}
