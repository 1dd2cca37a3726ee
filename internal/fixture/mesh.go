package fixture

import "github.com/stagerig/rigsim/backend-go/internal/beam"

// MeshHandle identifies a geometry resource. The zero handle means "none".
type MeshHandle int64

// Meshes allocates beam geometry. A fixture releases its previous handle
// before building a replacement and releases its last handle on Dispose.
type Meshes interface {
	Build(f beam.Frustum) MeshHandle
	Release(h MeshHandle)
}

// MeshPool is an in-memory Meshes. It records the frustum behind every live
// handle so render state can be compiled from it.
type MeshPool struct {
	next     MeshHandle
	live     map[MeshHandle]beam.Frustum
	builds   int
	releases int
}

func NewMeshPool() *MeshPool {
	return &MeshPool{live: make(map[MeshHandle]beam.Frustum)}
}

func (p *MeshPool) Build(f beam.Frustum) MeshHandle {
	p.next++
	p.live[p.next] = f
	p.builds++
	return p.next
}

func (p *MeshPool) Release(h MeshHandle) {
	if _, ok := p.live[h]; !ok {
		return
	}
	delete(p.live, h)
	p.releases++
}

// Frustum returns the geometry behind a live handle.
func (p *MeshPool) Frustum(h MeshHandle) (beam.Frustum, bool) {
	f, ok := p.live[h]
	return f, ok
}

// Live is the number of handles built and not yet released.
func (p *MeshPool) Live() int { return len(p.live) }

// Builds counts every Build call.
func (p *MeshPool) Builds() int { return p.builds }

// Releases counts every successful Release call.
func (p *MeshPool) Releases() int { return p.releases }
