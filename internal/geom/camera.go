package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera plus the viewport it renders into.
// Screen coordinates have their origin at the top-left corner of the viewport.
type Camera struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
	Up       mgl64.Vec3 `json:"up"`
	FovY     float64    `json:"fovY"` // degrees
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
}

// DefaultCamera returns the editor's initial view: behind the audience, slightly raised.
func DefaultCamera() Camera {
	return Camera{
		Position: mgl64.Vec3{0, 10, 45},
		Target:   mgl64.Vec3{0, 0, 0},
		Up:       Up,
		FovY:     75,
		Near:     0.1,
		Far:      1000,
		Width:    1280,
		Height:   720,
	}
}

// aspect guards against a zero-height viewport during window setup.
func (c Camera) aspect() float64 {
	if c.Height <= 0 {
		return 1
	}
	return c.Width / c.Height
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// ViewProjection returns projection * view.
func (c Camera) ViewProjection() mgl64.Mat4 {
	proj := mgl64.Perspective(mgl64.DegToRad(c.FovY), c.aspect(), c.Near, c.Far)
	return proj.Mul4(c.View())
}

// Project maps a world point to screen pixels. ok is false for points behind the camera.
func (c Camera) Project(p mgl64.Vec3) (x, y float64, ok bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	x = (ndcX*0.5 + 0.5) * c.Width
	y = (-ndcY*0.5 + 0.5) * c.Height
	return x, y, true
}

// RayAt returns the pick ray through the given screen pixel.
func (c Camera) RayAt(x, y float64) Ray {
	ndcX := x/c.Width*2 - 1
	ndcY := -(y/c.Height)*2 + 1

	inv := c.ViewProjection().Inv()
	far := inv.Mul4x1(mgl64.Vec4{ndcX, ndcY, 1, 1})
	farPoint := far.Vec3().Mul(1 / far[3])

	return NewRay(c.Position, farPoint.Sub(c.Position))
}

// Orientation returns the camera's world rotation, used to turn labels toward the viewer.
func (c Camera) Orientation() mgl64.Quat {
	return mgl64.Mat4ToQuat(c.View().Inv()).Normalize()
}
