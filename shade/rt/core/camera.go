package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the per-frame camera transform bundle.
type Camera struct {
	Position       mgl32.Vec3
	Fov            float32 // vertical, radians
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	ViewProjection mgl32.Mat4
	InvViewProj    mgl32.Mat4
	Near           float32
	Far            float32
}

func NewCamera() *Camera {
	c := &Camera{
		Fov:  mgl32.DegToRad(60),
		Near: 0.1,
		Far:  1000,
	}
	c.Update(mgl32.Perspective(c.Fov, 1, c.Near, c.Far), mgl32.Vec3{}, mgl32.Ident4())
	return c
}

// NewLookAtCamera builds a Y-up perspective camera at eye looking at target.
func NewLookAtCamera(eye, target mgl32.Vec3, fovy, aspect, near, far float32) *Camera {
	c := &Camera{Fov: fovy, Near: near, Far: far}
	up := mgl32.Vec3{0, 1, 0}
	forward := SafeNormalize(target.Sub(eye), mgl32.Vec3{0, 0, -1})
	if abs(forward.Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 0, -1}
	}
	c.Update(mgl32.Perspective(fovy, aspect, near, far), eye, mgl32.LookAtV(eye, target, up))
	return c
}

func (c *Camera) Update(proj mgl32.Mat4, pos mgl32.Vec3, view mgl32.Mat4) {
	c.Position = pos
	c.View = view
	c.Projection = proj
	c.ViewProjection = proj.Mul4(view)
	c.InvViewProj = c.ViewProjection.Inv()
}

// Unproject reconstructs a world position from screen uv in [0,1] (v down)
// and a [0,1] depth sample.
func (c *Camera) Unproject(u, v, depth float32) mgl32.Vec3 {
	ndc := mgl32.Vec4{u*2 - 1, 1 - v*2, depth*2 - 1, 1}
	p := c.InvViewProj.Mul4x1(ndc)
	w := p.W()
	if abs(w) < Epsilon {
		w = Epsilon
	}
	return p.Vec3().Mul(1 / w)
}

// ProjectDepth returns the [0,1] depth of a world position.
func (c *Camera) ProjectDepth(p mgl32.Vec3) float32 {
	clip := c.ViewProjection.Mul4x1(p.Vec4(1))
	w := clip.W()
	if abs(w) < Epsilon {
		return 1
	}
	return clip.Z()/w*0.5 + 0.5
}

// LinearDepth converts a [0,1] depth sample to view distance.
func (c *Camera) LinearDepth(z float32) float32 {
	ndc := z*2 - 1
	den := c.Far + c.Near - ndc*(c.Far-c.Near)
	if abs(den) < Epsilon {
		return c.Far
	}
	return 2 * c.Near * c.Far / den
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
