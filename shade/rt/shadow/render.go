package shadow

import (
	"math"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Occluder is anything a shadow ray can hit.
type Occluder interface {
	// Intersect returns the nearest positive hit distance along a unit ray.
	Intersect(origin, dir mgl32.Vec3) (float32, bool)
}

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

func (s Sphere) Intersect(origin, dir mgl32.Vec3) (float32, bool) {
	oc := origin.Sub(s.Center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	h := b*b - c
	if h < 0 {
		return 0, false
	}
	h = core.Sqrt(h)
	t := -b - h
	if t < 0 {
		t = -b + h
	}
	return t, t >= 0
}

// Box is an axis-aligned box.
type Box struct {
	Min, Max mgl32.Vec3
}

func (b Box) Intersect(origin, dir mgl32.Vec3) (float32, bool) {
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		if abs(dir[i]) < 1e-8 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t0 := (b.Min[i] - origin[i]) * inv
		t1 := (b.Max[i] - origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = max(tMin, t0)
		tMax = min(tMax, t1)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return tMax, true
	}
	return tMin, true
}

// RenderDepth rasterizes occluders into a layer by casting one ray per texel
// through the inverse of viewProj. The layer keeps the nearest depth.
func RenderDepth(l *Layer, viewProj mgl32.Mat4, occluders ...Occluder) {
	if l == nil || l.Size <= 0 || len(occluders) == 0 {
		return
	}
	inv := viewProj.Inv()
	size := float32(l.Size)
	for y := 0; y < l.Size; y++ {
		for x := 0; x < l.Size; x++ {
			ndcX := (float32(x)+0.5)/size*2 - 1
			ndcY := 1 - (float32(y)+0.5)/size*2
			near := unproject(inv, ndcX, ndcY, -1)
			farP := unproject(inv, ndcX, ndcY, 1)
			dir := core.SafeNormalize(farP.Sub(near), mgl32.Vec3{})
			if dir.LenSqr() == 0 {
				continue
			}
			best := float32(math.Inf(1))
			for _, o := range occluders {
				if t, ok := o.Intersect(near, dir); ok && t < best {
					best = t
				}
			}
			if math.IsInf(float64(best), 1) {
				continue
			}
			hit := near.Add(dir.Mul(best))
			if _, _, d, ok := Project(viewProj, hit); ok && d < l.At(x, y) {
				l.Set(x, y, d)
			}
		}
	}
}

func unproject(inv mgl32.Mat4, x, y, z float32) mgl32.Vec3 {
	p := inv.Mul4x1(mgl32.Vec4{x, y, z, 1})
	w := p.W()
	if abs(w) < core.Epsilon {
		return p.Vec3()
	}
	return p.Vec3().Mul(1 / w)
}
