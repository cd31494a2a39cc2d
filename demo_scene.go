package lumen

import (
	"math"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/gekko3d/lumen/shade/rt/gbuffer"
	"github.com/gekko3d/lumen/shade/rt/shadow"
	"github.com/go-gl/mathgl/mgl32"
)

func (s ShapeData) Occluder() shadow.Occluder {
	if s.Kind == ShapeBox {
		return shadow.Box{Min: s.Min, Max: s.Max}
	}
	return shadow.Sphere{Center: s.Center, Radius: s.Radius}
}

// Normal is the outward normal of the shape at a surface point.
func (s ShapeData) Normal(p mgl32.Vec3) mgl32.Vec3 {
	if s.Kind != ShapeBox {
		return core.SafeNormalize(p.Sub(s.Center), mgl32.Vec3{0, 1, 0})
	}
	center := s.Min.Add(s.Max).Mul(0.5)
	half := s.Max.Sub(s.Min).Mul(0.5)
	d := p.Sub(center)
	axis, best := 0, float32(-1)
	for i := 0; i < 3; i++ {
		v := float32(math.Abs(float64(d[i]))) / max(half[i], core.Epsilon)
		if v > best {
			axis, best = i, v
		}
	}
	var n mgl32.Vec3
	n[axis] = 1
	if d[axis] < 0 {
		n[axis] = -1
	}
	return n
}

func (p ScenePreset) Occluders() []shadow.Occluder {
	out := make([]shadow.Occluder, 0, len(p.Shapes))
	for _, s := range p.Shapes {
		out = append(out, s.Occluder())
	}
	return out
}

// BuildGBuffer ray casts the preset shapes and the ground plane y = 0 from
// cam into a width×height G-buffer.
func (p ScenePreset) BuildGBuffer(cam *core.Camera, width, height int) (*gbuffer.GBuffer, error) {
	g, err := gbuffer.NewGBuffer(width, height)
	if err != nil {
		return nil, err
	}
	ground := p.Ground.Sample()
	for y := 0; y < height; y++ {
		v := (float32(y) + 0.5) / float32(height)
		for x := 0; x < width; x++ {
			u := (float32(x) + 0.5) / float32(width)
			origin := cam.Unproject(u, v, 0)
			dir := core.SafeNormalize(cam.Unproject(u, v, 1).Sub(origin), mgl32.Vec3{0, 0, -1})

			best := float32(math.Inf(1))
			hitShape := -1
			for i, s := range p.Shapes {
				if t, ok := s.Occluder().Intersect(origin, dir); ok && t < best {
					best, hitShape = t, i
				}
			}
			if dir.Y() < -1e-6 {
				if t := -origin.Y() / dir.Y(); t >= 0 && t < best {
					best, hitShape = t, len(p.Shapes)
				}
			}
			if hitShape < 0 {
				continue
			}
			hit := origin.Add(dir.Mul(best))
			depth := cam.ProjectDepth(hit)
			if !(depth >= 0 && depth < 1) {
				continue
			}
			i := g.Index(x, y)
			g.Depth[i] = depth
			if hitShape == len(p.Shapes) {
				g.Normals[i] = mgl32.Vec3{0, 1, 0}
				g.Materials[i] = ground
				continue
			}
			s := p.Shapes[hitShape]
			g.Normals[i] = s.Normal(hit)
			g.Materials[i] = s.Material.Sample()
		}
	}
	return g, nil
}
