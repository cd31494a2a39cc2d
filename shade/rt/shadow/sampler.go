package shadow

import (
	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Bias configures acne suppression.
type Bias struct {
	Normal float32 // world units along the surface normal
	Depth  float32 // base depth bias, scaled by 1 - N·L
}

func DefaultBias() Bias {
	return Bias{Normal: 0.02, Depth: 0.0005}
}

// MatrixSource yields the view-projection of a light's shadow face.
type MatrixSource func(face uint32) (mgl32.Mat4, bool)

// AtlasMatrices reads face transforms from the atlas transform array.
func AtlasMatrices(a *Atlas, base uint32) MatrixSource {
	return func(face uint32) (mgl32.Mat4, bool) {
		return a.Matrix(base, face)
	}
}

// Project maps a world position through a shadow view-projection. u, v and
// depth are in [0,1] when ok.
func Project(m mgl32.Mat4, p mgl32.Vec3) (u, v, depth float32, ok bool) {
	clip := m.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= core.Epsilon {
		return 0, 0, 0, false
	}
	inv := 1 / w
	u = clip.X()*inv*0.5 + 0.5
	v = 0.5 - clip.Y()*inv*0.5
	depth = clip.Z()*inv*0.5 + 0.5
	ok = inUnit(u) && inUnit(v) && inUnit(depth)
	return u, v, depth, ok
}

func inUnit(x float32) bool {
	return x >= 0 && x <= 1
}

// PCF is a 3×3 percentage-closer filter of bilinear comparison samples.
func PCF(l *Layer, u, v, ref, texel float32) float32 {
	var sum float32
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			sum += l.Compare(u+float32(dx)*texel, v+float32(dy)*texel, ref)
		}
	}
	return sum / 9
}

// SamplePlanar is the single-transform visibility query used by spot lights.
// It returns 1 (lit) for sentinel indices, missing resources and positions
// that project outside the map.
func SamplePlanar(a *Atlas, light *core.Light, m mgl32.Mat4, pos, normal mgl32.Vec3, nDotL float32, b Bias) float32 {
	if !light.HasShadow() {
		return 1
	}
	return sampleLayer(a, light.ShadowMapID, 0, m, pos, normal, nDotL, b)
}

func sampleLayer(a *Atlas, layer, face uint32, m mgl32.Mat4, pos, normal mgl32.Vec3, nDotL float32, b Bias) float32 {
	l := a.Layer(layer, face)
	if l == nil {
		return 1
	}
	biased := pos.Add(normal.Mul(b.Normal))
	u, v, depth, ok := Project(m, biased)
	if !ok {
		return 1
	}
	bias := b.Depth * (1 - max(nDotL, 0))
	return PCF(l, u, v, depth-bias, a.texel(l))
}

// CubeFace is the face of the dominant axis of dir.
func CubeFace(dir mgl32.Vec3) uint32 {
	ax, ay, az := abs(dir[0]), abs(dir[1]), abs(dir[2])
	switch {
	case ax >= ay && ax >= az:
		return AxisFaceIndex(dir, 0)
	case ay >= az:
		return AxisFaceIndex(dir, 1)
	}
	return AxisFaceIndex(dir, 2)
}

// AxisFaceIndex picks the ± face of one axis: +X=0 -X=1 +Y=2 -Y=3 +Z=4 -Z=5.
func AxisFaceIndex(dir mgl32.Vec3, axis int) uint32 {
	face := uint32(axis * 2)
	if dir[axis] < 0 {
		face++
	}
	return face
}

const minAxisWeight = 1e-4

// SampleCube blends the PCF result of up to three faces, one per axis,
// weighted by the absolute direction component on that axis. This hides the
// seams between adjacent faces.
func SampleCube(a *Atlas, light *core.Light, pos, normal mgl32.Vec3, nDotL float32, mats MatrixSource, b Bias) float32 {
	if !light.HasShadow() {
		return 1
	}
	dir := core.SafeNormalize(pos.Sub(light.Position), mgl32.Vec3{})
	var total, weight float32
	for axis := 0; axis < 3; axis++ {
		w := abs(dir[axis])
		if w < minAxisWeight {
			continue
		}
		face := AxisFaceIndex(dir, axis)
		vis := float32(1)
		if m, ok := mats(face); ok {
			vis = sampleLayer(a, light.ShadowMapID, face, m, pos, normal, nDotL, b)
		}
		total += vis * w
		weight += w
	}
	if weight < minAxisWeight {
		return 1
	}
	return core.Saturate(total / weight)
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
