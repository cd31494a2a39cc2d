// Package gbuffer holds per-pixel shading inputs and outputs and their
// compact encodings.
package gbuffer

import (
	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

func signNotZero(x float32) float32 {
	if x >= 0 {
		return 1
	}
	return -1
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// EncodeOctahedral projects a unit normal onto the octahedron and unfolds it
// into [-1,1]².
func EncodeOctahedral(n mgl32.Vec3) mgl32.Vec2 {
	n = core.SafeNormalize(n, mgl32.Vec3{0, 0, 1})
	l1 := max(abs(n[0])+abs(n[1])+abs(n[2]), core.Epsilon)
	x, y, z := n[0]/l1, n[1]/l1, n[2]/l1
	if z < 0 {
		x, y = (1-abs(y))*signNotZero(x), (1-abs(x))*signNotZero(y)
	}
	return mgl32.Vec2{x, y}
}

// DecodeOctahedral is the inverse of EncodeOctahedral. Inputs are clamped to
// [-1,1]².
func DecodeOctahedral(e mgl32.Vec2) mgl32.Vec3 {
	x := mgl32.Clamp(e[0], -1, 1)
	y := mgl32.Clamp(e[1], -1, 1)
	v := mgl32.Vec3{x, y, 1 - abs(x) - abs(y)}
	if v[2] < 0 {
		v[0] = (1 - abs(y)) * signNotZero(x)
		v[1] = (1 - abs(x)) * signNotZero(y)
	}
	return core.SafeNormalize(v, mgl32.Vec3{0, 0, 1})
}

// EncodeMaterial packs (roughness, metallic, reserved, alpha).
func EncodeMaterial(m core.MaterialSample) mgl32.Vec4 {
	return mgl32.Vec4{m.Roughness, m.Metallic, 0, m.Alpha}
}
