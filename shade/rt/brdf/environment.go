package brdf

import (
	"math"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// EnvironmentBRDF is the analytic fit of the pre-integrated split-sum
// specular lobe. It returns the scale and bias applied to F0.
func EnvironmentBRDF(nDotV, roughness float32) (scale, bias float32) {
	c0 := mgl32.Vec4{-1, -0.0275, -0.572, 0.022}
	c1 := mgl32.Vec4{1, 0.0425, 1.04, -0.04}
	r := c0.Mul(roughness).Add(c1)
	nv := core.Saturate(nDotV)
	a004 := min(r[0]*r[0], float32(math.Exp2(float64(-9.28*nv))))*r[0] + r[1]
	scale = a004*-1.04 + r[2]
	bias = a004*1.04 + r[3]
	return max(scale, 0), max(bias, 0)
}

// Reflect mirrors the incident direction i about n.
func Reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}
