// Package brdf implements the microfacet specular and Lambertian diffuse
// reflectance used for every direct light.
package brdf

import (
	"math"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	eps        = core.Epsilon
	invPi      = float32(1 / math.Pi)
	dielectric = 0.04
)

// Evaluate returns diffuse + specular reflected radiance per unit incoming
// radiance for unit vectors n, v, l. metallic and roughness are expected to be
// sanitized already (see core.MaterialSample.Sanitized).
func Evaluate(n, v, l, base mgl32.Vec3, metallic, roughness float32) mgl32.Vec3 {
	nDotL := n.Dot(l)
	nDotV := n.Dot(v)
	if nDotL <= 0 || nDotV <= 0 {
		return mgl32.Vec3{}
	}

	a := roughness * roughness
	h := core.SafeNormalize(v.Add(l), n)
	nDotH := max(n.Dot(h), 0)
	lDotH := max(l.Dot(h), 0)

	d := DistributionGGX(nDotH, a)
	vis := VisibilitySmithGGXCorrelated(nDotV, nDotL, a)
	f := FresnelSchlick(F0(base, metallic), lDotH)

	specular := f.Mul(d * vis * nDotL)

	kd := mgl32.Vec3{1 - f[0], 1 - f[1], 1 - f[2]}.Mul((1 - metallic) * nDotL * invPi)
	diffuse := core.MulVec(base, kd)

	return diffuse.Add(specular)
}

// F0 is the normal-incidence reflectance: 4% for dielectrics, base color for
// metals.
func F0(base mgl32.Vec3, metallic float32) mgl32.Vec3 {
	return core.MixVec(core.Splat(dielectric), base, metallic)
}

// DistributionGGX is the Trowbridge-Reitz normal distribution with a = roughness².
func DistributionGGX(nDotH, a float32) float32 {
	a2 := a * a
	f := nDotH*nDotH*(a2-1) + 1
	return a2 / (math.Pi*f*f + eps)
}

// VisibilitySmithGGXCorrelated is the height-correlated Smith term, already
// divided by 4·NdotL·NdotV.
func VisibilitySmithGGXCorrelated(nDotV, nDotL, a float32) float32 {
	a2 := a * a
	ggxV := nDotL * core.Sqrt(nDotV*nDotV*(1-a2)+a2)
	ggxL := nDotV * core.Sqrt(nDotL*nDotL*(1-a2)+a2)
	return 0.5 / (ggxV + ggxL + eps)
}

func FresnelSchlick(f0 mgl32.Vec3, cosTheta float32) mgl32.Vec3 {
	fc := schlickWeight(cosTheta)
	return f0.Add(core.Splat(1).Sub(f0).Mul(fc))
}

// FresnelSchlickRoughness damps the grazing boost on rough surfaces; used for
// ambient lighting where no single half vector exists.
func FresnelSchlickRoughness(f0 mgl32.Vec3, cosTheta, roughness float32) mgl32.Vec3 {
	fc := schlickWeight(cosTheta)
	g := core.Splat(1 - roughness)
	return mgl32.Vec3{
		f0[0] + (max(g[0], f0[0])-f0[0])*fc,
		f0[1] + (max(g[1], f0[1])-f0[1])*fc,
		f0[2] + (max(g[2], f0[2])-f0[2])*fc,
	}
}

func schlickWeight(cosTheta float32) float32 {
	m := core.Saturate(1 - cosTheta)
	m2 := m * m
	return m2 * m2 * m
}
