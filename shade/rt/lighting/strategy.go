package lighting

import (
	"math"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/gekko3d/lumen/shade/rt/shadow"
	"github.com/go-gl/mathgl/mgl32"
)

type Quality int

const (
	QualityFast Quality = iota
	QualityPrecise
)

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityPrecise:
		return "precise"
	}
	return "unknown"
}

// Strategy returns the tier implementation; unknown values fall back to fast.
func (q Quality) Strategy() Strategy {
	if q == QualityPrecise {
		return Precise
	}
	return Fast
}

// Strategy holds the per-tier parts of light evaluation.
type Strategy interface {
	Attenuation(l *core.Light, d2 float32) float32
	Cone(l *core.Light, cosTheta float32) float32
	PointVisibility(f *Frame, l *core.Light, pos, n mgl32.Vec3, nDotL float32) float32
	SpotVisibility(f *Frame, l *core.Light, pos, n mgl32.Vec3, nDotL float32) float32
	SunVisibility(f *Frame, l *core.Light, pos, n mgl32.Vec3, nDotL float32) float32
	// AmbientWithSun reports whether the ambient term is kept for samples a
	// sun light reached.
	AmbientWithSun() bool
}

var (
	Fast    Strategy = fastTier{}
	Precise Strategy = preciseTier{}
)

// fastTier reuses squared distances, precomputed cone cosines and the atlas
// transform array.
type fastTier struct{}

func (fastTier) Attenuation(l *core.Light, d2 float32) float32 {
	return Attenuation(d2, l.Range, l.Radius)
}

func (fastTier) Cone(l *core.Light, cosTheta float32) float32 {
	cosInner, cosOuter := l.ConeCosines()
	return Cone(cosTheta, cosOuter, cosInner)
}

func (fastTier) PointVisibility(f *Frame, l *core.Light, pos, n mgl32.Vec3, nDotL float32) float32 {
	return shadow.SampleCube(f.Atlas, l, pos, n, nDotL, shadow.AtlasMatrices(f.Atlas, l.ShadowMatBase), f.bias())
}

func (fastTier) SpotVisibility(f *Frame, l *core.Light, pos, n mgl32.Vec3, nDotL float32) float32 {
	if !l.HasShadow() {
		return 1
	}
	m, ok := f.Atlas.Matrix(l.ShadowMatBase, 0)
	if !ok {
		return 1
	}
	return shadow.SamplePlanar(f.Atlas, l, m, pos, n, nDotL, f.bias())
}

func (fastTier) SunVisibility(*Frame, *core.Light, mgl32.Vec3, mgl32.Vec3, float32) float32 {
	return 1
}

func (fastTier) AmbientWithSun() bool { return true }

// preciseTier works from linear distances and angles and rebuilds shadow
// cameras per sample.
type preciseTier struct{}

func (preciseTier) Attenuation(l *core.Light, d2 float32) float32 {
	return AttenuationPrecise(core.Sqrt(d2), l.Range, l.Radius)
}

func (preciseTier) Cone(l *core.Light, cosTheta float32) float32 {
	inner, outer := l.ConeAngles()
	cosInner := float32(math.Cos(float64(inner)))
	cosOuter := float32(math.Cos(float64(outer)))
	return Cone(cosTheta, cosOuter, cosInner)
}

func (preciseTier) PointVisibility(f *Frame, l *core.Light, pos, n mgl32.Vec3, nDotL float32) float32 {
	return shadow.SampleCube(f.Atlas, l, pos, n, nDotL, shadow.PointMatrices(l), f.bias())
}

func (preciseTier) SpotVisibility(f *Frame, l *core.Light, pos, n mgl32.Vec3, nDotL float32) float32 {
	return shadow.SamplePlanar(f.Atlas, l, shadow.SpotShadowMatrix(l), pos, n, nDotL, f.bias())
}

func (preciseTier) SunVisibility(f *Frame, l *core.Light, pos, n mgl32.Vec3, nDotL float32) float32 {
	if !l.HasShadow() {
		return 1
	}
	m, ok := f.Atlas.Matrix(l.ShadowMatBase, 0)
	if !ok {
		return 1
	}
	return shadow.SamplePlanar(f.Atlas, l, m, pos, n, nDotL, f.bias())
}

func (preciseTier) AmbientWithSun() bool { return false }
