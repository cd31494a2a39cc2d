package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closeEnough(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() <= eps
}

func TestSaturateAndSmoothstep(t *testing.T) {
	assert.Equal(t, float32(0), Saturate(float32(math.NaN())))
	assert.Equal(t, float32(0), Saturate(-2))
	assert.Equal(t, float32(1), Saturate(7))
	assert.Equal(t, float32(0.25), Saturate(0.25))

	assert.Equal(t, float32(0), Smoothstep(0, 1, -1))
	assert.Equal(t, float32(1), Smoothstep(0, 1, 2))
	assert.InDelta(t, 0.5, Smoothstep(0, 1, 0.5), 1e-6)
	// degenerate band
	assert.Equal(t, float32(1), Smoothstep(0.5, 0.5, 0.5))
	assert.Equal(t, float32(0), Smoothstep(0.5, 0.5, 0.49))
}

func TestSafeNormalize(t *testing.T) {
	fb := mgl32.Vec3{0, 1, 0}
	assert.Equal(t, fb, SafeNormalize(mgl32.Vec3{}, fb))
	nan := float32(math.NaN())
	assert.Equal(t, fb, SafeNormalize(mgl32.Vec3{nan, 0, 0}, fb))
	assert.InDelta(t, 1, SafeNormalize(mgl32.Vec3{3, 4, 0}, fb).Len(), 1e-6)
	assert.Equal(t, float32(0), Sqrt(-4))
	assert.InDelta(t, 0, Acos(1.5), 1e-6)
}

func TestLightKinds(t *testing.T) {
	assert.Equal(t, "point", LightPoint.String())
	assert.Equal(t, uint32(6), LightPoint.ShadowFaces())
	assert.Equal(t, uint32(1), LightSpot.ShadowFaces())
	assert.Equal(t, uint32(0), LightSun.ShadowFaces())
	assert.False(t, LightKind(9).Valid())
	assert.Equal(t, uint32(0), LightKind(9).ShadowFaces())
}

func TestLightCone(t *testing.T) {
	l := Light{InnerAngle: 0.5, OuterAngle: 0.2}
	inner, outer := l.ConeAngles()
	assert.Equal(t, float32(0.2), inner)
	assert.Equal(t, float32(0.5), outer)

	l.UpdateConeCosines()
	ci, co := l.ConeCosines()
	assert.Greater(t, ci, co)
	assert.InDelta(t, math.Cos(0.2), ci, 1e-6)

	l.CosInner, l.CosOuter = l.CosOuter, l.CosInner
	ci2, co2 := l.ConeCosines()
	assert.Equal(t, ci, ci2)
	assert.Equal(t, co, co2)
}

func TestDummyLight(t *testing.T) {
	d := DummyLight()
	assert.Equal(t, LightPoint, d.Kind)
	assert.Equal(t, float32(10), d.Range)
	assert.Equal(t, float32(10), d.Radius)
	assert.Equal(t, float32(1000), d.Intensity)
	assert.False(t, d.HasShadow())

	d.ShadowMapID = 0
	assert.False(t, d.HasShadow(), "one sentinel disables shadows")
	d.ShadowMatBase = 0
	assert.True(t, d.HasShadow())
}

func TestMaterialSanitized(t *testing.T) {
	m := MaterialSample{
		BaseColor: mgl32.Vec3{2, -1, 0.5},
		Roughness: 0,
		Metallic:  3,
		Alpha:     -1,
	}.Sanitized()
	assert.Equal(t, mgl32.Vec3{1, 0, 0.5}, m.BaseColor)
	assert.Equal(t, MinRoughness, m.Roughness)
	assert.Equal(t, float32(1), m.Metallic)
	assert.Equal(t, float32(0), m.Alpha)

	m.Roughness = float32(math.NaN())
	assert.Equal(t, MaxRoughness, m.Sanitized().Roughness)
}

func TestSurfacePoint(t *testing.T) {
	s := NewSurfacePoint(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 2, 0}, mgl32.Vec3{1, 5, 0})
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, s.Normal)
	assert.True(t, closeEnough(s.View, mgl32.Vec3{0, 1, 0}, 1e-6))

	// camera at the surface falls back to the normal
	s = NewSurfacePoint(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, s.View)
}

func TestCameraUnprojectRoundTrip(t *testing.T) {
	cam := NewLookAtCamera(mgl32.Vec3{0, 2, 5}, mgl32.Vec3{}, mgl32.DegToRad(60), 1.5, 0.1, 100)
	points := []mgl32.Vec3{{0, 0, 0}, {1, 0.5, -2}, {-3, 1, 1}}
	for _, p := range points {
		clip := cam.ViewProjection.Mul4x1(p.Vec4(1))
		ndc := clip.Vec3().Mul(1 / clip.W())
		u := ndc.X()*0.5 + 0.5
		v := 0.5 - ndc.Y()*0.5
		depth := cam.ProjectDepth(p)
		require.True(t, depth > 0 && depth < 1)
		got := cam.Unproject(u, v, depth)
		if !closeEnough(got, p, 5e-3) {
			t.Errorf("unproject(%v) = %v", p, got)
		}
		assert.InDelta(t, p.Sub(cam.Position).Dot(viewForward(cam)), cam.LinearDepth(depth), 1e-2)
	}
}

func viewForward(c *Camera) mgl32.Vec3 {
	// third row of the view matrix is -forward
	return mgl32.Vec3{-c.View.At(2, 0), -c.View.At(2, 1), -c.View.At(2, 2)}
}

func TestSkyDirectionPrecedence(t *testing.T) {
	p := DefaultSkyParams()
	byAngles := p.ResolvedSunDirection()
	assert.InDelta(t, math.Sin(float64(mgl32.DegToRad(35))), byAngles.Y(), 1e-5)

	p.SunDirection = mgl32.Vec3{0, 0, 2}
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, p.ResolvedSunDirection())

	p.SunDirection = mgl32.Vec3{1e-6, 0, 0}
	assert.Equal(t, byAngles, p.ResolvedSunDirection())
}

func TestSkyAnglesRoundTrip(t *testing.T) {
	dir := mgl32.Vec3{0.3, 0.6, -0.5}.Normalize()
	p := SkyFromSunDirection(dir)
	assert.True(t, closeEnough(SunDirectionFromAngles(p.SunElevation, p.SunRotation), dir, 1e-5))
	assert.Equal(t, float32(0.15), p.Aerosols)
}

func TestSkyClamped(t *testing.T) {
	p := SkyParams{SunElevation: -3, Altitude: -9000, AirDensity: -1, SunIntensity: -2}.Clamped()
	assert.InDelta(t, -1.5533, p.SunElevation, 1e-6)
	assert.Equal(t, float32(-5000), p.Altitude)
	assert.Equal(t, float32(0), p.AirDensity)
	assert.Equal(t, float32(0), p.SunIntensity)
}

func TestSyncFromSunLight(t *testing.T) {
	l := Light{Kind: LightSun, Direction: mgl32.Vec3{0, -1, -1}, Intensity: 4}
	p := DefaultSkyParams()
	p.SyncFromSunLight(&l)
	assert.True(t, closeEnough(p.ResolvedSunDirection(), mgl32.Vec3{0, 1, 1}.Normalize(), 1e-5))
	assert.Equal(t, float32(4), p.SunIntensity)
	assert.Equal(t, float32(4), p.SunStrength)
	assert.InDelta(t, math.Pi/4, p.SunElevation, 1e-5)
}
