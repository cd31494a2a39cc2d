package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type SkyMode uint32

const (
	SkyCubemap    SkyMode = 0
	SkyProcedural SkyMode = 1
)

const maxSunElevation = 1.5533

// SkyParams parameterizes the procedural atmosphere.
type SkyParams struct {
	Mode SkyMode

	// SunDirection points toward the sun. When it is (near) zero the
	// direction is derived from SunElevation and SunRotation.
	SunDirection mgl32.Vec3
	SunElevation float32
	SunRotation  float32

	SunIntensity float32
	SunStrength  float32
	Altitude     float32 // meters
	AirDensity   float32
	Aerosols     float32
}

func DefaultSkyParams() SkyParams {
	return SkyParams{
		Mode:         SkyProcedural,
		SunIntensity: 1,
		SunStrength:  1,
		SunElevation: mgl32.DegToRad(35),
		AirDensity:   1,
		Aerosols:     0.15,
	}
}

func (p SkyParams) Clamped() SkyParams {
	out := p
	out.SunIntensity = max(p.SunIntensity, 0)
	out.SunStrength = max(p.SunStrength, 0)
	out.SunElevation = mgl32.Clamp(p.SunElevation, -maxSunElevation, maxSunElevation)
	out.Altitude = max(p.Altitude, -5000)
	out.AirDensity = max(p.AirDensity, 0)
	out.Aerosols = max(p.Aerosols, 0)
	return out
}

// ResolvedSunDirection is the unit direction toward the sun. The explicit
// vector wins over elevation/rotation.
func (p SkyParams) ResolvedSunDirection() mgl32.Vec3 {
	if p.SunDirection.LenSqr() > 1e-8 {
		return p.SunDirection.Normalize()
	}
	return SunDirectionFromAngles(p.SunElevation, p.SunRotation)
}

func SunDirectionFromAngles(elevation, rotation float32) mgl32.Vec3 {
	ce := float32(math.Cos(float64(elevation)))
	dir := mgl32.Vec3{
		ce * float32(math.Sin(float64(rotation))),
		float32(math.Sin(float64(elevation))),
		-ce * float32(math.Cos(float64(rotation))),
	}
	return SafeNormalize(dir, mgl32.Vec3{0, 1, 0})
}

// SkyFromSunDirection returns default params whose angles match dir.
func SkyFromSunDirection(dir mgl32.Vec3) SkyParams {
	out := DefaultSkyParams()
	out.setSun(dir)
	return out
}

// SyncFromSunLight aligns the sky with a sun light: the sun sits opposite the
// light's emission direction and takes its intensity.
func (p *SkyParams) SyncFromSunLight(light *Light) {
	p.setSun(light.Direction.Mul(-1))
	intensity := max(light.Intensity, 0)
	p.SunIntensity = intensity
	p.SunStrength = intensity
}

func (p *SkyParams) setSun(toSun mgl32.Vec3) {
	dir := SafeNormalize(toSun, mgl32.Vec3{0, 1, 0})
	p.SunDirection = dir
	p.SunElevation = float32(math.Asin(float64(mgl32.Clamp(dir.Y(), -1, 1))))
	p.SunRotation = float32(math.Atan2(float64(dir.X()), float64(-dir.Z())))
}
