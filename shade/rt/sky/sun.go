package sky

import (
	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	sunAngularRadius = 0.0093 // rad
	diskGain         = 40
)

// SunDisk is the additive radiance of the sun disk and its two halo bands as
// seen along view. It is zero with the sun below the horizon or a
// non-positive strength/intensity.
func SunDisk(view, sun mgl32.Vec3, p core.SkyParams, atm Atmosphere) mgl32.Vec3 {
	p = p.Clamped()
	s := core.SafeNormalize(sun, mgl32.Vec3{0, 1, 0})
	if s.Y() <= 0 || p.SunStrength <= 0 || p.SunIntensity <= 0 {
		return mgl32.Vec3{}
	}
	v := core.SafeNormalize(view, mgl32.Vec3{0, 1, 0})
	angle := core.Acos(v.Dot(s))

	disk := 1 - core.Smoothstep(sunAngularRadius*0.8, sunAngularRadius, angle)

	haze := atm.Haze
	tightWidth := core.Mix(0.035, 0.09, haze)
	wideWidth := core.Mix(0.25, 0.6, haze)
	tight := 1 - core.Smoothstep(0, tightWidth, angle)
	wide := 1 - core.Smoothstep(0, wideWidth, angle)
	tightGain := core.Mix(0.8, 1.6, haze)
	wideGain := core.Mix(0.06, 0.22, haze)

	band := disk*diskGain + tight*tight*tightGain + wide*wide*wideGain
	return atm.SunColor.Mul(band * p.SunStrength)
}

// Background is the sky seen along view with the sun disk added.
func Background(view mgl32.Vec3, p core.SkyParams) mgl32.Vec3 {
	sun := p.ResolvedSunDirection()
	atm := Evaluate(view, sun, p)
	return atm.SkyRadiance.Add(SunDisk(view, sun, p, atm))
}
