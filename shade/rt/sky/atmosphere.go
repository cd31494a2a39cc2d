// Package sky approximates single-scattering Rayleigh/Mie atmosphere for
// sun transmittance, sky radiance and the sun disk.
package sky

import (
	"math"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	rayleighScaleHeight = 8000.0 // m
	mieScaleHeight      = 1200.0 // m
	rayleighHeightKm    = rayleighScaleHeight / 1000

	mieCoupling  = 0.02
	scatterGain  = 5
	multiScatter = 0.06
)

var (
	// Sea-level Rayleigh scattering per km for ~680/550/440 nm.
	betaRayleigh = mgl32.Vec3{5.802e-3, 13.558e-3, 33.1e-3}
	betaMie      = float32(21e-3)
)

// Atmosphere is the result of one view/sun evaluation.
type Atmosphere struct {
	ViewTransmittance mgl32.Vec3
	SunTransmittance  mgl32.Vec3
	SkyRadiance       mgl32.Vec3
	SunColor          mgl32.Vec3 // sun intensity after sun transmittance
	Haze              float32    // [0,1]
}

type media struct {
	rayleigh   mgl32.Vec3
	mie        float32
	extinction mgl32.Vec3
	haze       float32
}

func newMedia(p core.SkyParams) media {
	rd := float32(math.Exp(float64(-p.Altitude/rayleighScaleHeight))) * p.AirDensity
	md := float32(math.Exp(float64(-p.Altitude/mieScaleHeight)))*p.Aerosols + mieCoupling*rd*p.Aerosols

	m := media{
		rayleigh: betaRayleigh.Mul(rd),
		mie:      betaMie * md * (mieScaleHeight / rayleighScaleHeight),
		haze:     core.Saturate(md * 2),
	}
	m.extinction = m.rayleigh.Add(core.Splat(m.mie)).Add(core.Splat(1e-6))
	return m
}

// AirMass is the Kasten-Young relative optical air mass for a direction whose
// y component is the sine of its elevation. Directions below the horizon use
// the horizon value.
func AirMass(cosZenith float32) float32 {
	c := mgl32.Clamp(cosZenith, 0, 1)
	zenithDeg := float64(core.Acos(c)) * 180 / math.Pi
	den := float64(c) + 0.50572*math.Pow(96.07995-zenithDeg, -1.6364)
	return float32(1 / math.Max(den, 1e-4))
}

// PathLength approximates the optical path in km along dir.
func PathLength(dir mgl32.Vec3) float32 {
	return AirMass(dir.Y()) * rayleighHeightKm
}

func transmittance(ext mgl32.Vec3, path float32) mgl32.Vec3 {
	return core.ExpVec(ext.Mul(-path))
}

func PhaseRayleigh(mu float32) float32 {
	return 3 / (16 * math.Pi) * (1 + mu*mu)
}

// PhaseHG is the Henyey-Greenstein phase function with asymmetry g.
func PhaseHG(mu, g float32) float32 {
	g2 := g * g
	den := max(1+g2-2*g*mu, core.Epsilon)
	return (1 - g2) / (4 * math.Pi * core.Pow(den, 1.5))
}

// Evaluate scatters sunlight into view. view and sun are directions away from
// the observer; both are re-normalized.
func Evaluate(view, sun mgl32.Vec3, p core.SkyParams) Atmosphere {
	p = p.Clamped()
	v := core.SafeNormalize(view, mgl32.Vec3{0, 1, 0})
	s := core.SafeNormalize(sun, mgl32.Vec3{0, 1, 0})
	m := newMedia(p)

	tView := transmittance(m.extinction, PathLength(v))
	tSun := transmittance(m.extinction, PathLength(s))

	mu := v.Dot(s)
	g := core.Mix(0.76, 0.92, m.haze)
	phaseR := PhaseRayleigh(mu)
	phaseM := PhaseHG(mu, g)

	sunColor := tSun.Mul(p.SunIntensity)
	sunUp := core.Smoothstep(-0.1, 0.05, s.Y())
	sunLight := sunColor.Mul(sunUp)

	scatter := m.rayleigh.Mul(phaseR).Add(core.Splat(m.mie * phaseM))
	inScatter := core.DivVec(core.MulVec(scatter, core.Splat(1).Sub(tView)), m.extinction)
	single := core.MulVec(sunLight.Mul(scatterGain), inScatter)

	ambientTint := core.DivVec(m.rayleigh, core.Splat(max(m.rayleigh[2], core.Epsilon)))
	multi := core.MulVec(sunLight, core.MulVec(ambientTint, core.Splat(1).Sub(tView))).Mul(multiScatter)

	radiance := single.Add(multi)

	groundHaze := m.haze * (1 - core.Smoothstep(0, 0.35, v.Y())) * 0.6
	radiance = core.MixVec(radiance, core.Splat(core.Luma(radiance)), groundHaze)

	radiance = radiance.Mul(core.Smoothstep(-0.08, 0.02, v.Y()))

	return Atmosphere{
		ViewTransmittance: tView,
		SunTransmittance:  tSun,
		SkyRadiance:       radiance,
		SunColor:          sunColor,
		Haze:              m.haze,
	}
}

// SunTransmittance is the transmittance toward the sun alone.
func SunTransmittance(sun mgl32.Vec3, p core.SkyParams) mgl32.Vec3 {
	m := newMedia(p.Clamped())
	return transmittance(m.extinction, PathLength(core.SafeNormalize(sun, mgl32.Vec3{0, 1, 0})))
}
