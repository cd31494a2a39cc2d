package sky

import (
	"math"
	"testing"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

var zenith = mgl32.Vec3{0, 1, 0}

func TestAirMass(t *testing.T) {
	assert.InDelta(t, 1, AirMass(1), 1e-3)
	horizon := AirMass(0)
	assert.Greater(t, horizon, float32(30))
	assert.Less(t, horizon, float32(45))
	assert.Equal(t, horizon, AirMass(-0.5), "below the horizon clamps")

	prev := float32(0)
	for c := float32(1); c >= 0; c -= 0.05 {
		m := AirMass(c)
		assert.GreaterOrEqual(t, m, prev)
		prev = m
	}
}

func TestPhaseFunctions(t *testing.T) {
	// both phase functions integrate to 1 over the sphere
	const steps = 2000
	var r, m float64
	for i := 0; i < steps; i++ {
		theta := (float64(i) + 0.5) / steps * math.Pi
		mu := float32(math.Cos(theta))
		w := 2 * math.Pi * math.Sin(theta) * math.Pi / steps
		r += float64(PhaseRayleigh(mu)) * w
		m += float64(PhaseHG(mu, 0.76)) * w
	}
	assert.InDelta(t, 1, r, 1e-3)
	assert.InDelta(t, 1, m, 2e-2)
	assert.Greater(t, PhaseHG(1, 0.8), PhaseHG(-1, 0.8))
}

func TestSkyIsBlueAtNoon(t *testing.T) {
	p := core.DefaultSkyParams()
	sun := core.SunDirectionFromAngles(mgl32.DegToRad(60), 0)
	atm := Evaluate(mgl32.Vec3{0.5, 0.6, 0.4}, sun, p)
	c := atm.SkyRadiance
	assert.True(t, core.IsFinite(c))
	assert.Greater(t, c[2], c[0], "blue over red")
	assert.Greater(t, c[0], float32(0))
}

func TestSunsetReddens(t *testing.T) {
	p := core.DefaultSkyParams()
	low := SunTransmittance(mgl32.Vec3{1, 0.02, 0}, p)
	high := SunTransmittance(zenith, p)
	assert.Less(t, low[2]/max(low[0], 1e-9), high[2]/high[0])
	for i := 0; i < 3; i++ {
		assert.GreaterOrEqual(t, high[i], low[i])
		assert.LessOrEqual(t, high[i], float32(1))
	}
}

func TestBelowHorizonFades(t *testing.T) {
	p := core.DefaultSkyParams()
	atm := Evaluate(mgl32.Vec3{0, -1, 0}, zenith, p)
	assert.Equal(t, mgl32.Vec3{}, atm.SkyRadiance)
}

func TestEvaluateHandlesDegenerateInput(t *testing.T) {
	p := core.SkyParams{Altitude: -1e9, AirDensity: -1, Aerosols: -3, SunIntensity: 2}
	atm := Evaluate(mgl32.Vec3{}, mgl32.Vec3{}, p)
	assert.True(t, core.IsFinite(atm.ViewTransmittance))
	assert.True(t, core.IsFinite(atm.SkyRadiance))
	assert.True(t, core.IsFinite(atm.SunColor))
	assert.Equal(t, float32(0), atm.Haze)
}

func TestSunDisk(t *testing.T) {
	p := core.DefaultSkyParams()
	sun := p.ResolvedSunDirection()
	atm := Evaluate(sun, sun, p)

	center := SunDisk(sun, sun, p, atm)
	assert.Greater(t, center[0], float32(1))

	away := mgl32.Vec3{-sun[0], sun[1], -sun[2]}.Normalize()
	assert.Less(t, SunDisk(away, sun, p, Evaluate(away, sun, p))[0], center[0]*0.01)

	below := mgl32.Vec3{0, -0.3, -1}.Normalize()
	assert.Equal(t, mgl32.Vec3{}, SunDisk(below, below, p, Evaluate(below, below, p)))

	p.SunStrength = 0
	assert.Equal(t, mgl32.Vec3{}, SunDisk(sun, sun, p, atm))
}

func TestBackgroundIncludesSun(t *testing.T) {
	p := core.DefaultSkyParams()
	sun := p.ResolvedSunDirection()
	assert.Greater(t, Background(sun, p)[0], Background(zenith, p)[0])
}
