package lighting

import (
	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/gekko3d/lumen/shade/rt/sky"
	"github.com/go-gl/mathgl/mgl32"
)

// Environment supplies prefiltered ambient lighting.
type Environment interface {
	// Irradiance is the cosine-convolved radiance around n.
	Irradiance(n mgl32.Vec3) mgl32.Vec3
	// Radiance is the environment prefiltered for a GGX lobe of roughness
	// around dir.
	Radiance(dir mgl32.Vec3, roughness float32) mgl32.Vec3
}

// UniformEnvironment is a constant-colour environment.
type UniformEnvironment struct {
	Color mgl32.Vec3
}

func (u UniformEnvironment) Irradiance(mgl32.Vec3) mgl32.Vec3 { return u.Color }

func (u UniformEnvironment) Radiance(mgl32.Vec3, float32) mgl32.Vec3 { return u.Color }

// SkyEnvironment derives ambient lighting from the procedural atmosphere.
// The sun disk is left out; direct sun comes from the light list.
type SkyEnvironment struct {
	Params core.SkyParams
	Scale  float32
}

func NewSkyEnvironment(p core.SkyParams) *SkyEnvironment {
	return &SkyEnvironment{Params: p.Clamped(), Scale: 1}
}

// minSkyElevation keeps lookups above the horizon fade.
const minSkyElevation = 0.05

func (s *SkyEnvironment) sample(dir mgl32.Vec3) mgl32.Vec3 {
	d := core.SafeNormalize(dir, mgl32.Vec3{0, 1, 0})
	d = core.SafeNormalize(mgl32.Vec3{d[0], max(d[1], minSkyElevation), d[2]}, mgl32.Vec3{0, 1, 0})
	atm := sky.Evaluate(d, s.Params.ResolvedSunDirection(), s.Params)
	return atm.SkyRadiance.Mul(s.Scale)
}

func (s *SkyEnvironment) Irradiance(n mgl32.Vec3) mgl32.Vec3 {
	// zenith and normal lookups stand in for the hemisphere integral
	up := s.sample(mgl32.Vec3{0, 1, 0})
	return core.MixVec(up, s.sample(n), 0.5)
}

func (s *SkyEnvironment) Radiance(dir mgl32.Vec3, roughness float32) mgl32.Vec3 {
	return core.MixVec(s.sample(dir), s.Irradiance(dir), core.Saturate(roughness))
}
