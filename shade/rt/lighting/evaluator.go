package lighting

import (
	"github.com/gekko3d/lumen/shade/rt/brdf"
	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/gekko3d/lumen/shade/rt/gbuffer"
	"github.com/gekko3d/lumen/shade/rt/shadow"
	"github.com/gekko3d/lumen/shade/rt/sky"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is the immutable per-frame input shared by every sample.
type Frame struct {
	Camera      *core.Camera
	Lights      []core.Light
	Atlas       *shadow.Atlas
	Sky         core.SkyParams
	Environment Environment
	Bias        *shadow.Bias // nil selects shadow.DefaultBias
}

func (f *Frame) bias() shadow.Bias {
	if f.Bias != nil {
		return *f.Bias
	}
	return shadow.DefaultBias()
}

// ActiveLights is the evaluated prefix of the light list.
func (f *Frame) ActiveLights() []core.Light {
	if len(f.Lights) > core.MaxLights {
		return f.Lights[:core.MaxLights]
	}
	return f.Lights
}

// Output is what one sample writes to the output targets.
type Output struct {
	Color    mgl32.Vec4
	Normal   mgl32.Vec2
	Material mgl32.Vec4
}

// Evaluator shades samples of one frame. It is safe for concurrent use.
type Evaluator struct {
	frame    *Frame
	strategy Strategy
	sky      core.SkyParams
	toSun    mgl32.Vec3
	skySun   mgl32.Vec3 // sun transmittance along toSun, zero outside procedural mode
}

func NewEvaluator(f *Frame, q Quality) *Evaluator {
	return NewEvaluatorWithStrategy(f, q.Strategy())
}

func NewEvaluatorWithStrategy(f *Frame, s Strategy) *Evaluator {
	e := &Evaluator{frame: f, strategy: s, sky: f.Sky.Clamped()}
	e.toSun = e.sky.ResolvedSunDirection()
	for i := range f.ActiveLights() {
		if f.Lights[i].Kind == core.LightSun {
			e.toSun = f.Lights[i].Dir().Mul(-1)
			break
		}
	}
	if e.sky.Mode == core.SkyProcedural {
		e.skySun = sky.SunTransmittance(e.toSun, e.sky)
	}
	return e
}

func (e *Evaluator) Frame() *Frame { return e.frame }

// Direct sums the contribution of every active light. sunLit reports whether
// any sun light passed its N·L test.
func (e *Evaluator) Direct(s core.SurfacePoint, m core.MaterialSample) (radiance mgl32.Vec3, sunLit bool) {
	lights := e.frame.ActiveLights()
	for i := range lights {
		l := &lights[i]
		switch l.Kind {
		case core.LightPoint:
			radiance = radiance.Add(e.point(l, s, m))
		case core.LightSpot:
			radiance = radiance.Add(e.spot(l, s, m))
		case core.LightSun:
			c, ok := e.sun(l, s, m)
			radiance = radiance.Add(c)
			sunLit = sunLit || ok
		}
	}
	return radiance, sunLit
}

func (e *Evaluator) point(l *core.Light, s core.SurfacePoint, m core.MaterialSample) mgl32.Vec3 {
	toLight := l.Position.Sub(s.Position)
	d2 := toLight.LenSqr()
	if l.Range > 0 && d2 >= l.Range*l.Range {
		return mgl32.Vec3{}
	}
	att := e.strategy.Attenuation(l, d2)
	if att <= 0 {
		return mgl32.Vec3{}
	}
	dir := core.SafeNormalize(toLight, s.Normal)
	nDotL := s.Normal.Dot(dir)
	if nDotL <= 0 {
		return mgl32.Vec3{}
	}
	vis := float32(1)
	if m.CastShadows {
		vis = e.strategy.PointVisibility(e.frame, l, s.Position, s.Normal, nDotL)
	}
	return e.reflect(s, dir, m, l, att*vis)
}

func (e *Evaluator) spot(l *core.Light, s core.SurfacePoint, m core.MaterialSample) mgl32.Vec3 {
	toLight := l.Position.Sub(s.Position)
	d2 := toLight.LenSqr()
	if l.Range > 0 && d2 >= l.Range*l.Range {
		return mgl32.Vec3{}
	}
	att := e.strategy.Attenuation(l, d2)
	if att <= 0 {
		return mgl32.Vec3{}
	}
	dir := core.SafeNormalize(toLight, s.Normal)
	nDotL := s.Normal.Dot(dir)
	if nDotL <= 0 {
		return mgl32.Vec3{}
	}
	cone := e.strategy.Cone(l, dir.Mul(-1).Dot(l.Dir()))
	if cone <= 0 {
		return mgl32.Vec3{}
	}
	vis := float32(1)
	if m.CastShadows {
		vis = e.strategy.SpotVisibility(e.frame, l, s.Position, s.Normal, nDotL)
	}
	return e.reflect(s, dir, m, l, att*cone*vis)
}

func (e *Evaluator) sun(l *core.Light, s core.SurfacePoint, m core.MaterialSample) (mgl32.Vec3, bool) {
	dir := l.Dir().Mul(-1)
	nDotL := s.Normal.Dot(dir)
	if nDotL <= 0 {
		return mgl32.Vec3{}, false
	}
	vis := float32(1)
	if m.CastShadows {
		vis = e.strategy.SunVisibility(e.frame, l, s.Position, s.Normal, nDotL)
	}
	return e.reflect(s, dir, m, l, vis), true
}

func (e *Evaluator) reflect(s core.SurfacePoint, dir mgl32.Vec3, m core.MaterialSample, l *core.Light, scale float32) mgl32.Vec3 {
	f := brdf.Evaluate(s.Normal, s.View, dir, m.BaseColor, m.Metallic, m.Roughness)
	return core.MulVec(f, l.Color).Mul(l.Intensity * scale)
}

// Ambient is the split-sum image-based term from the frame environment.
func (e *Evaluator) Ambient(s core.SurfacePoint, m core.MaterialSample) mgl32.Vec3 {
	env := e.frame.Environment
	if env == nil {
		return mgl32.Vec3{}
	}
	nDotV := core.Saturate(s.Normal.Dot(s.View))
	f0 := brdf.F0(m.BaseColor, m.Metallic)
	f := brdf.FresnelSchlickRoughness(f0, nDotV, m.Roughness)
	kd := core.Splat(1).Sub(f).Mul(1 - m.Metallic)

	diffuse := core.MulVec(core.MulVec(kd, m.BaseColor), env.Irradiance(s.Normal))

	r := brdf.Reflect(s.View.Mul(-1), s.Normal)
	scale, bias := brdf.EnvironmentBRDF(nDotV, m.Roughness)
	specular := core.MulVec(env.Radiance(r, m.Roughness), f0.Mul(scale).Add(core.Splat(bias)))

	return diffuse.Add(specular)
}

// SkySun is the sky light reaching the surface along its normal, tinted by
// the sun transmittance. It is zero outside procedural sky mode.
func (e *Evaluator) SkySun(s core.SurfacePoint, m core.MaterialSample) mgl32.Vec3 {
	if e.sky.Mode != core.SkyProcedural {
		return mgl32.Vec3{}
	}
	atm := sky.Evaluate(s.Normal, e.toSun, e.sky)
	diffuse := m.BaseColor.Mul(1 - m.Metallic)
	return core.MulVec(core.MulVec(atm.SkyRadiance, e.skySun), diffuse)
}

// Shade runs the full per-sample pipeline.
func (e *Evaluator) Shade(s core.SurfacePoint, m core.MaterialSample) Output {
	m = m.Sanitized()
	out := Output{
		Normal:   gbuffer.EncodeOctahedral(s.Normal),
		Material: gbuffer.EncodeMaterial(m),
	}
	switch {
	case m.GrayscaleDiffuse:
		r := m.BaseColor[0]
		out.Color = mgl32.Vec4{r, r, r, m.BaseColor[1]}
	case !m.Lit:
		out.Color = m.BaseColor.Vec4(m.Alpha)
	default:
		c, sunLit := e.Direct(s, m)
		if !sunLit || e.strategy.AmbientWithSun() {
			c = c.Add(e.Ambient(s, m))
		}
		c = c.Add(e.SkySun(s, m))
		out.Color = ToneMapACES(c).Vec4(m.Alpha)
	}
	return out
}

// Background is the tone-mapped colour of a pixel with no geometry.
func (e *Evaluator) Background(view mgl32.Vec3) mgl32.Vec4 {
	var c mgl32.Vec3
	switch {
	case e.sky.Mode == core.SkyProcedural:
		c = sky.Background(view, e.sky)
	case e.frame.Environment != nil:
		c = e.frame.Environment.Radiance(view, 0)
	}
	return ToneMapACES(c).Vec4(1)
}
