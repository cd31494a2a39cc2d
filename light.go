package lumen

import (
	"math"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

type LightType uint32

const (
	LightTypePoint LightType = 0
	LightTypeSun   LightType = 1
	LightTypeSpot  LightType = 2
)

func (t LightType) Kind() core.LightKind { return core.LightKind(t) }

func (t LightType) String() string { return t.Kind().String() }

const (
	minConeDegrees = 1.1920929e-07 // float32 epsilon
	maxConeDegrees = 45 - minConeDegrees
)

// LightComponent is the authoring form of a light. Angles are stored in
// radians; setters take degrees.
type LightComponent struct {
	Type        LightType  `json:"type"`
	Position    mgl32.Vec3 `json:"position"`
	Direction   mgl32.Vec3 `json:"direction"`
	Up          mgl32.Vec3 `json:"up"`
	Color       [3]float32 `json:"color"` // RGB
	Intensity   float32    `json:"intensity"`
	Range       float32    `json:"range"`  // point/spot, 0 = infinite
	Radius      float32    `json:"radius"` // soft minimum distance
	InnerAngle  float32    `json:"inner_angle"`
	OuterAngle  float32    `json:"outer_angle"`
	CastShadows bool       `json:"cast_shadows"`

	// Angle tweening toward targets at a rate per second.
	TweenEnabled     bool    `json:"-"`
	TargetInnerAngle float32 `json:"-"`
	TargetOuterAngle float32 `json:"-"`
	InnerRate        float32 `json:"-"`
	OuterRate        float32 `json:"-"`

	dirty bool
}

// NewLightComponent returns a light with the per-type defaults on top of the
// placeholder light.
func NewLightComponent(t LightType) LightComponent {
	d := core.DummyLight()
	c := LightComponent{
		Type:        t,
		Direction:   d.Direction,
		Up:          d.Up,
		Color:       [3]float32{d.Color[0], d.Color[1], d.Color[2]},
		Intensity:   d.Intensity,
		Range:       d.Range,
		Radius:      d.Radius,
		InnerAngle:  1,
		OuterAngle:  1,
		CastShadows: true,
		InnerRate:   1,
		OuterRate:   1,
		dirty:       true,
	}
	switch t {
	case LightTypeSun:
		c.Intensity = 1
		c.Color = [3]float32{1, 0.95, 0.72}
	case LightTypeSpot:
		c.InnerAngle = mgl32.DegToRad(5)
		c.OuterAngle = mgl32.DegToRad(30)
		c.Range = 100
	}
	c.TargetInnerAngle = c.InnerAngle
	c.TargetOuterAngle = c.OuterAngle
	return c
}

func NewPointLight() LightComponent { return NewLightComponent(LightTypePoint) }
func NewSpotLight() LightComponent  { return NewLightComponent(LightTypeSpot) }
func NewSunLight() LightComponent   { return NewLightComponent(LightTypeSun) }

func (c *LightComponent) SetRange(r float32) {
	c.Range = max(r, 0)
	c.dirty = true
}

func (c *LightComponent) SetIntensity(i float32) {
	c.Intensity = max(i, 0)
	c.dirty = true
}

func (c *LightComponent) SetColor(r, g, b float32) {
	c.Color = [3]float32{mgl32.Clamp(r, 0, 1), mgl32.Clamp(g, 0, 1), mgl32.Clamp(b, 0, 1)}
	c.dirty = true
}

func (c *LightComponent) SetColorVec(v mgl32.Vec3) {
	c.SetColor(v[0], v[1], v[2])
}

func coneRadians(deg float32) float32 {
	return mgl32.DegToRad(mgl32.Clamp(deg, minConeDegrees, maxConeDegrees))
}

func (c *LightComponent) SetInnerAngle(deg float32) {
	c.InnerAngle = coneRadians(deg)
	c.TargetInnerAngle = c.InnerAngle
	c.dirty = true
}

func (c *LightComponent) SetOuterAngle(deg float32) {
	c.OuterAngle = coneRadians(deg)
	c.TargetOuterAngle = c.OuterAngle
	c.dirty = true
}

func (c *LightComponent) SetInnerAngleTarget(deg float32) {
	c.TargetInnerAngle = coneRadians(deg)
}

func (c *LightComponent) SetOuterAngleTarget(deg float32) {
	c.TargetOuterAngle = coneRadians(deg)
}

// SetPose places the light. Direction and up are normalized.
func (c *LightComponent) SetPose(position, direction, up mgl32.Vec3) {
	c.Position = position
	c.Direction = core.SafeNormalize(direction, mgl32.Vec3{0, -1, 0})
	c.Up = core.SafeNormalize(up, mgl32.Vec3{0, 1, 0})
	c.dirty = true
}

// Tick advances angle tweening by dt seconds.
func (c *LightComponent) Tick(dt float32) {
	if !c.TweenEnabled {
		return
	}
	c.InnerAngle = core.Mix(c.InnerAngle, c.TargetInnerAngle, core.Saturate(c.InnerRate*dt))
	c.OuterAngle = core.Mix(c.OuterAngle, c.TargetOuterAngle, core.Saturate(c.OuterRate*dt))
	c.dirty = true
}

func (c *LightComponent) Dirty() bool { return c.dirty }

func (c *LightComponent) ClearDirty() { c.dirty = false }

// ToLight builds the kernel record. Shadow indices are left as sentinels;
// LightManager.AssignShadowLayers fills them.
func (c *LightComponent) ToLight() core.Light {
	inner := min(c.InnerAngle, c.OuterAngle)
	outer := max(c.InnerAngle, c.OuterAngle)
	return core.Light{
		Kind:          c.Type.Kind(),
		Position:      c.Position,
		Direction:     core.SafeNormalize(c.Direction, mgl32.Vec3{0, -1, 0}),
		Up:            core.SafeNormalize(c.Up, mgl32.Vec3{0, 1, 0}),
		Color:         mgl32.Vec3{c.Color[0], c.Color[1], c.Color[2]},
		Intensity:     c.Intensity,
		Range:         c.Range,
		Radius:        c.Radius,
		InnerAngle:    c.InnerAngle,
		OuterAngle:    c.OuterAngle,
		CosInner:      float32(math.Cos(float64(inner))),
		CosOuter:      float32(math.Cos(float64(outer))),
		ShadowMapID:   core.NoShadow,
		ShadowMatBase: core.NoShadow,
	}
}
