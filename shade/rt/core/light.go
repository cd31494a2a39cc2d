package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type LightKind uint32

const (
	LightPoint LightKind = 0
	LightSun   LightKind = 1
	LightSpot  LightKind = 2
)

func (k LightKind) String() string {
	switch k {
	case LightPoint:
		return "point"
	case LightSun:
		return "sun"
	case LightSpot:
		return "spot"
	}
	return "unknown"
}

func (k LightKind) Valid() bool {
	return k <= LightSpot
}

// ShadowFaces is the number of shadow layers (and transforms) a light of this
// kind occupies in the atlas.
func (k LightKind) ShadowFaces() uint32 {
	switch k {
	case LightPoint:
		return 6
	case LightSpot:
		return 1
	}
	return 0
}

// NoShadow marks an unassigned shadow layer or transform base.
const NoShadow uint32 = math.MaxUint32

// MaxLights caps the number of lights evaluated per surface sample.
const MaxLights = 64

// Light is the per-frame, read-only light record consumed by the kernel.
type Light struct {
	Kind      LightKind
	Position  mgl32.Vec3
	Direction mgl32.Vec3 // re-normalized on use
	Up        mgl32.Vec3 // shadow camera basis for spot/point
	Color     mgl32.Vec3 // linear RGB
	Intensity float32
	Range     float32 // 0 = infinite
	Radius    float32 // soft minimum distance

	// Angles may arrive swapped; consumers take min/max.
	InnerAngle float32
	OuterAngle float32
	CosInner   float32
	CosOuter   float32

	ShadowMapID   uint32
	ShadowMatBase uint32
}

// DummyLight is the placeholder proxy used when the light list is empty.
func DummyLight() Light {
	return Light{
		Kind:          LightPoint,
		Up:            mgl32.Vec3{0, 1, 0},
		Radius:        10,
		Direction:     mgl32.Vec3{0, -1, 0},
		Range:         10,
		Color:         mgl32.Vec3{1, 1, 1},
		Intensity:     1000,
		CosInner:      1,
		CosOuter:      1,
		ShadowMapID:   NoShadow,
		ShadowMatBase: NoShadow,
	}
}

// HasShadow is false when either shadow index is the sentinel.
func (l *Light) HasShadow() bool {
	return l.ShadowMapID != NoShadow && l.ShadowMatBase != NoShadow
}

// Dir is the normalized emission direction.
func (l *Light) Dir() mgl32.Vec3 {
	return SafeNormalize(l.Direction, mgl32.Vec3{0, -1, 0})
}

// ConeCosines orders the precomputed cosines so that outer <= inner.
func (l *Light) ConeCosines() (cosInner, cosOuter float32) {
	return max(l.CosInner, l.CosOuter), min(l.CosInner, l.CosOuter)
}

// ConeAngles orders the cone angles so that inner <= outer.
func (l *Light) ConeAngles() (inner, outer float32) {
	return min(l.InnerAngle, l.OuterAngle), max(l.InnerAngle, l.OuterAngle)
}

// UpdateConeCosines recomputes CosInner/CosOuter from the (possibly swapped)
// angles.
func (l *Light) UpdateConeCosines() {
	inner, outer := l.ConeAngles()
	l.CosInner = float32(math.Cos(float64(inner)))
	l.CosOuter = float32(math.Cos(float64(outer)))
}
