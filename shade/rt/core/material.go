package core

import "github.com/go-gl/mathgl/mgl32"

const (
	MinRoughness float32 = 0.045
	MaxRoughness float32 = 1.0
)

// MaterialSample is the per-surface material computed by the material stage.
type MaterialSample struct {
	BaseColor mgl32.Vec3
	Roughness float32
	Metallic  float32
	Alpha     float32

	Lit              bool
	CastShadows      bool
	GrayscaleDiffuse bool
}

func NewMaterialSample(base mgl32.Vec3, roughness, metallic float32) MaterialSample {
	return MaterialSample{
		BaseColor:   base,
		Roughness:   roughness,
		Metallic:    metallic,
		Alpha:       1,
		Lit:         true,
		CastShadows: true,
	}
}

// DefaultMaterialSample is a lit, shadowed, mid-rough white dielectric.
func DefaultMaterialSample() MaterialSample {
	return NewMaterialSample(mgl32.Vec3{1, 1, 1}, 0.5, 0)
}

// Sanitized returns the sample with base color saturated, roughness clamped
// away from the GGX singularity and metallic/alpha clamped to [0,1].
func (m MaterialSample) Sanitized() MaterialSample {
	out := m
	out.BaseColor = SaturateVec(m.BaseColor)
	out.Roughness = mgl32.Clamp(m.Roughness, MinRoughness, MaxRoughness)
	if m.Roughness != m.Roughness {
		out.Roughness = MaxRoughness
	}
	out.Metallic = Saturate(m.Metallic)
	out.Alpha = Saturate(m.Alpha)
	return out
}
