// Package lighting accumulates direct, ambient and sky lighting for one
// surface sample and tone-maps the result.
package lighting

import (
	"github.com/gekko3d/lumen/shade/rt/core"
)

// Attenuation is the inverse-square falloff from a squared distance, floored
// at the light radius and windowed to reach exactly zero at range. A range
// <= 0 means no cutoff.
func Attenuation(d2, rng, radius float32) float32 {
	inv := 1 / max(d2, radius*radius, core.Epsilon)
	if rng <= 0 {
		return inv
	}
	r2 := rng * rng
	if d2 >= r2 {
		return 0
	}
	x := core.Saturate(d2 / max(r2, core.Epsilon))
	w := 1 - x*x
	return inv * w * w
}

// AttenuationPrecise is Attenuation computed from the linear distance.
func AttenuationPrecise(d, rng, radius float32) float32 {
	floor := max(d, radius, 0)
	inv := 1 / max(floor*floor, core.Epsilon)
	if rng <= 0 {
		return inv
	}
	if d >= rng {
		return 0
	}
	ratio := d / max(rng, core.Epsilon)
	r2 := ratio * ratio
	w := 1 - core.Saturate(r2*r2)
	return inv * w * w
}

// Cone is the spot falloff between the outer and inner cone cosines.
func Cone(cosTheta, cosOuter, cosInner float32) float32 {
	return core.Smoothstep(cosOuter, cosInner, cosTheta)
}
