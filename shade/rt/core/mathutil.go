package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon guards every division in the kernel.
const Epsilon float32 = 1e-7

// Saturate clamps x to [0,1]. NaN maps to 0.
func Saturate(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func SaturateVec(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{Saturate(v[0]), Saturate(v[1]), Saturate(v[2])}
}

// Smoothstep is the Hermite step between edge0 and edge1. A degenerate band
// collapses to a hard step at edge1.
func Smoothstep(edge0, edge1, x float32) float32 {
	w := edge1 - edge0
	if w > -Epsilon && w < Epsilon {
		if x >= edge1 {
			return 1
		}
		return 0
	}
	t := Saturate((x - edge0) / w)
	return t * t * (3 - 2*t)
}

func Mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

func MixVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// MulVec is the component-wise product.
func MulVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func DivVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		a[0] / max(b[0], Epsilon),
		a[1] / max(b[1], Epsilon),
		a[2] / max(b[2], Epsilon),
	}
}

func ExpVec(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Exp(float64(v[0]))),
		float32(math.Exp(float64(v[1]))),
		float32(math.Exp(float64(v[2]))),
	}
}

func Splat(x float32) mgl32.Vec3 {
	return mgl32.Vec3{x, x, x}
}

// Luma uses Rec.709 weights.
func Luma(c mgl32.Vec3) float32 {
	return c.Dot(mgl32.Vec3{0.2126, 0.7152, 0.0722})
}

// SafeNormalize returns fallback for vectors too short to normalize.
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l2 := v.LenSqr()
	if !(l2 > 1e-12) || math.IsInf(float64(l2), 0) {
		return fallback
	}
	return v.Mul(1 / float32(math.Sqrt(float64(l2))))
}

func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(max(x, 0))))
}

func Pow(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

// Acos clamps its input to [-1,1] first.
func Acos(x float32) float32 {
	return float32(math.Acos(float64(mgl32.Clamp(x, -1, 1))))
}

// IsFinite reports whether every component is finite.
func IsFinite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}
