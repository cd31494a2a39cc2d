package shadow

import (
	"math"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	Near       = 0.05
	DefaultFar = 100
	minFovY    = 0.0175
	maxFovY    = 3.12
)

var (
	faceDirs = [6]mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	faceUps  = [6]mgl32.Vec3{{0, -1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}, {0, -1, 0}, {0, -1, 0}}
)

func far(l *core.Light) float32 {
	if l.Range <= 0 {
		return DefaultFar
	}
	return max(l.Range, Near+0.01)
}

// SpotFovY is twice the outer cone angle, kept inside a valid perspective.
func SpotFovY(l *core.Light) float32 {
	_, outer := l.ConeAngles()
	return mgl32.Clamp(2*outer, minFovY, maxFovY)
}

// SpotShadowMatrix is the view-projection of a spot light's shadow camera;
// its field of view covers the outer cone.
func SpotShadowMatrix(l *core.Light) mgl32.Mat4 {
	proj := mgl32.Perspective(SpotFovY(l), 1, Near, far(l))

	dir := l.Dir()
	up := core.SafeNormalize(l.Up, mgl32.Vec3{0, 1, 0})
	if float32(math.Abs(float64(dir.Dot(up)))) > 0.999 {
		up = mgl32.Vec3{1, 0, 0}
		if math.Abs(float64(dir.Dot(up))) > 0.999 {
			up = mgl32.Vec3{0, 0, 1}
		}
	}
	view := mgl32.LookAtV(l.Position, l.Position.Add(dir), up)
	return proj.Mul4(view)
}

// PointShadowMatrix is the 90° view-projection of one cube face.
func PointShadowMatrix(l *core.Light, face uint32) mgl32.Mat4 {
	i := min(face, 5)
	proj := mgl32.Perspective(math.Pi/2, 1, Near, far(l))
	view := mgl32.LookAtV(l.Position, l.Position.Add(faceDirs[i]), faceUps[i])
	return proj.Mul4(view)
}

// LightMatrices returns the transforms a light occupies in the atlas
// transform array, in face order.
func LightMatrices(l *core.Light) []mgl32.Mat4 {
	switch l.Kind {
	case core.LightSpot:
		return []mgl32.Mat4{SpotShadowMatrix(l)}
	case core.LightPoint:
		out := make([]mgl32.Mat4, 6)
		for f := range out {
			out[f] = PointShadowMatrix(l, uint32(f))
		}
		return out
	}
	return nil
}

// PointMatrices builds face transforms on the fly.
func PointMatrices(l *core.Light) MatrixSource {
	return func(face uint32) (mgl32.Mat4, bool) {
		if face > 5 {
			return mgl32.Mat4{}, false
		}
		return PointShadowMatrix(l, face), true
	}
}
