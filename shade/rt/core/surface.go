package core

import "github.com/go-gl/mathgl/mgl32"

// SurfacePoint is a shading position with its normal and the direction
// toward the camera.
type SurfacePoint struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	View     mgl32.Vec3
}

func NewSurfacePoint(position, normal, cameraPos mgl32.Vec3) SurfacePoint {
	n := SafeNormalize(normal, mgl32.Vec3{0, 1, 0})
	return SurfacePoint{
		Position: position,
		Normal:   n,
		View:     SafeNormalize(cameraPos.Sub(position), n),
	}
}
