package lighting

import (
	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// Column-major sRGB to ACES AP1 (RRT saturation folded in) and back.
var (
	acesInput = mgl32.Mat3{
		0.59719, 0.07600, 0.02840,
		0.35458, 0.90834, 0.13383,
		0.04823, 0.01566, 0.83777,
	}
	acesOutput = mgl32.Mat3{
		1.60475, -0.10208, -0.00327,
		-0.53108, 1.10813, -0.07276,
		-0.07367, -0.00605, 1.07602,
	}
)

// rrtAndODTFit saturates well below 1e4; larger inputs are clamped so the
// squares stay finite.
func rrtAndODTFit(v float32) float32 {
	v = min(v, 1e4)
	a := v*(v+0.0245786) - 0.000090537
	b := v*(0.983729*v+0.4329510) + 0.238081
	return a / max(b, core.Epsilon)
}

// ToneMapACES is the fitted ACES filmic curve. The result is always in
// [0,1]³; non-finite channels map to 0.
func ToneMapACES(c mgl32.Vec3) mgl32.Vec3 {
	v := acesInput.Mul3x1(c)
	v = mgl32.Vec3{rrtAndODTFit(v[0]), rrtAndODTFit(v[1]), rrtAndODTFit(v[2])}
	return core.SaturateVec(acesOutput.Mul3x1(v))
}
