// Package shadow samples planar and cube shadow maps with percentage-closer
// filtering.
package shadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Layer is one square depth layer. Depth values are in [0,1], 1 = far.
type Layer struct {
	Size  int
	Depth []float32
}

func NewLayer(size int) *Layer {
	if size < 0 {
		size = 0
	}
	l := &Layer{Size: size, Depth: make([]float32, size*size)}
	l.Clear(1)
	return l
}

func (l *Layer) Clear(depth float32) {
	for i := range l.Depth {
		l.Depth[i] = depth
	}
}

// At reads with clamp-to-edge addressing.
func (l *Layer) At(x, y int) float32 {
	if l.Size <= 0 || len(l.Depth) < l.Size*l.Size {
		return 1
	}
	x = clampInt(x, 0, l.Size-1)
	y = clampInt(y, 0, l.Size-1)
	return l.Depth[y*l.Size+x]
}

func (l *Layer) Set(x, y int, depth float32) {
	if x < 0 || y < 0 || x >= l.Size || y >= l.Size {
		return
	}
	l.Depth[y*l.Size+x] = depth
}

// Compare is a bilinear less-equal comparison sample: the fraction of the four
// nearest texels whose stored depth is >= ref.
func (l *Layer) Compare(u, v, ref float32) float32 {
	if l.Size <= 0 {
		return 1
	}
	x := u*float32(l.Size) - 0.5
	y := v*float32(l.Size) - 0.5
	x0 := float32(math.Floor(float64(x)))
	y0 := float32(math.Floor(float64(y)))
	fx := x - x0
	fy := y - y0
	ix, iy := int(x0), int(y0)

	c00 := l.cmp(ix, iy, ref)
	c10 := l.cmp(ix+1, iy, ref)
	c01 := l.cmp(ix, iy+1, ref)
	c11 := l.cmp(ix+1, iy+1, ref)

	top := c00 + (c10-c00)*fx
	bottom := c01 + (c11-c01)*fx
	return top + (bottom-top)*fy
}

func (l *Layer) cmp(x, y int, ref float32) float32 {
	if ref <= l.At(x, y) {
		return 1
	}
	return 0
}

// Atlas is the frame's shadow resource: depth layers indexed by shadow map id
// (+face) and view-projection transforms indexed by transform base (+face).
type Atlas struct {
	Layers    []*Layer
	Matrices  []mgl32.Mat4
	TexelSize float32
}

// NewAtlas allocates count cleared layers of size×size texels.
func NewAtlas(count, size int) *Atlas {
	a := &Atlas{
		Layers:   make([]*Layer, count),
		Matrices: make([]mgl32.Mat4, count),
	}
	for i := range a.Layers {
		a.Layers[i] = NewLayer(size)
	}
	if size > 0 {
		a.TexelSize = 1 / float32(size)
	}
	return a
}

// Layer returns layer base+offset or nil when out of range.
func (a *Atlas) Layer(base, offset uint32) *Layer {
	if a == nil {
		return nil
	}
	i := uint64(base) + uint64(offset)
	if i >= uint64(len(a.Layers)) {
		return nil
	}
	return a.Layers[i]
}

// Matrix returns transform base+offset; ok is false when out of range.
func (a *Atlas) Matrix(base, offset uint32) (mgl32.Mat4, bool) {
	if a == nil {
		return mgl32.Mat4{}, false
	}
	i := uint64(base) + uint64(offset)
	if i >= uint64(len(a.Matrices)) {
		return mgl32.Mat4{}, false
	}
	return a.Matrices[i], true
}

func (a *Atlas) texel(l *Layer) float32 {
	if a != nil && a.TexelSize > 0 {
		return a.TexelSize
	}
	if l.Size > 0 {
		return 1 / float32(l.Size)
	}
	return 0
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
