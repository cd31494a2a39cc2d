package gbuffer

import (
	"errors"
	"fmt"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidDimensions = errors.New("invalid dimensions")

// GBuffer is the geometry pass output the lighting pass reads. Depth is the
// post-projection [0,1] value; 1 means no geometry.
type GBuffer struct {
	Width, Height int
	Depth         []float32
	Normals       []mgl32.Vec3
	Materials     []core.MaterialSample
}

func NewGBuffer(width, height int) (*GBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gbuffer %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	n := width * height
	g := &GBuffer{
		Width:     width,
		Height:    height,
		Depth:     make([]float32, n),
		Normals:   make([]mgl32.Vec3, n),
		Materials: make([]core.MaterialSample, n),
	}
	for i := range g.Depth {
		g.Depth[i] = 1
	}
	return g, nil
}

func (g *GBuffer) Index(x, y int) int { return y*g.Width + x }

// Targets are the lighting pass outputs.
type Targets struct {
	Width, Height int
	Color         []mgl32.Vec4
	Normal        []mgl32.Vec2
	Material      []mgl32.Vec4
}

func NewTargets(width, height int) (*Targets, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("targets %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	n := width * height
	return &Targets{
		Width:    width,
		Height:   height,
		Color:    make([]mgl32.Vec4, n),
		Normal:   make([]mgl32.Vec2, n),
		Material: make([]mgl32.Vec4, n),
	}, nil
}

func (t *Targets) Index(x, y int) int { return y*t.Width + x }

func (t *Targets) valid() bool {
	n := t.Width * t.Height
	return t.Width > 0 && t.Height > 0 && len(t.Color) >= n && len(t.Normal) >= n && len(t.Material) >= n
}
