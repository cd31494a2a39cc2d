package lumen

import (
	"fmt"

	"github.com/gekko3d/lumen/shade/rt/app"
	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/gekko3d/lumen/shade/rt/gbuffer"
	"github.com/gekko3d/lumen/shade/rt/lighting"
)

type RenderResult struct {
	Camera  *core.Camera
	GBuffer *gbuffer.GBuffer
	Targets *gbuffer.Targets
	Stats   app.FrameStats
}

// SceneRenderer renders presets frame after frame on one worker pool.
type SceneRenderer struct {
	log      Logger
	renderer *app.Renderer
}

// NewSceneRenderer starts the worker pool; Close stops it.
func NewSceneRenderer(log Logger, opts ...app.Option) *SceneRenderer {
	log = orNop(log)
	return &SceneRenderer{log: log, renderer: app.NewRenderer(log, opts...)}
}

func (s *SceneRenderer) Renderer() *app.Renderer { return s.renderer }

func (s *SceneRenderer) Close() { s.renderer.Stop() }

// Render runs the whole frame for a preset: light registration, shadow layer
// assignment and rasterization, sky sync, G-buffer construction and shading.
// The preset quality selects the tier for this frame.
func (s *SceneRenderer) Render(p ScenePreset, width, height int) (*RenderResult, error) {
	log := s.log
	q, err := SelectQuality(log, p.Quality)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render %dx%d: %w", width, height, gbuffer.ErrInvalidDimensions)
	}
	cam := p.BuildCamera(float32(width) / float32(height))

	lights := NewLightManager(log)
	p.Apply(lights)
	used := lights.AssignShadowLayers(p.ShadowLayers)
	atlas := lights.BuildShadowAtlas(p.ShadowSize)
	lights.RenderShadows(atlas, p.Occluders()...)
	log.Debugf("Shadow atlas: %d layers of %d px", used, p.ShadowSize)

	sky := p.SkyParams()
	if p.Sky.SyncWithSun {
		lights.SyncSky(&sky)
	}

	g, err := p.BuildGBuffer(cam, width, height)
	if err != nil {
		return nil, err
	}
	t, err := gbuffer.NewTargets(width, height)
	if err != nil {
		return nil, err
	}

	s.renderer.SetQuality(q)
	s.renderer.CommitFrame(lighting.Frame{
		Camera:      cam,
		Lights:      lights.Proxies(),
		Atlas:       atlas,
		Sky:         sky,
		Environment: lighting.UniformEnvironment{Color: p.Environment},
	})
	stats, err := s.renderer.Render(g, t)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return &RenderResult{Camera: cam, GBuffer: g, Targets: t, Stats: stats}, nil
}

// RenderPreset renders a single preset on a throwaway SceneRenderer. Use a
// SceneRenderer directly for more than one frame.
func RenderPreset(log Logger, p ScenePreset, width, height int, opts ...app.Option) (*RenderResult, error) {
	s := NewSceneRenderer(log, opts...)
	defer s.Close()
	return s.Render(p, width, height)
}
