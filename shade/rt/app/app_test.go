package app

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/gekko3d/lumen/shade/rt/gbuffer"
	"github.com/gekko3d/lumen/shade/rt/lighting"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	debug []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.mu.Lock()
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *recordingLogger) Infof(string, ...any) {}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func groundScene(t *testing.T, w, h int) (*core.Camera, *gbuffer.GBuffer) {
	t.Helper()
	cam := core.NewLookAtCamera(mgl32.Vec3{0, 3, 8}, mgl32.Vec3{0, 0, 0}, mgl32.DegToRad(60), float32(w)/float32(h), 0.1, 100)
	g, err := gbuffer.NewGBuffer(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			u := (float32(x) + 0.5) / float32(w)
			v := (float32(y) + 0.5) / float32(h)
			dir := cam.Unproject(u, v, 1).Sub(cam.Position).Normalize()
			if dir.Y() >= -1e-4 {
				continue
			}
			hit := cam.Position.Add(dir.Mul(-cam.Position.Y() / dir.Y()))
			if hit.Sub(cam.Position).Len() > 90 {
				continue
			}
			i := g.Index(x, y)
			g.Depth[i] = cam.ProjectDepth(hit)
			g.Normals[i] = mgl32.Vec3{0, 1, 0}
			g.Materials[i] = core.NewMaterialSample(mgl32.Vec3{0.8, 0.7, 0.6}, 0.6, 0)
		}
	}
	return cam, g
}

func testFrame(cam *core.Camera) lighting.Frame {
	sun := core.Light{
		Kind:          core.LightSun,
		Direction:     mgl32.Vec3{-0.3, -1, -0.2},
		Color:         mgl32.Vec3{1, 0.95, 0.72},
		Intensity:     3,
		ShadowMapID:   core.NoShadow,
		ShadowMatBase: core.NoShadow,
	}
	point := core.Light{
		Kind:          core.LightPoint,
		Position:      mgl32.Vec3{1, 1, 1},
		Color:         mgl32.Vec3{1, 0.5, 0.2},
		Intensity:     20,
		Range:         6,
		Radius:        0.2,
		ShadowMapID:   core.NoShadow,
		ShadowMatBase: core.NoShadow,
	}
	return lighting.Frame{
		Camera:      cam,
		Lights:      []core.Light{sun, point},
		Sky:         core.DefaultSkyParams(),
		Environment: lighting.UniformEnvironment{Color: mgl32.Vec3{0.1, 0.12, 0.15}},
	}
}

func TestRenderBeforeCommit(t *testing.T) {
	r := NewRenderer(nil, WithWorkers(2))
	defer r.Stop()
	g, _ := gbuffer.NewGBuffer(2, 2)
	tg, _ := gbuffer.NewTargets(2, 2)
	_, err := r.Render(g, tg)
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestRenderTargetMismatch(t *testing.T) {
	r := NewRenderer(nil, WithWorkers(2))
	defer r.Stop()
	cam, g := groundScene(t, 4, 4)
	r.CommitFrame(testFrame(cam))

	tg, err := gbuffer.NewTargets(4, 5)
	require.NoError(t, err)
	_, err = r.Render(g, tg)
	assert.ErrorIs(t, err, ErrTargetMismatch)

	_, err = r.Render(g, nil)
	assert.ErrorIs(t, err, ErrTargetMismatch)
}

func TestRenderFillsEveryPixel(t *testing.T) {
	for _, q := range []lighting.Quality{lighting.QualityFast, lighting.QualityPrecise} {
		t.Run(q.String(), func(t *testing.T) {
			log := &recordingLogger{}
			r := NewRenderer(log, WithWorkers(3), WithRowsPerTask(5), WithQuality(q), WithDebug(true))
			defer r.Stop()

			const w, h = 24, 16
			cam, g := groundScene(t, w, h)
			stats := r.CommitFrame(testFrame(cam))
			assert.NotEqual(t, uuid.Nil, stats.ID)
			assert.Equal(t, 2, stats.Lights)

			tg, err := gbuffer.NewTargets(w, h)
			require.NoError(t, err)
			for i := range tg.Color {
				tg.Color[i] = mgl32.Vec4{-1, -1, -1, -1}
			}

			stats, err = r.Render(g, tg)
			require.NoError(t, err)
			assert.Equal(t, w*h, stats.Pixels)
			assert.Equal(t, 4, stats.Tasks)
			assert.Greater(t, stats.Background, 0)
			assert.Less(t, stats.Background, w*h)
			assert.Equal(t, q, stats.Quality)

			for i, c := range tg.Color {
				for ch := 0; ch < 4; ch++ {
					if !(c[ch] >= 0 && c[ch] <= 1) {
						t.Fatalf("pixel %d channel %d = %f", i, ch, c[ch])
					}
				}
			}

			// the lit ground is brighter than black
			mid := tg.Color[g.Index(w/2, h-1)]
			assert.Greater(t, mid[0], float32(0))

			assert.Equal(t, stats, r.Stats())
			assert.Greater(t, r.Profiler().Scope("Shade").Calls, 0)
			assert.NotEmpty(t, log.debug)
		})
	}
}

func TestRendererReuseAndStop(t *testing.T) {
	r := NewRenderer(nil, WithWorkers(2), WithRowsPerTask(3))
	const w, h = 8, 6
	cam, g := groundScene(t, w, h)
	tg, err := gbuffer.NewTargets(w, h)
	require.NoError(t, err)

	for _, q := range []lighting.Quality{lighting.QualityFast, lighting.QualityPrecise, lighting.QualityFast} {
		r.SetQuality(q)
		assert.Equal(t, q, r.CommitFrame(testFrame(cam)).Quality)
		stats, err := r.Render(g, tg)
		require.NoError(t, err)
		assert.Equal(t, q, stats.Quality)
		assert.Equal(t, w*h, stats.Pixels)
	}
	assert.Equal(t, lighting.QualityFast, r.Config().Quality)

	r.Stop()
	r.Stop()
	_, err = r.Render(g, tg)
	assert.ErrorIs(t, err, ErrStopped)
}

func TestCommitFrameValidation(t *testing.T) {
	log := &recordingLogger{}
	r := NewRenderer(log, WithWorkers(1))
	defer r.Stop()

	lights := make([]core.Light, core.MaxLights+6)
	for i := range lights {
		lights[i] = core.DummyLight()
	}
	lights[3].Kind = core.LightKind(42)

	sky := core.DefaultSkyParams()
	sky.SunElevation = 4
	sky.Altitude = -1e6

	stats := r.CommitFrame(lighting.Frame{Lights: lights, Sky: sky})
	assert.Equal(t, core.MaxLights-1, stats.Lights)
	assert.Equal(t, 7, stats.SkippedLights)
	require.Len(t, log.warns, 3)
	assert.True(t, strings.Contains(log.warns[0], "truncated"))
	assert.True(t, strings.Contains(log.warns[1], "unknown kind 42"))
	assert.True(t, strings.Contains(log.warns[2], "no camera"))

	f := r.frame
	assert.Len(t, f.Lights, core.MaxLights)
	assert.NotNil(t, f.Camera)
	assert.InDelta(t, 1.5533, f.Sky.SunElevation, 1e-6)
	assert.Equal(t, float32(-5000), f.Sky.Altitude)

	// the caller's slice is not retained
	lights[0].Intensity = 0
	assert.Equal(t, float32(1000), f.Lights[0].Intensity)
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	for _, o := range []Option{WithWorkers(0), WithRowsPerTask(-3), WithQuality(lighting.QualityPrecise)} {
		o(&cfg)
	}
	assert.Equal(t, DefaultConfig().Workers, cfg.Workers)
	assert.Equal(t, 8, cfg.RowsPerTask)
	assert.Equal(t, lighting.QualityPrecise, cfg.Quality)

	r := NewRendererWithConfig(nil, Config{})
	defer r.Stop()
	assert.Greater(t, r.Config().Workers, 0)
	assert.Equal(t, 256, r.Config().QueueSize)
}

func TestProfiler(t *testing.T) {
	p := NewProfiler()
	assert.Equal(t, time.Duration(0), p.EndScope("missing"))

	for i := 0; i < 3; i++ {
		p.BeginScope("Shade")
		time.Sleep(time.Millisecond)
		p.EndScope("Shade")
	}
	p.BeginScope("Commit")
	p.EndScope("Commit")
	p.SetCount("Pixels", 42)

	s := p.Scope("Shade")
	assert.Equal(t, 3, s.Calls)
	assert.GreaterOrEqual(t, s.Total, 3*time.Millisecond)
	assert.GreaterOrEqual(t, s.Average(), time.Millisecond)
	assert.Equal(t, []string{"Shade", "Commit"}, p.Order)

	out := p.GetStatsString()
	assert.Contains(t, out, "Shade")
	assert.Contains(t, out, "Pixels")
	assert.Contains(t, out, "42")

	p.Reset()
	assert.Equal(t, 0, p.Scope("Shade").Calls)
	assert.Equal(t, 0, p.Count("Pixels"))
	assert.Len(t, p.Order, 2)
}
