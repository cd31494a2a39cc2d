// Package app drives the lighting kernel over whole G-buffers.
package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/gekko3d/lumen/shade/rt/core"
	"github.com/gekko3d/lumen/shade/rt/gbuffer"
	"github.com/gekko3d/lumen/shade/rt/lighting"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var (
	ErrTargetMismatch = errors.New("target size does not match gbuffer")
	ErrNoFrame        = errors.New("no committed frame")
	ErrStopped        = errors.New("renderer stopped")
)

// Logger is the subset of the engine logger the renderer writes to.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}

// FrameStats describes one committed and rendered frame.
type FrameStats struct {
	ID            uuid.UUID
	Quality       lighting.Quality
	Lights        int
	SkippedLights int
	Pixels        int
	Background    int
	Tasks         int
	Commit        time.Duration
	Shade         time.Duration
}

func (s FrameStats) String() string {
	return fmt.Sprintf("frame %s quality=%s lights=%d skipped=%d pixels=%d background=%d tasks=%d commit=%s shade=%s",
		s.ID, s.Quality, s.Lights, s.SkippedLights, s.Pixels, s.Background, s.Tasks, s.Commit, s.Shade)
}

// Renderer shades G-buffers with a pool of workers, one task per band of
// rows. Each task writes only its own rows of the targets.
type Renderer struct {
	cfg      Config
	log      Logger
	pool     worker.DynamicWorkerPool
	profiler *Profiler

	stopOnce sync.Once
	stopped  atomic.Bool

	mu    sync.Mutex
	frame *lighting.Frame
	eval  *lighting.Evaluator
	stats FrameStats
}

func NewRenderer(log Logger, opts ...Option) *Renderer {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return NewRendererWithConfig(log, cfg)
}

func NewRendererWithConfig(log Logger, cfg Config) *Renderer {
	if log == nil {
		log = nopLogger{}
	}
	cfg = cfg.normalized()
	return &Renderer{
		cfg:      cfg,
		log:      log,
		pool:     worker.NewDynamicWorkerPool(cfg.Workers, cfg.QueueSize, cfg.IdleTimeout),
		profiler: NewProfiler(),
	}
}

func (r *Renderer) Config() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

func (r *Renderer) Profiler() *Profiler { return r.profiler }

// SetQuality switches the tier used by the next CommitFrame.
func (r *Renderer) SetQuality(q lighting.Quality) {
	r.mu.Lock()
	r.cfg.Quality = q
	r.mu.Unlock()
}

// Stop shuts the worker pool down; later calls are no-ops and Render returns
// ErrStopped. The pool posts exit requests on one shared channel, so a worker
// can take another's request and linger idle until the process exits. Keep
// one Renderer for many frames rather than one per frame.
func (r *Renderer) Stop() {
	r.stopOnce.Do(func() {
		r.stopped.Store(true)
		r.pool.Stop()
	})
}

// Stats is the most recent frame's statistics.
func (r *Renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// CommitFrame validates and snapshots the frame inputs. The light list is
// copied and capped, unknown kinds are reported, sky parameters are clamped
// and a missing camera is replaced by the default one.
func (r *Renderer) CommitFrame(f lighting.Frame) FrameStats {
	r.profiler.BeginScope("Commit")

	r.mu.Lock()
	quality := r.cfg.Quality
	r.mu.Unlock()
	stats := FrameStats{ID: uuid.New(), Quality: quality}

	if len(f.Lights) > core.MaxLights {
		r.log.Warnf("light list truncated: %d lights, %d evaluated", len(f.Lights), core.MaxLights)
		stats.SkippedLights += len(f.Lights) - core.MaxLights
	}
	lights := make([]core.Light, min(len(f.Lights), core.MaxLights))
	copy(lights, f.Lights)
	for i := range lights {
		if !lights[i].Kind.Valid() {
			r.log.Warnf("light %d has unknown kind %d, skipped", i, lights[i].Kind)
			stats.SkippedLights++
			continue
		}
		stats.Lights++
	}
	f.Lights = lights
	f.Sky = f.Sky.Clamped()
	if f.Camera == nil {
		r.log.Warnf("frame %s has no camera, using default", stats.ID)
		f.Camera = core.NewCamera()
	}

	eval := lighting.NewEvaluator(&f, quality)
	stats.Commit = r.profiler.EndScope("Commit")

	r.mu.Lock()
	r.frame = &f
	r.eval = eval
	r.stats = stats
	r.mu.Unlock()

	r.profiler.SetCount("Lights", stats.Lights)
	r.log.Debugf("Committed %s", stats.ID)
	return stats
}

// Render shades every pixel of g into t. Pixels with depth >= 1 receive the
// background.
func (r *Renderer) Render(g *gbuffer.GBuffer, t *gbuffer.Targets) (FrameStats, error) {
	if r.stopped.Load() {
		return FrameStats{}, ErrStopped
	}
	r.mu.Lock()
	eval, stats := r.eval, r.stats
	r.mu.Unlock()
	if eval == nil {
		return FrameStats{}, ErrNoFrame
	}
	if g == nil || t == nil || g.Width != t.Width || g.Height != t.Height {
		return stats, ErrTargetMismatch
	}
	n := g.Width * g.Height
	if len(g.Depth) < n || len(g.Normals) < n || len(g.Materials) < n ||
		len(t.Color) < n || len(t.Normal) < n || len(t.Material) < n {
		return stats, fmt.Errorf("%dx%d buffers: %w", g.Width, g.Height, gbuffer.ErrInvalidDimensions)
	}

	r.profiler.BeginScope("Shade")

	var wg sync.WaitGroup
	var background atomic.Int64
	band := r.cfg.RowsPerTask
	tasks := 0
	for y0 := 0; y0 < g.Height; y0 += band {
		y1 := min(y0+band, g.Height)
		wg.Add(1)
		r.pool.SubmitTask(worker.Task{
			ID: tasks,
			Do: func() (any, error) {
				defer wg.Done()
				background.Add(int64(shadeRows(eval, g, t, y0, y1)))
				return nil, nil
			},
		})
		tasks++
	}
	wg.Wait()

	stats.Shade = r.profiler.EndScope("Shade")
	stats.Pixels = n
	stats.Background = int(background.Load())
	stats.Tasks = tasks

	r.profiler.SetCount("Pixels", stats.Pixels)
	r.profiler.SetCount("Background", stats.Background)
	r.profiler.SetCount("Tasks", tasks)

	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()

	if r.cfg.Debug {
		r.log.Debugf("%s", stats)
		r.log.Debugf("\n%s", r.profiler.GetStatsString())
	}
	return stats, nil
}

// shadeRows evaluates rows [y0, y1) and returns the number of background
// pixels.
func shadeRows(eval *lighting.Evaluator, g *gbuffer.GBuffer, t *gbuffer.Targets, y0, y1 int) int {
	cam := eval.Frame().Camera
	w, h := float32(g.Width), float32(g.Height)
	background := 0
	for y := y0; y < y1; y++ {
		v := (float32(y) + 0.5) / h
		for x := 0; x < g.Width; x++ {
			u := (float32(x) + 0.5) / w
			i := g.Index(x, y)
			depth := g.Depth[i]
			if !(depth < 1) {
				view := core.SafeNormalize(cam.Unproject(u, v, 1).Sub(cam.Position), mgl32.Vec3{0, 0, -1})
				t.Color[i] = eval.Background(view)
				t.Normal[i] = gbuffer.EncodeOctahedral(view.Mul(-1))
				t.Material[i] = mgl32.Vec4{}
				background++
				continue
			}
			pos := cam.Unproject(u, v, depth)
			s := core.NewSurfacePoint(pos, g.Normals[i], cam.Position)
			out := eval.Shade(s, g.Materials[i])
			t.Color[i] = out.Color
			t.Normal[i] = out.Normal
			t.Material[i] = out.Material
		}
	}
	return background
}
