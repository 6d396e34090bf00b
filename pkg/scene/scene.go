// Package scene draws a single rotating regular polygon whose side count can
// be changed while it spins.
package scene

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/polyspin/pkg/gfx"
	"github.com/kjkrol/polyspin/pkg/poly"
)

const (
	DefaultSides    = 6
	DefaultMinSides = 3
	DefaultMaxSides = 12
	DefaultRadius   = 0.5
	DefaultWidth    = 640
	DefaultHeight   = 480
)

var (
	DefaultBackground = mgl32.Vec4{0.6, 0.6, 0.6, 0.9}
	DefaultFill       = mgl32.Vec4{0.5, 0.5, 0.2, 1.0}
)

type Config struct {
	Sides            int
	MinSides         int
	MaxSides         int
	Radius           float64
	DegreesPerSecond float64
	Background       mgl32.Vec4
	Fill             mgl32.Vec4
	Viewport         gfx.Viewport
}

func DefaultConfig() Config {
	return Config{
		Sides:            DefaultSides,
		MinSides:         DefaultMinSides,
		MaxSides:         DefaultMaxSides,
		Radius:           DefaultRadius,
		DegreesPerSecond: gfx.DefaultDegreesPerSecond,
		Background:       DefaultBackground,
		Fill:             DefaultFill,
		Viewport:         gfx.Viewport{Width: DefaultWidth, Height: DefaultHeight},
	}
}

type Option func(*Scene)

func WithLogger(log *slog.Logger) Option {
	return func(s *Scene) {
		if log != nil {
			s.log = log
		}
	}
}

// WithGenerator replaces the polygon generator used on cache misses.
func WithGenerator(gen poly.Generator) Option {
	return func(s *Scene) {
		s.generate = gen
	}
}

// Scene owns all state of the running demo. Its methods must be called from
// the goroutine that drives the device.
type Scene struct {
	cfg      Config
	dev      gfx.Device
	log      *slog.Logger
	generate poly.Generator

	cache    *poly.Cache
	pipeline *gfx.Pipeline
	buffer   *gfx.VertexBuffer
	state    gfx.RenderState
	current  poly.VertexSet

	rotation gfx.Location
	scale    gfx.Location
	color    gfx.Location
	position gfx.Location
}

// New builds the program, uploads the initial polygon and sets the
// viewport. A shader that fails to compile or link is returned as a
// *gfx.ShaderError.
func New(dev gfx.Device, cfg Config, opts ...Option) (*Scene, error) {
	if cfg.MinSides < poly.MinSides {
		cfg.MinSides = poly.MinSides
	}
	if cfg.MaxSides < cfg.MinSides {
		cfg.MaxSides = cfg.MinSides
	}
	s := &Scene{
		cfg:      cfg,
		dev:      dev,
		log:      slog.Default(),
		generate: poly.Generate,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = gfx.NewRenderState(cfg.Viewport.Aspect(), cfg.DegreesPerSecond)
	s.cache = poly.NewCache(cfg.Radius, s.generate)
	s.current, _ = s.cache.Load(s.clamp(cfg.Sides))

	pipeline, err := gfx.NewPipeline(dev, programSpec())
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	s.pipeline = pipeline
	s.rotation = pipeline.Uniform(UniformRotation)
	s.scale = pipeline.Uniform(UniformScale)
	s.color = pipeline.Uniform(UniformColor)
	s.position = pipeline.Attrib(AttribPosition)

	s.buffer = gfx.NewVertexBuffer(dev, poly.Components)
	if err := s.buffer.Upload(s.current.Coords); err != nil {
		pipeline.Close()
		return nil, fmt.Errorf("scene: initial vertices: %w", err)
	}
	cfg.Viewport.Apply(dev)
	if err := dev.Err(); err != nil {
		s.Close()
		return nil, fmt.Errorf("scene: setup: %w", err)
	}

	s.log.Info("scene ready",
		"sides", s.current.Sides,
		"radius", cfg.Radius,
		"viewport", fmt.Sprintf("%dx%d", cfg.Viewport.Width, cfg.Viewport.Height),
		"degreesPerSecond", s.state.DegreesPerSecond,
	)
	return s, nil
}

// Start hands the scene to an animator driven by sched. onError is called
// once if a frame fails; the animation stops afterwards.
func (s *Scene) Start(sched gfx.FrameScheduler, onError func(error)) *gfx.Animator {
	animator := gfx.NewAnimator(sched, s.Frame)
	animator.OnError(onError)
	animator.Start()
	return animator
}

// Frame advances the rotation to now and draws.
func (s *Scene) Frame(now time.Time) error {
	s.state.Advance(now)
	return s.Draw()
}

// Draw renders the current state without advancing it.
func (s *Scene) Draw() error {
	s.dev.ClearColor(s.cfg.Background)
	s.dev.Clear()

	s.pipeline.Use()
	s.dev.Uniform2f(s.rotation, s.state.Rotation)
	s.dev.Uniform2f(s.scale, s.state.Scale)
	s.dev.Uniform4f(s.color, s.cfg.Fill)
	s.buffer.Bind(s.position)
	s.dev.DrawTriangleFan(0, s.buffer.Count())

	if err := s.dev.Err(); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// SetSides switches the polygon, reusing cached vertices when the side
// count was shown before, and redraws at the current angle. Values outside
// the control range are clamped.
func (s *Scene) SetSides(n int) error {
	n = s.clamp(n)
	set, cached := s.cache.Load(n)
	if err := s.buffer.Upload(set.Coords); err != nil {
		return fmt.Errorf("set sides %d: %w", n, err)
	}
	s.current = set
	s.log.Debug("side count changed",
		"sides", n,
		"cached", cached,
		"vertices", set.Count(),
		"buffers", s.buffer.Uploads(),
	)
	return s.Draw()
}

func (s *Scene) clamp(n int) int {
	if n < s.cfg.MinSides {
		return s.cfg.MinSides
	}
	if n > s.cfg.MaxSides {
		return s.cfg.MaxSides
	}
	return n
}

func (s *Scene) Sides() int {
	return s.current.Sides
}

// VertexCount is the number of vertices the next draw fans over.
func (s *Scene) VertexCount() int {
	return s.buffer.Count()
}

func (s *Scene) Vertices() poly.VertexSet {
	return s.current
}

func (s *Scene) State() gfx.RenderState {
	return s.state
}

func (s *Scene) Cache() *poly.Cache {
	return s.cache
}

func (s *Scene) Config() Config {
	return s.cfg
}

// Close releases the vertex buffer and the program.
func (s *Scene) Close() {
	s.buffer.Release()
	s.pipeline.Close()
}
