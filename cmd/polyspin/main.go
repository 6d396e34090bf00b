package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/kjkrol/polyspin/internal/config"
	"github.com/kjkrol/polyspin/internal/platform"
	"github.com/kjkrol/polyspin/internal/raster"
	"github.com/kjkrol/polyspin/internal/renderer"
	"github.com/kjkrol/polyspin/pkg/gfx"
	"github.com/kjkrol/polyspin/pkg/scene"
)

// GLFW and the GL context must stay on the main thread.
func init() { runtime.LockOSThread() }

type options struct {
	configPath string
	headless   bool
	hz         int
	ticks      uint64
	snapshot   string
	sides      int
	verbose    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Load settings from a .toml or .yaml file.")
	flag.BoolVar(&opts.headless, "headless", false, "Render with the software device instead of a window.")
	flag.IntVar(&opts.hz, "hz", 60, "Frame rate in headless mode.")
	flag.Uint64Var(&opts.ticks, "ticks", 0, "Stop after N frames in headless mode (0 = run until interrupted).")
	flag.StringVar(&opts.snapshot, "snapshot", "", "Write the last headless frame to this PNG file.")
	flag.IntVar(&opts.sides, "sides", 0, "Initial side count (overrides the config file).")
	flag.BoolVar(&opts.verbose, "v", false, "Log at debug level.")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := run(opts, log); err != nil {
		log.Error("polyspin failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options, log *slog.Logger) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return runHeadless(ctx, cfg, opts, log)
	}
	return runWindow(cfg, log)
}

func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if opts.sides != 0 {
		cfg.Shape.Sides = opts.sides
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runWindow(cfg config.Config, log *slog.Logger) error {
	winConf := cfg.WindowConfig()
	backend, err := platform.NewPlatformWindowWrapper(winConf)
	if err != nil {
		return err
	}
	window := gfx.NewWindow(winConf, backend)
	defer window.Close()
	window.RefreshRate(cfg.RefreshRate)

	dev, err := renderer.NewDevice(window)
	if err != nil {
		return err
	}
	s, err := scene.New(dev, cfg.SceneConfig(), scene.WithLogger(log))
	if err != nil {
		return err
	}
	defer s.Close()

	var runErr error
	fail := func(err error) {
		if runErr == nil {
			runErr = err
		}
		window.Stop()
	}
	s.Start(window, fail)
	window.Show()

	window.ListenEvents(func(event gfx.Event) {
		quit, err := s.HandleEvent(event)
		if err != nil {
			fail(err)
			return
		}
		if quit {
			log.Info("window closed")
			window.Stop()
		}
	}, gfx.DrainAll())
	return runErr
}

func runHeadless(ctx context.Context, cfg config.Config, opts options, log *slog.Logger) error {
	vp := cfg.SceneConfig().Viewport
	dev := raster.New(vp.Width, vp.Height, scene.CPUShading())
	s, err := scene.New(dev, cfg.SceneConfig(), scene.WithLogger(log))
	if err != nil {
		return err
	}
	defer s.Close()

	hz := opts.hz
	if hz <= 0 {
		hz = config.DefaultRefreshRate
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var frameErr error
	sched := gfx.NewTickerScheduler(time.Second/time.Duration(hz), opts.ticks)
	animator := s.Start(sched, func(err error) {
		frameErr = err
		cancel()
	})

	start := time.Now()
	runErr := sched.Run(ctx)
	if frameErr != nil {
		return frameErr
	}
	log.Info("headless run finished",
		"frames", animator.Frames(),
		"angle", s.State().Angle,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if opts.snapshot != "" {
		if err := writeSnapshot(dev, opts.snapshot); err != nil {
			return err
		}
		log.Info("snapshot written", "path", opts.snapshot)
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func writeSnapshot(dev *raster.Device, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := dev.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return nil
}
