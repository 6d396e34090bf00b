package gfx

import (
	"context"
	"math"
	"runtime"
	"time"
)

// SliderConfig describes the side-count control of the host surface.
type SliderConfig struct {
	Min   int
	Max   int
	Value int
}

type WindowConfig struct {
	PositionX   int
	PositionY   int
	Width       int
	Height      int
	BorderWidth int
	Title       string
	Slider      SliderConfig
}

// WindowBackend is the platform side of a Window: a native window with a GL
// context on desktop, a canvas with a slider in the browser.
type WindowBackend interface {
	Show()
	Close()
	// NextEventTimeout returns TimeoutEvent{} if nothing arrived in time.
	NextEventTimeout(timeoutMs int) Event
	GLContext() any
	BeginFrame()
	EndFrame()
}

// Window runs the host event loop and acts as the FrameScheduler of the
// scene drawn into it. Everything the loop calls runs on one goroutine.
type Window struct {
	backend      WindowBackend
	width        int
	height       int
	refreshDelay time.Duration
	ctx          context.Context
	cancel       context.CancelFunc

	updates chan func()
	frames  []func(time.Time)
	now     func() time.Time
}

const maxEventWait = 50 * time.Millisecond

func NewWindow(conf WindowConfig, backend WindowBackend) *Window {
	if backend == nil {
		panic("platform window backend is required")
	}
	window := Window{
		backend: backend,
		width:   conf.Width,
		height:  conf.Height,
		updates: make(chan func(), 1024),
		now:     time.Now,
	}
	window.ctx, window.cancel = context.WithCancel(context.Background())
	return &window
}

func (w *Window) Size() (int, int) {
	if w == nil {
		return 0, 0
	}
	return w.width, w.height
}

func (w *Window) Viewport() Viewport {
	return Viewport{Width: w.width, Height: w.height}
}

func (w *Window) Show() {
	w.backend.Show()
}

func (w *Window) RefreshRate(fps int) {
	if fps <= 0 {
		fps = 60
	}
	ms := int(math.Abs(float64(1000.0 / fps)))
	w.refreshDelay = time.Duration(ms) * time.Millisecond
}

func (w *Window) Stop() {
	w.cancel()
}

// Done is closed once Stop has been called.
func (w *Window) Done() <-chan struct{} {
	return w.ctx.Done()
}

func (w *Window) Close() {
	w.frames = nil
	w.backend.Close()
}

func (w *Window) GLContext() any {
	if w == nil || w.backend == nil {
		return nil
	}
	return w.backend.GLContext()
}

// Post queues fn to run on the loop goroutine before the next frame. Safe
// for concurrent use.
func (w *Window) Post(fn func()) {
	w.updates <- fn
}

// RequestFrame schedules cb for the next frame. Loop goroutine only.
func (w *Window) RequestFrame(cb func(now time.Time)) {
	w.frames = append(w.frames, cb)
}

// ListenEvents runs the loop until Stop is called: it hands events to
// handleEvent and, once per refresh period, runs posted updates and the
// requested frame callbacks between BeginFrame and EndFrame.
func (w *Window) ListenEvents(handleEvent func(event Event), strategy EventsConsumerStrategy) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	delay := w.refreshDelay
	if delay == 0 {
		delay = time.Second / 60
	}
	if strategy == nil {
		strategy = DrainAll()
	}
	poll := func(timeoutMs int) (Event, bool) {
		event := w.backend.NextEventTimeout(timeoutMs)
		if _, ok := event.(TimeoutEvent); ok {
			return nil, false
		}
		return event, true
	}

	nextRender := w.now().Add(delay)

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		timeout := nextRender.Sub(w.now())
		if timeout < 0 {
			timeout = 0
		}
		if timeout > maxEventWait {
			timeout = maxEventWait
		}
		timeoutMs := int(timeout / time.Millisecond)
		if timeout > 0 && timeoutMs == 0 {
			timeoutMs = 1
		}

		strategy.Consume(poll, handleEvent, timeoutMs)

		now := w.now()
		if now.Before(nextRender) {
			continue
		}
		w.drainUpdates()
		w.backend.BeginFrame()
		w.fireFrames(now)
		w.backend.EndFrame()
		nextRender = now.Add(delay)
	}
}

func (w *Window) drainUpdates() {
	for {
		select {
		case upd := <-w.updates:
			upd()
		default:
			return
		}
	}
}

func (w *Window) fireFrames(now time.Time) {
	frames := w.frames
	w.frames = nil
	for _, cb := range frames {
		cb(now)
	}
}
