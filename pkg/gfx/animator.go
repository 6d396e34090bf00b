package gfx

import (
	"sync"
	"time"
)

// FrameScheduler runs a callback on the next frame of its host. Callbacks
// are one-shot and must be re-requested to keep an animation going.
type FrameScheduler interface {
	RequestFrame(cb func(now time.Time))
}

// FrameFunc renders one frame. A returned error stops the animation.
type FrameFunc func(now time.Time) error

type AnimatorState int

const (
	AnimatorIdle AnimatorState = iota
	AnimatorRunning
	AnimatorFailed
)

func (s AnimatorState) String() string {
	switch s {
	case AnimatorIdle:
		return "idle"
	case AnimatorRunning:
		return "running"
	case AnimatorFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Animator re-arms a FrameFunc on every frame of a FrameScheduler.
type Animator struct {
	mu        sync.Mutex
	state     AnimatorState
	scheduler FrameScheduler
	frame     FrameFunc
	onError   func(error)
	frames    uint64
	err       error
}

func NewAnimator(scheduler FrameScheduler, frame FrameFunc) *Animator {
	return &Animator{scheduler: scheduler, frame: frame}
}

// OnError registers a callback invoked once when a frame fails.
func (a *Animator) OnError(fn func(error)) {
	a.mu.Lock()
	a.onError = fn
	a.mu.Unlock()
}

// Start moves the animator from idle to running and requests the first
// frame. It reports false if the animator was already started.
func (a *Animator) Start() bool {
	a.mu.Lock()
	if a.state != AnimatorIdle {
		a.mu.Unlock()
		return false
	}
	a.state = AnimatorRunning
	a.mu.Unlock()

	a.scheduler.RequestFrame(a.tick)
	return true
}

func (a *Animator) tick(now time.Time) {
	if err := a.frame(now); err != nil {
		a.mu.Lock()
		a.state = AnimatorFailed
		a.err = err
		onError := a.onError
		a.mu.Unlock()
		if onError != nil {
			onError(err)
		}
		return
	}
	a.mu.Lock()
	a.frames++
	a.mu.Unlock()
	a.scheduler.RequestFrame(a.tick)
}

func (a *Animator) State() AnimatorState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Frames returns the number of frames rendered successfully.
func (a *Animator) Frames() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}

// Err returns the error that stopped the animator, if any.
func (a *Animator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}
