//go:build !js && cgo

package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/kjkrol/polyspin/pkg/gfx"
)

type glfwWindowWrapper struct {
	window *glfw.Window
	events chan gfx.Event
	conf   gfx.WindowConfig
	closed bool
}

// NewPlatformWindowWrapper creates a hidden, fixed-size window with a
// current OpenGL 3.3 core context. It must be called from the main thread.
func NewPlatformWindowWrapper(conf gfx.WindowConfig) (gfx.WindowBackend, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: glfw init: %w", ErrContextUnavailable, err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(conf.Width, conf.Height, conf.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: create window: %w", ErrContextUnavailable, err)
	}
	if conf.PositionX > 0 || conf.PositionY > 0 {
		window.SetPos(conf.PositionX, conf.PositionY)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	w := &glfwWindowWrapper{
		window: window,
		events: make(chan gfx.Event, 64),
		conf:   conf,
	}
	window.SetKeyCallback(w.keyEvent)
	window.SetCloseCallback(func(*glfw.Window) {
		w.push(gfx.DestroyNotify{})
	})
	window.SetRefreshCallback(func(*glfw.Window) {
		w.push(gfx.Expose{})
	})
	return w, nil
}

// push never blocks: callbacks run inside glfw's event processing on the
// loop goroutine, which is also the only reader.
func (w *glfwWindowWrapper) push(e gfx.Event) {
	select {
	case w.events <- e:
	default:
	}
}

func (w *glfwWindowWrapper) keyEvent(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
	label := keyLabel(key, scancode)
	switch action {
	case glfw.Press, glfw.Repeat:
		w.push(gfx.KeyPress{Code: uint64(scancode), Label: label})
	case glfw.Release:
		w.push(gfx.KeyRelease{Code: uint64(scancode), Label: label})
	}
}

// keyLabel maps GLFW keys to DOM key names so both hosts share input code.
func keyLabel(key glfw.Key, scancode int) string {
	switch key {
	case glfw.KeyUp:
		return gfx.KeyArrowUp
	case glfw.KeyDown:
		return gfx.KeyArrowDown
	case glfw.KeyLeft:
		return gfx.KeyArrowLeft
	case glfw.KeyRight:
		return gfx.KeyArrowRight
	case glfw.KeyEscape:
		return gfx.KeyEscape
	}
	return glfw.GetKeyName(key, scancode)
}

func (w *glfwWindowWrapper) Show() {
	w.window.Show()
	w.push(gfx.CreateNotify{})
}

func (w *glfwWindowWrapper) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.window.Destroy()
	glfw.Terminate()
	runtime.UnlockOSThread()
}

func (w *glfwWindowWrapper) NextEventTimeout(timeoutMs int) gfx.Event {
	select {
	case e := <-w.events:
		return e
	default:
	}
	if timeoutMs <= 0 {
		glfw.PollEvents()
	} else {
		glfw.WaitEventsTimeout(float64(timeoutMs) / 1000)
	}
	select {
	case e := <-w.events:
		return e
	default:
		return gfx.TimeoutEvent{}
	}
}

// GLContext returns the *glfw.Window owning the current context.
func (w *glfwWindowWrapper) GLContext() any {
	return w.window
}

func (w *glfwWindowWrapper) BeginFrame() {}

func (w *glfwWindowWrapper) EndFrame() {
	w.window.SwapBuffers()
}
