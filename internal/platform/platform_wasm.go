//go:build js && wasm

package platform

import (
	"fmt"
	"strconv"
	"syscall/js"
	"time"

	"github.com/kjkrol/polyspin/pkg/gfx"
)

const (
	wrapperID         = "wrapper"
	canvasContainerID = "glcanvas-container"
	canvasID          = "glcanvas"
	sliderContainerID = "slider-container"
	sliderID          = "slider"

	unsupportedText = "Error: WebGL is not compatible with your current browser."

	fadeStep     = 0.05
	fadeInterval = 10 * time.Millisecond
)

type listener struct {
	target js.Value
	typ    string
	fn     js.Func
}

type wasmWindowWrapper struct {
	wrapper js.Value
	canvas  js.Value
	slider  js.Value
	gl      js.Value
	events  chan gfx.Event
	conf    gfx.WindowConfig
	closed  bool

	listeners []listener
}

// NewPlatformWindowWrapper assembles the page (a hidden wrapper holding the
// canvas and the side-count slider) and acquires a WebGL context.
func NewPlatformWindowWrapper(conf gfx.WindowConfig) (gfx.WindowBackend, error) {
	doc := js.Global().Get("document")
	if conf.Title != "" {
		doc.Set("title", conf.Title)
	}

	wrapper := element(doc, "div", map[string]any{"id": wrapperID})
	wrapper.Get("style").Set("opacity", "0")
	canvasContainer := element(doc, "div", map[string]any{"id": canvasContainerID})

	canvas := element(doc, "canvas", map[string]any{
		"id":     canvasID,
		"width":  conf.Width,
		"height": conf.Height,
	})
	canvas.Call("appendChild", doc.Call("createTextNode", unsupportedText))
	style := canvas.Get("style")
	if conf.BorderWidth > 0 {
		style.Set("border", fmt.Sprintf("%dpx solid black", conf.BorderWidth))
	}
	canvas.Call("setAttribute", "tabindex", "0")

	sliderContainer := element(doc, "div", map[string]any{"id": sliderContainerID})
	slider := element(doc, "input", map[string]any{
		"id":    sliderID,
		"type":  "range",
		"min":   conf.Slider.Min,
		"max":   conf.Slider.Max,
		"value": conf.Slider.Value,
	})

	sliderContainer.Call("appendChild", slider)
	canvasContainer.Call("appendChild", canvas)
	canvasContainer.Call("appendChild", sliderContainer)
	wrapper.Call("appendChild", canvasContainer)
	doc.Get("body").Call("appendChild", wrapper)

	gl := canvas.Call("getContext", "webgl")
	if gl.IsNull() || gl.IsUndefined() {
		return nil, fmt.Errorf("%w: canvas %q has no webgl context", ErrContextUnavailable, canvasID)
	}

	w := &wasmWindowWrapper{
		wrapper: wrapper,
		canvas:  canvas,
		slider:  slider,
		gl:      gl,
		events:  make(chan gfx.Event, 64),
		conf:    conf,
	}

	w.addEventListener(slider, "change", false, func(js.Value) {
		value, err := strconv.Atoi(w.slider.Get("value").String())
		if err != nil {
			return
		}
		w.push(gfx.SideCountChange{Value: value})
	})
	// A focused slider already turns arrow keys into change events.
	w.addEventListener(doc, "keydown", false, func(e js.Value) {
		if e.Get("target").Equal(w.slider) {
			return
		}
		w.push(gfx.KeyPress{Label: e.Get("key").String()})
	})
	w.addEventListener(doc, "keyup", false, func(e js.Value) {
		w.push(gfx.KeyRelease{Label: e.Get("key").String()})
	})
	w.addEventListener(canvas, "webglcontextlost", true, func(js.Value) {
		w.push(gfx.DestroyNotify{})
	})

	return w, nil
}

func element(doc js.Value, name string, attrs map[string]any) js.Value {
	el := doc.Call("createElement", name)
	for k, v := range attrs {
		el.Call("setAttribute", k, v)
	}
	return el
}

func (w *wasmWindowWrapper) addEventListener(target js.Value, event string, prevent bool, f func(js.Value)) {
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		e := args[0]
		if prevent {
			e.Call("preventDefault")
		}
		f(e)
		return nil
	})
	target.Call("addEventListener", event, fn)
	w.listeners = append(w.listeners, listener{target: target, typ: event, fn: fn})
}

func (w *wasmWindowWrapper) push(e gfx.Event) {
	select {
	case w.events <- e:
	default:
	}
}

// Show fades the assembled page in, then reports the surface as created.
func (w *wasmWindowWrapper) Show() {
	go func() {
		opacity := 0.0
		for opacity < 1 {
			opacity += fadeStep
			if opacity > 1 {
				opacity = 1
			}
			w.wrapper.Get("style").Set("opacity", strconv.FormatFloat(opacity, 'f', 2, 64))
			time.Sleep(fadeInterval)
		}
		w.push(gfx.CreateNotify{})
	}()
}

func (w *wasmWindowWrapper) Close() {
	if w.closed {
		return
	}
	w.closed = true

	for _, l := range w.listeners {
		l.target.Call("removeEventListener", l.typ, l.fn)
		l.fn.Release()
	}
	w.listeners = nil
	w.wrapper.Call("remove")
}

func (w *wasmWindowWrapper) NextEventTimeout(timeoutMs int) gfx.Event {
	select {
	case e := <-w.events:
		return e
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
		return gfx.TimeoutEvent{}
	}
}

// GLContext returns the WebGLRenderingContext as a js.Value.
func (w *wasmWindowWrapper) GLContext() any {
	return w.gl
}

// The browser presents the drawing buffer when control returns to it.
func (w *wasmWindowWrapper) BeginFrame() {}
func (w *wasmWindowWrapper) EndFrame()   {}
