// Package renderer binds gfx.Device to the host graphics API: go-gl on
// desktop, the browser's WebGL context under wasm.
package renderer

import (
	"fmt"

	"github.com/kjkrol/polyspin/pkg/gfx"
)

// NewDevice wraps the context owned by w. The context must be current on
// the calling goroutine.
func NewDevice(w *gfx.Window) (gfx.Device, error) {
	if w == nil {
		return nil, fmt.Errorf("new device: no window")
	}
	dev, err := newDevice(w.GLContext())
	if err != nil {
		return nil, fmt.Errorf("new device: %w", err)
	}
	return dev, nil
}
