// Package platform opens the host surface of the demo: a GLFW window with an
// OpenGL 3.3 core context on desktop, a canvas and a range slider in the
// browser.
package platform

import "errors"

// ErrContextUnavailable is returned when the host cannot provide a GL
// rendering context.
var ErrContextUnavailable = errors.New("gl context unavailable")
