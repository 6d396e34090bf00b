//go:build !js && !cgo

package platform

import (
	"fmt"

	"github.com/kjkrol/polyspin/pkg/gfx"
)

func NewPlatformWindowWrapper(conf gfx.WindowConfig) (gfx.WindowBackend, error) {
	return nil, fmt.Errorf("%w: %q needs a cgo build for GLFW", ErrContextUnavailable, conf.Title)
}
