//go:build !js && !cgo

package renderer

import (
	"errors"

	"github.com/kjkrol/polyspin/pkg/gfx"
)

func newDevice(any) (gfx.Device, error) {
	return nil, errors.New("opengl needs a cgo build")
}
