package gfx

// Viewport is the pixel area a frame is drawn into.
type Viewport struct {
	Width  int
	Height int
}

// Aspect returns width over height, or 1 for an empty viewport.
func (v Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

func (v Viewport) Apply(dev Device) {
	dev.Viewport(0, 0, v.Width, v.Height)
}
