package scene

import "github.com/kjkrol/polyspin/pkg/gfx"

// StepSides moves the side count by delta, e.g. from arrow keys.
func (s *Scene) StepSides(delta int) error {
	return s.SetSides(s.Sides() + delta)
}

// HandleEvent applies a window event to the scene. It reports quit when the
// window is closing.
func (s *Scene) HandleEvent(event gfx.Event) (quit bool, err error) {
	switch e := event.(type) {
	case gfx.SideCountChange:
		return false, s.SetSides(e.Value)
	case gfx.KeyPress:
		switch e.Label {
		case gfx.KeyArrowUp, gfx.KeyArrowRight:
			return false, s.StepSides(1)
		case gfx.KeyArrowDown, gfx.KeyArrowLeft:
			return false, s.StepSides(-1)
		case gfx.KeyEscape:
			return true, nil
		}
	case gfx.Expose:
		return false, s.Draw()
	case gfx.DestroyNotify:
		return true, nil
	}
	return false, nil
}
