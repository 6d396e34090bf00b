package gfx

import (
	"math"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDegreesPerSecond is the rotation rate used when none is configured.
const DefaultDegreesPerSecond = 45.0

// RenderState is the per-frame transform of the shape.
type RenderState struct {
	Angle            float64 // degrees, always in [0, 360)
	PrevFrame        time.Time
	Scale            mgl32.Vec2
	Rotation         mgl32.Vec2 // (sin, cos) of Angle
	DegreesPerSecond float64
}

// NewRenderState returns the state at rest: no rotation, vertical scale set
// to the surface aspect ratio and no frame seen yet.
func NewRenderState(aspect float32, degreesPerSecond float64) RenderState {
	if degreesPerSecond == 0 {
		degreesPerSecond = DefaultDegreesPerSecond
	}
	return RenderState{
		Scale:            mgl32.Vec2{1, aspect},
		Rotation:         mgl32.Vec2{0, 1},
		DegreesPerSecond: degreesPerSecond,
	}
}

// Advance moves the angle by the wall-clock time elapsed since the previous
// frame and returns the applied delta in degrees. The first frame only
// records its timestamp. Time running backwards advances nothing.
func (s *RenderState) Advance(now time.Time) float64 {
	var delta float64
	if !s.PrevFrame.IsZero() {
		elapsed := now.Sub(s.PrevFrame).Seconds()
		if elapsed > 0 {
			delta = elapsed * s.DegreesPerSecond
		}
	}
	s.Angle = wrapDegrees(s.Angle + delta)
	s.PrevFrame = now
	s.updateRotation()
	return delta
}

func (s *RenderState) updateRotation() {
	rad := float32(s.Angle * math.Pi / 180)
	s.Rotation = mgl32.Vec2{math32.Sin(rad), math32.Cos(rad)}
}

func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
