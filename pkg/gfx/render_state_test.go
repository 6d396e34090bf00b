package gfx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderState_FirstFrameSeedsTimestamp(t *testing.T) {
	s := NewRenderState(4.0/3.0, 0)
	now := time.Unix(1_700_000_000, 0)

	delta := s.Advance(now)

	assert.Zero(t, delta)
	assert.Zero(t, s.Angle)
	assert.Equal(t, now, s.PrevFrame)
	assert.Equal(t, DefaultDegreesPerSecond, s.DegreesPerSecond)
	assert.InDelta(t, 0, float64(s.Rotation[0]), 1e-7)
	assert.InDelta(t, 1, float64(s.Rotation[1]), 1e-7)
}

func TestRenderState_Advance(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name    string
		start   float64
		elapsed time.Duration
		want    float64
	}{
		{"one second", 0, time.Second, 45},
		{"quarter second", 10, 250 * time.Millisecond, 21.25},
		{"wraps past 360", 350, time.Second, 35},
		{"long gap", 0, 8 * time.Second, 0},
		{"clock stepped back", 90, -2 * time.Second, 90},
		{"same timestamp", 90, 0, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRenderState(1, DefaultDegreesPerSecond)
			s.Angle = tt.start
			s.PrevFrame = base

			s.Advance(base.Add(tt.elapsed))

			assert.InDelta(t, tt.want, s.Angle, 1e-9)
			assert.GreaterOrEqual(t, s.Angle, 0.0)
			assert.Less(t, s.Angle, 360.0)
			assert.Equal(t, base.Add(tt.elapsed), s.PrevFrame)
		})
	}
}

func TestRenderState_RotationVector(t *testing.T) {
	s := NewRenderState(1, 90)
	base := time.Unix(0, 0).Add(time.Hour)
	s.Advance(base)
	s.Advance(base.Add(time.Second))

	assert.InDelta(t, 90, s.Angle, 1e-9)
	assert.InDelta(t, 1, float64(s.Rotation[0]), 1e-6)
	assert.InDelta(t, 0, float64(s.Rotation[1]), 1e-6)
}

func TestRenderState_Scale(t *testing.T) {
	s := NewRenderState(Viewport{Width: 640, Height: 480}.Aspect(), 0)
	assert.Equal(t, float32(1), s.Scale[0])
	assert.InDelta(t, 4.0/3.0, float64(s.Scale[1]), 1e-6)

	assert.Equal(t, float32(1), Viewport{}.Aspect())
}
