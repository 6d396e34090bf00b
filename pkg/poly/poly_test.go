package poly_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjkrol/polyspin/pkg/poly"
)

const radius = 0.5

func TestGenerate_RegularPolygon(t *testing.T) {
	for sides := 3; sides <= 12; sides++ {
		set := poly.Generate(sides, radius)

		require.Equal(t, sides, set.Sides)
		require.Equal(t, sides, set.Count())
		require.Len(t, set.Coords, 2*sides)

		step := 2 * math.Pi / float64(sides)
		for i := 0; i < set.Count(); i++ {
			x, y := set.Point(i)
			dist := math.Hypot(float64(x), float64(y))
			assert.InDelta(t, radius, dist, 1e-6, "sides=%d vertex=%d", sides, i)

			angle := math.Atan2(float64(y), float64(x))
			if angle < 0 {
				angle += 2 * math.Pi
			}
			assert.InDelta(t, step*float64(i), angle, 1e-5, "sides=%d vertex=%d", sides, i)
		}
	}
}

func TestGenerate_ClampsToTriangle(t *testing.T) {
	want := poly.Generate(3, radius)
	for _, sides := range []int{-5, 0, 1, 2} {
		got := poly.Generate(sides, radius)
		assert.True(t, want.Equal(got), "sides=%d", sides)
		assert.Equal(t, 3, got.Count())
	}
}

func TestGenerate_NoUpperClamp(t *testing.T) {
	set := poly.Generate(64, radius)
	assert.Equal(t, 64, set.Count())
}

func TestGenerate_HexagonAngles(t *testing.T) {
	set := poly.Generate(6, radius)
	require.Equal(t, 6, set.Count())
	for i, deg := range []float64{0, 60, 120, 180, 240, 300} {
		rad := deg * math.Pi / 180
		x, y := set.Point(i)
		assert.InDelta(t, radius*math.Cos(rad), float64(x), 1e-6)
		assert.InDelta(t, radius*math.Sin(rad), float64(y), 1e-6)
	}
}

func TestVertexSet_Equal(t *testing.T) {
	a := poly.Generate(5, radius)
	b := poly.Generate(5, radius)
	c := poly.Generate(5, 0.25)
	d := poly.Generate(6, radius)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}
