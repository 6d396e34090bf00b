// Package poly builds vertex sets for regular polygons and caches them by
// side count.
package poly

import "math"

// MinSides is the smallest polygon the generator will build.
const MinSides = 3

// Components is the number of floats stored per vertex.
const Components = 2

// VertexSet holds the 2D vertices of a regular polygon inscribed in a circle
// of Radius centred at the origin. Coords stores x,y pairs and must not be
// modified once the set is built.
type VertexSet struct {
	Sides  int
	Radius float64
	Coords []float32
}

// Count returns the number of vertices in the set.
func (v VertexSet) Count() int {
	return len(v.Coords) / Components
}

// Point returns the i-th vertex.
func (v VertexSet) Point(i int) (x, y float32) {
	return v.Coords[i*Components], v.Coords[i*Components+1]
}

// Equal reports whether both sets hold exactly the same coordinates.
func (v VertexSet) Equal(o VertexSet) bool {
	if v.Sides != o.Sides || v.Radius != o.Radius || len(v.Coords) != len(o.Coords) {
		return false
	}
	for i := range v.Coords {
		if v.Coords[i] != o.Coords[i] {
			return false
		}
	}
	return true
}

// Generator builds the vertex set for a polygon with the given side count.
type Generator func(sides int, radius float64) VertexSet

// Generate places sides points at angles 2*pi*i/sides on a circle of the
// given radius. Side counts below MinSides produce a triangle.
func Generate(sides int, radius float64) VertexSet {
	if sides < MinSides {
		sides = MinSides
	}
	step := 2 * math.Pi / float64(sides)
	coords := make([]float32, 0, sides*Components)
	for i := 0; i < sides; i++ {
		theta := step * float64(i)
		coords = append(coords,
			float32(radius*math.Cos(theta)),
			float32(radius*math.Sin(theta)),
		)
	}
	return VertexSet{Sides: sides, Radius: radius, Coords: coords}
}
