package scene

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/polyspin/internal/raster"
	"github.com/kjkrol/polyspin/pkg/gfx"
)

// GLSL ES 1.00 sources of the polygon program. Desktop backends add their
// own preamble in front of them.
var (
	//go:embed shaders/polygon.vert
	VertexSource string
	//go:embed shaders/polygon.frag
	FragmentSource string
)

const (
	UniformRotation = "u_rotationVector"
	UniformScale    = "u_scalingVector"
	UniformColor    = "u_colorVector"
	AttribPosition  = "a_position"
)

func programSpec() gfx.ProgramSpec {
	return gfx.ProgramSpec{
		VertexSource:   VertexSource,
		FragmentSource: FragmentSource,
		Uniforms:       []string{UniformRotation, UniformScale, UniformColor},
		Attributes:     []string{AttribPosition},
	}
}

// CPUShading mirrors the polygon program for the software device.
func CPUShading() raster.Shading {
	return raster.Shading{
		Vertex: func(u raster.Uniforms, p mgl32.Vec2) mgl32.Vec4 {
			rot := u.Vec2(UniformRotation)
			scale := u.Vec2(UniformScale)
			x := p[0]*rot[1] + p[1]*rot[0]
			y := p[1]*rot[1] - p[0]*rot[0]
			return mgl32.Vec4{x * scale[0], y * scale[1], 0, 1}
		},
		Fragment: func(u raster.Uniforms) mgl32.Vec4 {
			return u.Vec4(UniformColor)
		},
	}
}
