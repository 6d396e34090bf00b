package gfx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjkrol/polyspin/internal/raster"
	"github.com/kjkrol/polyspin/pkg/gfx"
)

const (
	passVertex = `attribute vec2 a_position;
uniform vec2 u_offset;
void main () {
  gl_Position = vec4(a_position + u_offset, 0.0, 1.0);
}
`
	passFragment = `uniform vec4 u_color;
void main () {
  gl_FragColor = u_color;
}
`
)

func passSpec() gfx.ProgramSpec {
	return gfx.ProgramSpec{
		VertexSource:   passVertex,
		FragmentSource: passFragment,
		Uniforms:       []string{"u_offset", "u_color"},
		Attributes:     []string{"a_position"},
	}
}

func TestNewPipeline_ResolvesLocations(t *testing.T) {
	dev := raster.New(8, 8, raster.Shading{})

	p, err := gfx.NewPipeline(dev, passSpec())
	require.NoError(t, err)
	defer p.Close()

	assert.NotZero(t, p.Program())
	assert.NotEqual(t, gfx.NoLocation, p.Uniform("u_offset"))
	assert.NotEqual(t, gfx.NoLocation, p.Uniform("u_color"))
	assert.Equal(t, gfx.Location(0), p.Attrib("a_position"))
	assert.Equal(t, gfx.NoLocation, p.Uniform("u_missing"))
	assert.Equal(t, 1, dev.Stats().LivePrograms)
}

func TestNewPipeline_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*gfx.ProgramSpec)
		sentinel error
		stage    gfx.ShaderStage
	}{
		{
			name:     "vertex without main",
			mutate:   func(s *gfx.ProgramSpec) { s.VertexSource = "attribute vec2 a_position;" },
			sentinel: gfx.ErrShaderCompile,
			stage:    gfx.VertexStage,
		},
		{
			name:     "fragment never writes colour",
			mutate:   func(s *gfx.ProgramSpec) { s.FragmentSource = "void main () {}" },
			sentinel: gfx.ErrShaderCompile,
			stage:    gfx.FragmentStage,
		},
		{
			name: "uniform type mismatch",
			mutate: func(s *gfx.ProgramSpec) {
				s.FragmentSource = "uniform vec4 u_offset;\nvoid main () { gl_FragColor = u_offset; }"
				s.Uniforms = []string{"u_offset"}
			},
			sentinel: gfx.ErrProgramLink,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := raster.New(8, 8, raster.Shading{})
			spec := passSpec()
			tt.mutate(&spec)

			p, err := gfx.NewPipeline(dev, spec)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.sentinel)

			var shaderErr *gfx.ShaderError
			require.True(t, errors.As(err, &shaderErr))
			assert.NotEmpty(t, shaderErr.Log)
			if tt.sentinel == gfx.ErrShaderCompile {
				assert.Equal(t, tt.stage, shaderErr.Stage)
				assert.Contains(t, err.Error(), tt.stage.String())
			}
			assert.Zero(t, dev.Stats().LivePrograms)
		})
	}
}

func TestNewPipeline_MissingSymbol(t *testing.T) {
	dev := raster.New(8, 8, raster.Shading{})
	spec := passSpec()
	spec.Attributes = append(spec.Attributes, "a_normal")

	_, err := gfx.NewPipeline(dev, spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, gfx.ErrMissingSymbol)
	assert.Contains(t, err.Error(), "a_normal")
	assert.Zero(t, dev.Stats().LivePrograms)
}

func TestShaderError_TrimsDriverPadding(t *testing.T) {
	err := gfx.NewCompileError(gfx.FragmentStage, "ERROR: 0:3: syntax error\n\x00\x00")
	assert.Equal(t, "ERROR: 0:3: syntax error", err.Log)
	assert.Equal(t, "fragment shader compile failed: ERROR: 0:3: syntax error", err.Error())

	link := gfx.NewLinkError("bad link\x00")
	assert.ErrorIs(t, link, gfx.ErrProgramLink)
	assert.Equal(t, "program link failed: bad link", link.Error())
}
