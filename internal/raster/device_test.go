package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjkrol/polyspin/pkg/gfx"
)

const (
	flatVertex   = "attribute vec2 a_position;\nvoid main () { gl_Position = vec4(a_position, 0.0, 1.0); }\n"
	flatFragment = "uniform vec4 u_color;\nvoid main () { gl_FragColor = u_color; }\n"
)

func flatShading() Shading {
	return Shading{
		Fragment: func(u Uniforms) mgl32.Vec4 { return u.Vec4("u_color") },
	}
}

func linkFlat(t *testing.T, d *Device) gfx.Program {
	t.Helper()
	vs, err := d.CompileShader(gfx.VertexStage, flatVertex)
	require.NoError(t, err)
	fs, err := d.CompileShader(gfx.FragmentStage, flatFragment)
	require.NoError(t, err)
	p, err := d.LinkProgram(vs, fs)
	require.NoError(t, err)
	d.DeleteShader(vs)
	d.DeleteShader(fs)
	return p
}

func TestDevice_DrawsFanOverClearColour(t *testing.T) {
	d := New(100, 100, flatShading())
	p := linkFlat(t, d)

	// Square covering the middle half of the surface.
	b, err := d.CreateBuffer([]float32{-0.5, -0.5, 0.5, -0.5, 0.5, 0.5, -0.5, 0.5})
	require.NoError(t, err)

	d.ClearColor(mgl32.Vec4{0, 0, 1, 1})
	d.Clear()
	d.UseProgram(p)
	d.Uniform4f(d.UniformLocation(p, "u_color"), mgl32.Vec4{1, 0, 0, 1})
	d.VertexAttrib(d.AttribLocation(p, "a_position"), b, 2)
	d.DrawTriangleFan(0, 4)
	require.NoError(t, d.Err())

	assert.Equal(t, color.NRGBA{R: 255, A: 255}, d.At(50, 50))
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, d.At(30, 70))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, d.At(5, 5))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, d.At(90, 50))

	stats := d.Stats()
	assert.Equal(t, 1, stats.Clears)
	assert.Equal(t, 1, stats.Draws)
}

func TestDevice_ViewportUsesBottomLeftOrigin(t *testing.T) {
	d := New(100, 100, flatShading())
	p := linkFlat(t, d)
	b, err := d.CreateBuffer([]float32{-1, -1, 1, -1, 1, 1, -1, 1})
	require.NoError(t, err)

	d.ClearColor(mgl32.Vec4{0, 0, 0, 1})
	d.Clear()
	d.Viewport(0, 0, 50, 50)
	d.UseProgram(p)
	d.Uniform4f(d.UniformLocation(p, "u_color"), mgl32.Vec4{1, 1, 1, 1})
	d.VertexAttrib(0, b, 2)
	d.DrawTriangleFan(0, 4)
	require.NoError(t, d.Err())

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.NRGBA{A: 255}
	assert.Equal(t, white, d.At(10, 90))
	assert.Equal(t, black, d.At(10, 10))
	assert.Equal(t, black, d.At(90, 90))
}

func TestDevice_RecordsMisuse(t *testing.T) {
	d := New(10, 10, Shading{})

	d.DrawTriangleFan(0, 3)
	assert.ErrorIs(t, d.Err(), ErrNoProgram)
	assert.NoError(t, d.Err(), "Err clears the recorded error")

	p := linkFlat(t, d)
	d.UseProgram(p)
	d.DrawTriangleFan(0, 3)
	assert.ErrorIs(t, d.Err(), ErrNoAttribute)

	b, err := d.CreateBuffer([]float32{0, 0, 1, 0})
	require.NoError(t, err)
	d.VertexAttrib(0, b, 2)
	d.DrawTriangleFan(0, 3)
	assert.ErrorIs(t, d.Err(), ErrOutOfRange)

	d.Uniform4f(gfx.Location(42), mgl32.Vec4{})
	assert.ErrorIs(t, d.Err(), ErrInvalidLocation)

	d.DeleteBuffer(b)
	d.DeleteBuffer(b)
	assert.ErrorIs(t, d.Err(), ErrInvalidHandle)

	d.UseProgram(gfx.Program(999))
	assert.ErrorIs(t, d.Err(), ErrInvalidHandle)
}

func TestDevice_CompileChecks(t *testing.T) {
	d := New(10, 10, Shading{})
	tests := []struct {
		name   string
		stage  gfx.ShaderStage
		source string
	}{
		{"empty", gfx.VertexStage, "  \n"},
		{"no main", gfx.VertexStage, "attribute vec2 a;"},
		{"unbalanced", gfx.FragmentStage, "void main () { gl_FragColor = vec4(1.0);"},
		{"no position", gfx.VertexStage, "void main () {}"},
		{"attribute in fragment", gfx.FragmentStage, "attribute vec2 a;\nvoid main () { gl_FragColor = vec4(a, 0.0, 1.0); }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.CompileShader(tt.stage, tt.source)
			require.Error(t, err)
			assert.ErrorIs(t, err, gfx.ErrShaderCompile)
			var shaderErr *gfx.ShaderError
			require.ErrorAs(t, err, &shaderErr)
			assert.Contains(t, shaderErr.Log, "ERROR")
		})
	}
}

func TestParseDecls(t *testing.T) {
	decls := parseDecls("attribute vec2 a_position;\n  uniform highp vec4 u_color;\nvarying vec2 v;\n")
	assert.Equal(t, []decl{
		{kind: "attribute", typ: "vec2", name: "a_position"},
		{kind: "uniform", typ: "vec4", name: "u_color"},
	}, decls)
}

func TestDevice_WritePNG(t *testing.T) {
	d := New(4, 3, Shading{})
	d.ClearColor(mgl32.Vec4{0.5, 0.5, 0.2, 1})
	d.Clear()

	var buf bytes.Buffer
	require.NoError(t, d.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
	assert.Equal(t, ColorOf(mgl32.Vec4{0.5, 0.5, 0.2, 1}), color.NRGBAModel.Convert(img.At(1, 1)))
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 153, G: 153, B: 153, A: 229}, ColorOf(mgl32.Vec4{0.6, 0.6, 0.6, 0.9}))
	assert.Equal(t, color.NRGBA{R: 0, G: 255, B: 128, A: 255}, ColorOf(mgl32.Vec4{-1, 2, 0.5, 1}))
}
