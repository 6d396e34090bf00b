//go:build !js && cgo

package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/polyspin/pkg/gfx"
)

// GLSL ES 1.00 sources are rewritten for the 3.3 core profile.
var (
	vertexRewrite   = strings.NewReplacer("attribute ", "in ", "varying ", "out ")
	fragmentRewrite = strings.NewReplacer("varying ", "in ", "gl_FragColor", "fragColor")
)

type glDevice struct {
	vao uint32
	err error
}

func newDevice(_ any) (gfx.Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	d := &glDevice{}
	// Core profile refuses to draw without a bound vertex array.
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.Disable(gl.DEPTH_TEST)
	return d, nil
}

func buildShaderSource(stage gfx.ShaderStage, source string) string {
	var sb strings.Builder
	sb.WriteString("#version 330 core\n")
	switch stage {
	case gfx.VertexStage:
		sb.WriteString(vertexRewrite.Replace(source))
	case gfx.FragmentStage:
		sb.WriteString("out vec4 fragColor;\n")
		sb.WriteString(fragmentRewrite.Replace(source))
	}
	if !strings.HasSuffix(source, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

func (d *glDevice) CompileShader(stage gfx.ShaderStage, source string) (gfx.Shader, error) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == gfx.FragmentStage {
		shaderType = gl.FRAGMENT_SHADER
	}
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(buildShaderSource(stage, source) + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, gfx.NewCompileError(stage, log)
	}
	return gfx.Shader(shader), nil
}

func (d *glDevice) LinkProgram(vertex, fragment gfx.Shader) (gfx.Program, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, uint32(vertex))
	gl.AttachShader(program, uint32(fragment))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, gfx.NewLinkError(log)
	}
	gl.DetachShader(program, uint32(vertex))
	gl.DetachShader(program, uint32(fragment))
	return gfx.Program(program), nil
}

func (d *glDevice) DeleteShader(s gfx.Shader) {
	gl.DeleteShader(uint32(s))
}

func (d *glDevice) DeleteProgram(p gfx.Program) {
	gl.DeleteProgram(uint32(p))
}

func (d *glDevice) UniformLocation(p gfx.Program, name string) gfx.Location {
	return gfx.Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *glDevice) AttribLocation(p gfx.Program, name string) gfx.Location {
	return gfx.Location(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *glDevice) CreateBuffer(data []float32) (gfx.Buffer, error) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	if vbo == 0 {
		return 0, fmt.Errorf("gen buffers: %w", gfx.ErrBufferAlloc)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &vbo)
		return 0, fmt.Errorf("buffer data: gl error 0x%04x: %w", code, gfx.ErrBufferAlloc)
	}
	return gfx.Buffer(vbo), nil
}

func (d *glDevice) DeleteBuffer(b gfx.Buffer) {
	vbo := uint32(b)
	gl.DeleteBuffers(1, &vbo)
}

func (d *glDevice) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *glDevice) ClearColor(c mgl32.Vec4) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (d *glDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *glDevice) UseProgram(p gfx.Program) {
	gl.UseProgram(uint32(p))
}

func (d *glDevice) Uniform2f(loc gfx.Location, v mgl32.Vec2) {
	gl.Uniform2f(int32(loc), v[0], v[1])
}

func (d *glDevice) Uniform4f(loc gfx.Location, v mgl32.Vec4) {
	gl.Uniform4f(int32(loc), v[0], v[1], v[2], v[3])
}

func (d *glDevice) VertexAttrib(loc gfx.Location, b gfx.Buffer, components int) {
	if loc < 0 {
		d.fail(fmt.Errorf("vertex attrib: invalid location %d", loc))
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), int32(components), gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (d *glDevice) DrawTriangleFan(first, count int) {
	gl.DrawArrays(gl.TRIANGLE_FAN, int32(first), int32(count))
}

func (d *glDevice) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Err drains the GL error queue and reports the first error seen.
func (d *glDevice) Err() error {
	err := d.err
	d.err = nil
	for {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		if err == nil {
			err = fmt.Errorf("gl error 0x%04x", code)
		}
	}
	return err
}
