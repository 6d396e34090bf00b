package gfx

import "github.com/go-gl/mathgl/mgl32"

// ShaderStage selects the pipeline stage a shader is compiled for.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Shader, Program and Buffer are opaque device handles. Zero is never a
// valid handle.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
)

// Location is a uniform or attribute slot inside a linked program.
type Location int32

// NoLocation is returned for names the program does not expose.
const NoLocation Location = -1

// Device is the subset of a GL-style graphics API the renderer needs.
// Implementations exist for desktop OpenGL, browser WebGL and a software
// rasterizer. A Device is bound to the goroutine that owns its context.
type Device interface {
	// CompileShader returns a *ShaderError wrapping ErrShaderCompile when
	// the driver rejects the source.
	CompileShader(stage ShaderStage, source string) (Shader, error)
	// LinkProgram returns a *ShaderError wrapping ErrProgramLink when the
	// shaders cannot be linked.
	LinkProgram(vertex, fragment Shader) (Program, error)
	DeleteShader(s Shader)
	DeleteProgram(p Program)

	UniformLocation(p Program, name string) Location
	AttribLocation(p Program, name string) Location

	// CreateBuffer uploads data into a new static array buffer.
	CreateBuffer(data []float32) (Buffer, error)
	DeleteBuffer(b Buffer)

	Viewport(x, y, width, height int)
	ClearColor(c mgl32.Vec4)
	Clear()
	UseProgram(p Program)
	Uniform2f(loc Location, v mgl32.Vec2)
	Uniform4f(loc Location, v mgl32.Vec4)
	// VertexAttrib binds b to loc as tightly packed, non-normalized floats.
	VertexAttrib(loc Location, b Buffer, components int)
	DrawTriangleFan(first, count int)

	// Err reports and clears the first error raised since the last call.
	Err() error
}
