//go:build js && wasm

package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/mobile/exp/f32"

	"github.com/kjkrol/polyspin/pkg/gfx"
)

type glConsts struct {
	arrayBuffer    int
	staticDraw     int
	floatType      int
	triangleFan    int
	colorBufferBit int
	compileStatus  int
	linkStatus     int
	vertexShader   int
	fragmentShader int
	depthTest      int
	noError        int
}

// webglDevice keeps JS objects in handle tables; WebGL has no integer names.
type webglDevice struct {
	gl     js.Value
	consts glConsts

	next     uint32
	shaders  map[gfx.Shader]js.Value
	programs map[gfx.Program]js.Value
	buffers  map[gfx.Buffer]js.Value
	uniforms map[gfx.Location]js.Value
	nextLoc  gfx.Location

	err error
}

func newDevice(ctx any) (gfx.Device, error) {
	gl, ok := ctx.(js.Value)
	if !ok || gl.IsUndefined() || gl.IsNull() {
		return nil, errors.New("webgl context is required")
	}
	d := &webglDevice{
		gl:       gl,
		shaders:  make(map[gfx.Shader]js.Value),
		programs: make(map[gfx.Program]js.Value),
		buffers:  make(map[gfx.Buffer]js.Value),
		uniforms: make(map[gfx.Location]js.Value),
	}
	d.initConsts()
	gl.Call("disable", d.consts.depthTest)
	return d, nil
}

func (d *webglDevice) initConsts() {
	d.consts = glConsts{
		arrayBuffer:    d.gl.Get("ARRAY_BUFFER").Int(),
		staticDraw:     d.gl.Get("STATIC_DRAW").Int(),
		floatType:      d.gl.Get("FLOAT").Int(),
		triangleFan:    d.gl.Get("TRIANGLE_FAN").Int(),
		colorBufferBit: d.gl.Get("COLOR_BUFFER_BIT").Int(),
		compileStatus:  d.gl.Get("COMPILE_STATUS").Int(),
		linkStatus:     d.gl.Get("LINK_STATUS").Int(),
		vertexShader:   d.gl.Get("VERTEX_SHADER").Int(),
		fragmentShader: d.gl.Get("FRAGMENT_SHADER").Int(),
		depthTest:      d.gl.Get("DEPTH_TEST").Int(),
		noError:        d.gl.Get("NO_ERROR").Int(),
	}
}

func (d *webglDevice) handle() uint32 {
	d.next++
	return d.next
}

func (d *webglDevice) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *webglDevice) CompileShader(stage gfx.ShaderStage, source string) (gfx.Shader, error) {
	shaderType := d.consts.vertexShader
	if stage == gfx.FragmentStage {
		shaderType = d.consts.fragmentShader
	}
	shader := d.gl.Call("createShader", shaderType)
	if shader.IsNull() {
		return 0, gfx.NewCompileError(stage, "createShader returned null")
	}
	d.gl.Call("shaderSource", shader, source)
	d.gl.Call("compileShader", shader)
	if !d.gl.Call("getShaderParameter", shader, d.consts.compileStatus).Bool() {
		log := d.gl.Call("getShaderInfoLog", shader).String()
		d.gl.Call("deleteShader", shader)
		return 0, gfx.NewCompileError(stage, log)
	}
	h := gfx.Shader(d.handle())
	d.shaders[h] = shader
	return h, nil
}

func (d *webglDevice) LinkProgram(vertex, fragment gfx.Shader) (gfx.Program, error) {
	vs, ok := d.shaders[vertex]
	if !ok {
		return 0, gfx.NewLinkError("unknown vertex shader")
	}
	fs, ok := d.shaders[fragment]
	if !ok {
		return 0, gfx.NewLinkError("unknown fragment shader")
	}
	program := d.gl.Call("createProgram")
	d.gl.Call("attachShader", program, vs)
	d.gl.Call("attachShader", program, fs)
	d.gl.Call("linkProgram", program)

	if !d.gl.Call("getProgramParameter", program, d.consts.linkStatus).Bool() {
		log := d.gl.Call("getProgramInfoLog", program).String()
		d.gl.Call("deleteProgram", program)
		return 0, gfx.NewLinkError(log)
	}
	h := gfx.Program(d.handle())
	d.programs[h] = program
	return h, nil
}

func (d *webglDevice) DeleteShader(s gfx.Shader) {
	if shader, ok := d.shaders[s]; ok {
		d.gl.Call("deleteShader", shader)
		delete(d.shaders, s)
	}
}

func (d *webglDevice) DeleteProgram(p gfx.Program) {
	if program, ok := d.programs[p]; ok {
		d.gl.Call("deleteProgram", program)
		delete(d.programs, p)
	}
}

func (d *webglDevice) UniformLocation(p gfx.Program, name string) gfx.Location {
	program, ok := d.programs[p]
	if !ok {
		return gfx.NoLocation
	}
	loc := d.gl.Call("getUniformLocation", program, name)
	if loc.IsNull() {
		return gfx.NoLocation
	}
	id := d.nextLoc
	d.nextLoc++
	d.uniforms[id] = loc
	return id
}

func (d *webglDevice) AttribLocation(p gfx.Program, name string) gfx.Location {
	program, ok := d.programs[p]
	if !ok {
		return gfx.NoLocation
	}
	return gfx.Location(d.gl.Call("getAttribLocation", program, name).Int())
}

func (d *webglDevice) CreateBuffer(data []float32) (gfx.Buffer, error) {
	buffer := d.gl.Call("createBuffer")
	if buffer.IsNull() {
		return 0, fmt.Errorf("createBuffer returned null: %w", gfx.ErrBufferAlloc)
	}
	d.gl.Call("bindBuffer", d.consts.arrayBuffer, buffer)
	d.gl.Call("bufferData", d.consts.arrayBuffer, float32Array(data), d.consts.staticDraw)
	h := gfx.Buffer(d.handle())
	d.buffers[h] = buffer
	return h, nil
}

func (d *webglDevice) DeleteBuffer(b gfx.Buffer) {
	if buffer, ok := d.buffers[b]; ok {
		d.gl.Call("deleteBuffer", buffer)
		delete(d.buffers, b)
	}
}

func (d *webglDevice) Viewport(x, y, width, height int) {
	d.gl.Call("viewport", x, y, width, height)
}

func (d *webglDevice) ClearColor(c mgl32.Vec4) {
	d.gl.Call("clearColor", c[0], c[1], c[2], c[3])
}

func (d *webglDevice) Clear() {
	d.gl.Call("clear", d.consts.colorBufferBit)
}

func (d *webglDevice) UseProgram(p gfx.Program) {
	program, ok := d.programs[p]
	if !ok {
		d.fail(fmt.Errorf("use program %d: unknown handle", p))
		return
	}
	d.gl.Call("useProgram", program)
}

func (d *webglDevice) uniform(loc gfx.Location) (js.Value, bool) {
	u, ok := d.uniforms[loc]
	if !ok {
		d.fail(fmt.Errorf("uniform location %d: unknown", loc))
	}
	return u, ok
}

func (d *webglDevice) Uniform2f(loc gfx.Location, v mgl32.Vec2) {
	if u, ok := d.uniform(loc); ok {
		d.gl.Call("uniform2f", u, v[0], v[1])
	}
}

func (d *webglDevice) Uniform4f(loc gfx.Location, v mgl32.Vec4) {
	if u, ok := d.uniform(loc); ok {
		d.gl.Call("uniform4f", u, v[0], v[1], v[2], v[3])
	}
}

func (d *webglDevice) VertexAttrib(loc gfx.Location, b gfx.Buffer, components int) {
	buffer, ok := d.buffers[b]
	if !ok || loc < 0 {
		d.fail(fmt.Errorf("vertex attrib %d: unknown buffer %d", loc, b))
		return
	}
	d.gl.Call("bindBuffer", d.consts.arrayBuffer, buffer)
	d.gl.Call("vertexAttribPointer", int(loc), components, d.consts.floatType, false, 0, 0)
	d.gl.Call("enableVertexAttribArray", int(loc))
}

func (d *webglDevice) DrawTriangleFan(first, count int) {
	d.gl.Call("drawArrays", d.consts.triangleFan, first, count)
}

func (d *webglDevice) Err() error {
	err := d.err
	d.err = nil
	if code := d.gl.Call("getError").Int(); code != d.consts.noError && err == nil {
		err = fmt.Errorf("webgl error 0x%04x", code)
	}
	return err
}

// float32Array copies data into a new JS Float32Array.
func float32Array(data []float32) js.Value {
	arr := js.Global().Get("Float32Array").New(len(data))
	if len(data) == 0 {
		return arr
	}
	view := js.Global().Get("Uint8Array").New(arr.Get("buffer"), arr.Get("byteOffset"), arr.Get("byteLength"))
	js.CopyBytesToJS(view, f32.Bytes(binary.LittleEndian, data...))
	return arr
}
