// Package raster is a software gfx.Device. It rasterizes triangle fans into
// an RGBA image and backs headless runs, PNG snapshots and tests.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"

	"github.com/kjkrol/polyspin/pkg/gfx"
)

var (
	ErrInvalidHandle   = errors.New("invalid handle")
	ErrInvalidLocation = errors.New("invalid location")
	ErrNoProgram       = errors.New("no program in use")
	ErrNoAttribute     = errors.New("no vertex attribute bound")
	ErrOutOfRange      = errors.New("draw range exceeds buffer")
)

type programObject struct {
	uniforms map[string]gfx.Location
	attribs  map[string]gfx.Location
	names    map[gfx.Location]string
	values   map[gfx.Location]mgl32.Vec4
}

func (p *programObject) Vec2(name string) mgl32.Vec2 {
	v := p.Vec4(name)
	return mgl32.Vec2{v[0], v[1]}
}

func (p *programObject) Vec4(name string) mgl32.Vec4 {
	loc, ok := p.uniforms[name]
	if !ok {
		return mgl32.Vec4{}
	}
	return p.values[loc]
}

type attribBinding struct {
	buffer     gfx.Buffer
	components int
}

// Stats counts device activity since creation.
type Stats struct {
	LiveBuffers  int
	BuffersMade  int
	LivePrograms int
	Clears       int
	Draws        int
}

// Device is a gfx.Device drawing into an in-memory image.
type Device struct {
	img      *image.RGBA
	shading  Shading
	viewport image.Rectangle
	clear    mgl32.Vec4

	nextHandle uint32
	shaders    map[gfx.Shader]*shaderObject
	programs   map[gfx.Program]*programObject
	buffers    map[gfx.Buffer][]float32
	current    gfx.Program
	attribs    map[gfx.Location]attribBinding

	bufferErr error
	err       error
	stats     Stats
}

var _ gfx.Device = (*Device)(nil)

// New returns a device with a width x height colour buffer. A zero Shading
// draws untransformed white geometry.
func New(width, height int, shading Shading) *Device {
	def := defaultShading()
	if shading.Vertex == nil {
		shading.Vertex = def.Vertex
	}
	if shading.Fragment == nil {
		shading.Fragment = def.Fragment
	}
	bounds := image.Rect(0, 0, width, height)
	return &Device{
		img:      image.NewRGBA(bounds),
		shading:  shading,
		viewport: bounds,
		shaders:  make(map[gfx.Shader]*shaderObject),
		programs: make(map[gfx.Program]*programObject),
		buffers:  make(map[gfx.Buffer][]float32),
		attribs:  make(map[gfx.Location]attribBinding),
	}
}

func (d *Device) handle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

func (d *Device) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *Device) CompileShader(stage gfx.ShaderStage, source string) (gfx.Shader, error) {
	if log, ok := checkSource(stage, source); !ok {
		return 0, gfx.NewCompileError(stage, log)
	}
	h := gfx.Shader(d.handle())
	d.shaders[h] = &shaderObject{stage: stage, decls: parseDecls(source)}
	return h, nil
}

func (d *Device) LinkProgram(vertex, fragment gfx.Shader) (gfx.Program, error) {
	vs, ok := d.shaders[vertex]
	if !ok || vs.stage != gfx.VertexStage {
		return 0, gfx.NewLinkError("ERROR: missing or invalid vertex shader")
	}
	fs, ok := d.shaders[fragment]
	if !ok || fs.stage != gfx.FragmentStage {
		return 0, gfx.NewLinkError("ERROR: missing or invalid fragment shader")
	}

	prog := &programObject{
		uniforms: make(map[string]gfx.Location),
		attribs:  make(map[string]gfx.Location),
		names:    make(map[gfx.Location]string),
		values:   make(map[gfx.Location]mgl32.Vec4),
	}
	types := make(map[string]string)
	var nextUniform, nextAttrib gfx.Location
	for _, sh := range []*shaderObject{vs, fs} {
		for _, dcl := range sh.decls {
			switch dcl.kind {
			case "uniform":
				if typ, seen := types[dcl.name]; seen {
					if typ != dcl.typ {
						return 0, gfx.NewLinkError(fmt.Sprintf("ERROR: uniform %q declared as %s and %s", dcl.name, typ, dcl.typ))
					}
					continue
				}
				types[dcl.name] = dcl.typ
				prog.uniforms[dcl.name] = nextUniform
				prog.names[nextUniform] = dcl.name
				nextUniform++
			case "attribute":
				prog.attribs[dcl.name] = nextAttrib
				nextAttrib++
			}
		}
	}

	h := gfx.Program(d.handle())
	d.programs[h] = prog
	d.stats.LivePrograms++
	return h, nil
}

func (d *Device) DeleteShader(s gfx.Shader) {
	delete(d.shaders, s)
}

func (d *Device) DeleteProgram(p gfx.Program) {
	if _, ok := d.programs[p]; !ok {
		d.fail(fmt.Errorf("delete program %d: %w", p, ErrInvalidHandle))
		return
	}
	delete(d.programs, p)
	d.stats.LivePrograms--
	if d.current == p {
		d.current = 0
	}
}

func (d *Device) UniformLocation(p gfx.Program, name string) gfx.Location {
	prog, ok := d.programs[p]
	if !ok {
		return gfx.NoLocation
	}
	if loc, ok := prog.uniforms[name]; ok {
		return loc
	}
	return gfx.NoLocation
}

func (d *Device) AttribLocation(p gfx.Program, name string) gfx.Location {
	prog, ok := d.programs[p]
	if !ok {
		return gfx.NoLocation
	}
	if loc, ok := prog.attribs[name]; ok {
		return loc
	}
	return gfx.NoLocation
}

// FailBuffers makes every following CreateBuffer return err; nil restores
// normal behaviour.
func (d *Device) FailBuffers(err error) {
	d.bufferErr = err
}

func (d *Device) CreateBuffer(data []float32) (gfx.Buffer, error) {
	if d.bufferErr != nil {
		return 0, fmt.Errorf("%w: %w", gfx.ErrBufferAlloc, d.bufferErr)
	}
	h := gfx.Buffer(d.handle())
	d.buffers[h] = append([]float32(nil), data...)
	d.stats.LiveBuffers++
	d.stats.BuffersMade++
	return h, nil
}

func (d *Device) DeleteBuffer(b gfx.Buffer) {
	if _, ok := d.buffers[b]; !ok {
		d.fail(fmt.Errorf("delete buffer %d: %w", b, ErrInvalidHandle))
		return
	}
	delete(d.buffers, b)
	d.stats.LiveBuffers--
}

func (d *Device) Viewport(x, y, width, height int) {
	// GL viewports grow upwards from the bottom-left corner.
	h := d.img.Bounds().Dy()
	d.viewport = image.Rect(x, h-y-height, x+width, h-y)
}

func (d *Device) ClearColor(c mgl32.Vec4) {
	d.clear = c
}

func (d *Device) Clear() {
	draw.Draw(d.img, d.img.Bounds(), image.NewUniform(ColorOf(d.clear)), image.Point{}, draw.Src)
	d.stats.Clears++
}

func (d *Device) UseProgram(p gfx.Program) {
	if _, ok := d.programs[p]; !ok {
		d.fail(fmt.Errorf("use program %d: %w", p, ErrInvalidHandle))
		return
	}
	d.current = p
}

func (d *Device) setUniform(loc gfx.Location, v mgl32.Vec4) {
	prog, ok := d.programs[d.current]
	if !ok {
		d.fail(fmt.Errorf("set uniform %d: %w", loc, ErrNoProgram))
		return
	}
	if _, ok := prog.names[loc]; !ok {
		d.fail(fmt.Errorf("set uniform %d: %w", loc, ErrInvalidLocation))
		return
	}
	prog.values[loc] = v
}

func (d *Device) Uniform2f(loc gfx.Location, v mgl32.Vec2) {
	d.setUniform(loc, mgl32.Vec4{v[0], v[1], 0, 0})
}

func (d *Device) Uniform4f(loc gfx.Location, v mgl32.Vec4) {
	d.setUniform(loc, v)
}

func (d *Device) VertexAttrib(loc gfx.Location, b gfx.Buffer, components int) {
	if loc < 0 {
		d.fail(fmt.Errorf("vertex attrib %d: %w", loc, ErrInvalidLocation))
		return
	}
	if _, ok := d.buffers[b]; !ok {
		d.fail(fmt.Errorf("vertex attrib buffer %d: %w", b, ErrInvalidHandle))
		return
	}
	d.attribs[loc] = attribBinding{buffer: b, components: components}
}

// DrawTriangleFan rasterizes count vertices starting at first as a fan
// around the first one.
func (d *Device) DrawTriangleFan(first, count int) {
	prog, ok := d.programs[d.current]
	if !ok {
		d.fail(fmt.Errorf("draw: %w", ErrNoProgram))
		return
	}
	binding, ok := d.attribs[0]
	if !ok {
		d.fail(fmt.Errorf("draw: %w", ErrNoAttribute))
		return
	}
	data := d.buffers[binding.buffer]
	comps := binding.components
	if comps < 2 {
		d.fail(fmt.Errorf("draw: %d components: %w", comps, ErrNoAttribute))
		return
	}
	if first < 0 || (first+count)*comps > len(data) {
		d.fail(fmt.Errorf("draw [%d,%d): %w", first, first+count, ErrOutOfRange))
		return
	}
	d.stats.Draws++
	if count < 3 {
		return
	}

	points := make([]mgl32.Vec2, count)
	for i := range points {
		at := (first + i) * comps
		clip := d.shading.Vertex(prog, mgl32.Vec2{data[at], data[at+1]})
		points[i] = d.toWindow(clip)
	}

	vp := d.viewport
	r := vector.NewRasterizer(vp.Dx(), vp.Dy())
	// A masked Src would wipe pixels outside the fan; Over matches GL's
	// unblended write for opaque fills.
	r.DrawOp = draw.Over
	for i := 1; i+1 < count; i++ {
		r.MoveTo(points[0][0], points[0][1])
		r.LineTo(points[i][0], points[i][1])
		r.LineTo(points[i+1][0], points[i+1][1])
		r.ClosePath()
	}
	fill := image.NewUniform(ColorOf(d.shading.Fragment(prog)))
	r.Draw(d.img, vp, fill, image.Point{})
}

// toWindow maps a clip-space position into viewport-local pixels with the
// origin at the top-left corner.
func (d *Device) toWindow(clip mgl32.Vec4) mgl32.Vec2 {
	w := clip[3]
	if w == 0 {
		w = 1
	}
	ndcX, ndcY := clip[0]/w, clip[1]/w
	vp := d.viewport
	return mgl32.Vec2{
		(ndcX + 1) / 2 * float32(vp.Dx()),
		(1 - ndcY) / 2 * float32(vp.Dy()),
	}
}

func (d *Device) Err() error {
	err := d.err
	d.err = nil
	return err
}

func (d *Device) Stats() Stats {
	return d.stats
}

// Image returns the colour buffer. It is overwritten by later frames.
func (d *Device) Image() *image.RGBA {
	return d.img
}

// At returns the non-premultiplied colour of the pixel at x, y (top-left
// origin).
func (d *Device) At(x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(d.img.At(x, y)).(color.NRGBA)
}

// WritePNG encodes the current colour buffer.
func (d *Device) WritePNG(w io.Writer) error {
	return png.Encode(w, d.img)
}

// ColorOf converts a GL colour in [0,1] to 8-bit NRGBA.
func ColorOf(c mgl32.Vec4) color.NRGBA {
	return color.NRGBA{
		R: unit8(c[0]),
		G: unit8(c[1]),
		B: unit8(c[2]),
		A: unit8(c[3]),
	}
}

func unit8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}
