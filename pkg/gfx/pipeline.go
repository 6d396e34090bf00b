package gfx

import "fmt"

// ProgramSpec describes a program built once at start-up. Every listed
// uniform and attribute must resolve to a location after linking.
type ProgramSpec struct {
	VertexSource   string
	FragmentSource string
	Uniforms       []string
	Attributes     []string
}

// Pipeline owns a linked program and the locations of its inputs.
type Pipeline struct {
	dev      Device
	program  Program
	uniforms map[string]Location
	attribs  map[string]Location
}

// NewPipeline compiles, links and introspects the program a ProgramSpec
// describes.
// Any failure releases what was created so far and is returned unchanged
// apart from wrapping, so callers can inspect the *ShaderError log.
func NewPipeline(dev Device, spec ProgramSpec) (*Pipeline, error) {
	vs, err := dev.CompileShader(VertexStage, spec.VertexSource)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	fs, err := dev.CompileShader(FragmentStage, spec.FragmentSource)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	program, err := dev.LinkProgram(vs, fs)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	p := &Pipeline{
		dev:      dev,
		program:  program,
		uniforms: make(map[string]Location, len(spec.Uniforms)),
		attribs:  make(map[string]Location, len(spec.Attributes)),
	}
	for _, name := range spec.Uniforms {
		loc := dev.UniformLocation(program, name)
		if loc == NoLocation {
			p.Close()
			return nil, fmt.Errorf("build pipeline: uniform %q: %w", name, ErrMissingSymbol)
		}
		p.uniforms[name] = loc
	}
	for _, name := range spec.Attributes {
		loc := dev.AttribLocation(program, name)
		if loc == NoLocation {
			p.Close()
			return nil, fmt.Errorf("build pipeline: attribute %q: %w", name, ErrMissingSymbol)
		}
		p.attribs[name] = loc
	}
	return p, nil
}

func (p *Pipeline) Program() Program {
	return p.program
}

// Uniform returns the location resolved for name, or NoLocation.
func (p *Pipeline) Uniform(name string) Location {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return NoLocation
}

// Attrib returns the location resolved for name, or NoLocation.
func (p *Pipeline) Attrib(name string) Location {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return NoLocation
}

func (p *Pipeline) Use() {
	p.dev.UseProgram(p.program)
}

func (p *Pipeline) Close() {
	if p == nil || p.program == 0 {
		return
	}
	p.dev.DeleteProgram(p.program)
	p.program = 0
}
