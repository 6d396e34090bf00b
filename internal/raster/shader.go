package raster

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kjkrol/polyspin/pkg/gfx"
)

// Uniforms gives shading functions read access to the values set on the
// current program, by uniform name.
type Uniforms interface {
	Vec2(name string) mgl32.Vec2
	Vec4(name string) mgl32.Vec4
}

// Shading is the CPU counterpart of a GLSL program. The device only checks
// the GLSL it is given; pixels come from these functions.
type Shading struct {
	// Vertex maps one 2-component attribute to a clip-space position.
	Vertex func(u Uniforms, position mgl32.Vec2) mgl32.Vec4
	// Fragment returns the flat colour of every covered pixel.
	Fragment func(u Uniforms) mgl32.Vec4
}

func defaultShading() Shading {
	return Shading{
		Vertex: func(_ Uniforms, p mgl32.Vec2) mgl32.Vec4 {
			return mgl32.Vec4{p[0], p[1], 0, 1}
		},
		Fragment: func(Uniforms) mgl32.Vec4 {
			return mgl32.Vec4{1, 1, 1, 1}
		},
	}
}

var declPattern = regexp.MustCompile(`(?m)^\s*(uniform|attribute)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)

type decl struct {
	kind string
	typ  string
	name string
}

type shaderObject struct {
	stage gfx.ShaderStage
	decls []decl
}

// checkSource does the structural checks a driver front end would reject
// first and returns a driver-style info log on failure.
func checkSource(stage gfx.ShaderStage, source string) (string, bool) {
	if strings.TrimSpace(source) == "" {
		return "ERROR: 0:0: empty shader source", false
	}
	if !strings.Contains(source, "void main") {
		return "ERROR: 0:0: 'main' : no entry point defined", false
	}
	if open, closed := strings.Count(source, "{"), strings.Count(source, "}"); open != closed {
		return fmt.Sprintf("ERROR: 0:0: unbalanced braces (%d opening, %d closing)", open, closed), false
	}
	switch stage {
	case gfx.VertexStage:
		if !strings.Contains(source, "gl_Position") {
			return "ERROR: 0:0: vertex shader never writes gl_Position", false
		}
	case gfx.FragmentStage:
		if !strings.Contains(source, "gl_FragColor") {
			return "ERROR: 0:0: fragment shader never writes gl_FragColor", false
		}
		if strings.Contains(source, "attribute ") {
			return "ERROR: 0:0: 'attribute' : not supported in fragment shaders", false
		}
	}
	return "", true
}

func parseDecls(source string) []decl {
	matches := declPattern.FindAllStringSubmatch(source, -1)
	decls := make([]decl, 0, len(matches))
	for _, m := range matches {
		decls = append(decls, decl{kind: m[1], typ: m[2], name: m[3]})
	}
	return decls
}
