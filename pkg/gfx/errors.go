package gfx

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrShaderCompile = errors.New("shader compile failed")
	ErrProgramLink   = errors.New("program link failed")
	ErrMissingSymbol = errors.New("program does not expose symbol")
	ErrBufferAlloc   = errors.New("buffer allocation failed")
)

// ShaderError carries the driver info log of a failed compile or link.
type ShaderError struct {
	Stage ShaderStage // meaningless for link errors
	Log   string
	Err   error
}

// NewCompileError builds the error devices return for a rejected shader.
func NewCompileError(stage ShaderStage, log string) *ShaderError {
	return &ShaderError{Stage: stage, Log: cleanLog(log), Err: ErrShaderCompile}
}

// NewLinkError builds the error devices return for a failed link.
func NewLinkError(log string) *ShaderError {
	return &ShaderError{Log: cleanLog(log), Err: ErrProgramLink}
}

func (e *ShaderError) Error() string {
	if errors.Is(e.Err, ErrShaderCompile) {
		return fmt.Sprintf("%s %v: %s", e.Stage, e.Err, e.Log)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Log)
}

func (e *ShaderError) Unwrap() error {
	return e.Err
}

// GL info logs are NUL padded.
func cleanLog(log string) string {
	return strings.TrimSpace(strings.TrimRight(log, "\x00"))
}
