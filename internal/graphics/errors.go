package graphics

import (
	"errors"
	"fmt"
)

var (
	// ErrSetup is matched by every error raised while building programs and
	// layouts. Setup errors are fatal: rendering cannot proceed without them.
	ErrSetup = errors.New("graphics setup failed")

	// ErrLayoutBound is returned when a family already has a layout.
	ErrLayoutBound = errors.New("vertex layout already bound")
)

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

func (e *CompileError) Is(target error) bool { return target == ErrSetup }

// LinkError reports two stages that failed to link into a program.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

func (e *LinkError) Is(target error) bool { return target == ErrSetup }

// UnresolvedUniformError reports a uniform the program does not expose, or
// one that was never cached.
type UnresolvedUniformError struct {
	Name string
}

func (e *UnresolvedUniformError) Error() string {
	return fmt.Sprintf("failed to find uniform %q", e.Name)
}

func (e *UnresolvedUniformError) Is(target error) bool { return target == ErrSetup }

// UnresolvedAttributeError reports an attribute the program does not expose.
type UnresolvedAttributeError struct {
	Name string
}

func (e *UnresolvedAttributeError) Error() string {
	return fmt.Sprintf("failed to find attribute %q", e.Name)
}

func (e *UnresolvedAttributeError) Is(target error) bool { return target == ErrSetup }
