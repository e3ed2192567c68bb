// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"errors"
	"fmt"
)

// Program errors.
var (
	// ErrProgramUnavailable is returned when a custom program failed to load
	// or compile. Callers degrade the stage that needed it.
	ErrProgramUnavailable = errors.New("raster: program unavailable")

	// ErrMissingUniform is returned by Bind when a declared uniform is absent
	// or has the wrong number of components.
	ErrMissingUniform = errors.New("raster: missing uniform")

	// ErrMissingChild is returned by Bind when a declared child input is nil.
	ErrMissingChild = errors.New("raster: missing child")
)

// Uniforms holds named uniform values. Scalars are one-element slices.
type Uniforms map[string][]float32

// Set stores the values for name and returns u for chaining.
func (u Uniforms) Set(name string, v ...float32) Uniforms {
	u[name] = v
	return u
}

// Float returns the scalar uniform name, or 0.
func (u Uniforms) Float(name string) float32 {
	if v := u[name]; len(v) > 0 {
		return v[0]
	}
	return 0
}

// UniformDecl declares one uniform of a program.
type UniformDecl struct {
	Name       string
	Components int
}

// Program is a named custom pixel program with declared uniforms and child
// inputs. Binding it with values produces a Shader.
type Program interface {
	Name() string
	Uniforms() []UniformDecl
	Children() []string
	Bind(u Uniforms, children map[string]Shader) (Shader, error)
}

// CheckBinding validates u and children against p's declarations.
// Program implementations call it at the top of Bind.
func CheckBinding(p Program, u Uniforms, children map[string]Shader) error {
	for _, d := range p.Uniforms() {
		if len(u[d.Name]) != d.Components {
			return fmt.Errorf("%w: %s.%s wants %d components, got %d",
				ErrMissingUniform, p.Name(), d.Name, d.Components, len(u[d.Name]))
		}
	}
	for _, name := range p.Children() {
		if children[name] == nil {
			return fmt.Errorf("%w: %s.%s", ErrMissingChild, p.Name(), name)
		}
	}
	return nil
}
