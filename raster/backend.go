// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"

	"github.com/gogpu/glass/internal/blend"
	"github.com/gogpu/glass/internal/filter"
)

// ColorMatrix is a 4x5 colour transform over straight-alpha channels in
// [0, 255], applied with clamping after each matrix of a chain.
type ColorMatrix = filter.ColorMatrix

// EdgeMode selects how filters and samplers read outside an image.
type EdgeMode = filter.EdgeMode

// Edge modes.
const (
	EdgeClamp = filter.EdgeClamp
	EdgeDecal = filter.EdgeDecal
)

// BlendMode is a compositing operator on premultiplied pixels.
type BlendMode = blend.Mode

// Blend modes used by the glass passes.
const (
	BlendSourceOver     = blend.SourceOver
	BlendClear          = blend.Clear
	BlendSource         = blend.Source
	BlendDestinationIn  = blend.DestinationIn
	BlendDestinationOut = blend.DestinationOut
	BlendPlus           = blend.Plus
	BlendHue            = blend.Hue
)

// Backend is the image-filter capability the composite passes call into.
// It is deliberately narrow: offscreen images, colour matrices, Gaussian
// blur and named custom programs. Path filling and compositing happen on a
// Canvas over the images the backend creates.
//
// Implementations must be safe for use from one goroutine at a time per
// image; distinct images may be processed concurrently.
type Backend interface {
	// Name returns the backend identifier (e.g., "software").
	Name() string

	// NewImage allocates a transparent offscreen image covering bounds.
	NewImage(bounds image.Rectangle) *image.RGBA

	// ApplyColorMatrices runs chain over src into dst. Both have the same
	// bounds and may alias.
	ApplyColorMatrices(dst, src *image.RGBA, chain ...ColorMatrix)

	// Blur writes a Gaussian blur of src into dst without shifting it.
	Blur(dst, src *image.RGBA, sigma float64, edge EdgeMode)

	// BlurMask is Blur for coverage masks.
	BlurMask(dst, src *image.Alpha, sigma float64, edge EdgeMode)

	// Program returns the named custom program, or an error wrapping
	// ErrProgramUnavailable if it cannot be used.
	Program(name string) (Program, error)
}
