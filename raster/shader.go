// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Shader produces a premultiplied colour for a point in local coordinates.
// Implementations must be safe for concurrent use; rows are shaded in
// parallel.
type Shader interface {
	At(x, y float32) Color
}

// ShaderFunc adapts a function to the Shader interface.
type ShaderFunc func(x, y float32) Color

// At implements Shader.
func (f ShaderFunc) At(x, y float32) Color { return f(x, y) }

// Solid is a shader that returns the same colour everywhere.
type Solid Color

// At implements Shader.
func (s Solid) At(_, _ float32) Color { return Color(s) }

// ImageShader samples an *image.RGBA with bilinear filtering.
//
// Local points are mapped to image pixel coordinates by a matrix; pixel
// centres sit at half-integer positions as in image/draw.
type ImageShader struct {
	img  *image.RGBA
	m    f64.Aff3
	edge EdgeMode
}

// NewImageShader returns a shader sampling img. m maps local coordinates to
// img's pixel space (the same space as img.Rect).
func NewImageShader(img *image.RGBA, m f64.Aff3, edge EdgeMode) *ImageShader {
	return &ImageShader{img: img, m: m, edge: edge}
}

// At implements Shader.
func (s *ImageShader) At(x, y float32) Color {
	fx, fy := float64(x), float64(y)
	px := s.m[0]*fx + s.m[1]*fy + s.m[2]
	py := s.m[3]*fx + s.m[4]*fy + s.m[5]
	return Sample(s.img, px, py, s.edge)
}

// Sample bilinearly filters img at pixel-space position (px, py).
// EdgeClamp repeats border pixels; EdgeDecal fades to transparent outside.
func Sample(img *image.RGBA, px, py float64, edge EdgeMode) Color {
	b := img.Rect
	if b.Empty() || !finite(px) || !finite(py) {
		return Transparent
	}
	px -= 0.5
	py -= 0.5
	x0 := int(math.Floor(px))
	y0 := int(math.Floor(py))
	tx := float32(px - float64(x0))
	ty := float32(py - float64(y0))

	c00 := texel(img, x0, y0, edge)
	c10 := texel(img, x0+1, y0, edge)
	c01 := texel(img, x0, y0+1, edge)
	c11 := texel(img, x0+1, y0+1, edge)
	return c00.Lerp(c10, tx).Lerp(c01.Lerp(c11, tx), ty)
}

func texel(img *image.RGBA, x, y int, edge EdgeMode) Color {
	b := img.Rect
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		if edge == EdgeDecal {
			return Transparent
		}
		x = min(max(x, b.Min.X), b.Max.X-1)
		y = min(max(y, b.Min.Y), b.Max.Y-1)
	}
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	return FromRGBA8(p[0], p[1], p[2], p[3])
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) < 1<<30
}
