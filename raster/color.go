// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image/color"

	"github.com/gogpu/glass"
)

// Color is a premultiplied colour with float32 components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Transparent is the zero colour.
var Transparent = Color{}

// Premul converts a straight-alpha glass colour to a premultiplied Color.
func Premul(c glass.RGBA) Color {
	c = c.Clamped()
	a := float32(c.A)
	return Color{R: float32(c.R) * a, G: float32(c.G) * a, B: float32(c.B) * a, A: a}
}

// FromRGBA8 converts premultiplied bytes to a Color.
func FromRGBA8(r, g, b, a uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: float32(a) / 255}
}

// Scale multiplies every component by f, fading the colour towards transparent.
func (c Color) Scale(f float32) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A * f}
}

// Add returns the component-wise sum.
func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A + o.A}
}

// Lerp interpolates from c (t=0) to o (t=1).
func (c Color) Lerp(o Color, t float32) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// RGBA8 converts to premultiplied bytes. Colour channels are clamped to
// alpha so the result is always a valid premultiplied value.
func (c Color) RGBA8() color.RGBA {
	a := to8(c.A)
	return color.RGBA{R: min(to8(c.R), a), G: min(to8(c.G), a), B: min(to8(c.B), a), A: a}
}

func to8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
