// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package composite

import (
	"math"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/raster"
	"github.com/gogpu/glass/shader"
)

// Interactive highlight strengths at full press.
const (
	interactiveBase = 0.08
	interactiveGlow = 0.15
)

// highlightPad is the margin (DIP) around the edge highlight layer.
const highlightPad = 1.0

// InteractiveHighlight adds a white wash and a radial glow under the
// pointer, both scaled by the press progress and clipped to the rounded
// rectangle. Nothing is drawn while progress is zero.
func (p *Pipeline) InteractiveHighlight(t Target, params glass.DrawParameters) {
	if !t.drawable() {
		return
	}
	c := params.Clamped(t.Size)
	progress := c.Interactive.Progress
	if progress <= epsilon {
		return
	}
	prog, ok := p.program(shader.InteractiveHighlight)
	if !ok {
		return
	}

	rect := t.Bounds()
	clipped := p.canvas(t).Clip(rect, c.CornerRadius)
	base := glass.RGBA{R: 1, G: 1, B: 1, A: interactiveBase * progress}
	clipped.FillRect(rect, raster.Paint{Color: raster.Premul(base), Mode: raster.BlendPlus})

	u := raster.Uniforms{}.
		Set("size", sizeUniform(t.Size)...).
		Set("position", float32(c.Interactive.Position.X), float32(c.Interactive.Position.Y)).
		Set("color", 1, 1, 1, float32(interactiveGlow*progress)).
		Set("radius", float32(t.Size.MinSide()*1.5))
	glow, err := prog.Bind(u, nil)
	if err != nil {
		glass.Logger().Warn("composite: interactive highlight bind failed", "err", err)
		return
	}
	clipped.FillRect(rect, raster.Paint{Shader: glow, Mode: raster.BlendPlus})
}

// EdgeHighlight strokes the outline with a directional rim light. The
// stroke is blurred, clipped to the rounded rectangle inside a padded layer
// and added onto the target.
func (p *Pipeline) EdgeHighlight(t Target, params glass.DrawParameters) {
	if !t.drawable() {
		return
	}
	c := params.Clamped(t.Size)
	h := c.Highlight
	if !h.Enabled || h.Opacity <= epsilon {
		return
	}
	prog, ok := p.program(shader.EdgeHighlight)
	if !ok {
		return
	}
	u := raster.Uniforms{}.
		Set("size", sizeUniform(t.Size)...).
		Set("cornerRadii", radiiUniform(c.CornerRadius)...).
		Set("color", 1, 1, 1, float32(h.Opacity)).
		Set("angle", float32(h.AngleDegrees*math.Pi/180)).
		Set("falloff", float32(h.Falloff))
	rim, err := prog.Bind(u, nil)
	if err != nil {
		glass.Logger().Warn("composite: edge highlight bind failed", "err", err)
		return
	}

	rect := t.Bounds()
	cv := p.canvas(t)
	layer := cv.NewLayer(rect.Inflate(highlightPad, highlightPad))

	width := math.Max(0.5, math.Ceil(h.Width)*2)
	mask := glass.StrokeRoundRect(rect, c.CornerRadius, width).Rasterize(layer.Image().Rect, layer.CTM())
	if h.BlurRadius > epsilon {
		p.backend.BlurMask(mask, mask, h.BlurRadius*t.DeviceScale(), raster.EdgeDecal)
	}
	layer.Clip(rect, c.CornerRadius).FillMask(mask, raster.Paint{Shader: rim, Mode: raster.BlendPlus})
	cv.DrawLayer(layer, raster.BlendPlus, 1)
}
