// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package composite

import (
	"math"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/internal/filter"
	"github.com/gogpu/glass/raster"
)

// Shadow draws the drop shadow outside the surface silhouette.
//
// The rounded rectangle is shifted by the offset, blurred with a sigma of
// the shadow radius, and the unshifted interior is cleared so the shadow
// never darkens the glass itself. The layer is padded by twice the radius
// plus the offset so the blur tail is not cut.
func (p *Pipeline) Shadow(t Target, params glass.DrawParameters) {
	if !t.drawable() {
		return
	}
	c := params.Clamped(t.Size)
	s := c.Shadow
	if !s.Visible() || s.Radius <= epsilon {
		return
	}

	rect := t.Bounds()
	pad := 2*s.Radius + math.Max(math.Abs(s.Offset.X), math.Abs(s.Offset.Y))
	cv := p.canvas(t)
	layer := cv.NewLayer(rect.Inflate(pad, pad))
	bounds := layer.Image().Rect
	if bounds.Empty() {
		return
	}

	mask := glass.RoundRectPath(rect.Translate(s.Offset), c.CornerRadius).Rasterize(bounds, layer.CTM())
	p.backend.BlurMask(mask, mask, s.Radius*t.DeviceScale(), raster.EdgeDecal)
	filter.Colorize(layer.Image(), mask, s.Color.WithAlpha(s.Color.A*s.Opacity))
	layer.FillPath(glass.RoundRectPath(rect, c.CornerRadius), raster.Paint{Mode: raster.BlendClear})

	cv.DrawLayer(layer, raster.BlendSourceOver, 1)
}

// InnerShadow draws a soft shadow along the inside edge, offset in the
// shadow direction: the rounded rectangle minus its shifted copy, blurred
// with transparent edges and clipped to the surface.
func (p *Pipeline) InnerShadow(t Target, params glass.DrawParameters) {
	if !t.drawable() {
		return
	}
	c := params.Clamped(t.Size)
	s := c.InnerShadow
	if !s.Enabled || s.Opacity <= epsilon || s.Color.A <= 0 || s.Radius <= epsilon {
		return
	}

	rect := t.Bounds()
	cv := p.canvas(t)
	layer := cv.NewLayer(rect)
	if layer.Image().Rect.Empty() {
		return
	}
	shade := raster.Premul(s.Color.WithAlpha(s.Color.A * s.Opacity))
	layer.FillPath(glass.RoundRectPath(rect, c.CornerRadius), raster.Paint{Color: shade})
	layer.FillPath(glass.RoundRectPath(rect.Translate(s.Offset), c.CornerRadius), raster.Paint{Mode: raster.BlendClear})
	img := layer.Image()
	p.backend.Blur(img, img, s.Radius*t.DeviceScale(), raster.EdgeDecal)

	cv.Clip(rect, c.CornerRadius).DrawLayer(layer, raster.BlendSourceOver, 1)
}
