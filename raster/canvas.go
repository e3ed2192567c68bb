// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/internal/blend"
)

// Paint describes how a fill is coloured and composited. When Shader is nil
// the solid Color is used.
type Paint struct {
	Color  Color
	Shader Shader
	Mode   BlendMode
}

// Canvas draws into an *image.RGBA through a local-to-pixel transform and an
// optional anti-aliased clip mask.
//
// Canvas values are cheap; Clip returns a new Canvas sharing the same
// destination, so callers "save" by keeping the old value.
type Canvas struct {
	dst      *image.RGBA
	ctm      f64.Aff3
	inv      f64.Aff3
	singular bool
	clip     *image.Alpha
}

// NewCanvas returns a canvas over dst. ctm maps local coordinates to dst's
// pixel space (dst.Rect coordinates).
func NewCanvas(dst *image.RGBA, ctm f64.Aff3) *Canvas {
	inv, ok := invert(ctm)
	return &Canvas{dst: dst, ctm: ctm, inv: inv, singular: !ok}
}

// Image returns the destination image.
func (c *Canvas) Image() *image.RGBA { return c.dst }

// CTM returns the local-to-pixel transform.
func (c *Canvas) CTM() f64.Aff3 { return c.ctm }

// ClipMask returns the current clip coverage, or nil when unclipped.
func (c *Canvas) ClipMask() *image.Alpha { return c.clip }

// DeviceBounds returns the pixel rectangle covered by local rectangle r,
// rounded outwards. It is not limited to the destination.
func (c *Canvas) DeviceBounds(r glass.Rect) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return glass.SnapToPixels(r.Transform(c.ctm), 1)
}

// Clip returns a canvas whose clip is the intersection of c's clip and the
// anti-aliased rounded rectangle r.
func (c *Canvas) Clip(r glass.Rect, radii glass.CornerRadius) *Canvas {
	return c.ClipPath(glass.RoundRectPath(r, radii))
}

// ClipPath intersects the clip with an arbitrary path.
func (c *Canvas) ClipPath(p *glass.Path) *Canvas {
	mask := p.Rasterize(c.dst.Rect, c.ctm)
	if c.clip != nil {
		for i, v := range mask.Pix {
			mask.Pix[i] = uint8((uint16(v)*uint16(c.clip.Pix[i]) + 127) / 255)
		}
	}
	out := *c
	out.clip = mask
	return &out
}

// FillRect fills the local rectangle r.
func (c *Canvas) FillRect(r glass.Rect, paint Paint) {
	c.FillPath(glass.RoundRectPath(r, glass.CornerRadius{}), paint)
}

// FillPath fills p with paint.
func (c *Canvas) FillPath(p *glass.Path, paint Paint) {
	area := c.DeviceBounds(p.Bounds()).Inset(-1).Intersect(c.dst.Rect)
	if area.Empty() {
		return
	}
	c.FillMask(p.Rasterize(area, c.ctm), paint)
}

// FillMask composites paint through a coverage mask in pixel space. Pixels
// outside the mask bounds are untouched.
func (c *Canvas) FillMask(mask *image.Alpha, paint Paint) {
	area := mask.Rect.Intersect(c.dst.Rect)
	if c.clip != nil {
		area = area.Intersect(c.clip.Rect)
	}
	if area.Empty() || (paint.Shader != nil && c.singular) {
		return
	}
	solid := paint.Color.RGBA8()

	parallel.Line(area.Dy(), func(start, end int) {
		for y := area.Min.Y + start; y < area.Min.Y+end; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				cov := mask.Pix[mask.PixOffset(x, y)]
				if c.clip != nil && cov != 0 {
					cov = uint8((uint16(cov)*uint16(c.clip.Pix[c.clip.PixOffset(x, y)]) + 127) / 255)
				}
				if cov == 0 {
					continue
				}
				px := solid
				if paint.Shader != nil {
					lx, ly := c.toLocal(float64(x)+0.5, float64(y)+0.5)
					px = paint.Shader.At(lx, ly).RGBA8()
				}
				blend.Pixel(c.dst, x, y, paint.Mode, px.R, px.G, px.B, px.A, cov)
			}
		}
	})
}

// NewLayer returns a transparent, unclipped canvas covering local rectangle
// r with the same transform. Draw into it, optionally filter its Image,
// then composite it back with DrawLayer.
func (c *Canvas) NewLayer(r glass.Rect) *Canvas {
	return &Canvas{
		dst:      image.NewRGBA(c.DeviceBounds(r)),
		ctm:      c.ctm,
		inv:      c.inv,
		singular: c.singular,
	}
}

// DrawLayer composites l onto c through c's clip.
func (c *Canvas) DrawLayer(l *Canvas, mode BlendMode, opacity float32) {
	blend.Draw(c.dst, l.dst.Rect, l.dst, l.dst.Rect.Min, c.clip, mode, opacity)
}

func (c *Canvas) toLocal(x, y float64) (float32, float32) {
	m := &c.inv
	return float32(m[0]*x + m[1]*y + m[2]), float32(m[3]*x + m[4]*y + m[5])
}

// invert returns the inverse of an affine transform.
func invert(m f64.Aff3) (f64.Aff3, bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return f64.Aff3{}, false
	}
	inv := 1 / det
	return f64.Aff3{
		m[4] * inv, -m[1] * inv, (m[1]*m[5] - m[4]*m[2]) * inv,
		-m[3] * inv, m[0] * inv, (m[3]*m[2] - m[0]*m[5]) * inv,
	}, true
}

// Invert returns the inverse of m and whether it exists.
func Invert(m f64.Aff3) (f64.Aff3, bool) { return invert(m) }

// Concat returns the transform applying a first, then b.
func Concat(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		b[0]*a[0] + b[1]*a[3], b[0]*a[1] + b[1]*a[4], b[0]*a[2] + b[1]*a[5] + b[2],
		b[3]*a[0] + b[4]*a[3], b[3]*a[1] + b[4]*a[4], b[3]*a[2] + b[4]*a[5] + b[5],
	}
}

// Scale returns a uniform scale transform.
func Scale(s float64) f64.Aff3 { return f64.Aff3{s, 0, 0, 0, s, 0} }

// Translate returns a translation transform.
func Translate(dx, dy float64) f64.Aff3 { return f64.Aff3{1, 0, dx, 0, 1, dy} }
