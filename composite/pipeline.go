// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package composite

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/backend"
	_ "github.com/gogpu/glass/backend/software"
	"github.com/gogpu/glass/raster"
	"github.com/gogpu/glass/snapshot"
)

// epsilon is the threshold below which an amount counts as zero.
const epsilon = 0.001

// placeholderAlpha is the alpha (out of 255) of the white fill drawn when
// the lens has nothing to sample.
const placeholderAlpha = 32

// Target is where a surface is drawn.
//
// Dst is in window device pixels, the same space as snapshot bounds.
// Placement maps the surface's local coordinates (origin at its top-left
// corner, DIP) into window DIP.
type Target struct {
	Dst       *image.RGBA
	Scale     float64
	Placement f64.Aff3
	Size      glass.Size
}

// CTM returns the transform from local coordinates to Dst pixels.
func (t Target) CTM() f64.Aff3 {
	return raster.Concat(t.Placement, raster.Scale(t.Scale))
}

// DeviceScale returns how many device pixels one local unit spans along
// the larger axis.
func (t Target) DeviceScale() float64 {
	sx, sy := glass.AxisScale(t.Placement)
	return t.Scale * math.Max(sx, sy)
}

// Bounds returns the local rectangle of the surface.
func (t Target) Bounds() glass.Rect { return glass.RectFromSize(t.Size) }

func (t Target) drawable() bool {
	return t.Dst != nil && !t.Size.Empty() && t.Scale > 0 && !math.IsInf(t.Scale, 0)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPlaceholder replaces the colour drawn when the lens cannot sample
// a backdrop.
func WithPlaceholder(c glass.RGBA) Option {
	return func(p *Pipeline) { p.placeholder = raster.Premul(c) }
}

// Pipeline draws glass surfaces through a filter backend. It holds no
// per-frame state and is safe for concurrent use when the backend is.
type Pipeline struct {
	backend     raster.Backend
	placeholder raster.Color
}

// New creates a pipeline over b. A nil backend selects the highest
// priority registered backend.
func New(b raster.Backend, opts ...Option) *Pipeline {
	if b == nil {
		b = backend.MustDefault()
	}
	p := &Pipeline{
		backend:     b,
		placeholder: raster.Premul(glass.RGBA8(255, 255, 255, placeholderAlpha)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Backend returns the filter backend the pipeline draws with.
func (p *Pipeline) Backend() raster.Backend { return p.backend }

// Compose draws every pass of one surface in order. snap may be nil.
func (p *Pipeline) Compose(t Target, params glass.DrawParameters, snap *snapshot.Snapshot) {
	if !t.drawable() {
		return
	}
	p.Shadow(t, params)
	p.Lens(t, params, snap)
	p.InteractiveHighlight(t, params)
	p.EdgeHighlight(t, params)
	p.InnerShadow(t, params)
}

func (p *Pipeline) canvas(t Target) *raster.Canvas {
	return raster.NewCanvas(t.Dst, t.CTM())
}

// drawPlaceholder fills the rounded rectangle with the placeholder colour.
func (p *Pipeline) drawPlaceholder(t Target, radii glass.CornerRadius) {
	rect := t.Bounds()
	p.canvas(t).Clip(rect, radii).FillRect(rect, raster.Paint{Color: p.placeholder})
}

// program looks up a custom program, logging when it is unavailable.
func (p *Pipeline) program(name string) (raster.Program, bool) {
	prog, err := p.backend.Program(name)
	if err != nil {
		glass.Logger().Debug("composite: program unavailable", "program", name, "backend", p.backend.Name(), "err", err)
		return nil, false
	}
	return prog, true
}

func sizeUniform(s glass.Size) []float32 {
	return []float32{float32(s.W), float32(s.H)}
}

func radiiUniform(c glass.CornerRadius) []float32 {
	a := c.Array()
	return []float32{float32(a[0]), float32(a[1]), float32(a[2]), float32(a[3])}
}
