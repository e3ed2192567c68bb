// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package composite

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/internal/filter"
	"github.com/gogpu/glass/raster"
	"github.com/gogpu/glass/shader"
	"github.com/gogpu/glass/snapshot"
)

// Lens draws the refracted backdrop clipped to the rounded rectangle,
// followed by the tint and surface overlays.
//
// The pass leases snap for its own duration. With no snapshot, a disposed
// one, or an unusable lens program it draws the placeholder instead.
func (p *Pipeline) Lens(t Target, params glass.DrawParameters, snap *snapshot.Snapshot) {
	if !t.drawable() {
		return
	}
	c := params.Clamped(t.Size)

	var lease *snapshot.Lease
	if snap != nil {
		if l, ok := snap.Acquire(); ok {
			lease = l
			defer lease.Release()
		}
	}
	if lease == nil || lease.Image() == nil {
		p.drawPlaceholder(t, c.CornerRadius)
		return
	}

	src := lease.Image()
	content := p.filteredBackdrop(lease.Snapshot(), src, c)
	toSnapshot := backdropTransform(t, c, lease.Snapshot().Scale())

	var out raster.Shader = raster.NewImageShader(content, toSnapshot, raster.EdgeClamp)
	if applyLens(c) {
		prog, ok := p.program(shader.Lens)
		if !ok {
			p.drawPlaceholder(t, c.CornerRadius)
			return
		}
		lensed, err := prog.Bind(lensUniforms(t.Size, c), map[string]raster.Shader{"content": out})
		if err != nil {
			glass.Logger().Warn("composite: lens bind failed", "err", err)
			p.drawPlaceholder(t, c.CornerRadius)
			return
		}
		out = lensed
	}
	if c.Progressive.Enabled {
		sharp := raster.NewImageShader(src, toSnapshot, raster.EdgeClamp)
		out = progressiveShader(out, sharp, t.Size.H, c.Progressive)
	}

	rect := t.Bounds()
	cv := p.canvas(t)
	layer := cv.NewLayer(rect)
	layer.FillRect(rect, raster.Paint{Shader: out, Mode: raster.BlendSource})
	if math.Abs(c.GammaPower-1) > epsilon {
		layer = raster.NewCanvas(applyGamma(layer.Image(), c.GammaPower), layer.CTM())
	}

	clipped := cv.Clip(rect, c.CornerRadius)
	clipped.DrawLayer(layer, raster.BlendSourceOver, 1)
	drawOverlays(clipped, rect, c)
}

func applyLens(c glass.DrawParameters) bool {
	return c.RefractionHeight > epsilon && math.Abs(c.RefractionAmount) > epsilon
}

// filteredBackdrop returns src run through the colour matrices and blur of
// c, cached on the snapshot. The identity chain returns src itself.
func (p *Pipeline) filteredBackdrop(snap *snapshot.Snapshot, src *image.RGBA, c glass.DrawParameters) *image.RGBA {
	key := c.FilterKey(snap.Scale())
	if key.IsIdentity() {
		return src
	}
	img := snap.Filtered(key, func(src *image.RGBA) *image.RGBA {
		dst := p.backend.NewImage(src.Rect)
		if chain := colorChain(c); len(chain) > 0 {
			p.backend.ApplyColorMatrices(dst, src, chain...)
		} else {
			copy(dst.Pix, src.Pix)
		}
		if sigma := key.BlurSigma(); sigma > 0 {
			p.backend.Blur(dst, dst, sigma, raster.EdgeClamp)
		}
		return dst
	})
	if img == nil {
		return src
	}
	return img
}

// colorChain returns the non-identity matrices of the filter chain in
// application order.
func colorChain(c glass.DrawParameters) []raster.ColorMatrix {
	var chain []raster.ColorMatrix
	if c.Saturation != 1 || c.Brightness != 0 || c.Contrast != 1 {
		chain = append(chain, filter.ColorControls(float32(c.Saturation), float32(c.Brightness), float32(c.Contrast)))
	}
	if c.ExposureEV != 0 {
		chain = append(chain, filter.Exposure(float32(c.ExposureEV)))
	}
	if c.BackdropOpacity != 1 {
		chain = append(chain, filter.Opacity(float32(c.BackdropOpacity)))
	}
	return chain
}

// backdropTransform maps local surface coordinates to snapshot pixels,
// applying the backdrop zoom around the surface centre and the offset:
//
//	p' = centre + (p - centre)/zoom - offset/zoom
func backdropTransform(t Target, c glass.DrawParameters, snapScale float64) f64.Aff3 {
	z := c.BackdropZoom
	cx, cy := t.Size.W*0.5, t.Size.H*0.5
	zoom := f64.Aff3{
		1 / z, 0, cx - cx/z - c.BackdropOffset.X/z,
		0, 1 / z, cy - cy/z - c.BackdropOffset.Y/z,
	}
	return raster.Concat(raster.Concat(zoom, t.Placement), raster.Scale(snapScale))
}

func lensUniforms(size glass.Size, c glass.DrawParameters) raster.Uniforms {
	return raster.Uniforms{}.
		Set("size", sizeUniform(size)...).
		Set("cornerRadii", radiiUniform(c.CornerRadius)...).
		Set("refractionHeight", float32(c.RefractionHeight)).
		Set("refractionAmount", float32(-c.RefractionAmount)).
		Set("depthEffect", boolUniform(c.DepthEffect)).
		Set("chromaticAberration", boolUniform(c.ChromaticAberration))
}

func boolUniform(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// progressiveShader fades blurred into sharp along y. The mask is
// smoothstep(start, end, y/height); the blurred part is tinted by
// tint × intensity × tint alpha × (1 - mask).
func progressiveShader(blurred, sharp raster.Shader, height float64, pb glass.ProgressiveBlur) raster.Shader {
	tint := pb.TintColor
	strength := float32(pb.TintIntensity * tint.A)
	tr, tg, tb := float32(tint.R), float32(tint.G), float32(tint.B)
	return raster.ShaderFunc(func(x, y float32) raster.Color {
		m := float32(glass.Smoothstep(pb.Start, pb.End, float64(y)/height))
		b := blurred.At(x, y)
		if k := strength * (1 - m); k > 0 {
			b = b.Lerp(raster.Color{R: tr * b.A, G: tg * b.A, B: tb * b.A, A: b.A}, k)
		}
		if m <= 0 {
			return b
		}
		return b.Lerp(sharp.At(x, y), m)
	})
}

// applyGamma raises every straight-alpha colour channel of img to power.
func applyGamma(img *image.RGBA, power float64) *image.RGBA {
	var lut [256]float64
	for i := range lut {
		lut[i] = math.Pow(float64(i)/255, power)
	}
	out := adjust.Apply(img, func(c color.RGBA) color.RGBA {
		if c.A == 0 {
			return c
		}
		a := float64(c.A)
		ch := func(v uint8) uint8 {
			s := min(255, int(float64(v)*255/a+0.5))
			return uint8(math.Min(a, lut[s]*a+0.5))
		}
		return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
	})
	out.Rect = img.Rect
	return out
}

// drawOverlays paints the tint (hue blend, then a flat fill at 75% of its
// alpha) and the surface colour over the lens.
func drawOverlays(cv *raster.Canvas, rect glass.Rect, c glass.DrawParameters) {
	if tint := c.TintColor; tint.A > 0 {
		cv.FillRect(rect, raster.Paint{Color: raster.Premul(tint.Opaque()), Mode: raster.BlendHue})
		cv.FillRect(rect, raster.Paint{Color: raster.Premul(tint.WithAlpha(tint.A * 0.75))})
	}
	if sc := c.SurfaceColor; sc.A > 0 {
		cv.FillRect(rect, raster.Paint{Color: raster.Premul(sc)})
	}
}
