package blend

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/parallel"
)

// Draw composites src onto dst within r (dst coordinates) using mode.
//
// The source pixel for dst point p is src at sp + (p - r.Min). Pixels
// outside src contribute transparent black. mask, when non-nil, supplies
// per-pixel coverage in dst coordinates; coverage outside its bounds is 0.
// opacity in [0, 1] scales the coverage. Partial coverage interpolates
// between the untouched destination and the fully blended result, which for
// SourceOver equals scaling the source.
func Draw(dst *image.RGBA, r image.Rectangle, src *image.RGBA, sp image.Point, mask *image.Alpha, mode Mode, opacity float32) {
	delta := sp.Sub(r.Min)
	r = r.Intersect(dst.Rect)
	if mask != nil {
		r = r.Intersect(mask.Rect)
	}
	if transparentIsNoop(mode) {
		r = r.Intersect(src.Rect.Sub(delta))
	}
	if r.Empty() || opacity <= 0 {
		return
	}
	fn := FuncFor(mode)
	gain := opacityByte(opacity)

	parallel.Line(r.Dy(), func(start, end int) {
		for y := r.Min.Y + start; y < r.Min.Y+end; y++ {
			sy := y + delta.Y
			for x := r.Min.X; x < r.Max.X; x++ {
				cov := coverageAt(mask, x, y, gain)
				if cov == 0 {
					continue
				}
				sx := x + delta.X
				var sr, sg, sb, sa byte
				if (image.Point{X: sx, Y: sy}).In(src.Rect) {
					i := src.PixOffset(sx, sy)
					sr, sg, sb, sa = src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3]
				}
				blendPixel(dst, x, y, fn, sr, sg, sb, sa, cov)
			}
		}
	})
}

// transparentIsNoop reports whether a transparent source leaves the
// destination untouched under mode.
func transparentIsNoop(mode Mode) bool {
	switch mode {
	case Clear, Source, DestinationIn:
		return false
	}
	return true
}

// Fill composites the premultiplied colour c onto dst within r.
// mask and opacity behave as in Draw.
func Fill(dst *image.RGBA, r image.Rectangle, c color.RGBA, mask *image.Alpha, mode Mode, opacity float32) {
	r = r.Intersect(dst.Rect)
	if mask != nil {
		r = r.Intersect(mask.Rect)
	}
	if r.Empty() || opacity <= 0 {
		return
	}
	fn := FuncFor(mode)
	gain := opacityByte(opacity)

	parallel.Line(r.Dy(), func(start, end int) {
		for y := r.Min.Y + start; y < r.Min.Y+end; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				cov := coverageAt(mask, x, y, gain)
				if cov == 0 {
					continue
				}
				blendPixel(dst, x, y, fn, c.R, c.G, c.B, c.A, cov)
			}
		}
	})
}

// Pixel blends one premultiplied source pixel into dst at (x, y) with the
// given coverage. It is the per-pixel primitive behind Draw and Fill and is
// exported for shader-driven painting.
func Pixel(dst *image.RGBA, x, y int, mode Mode, sr, sg, sb, sa, cov byte) {
	if cov == 0 || !(image.Point{X: x, Y: y}).In(dst.Rect) {
		return
	}
	blendPixel(dst, x, y, FuncFor(mode), sr, sg, sb, sa, cov)
}

func blendPixel(dst *image.RGBA, x, y int, fn Func, sr, sg, sb, sa, cov byte) {
	i := dst.PixOffset(x, y)
	p := dst.Pix[i : i+4 : i+4]
	r, g, b, a := fn(sr, sg, sb, sa, p[0], p[1], p[2], p[3])
	if cov != 255 {
		r = lerp255(p[0], r, cov)
		g = lerp255(p[1], g, cov)
		b = lerp255(p[2], b, cov)
		a = lerp255(p[3], a, cov)
	}
	p[0], p[1], p[2], p[3] = r, g, b, a
}

func coverageAt(mask *image.Alpha, x, y int, gain byte) byte {
	if mask == nil {
		return gain
	}
	m := mask.Pix[mask.PixOffset(x, y)]
	if gain == 255 {
		return m
	}
	return mulDiv255(m, gain)
}

func opacityByte(o float32) byte {
	if o >= 1 {
		return 255
	}
	return byte(o*255 + 0.5)
}
