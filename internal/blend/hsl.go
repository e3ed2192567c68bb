package blend

import "math"

// Hue is the non-separable mode from W3C Compositing and Blending Level 1,
// section 8.1: the hue of the source with the saturation and luminosity of
// the backdrop. The tint overlay uses it to recolour the glass.

// rgb is a straight-alpha colour with channels in [0, 1].
type rgb [3]float32

func (c rgb) lum() float32 { return 0.30*c[0] + 0.59*c[1] + 0.11*c[2] }

func (c rgb) sat() float32 { return max(c[0], c[1], c[2]) - min(c[0], c[1], c[2]) }

// clip pulls out-of-range channels towards the luminance.
func (c rgb) clip() rgb {
	l := c.lum()
	lo, hi := min(c[0], c[1], c[2]), max(c[0], c[1], c[2])
	for i := range c {
		if lo < 0 {
			c[i] = l + (c[i]-l)*l/(l-lo)
		}
		if hi > 1 {
			c[i] = l + (c[i]-l)*(1-l)/(hi-l)
		}
	}
	return c
}

func (c rgb) withLum(l float32) rgb {
	d := l - c.lum()
	for i := range c {
		c[i] += d
	}
	return c.clip()
}

// withSat rescales c to saturation s keeping the channel order. A grey
// colour stays grey.
func (c rgb) withSat(s float32) rgb {
	lo, mid, hi := 0, 1, 2
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	if c[mid] > c[hi] {
		mid, hi = hi, mid
	}
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	var out rgb
	if c[hi] > c[lo] {
		out[mid] = (c[mid] - c[lo]) * s / (c[hi] - c[lo])
		out[hi] = s
	}
	return out
}

func hue(src, dst rgb) rgb {
	return src.withSat(dst.sat()).withLum(dst.lum())
}

func unpremul(r, g, b, a byte) rgb {
	fa := float32(a)
	return rgb{float32(r) / fa, float32(g) / fa, float32(b) / fa}
}

// blendHue composites premultiplied pixels:
// Sa·Da·B(Cs, Cb) + (1-Da)·S + (1-Sa)·D.
func blendHue(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}
	mixed := hue(unpremul(sr, sg, sb, sa), unpremul(dr, dg, db, da))
	as, ad := float32(sa)/255, float32(da)/255
	src := [3]byte{sr, sg, sb}
	dst := [3]byte{dr, dg, db}
	var out [3]byte
	for i := range out {
		out[i] = toByte(mixed[i]*as*ad*255 + float32(src[i])*(1-ad) + float32(dst[i])*(1-as))
	}
	return out[0], out[1], out[2], toByte(float32(sa) + float32(da)*(1-as))
}

func toByte(v float32) byte {
	return byte(math.Round(float64(max(0, min(255, v)))))
}
