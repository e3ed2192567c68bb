package filter

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// ColorMatrix is a 4x5 colour transformation in row-major order:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Channels are straight-alpha values in [0, 255]; the fifth column is an
// offset in the same units.
type ColorMatrix [20]float32

// Luminance weights of the saturation matrix.
const (
	lumR = 0.213
	lumG = 0.715
	lumB = 0.072
)

// Identity passes colours through unchanged.
func Identity() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Saturation blends between luminance (0) and identity (1); values above 1
// oversaturate.
func Saturation(s float32) ColorMatrix {
	inv := 1 - s
	return ColorMatrix{
		lumR*inv + s, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + s, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// ColorControls combines saturation, contrast around mid-grey and an
// additive brightness offset into one matrix:
//
//	out = contrast*(Saturation(s)*in - 0.5) + 0.5 + brightness
//
// brightness is expressed as a fraction of full scale.
func ColorControls(saturation, brightness, contrast float32) ColorMatrix {
	m := Saturation(saturation)
	offset := (0.5 - 0.5*contrast + brightness) * 255
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			m[row*5+col] *= contrast
		}
		m[row*5+4] = offset
	}
	return m
}

// Exposure scales RGB by 2^(ev/2.2).
func Exposure(ev float32) ColorMatrix {
	s := float32(math.Pow(2, float64(ev)/2.2))
	return ColorMatrix{
		s, 0, 0, 0, 0,
		0, s, 0, 0, 0,
		0, 0, s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Opacity multiplies alpha by factor.
func Opacity(factor float32) ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, factor, 0,
	}
}

// Multiply returns a matrix that applies m first, then other.
func (m ColorMatrix) Multiply(other ColorMatrix) ColorMatrix {
	a := &other
	b := &m
	var r ColorMatrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[row*5+k] * b[k*5+col]
			}
			r[row*5+col] = sum
		}
		r[row*5+4] = a[row*5+0]*b[4] + a[row*5+1]*b[9] +
			a[row*5+2]*b[14] + a[row*5+3]*b[19] + a[row*5+4]
	}
	return r
}

// Transform applies m to one straight-alpha colour in [0, 255] and clamps
// the result back into range.
func (m *ColorMatrix) Transform(c [4]float32) [4]float32 {
	r, g, b, a := c[0], c[1], c[2], c[3]
	return [4]float32{
		clamp255(m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4]),
		clamp255(m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9]),
		clamp255(m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14]),
		clamp255(m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]),
	}
}

// ApplyMatrices runs chain over every pixel of src and writes to dst.
// Pixels are premultiplied; they are un-premultiplied once, passed through
// each matrix in order with clamping after every step, then re-premultiplied.
// dst and src must have the same size and may alias.
func ApplyMatrices(dst, src *image.RGBA, chain ...ColorMatrix) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Pix[y*src.Stride : y*src.Stride+w*4]
			out := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
			for x := 0; x < w*4; x += 4 {
				c := Unpremultiply(in[x], in[x+1], in[x+2], in[x+3])
				for i := range chain {
					c = chain[i].Transform(c)
				}
				out[x], out[x+1], out[x+2], out[x+3] = Premultiply(c)
			}
		}
	})
}

// Unpremultiply converts premultiplied bytes to straight floats in [0, 255].
func Unpremultiply(pr, pg, pb, pa uint8) [4]float32 {
	a := float32(pa)
	if a == 0 {
		return [4]float32{}
	}
	return [4]float32{
		float32(pr) * 255 / a,
		float32(pg) * 255 / a,
		float32(pb) * 255 / a,
		a,
	}
}

// Premultiply converts straight floats in [0, 255] back to premultiplied bytes.
func Premultiply(c [4]float32) (r, g, b, a uint8) {
	f := c[3] / 255
	return clampUint8(c[0] * f), clampUint8(c[1] * f), clampUint8(c[2] * f), clampUint8(c[3])
}

func clamp255(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
