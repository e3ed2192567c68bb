package filter

import (
	"image"

	"github.com/gogpu/glass"
)

// Colorize writes c modulated by mask coverage into dst as premultiplied
// pixels, the colouring step of a shadow. dst and mask must have the same
// size; their origins may differ.
func Colorize(dst *image.RGBA, mask *image.Alpha, c glass.RGBA) {
	c = c.Clamped()
	r := float32(c.R * c.A * 255)
	g := float32(c.G * c.A * 255)
	b := float32(c.B * c.A * 255)
	a := float32(c.A * 255)

	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	for y := 0; y < h; y++ {
		m := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x, cov := range m {
			if cov == 0 {
				continue
			}
			f := float32(cov) / 255
			i := x * 4
			out[i+0] = clampUint8(r * f)
			out[i+1] = clampUint8(g * f)
			out[i+2] = clampUint8(b * f)
			out[i+3] = clampUint8(a * f)
		}
	}
}
