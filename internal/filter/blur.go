package filter

import (
	"image"
	"sync"

	"github.com/anthonynsimon/bild/parallel"
)

// EdgeMode selects how the blur samples outside the source bounds.
type EdgeMode int

const (
	// EdgeClamp repeats the nearest edge pixel. Used for backdrops so the
	// captured image's own border does not darken.
	EdgeClamp EdgeMode = iota
	// EdgeDecal treats everything outside the source as transparent.
	// Used for layers that must fade out, such as shadows.
	EdgeDecal
)

func (m EdgeMode) String() string {
	switch m {
	case EdgeClamp:
		return "clamp"
	case EdgeDecal:
		return "decal"
	}
	return "unknown"
}

// Blur writes a Gaussian blur of src with the given sigma (pixels) into dst.
// Both images must have the same size; dst may not alias src. The result
// keeps src's origin, it is never shifted by the kernel extent.
//
// The operation is separable: a horizontal pass into a float buffer, then a
// vertical pass into dst. Rows are processed in parallel.
func Blur(dst, src *image.RGBA, sigma float64, edge EdgeMode) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	if sigma <= 0 {
		copyPlane(dst.Pix, dst.Stride, src.Pix, src.Stride, w*4, h)
		return
	}
	blurPlane(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 4, CachedGaussianKernel(sigma), edge)
}

// BlurAlpha is Blur for single-channel coverage masks.
func BlurAlpha(dst, src *image.Alpha, sigma float64, edge EdgeMode) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	if sigma <= 0 {
		copyPlane(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h)
		return
	}
	blurPlane(dst.Pix, dst.Stride, src.Pix, src.Stride, w, h, 1, CachedGaussianKernel(sigma), edge)
}

// blurPlane convolves an interleaved plane of ch channels per pixel.
func blurPlane(dst []uint8, dstStride int, src []uint8, srcStride int, w, h, ch int, kernel []float32, edge EdgeMode) {
	temp := getTempBuffer(w * h * ch)
	defer putTempBuffer(temp)

	half := len(kernel) / 2

	// Pass 1: horizontal (src -> temp).
	parallel.Line(h, func(start, end int) {
		var acc [4]float32
		for y := start; y < end; y++ {
			row := src[y*srcStride:]
			for x := 0; x < w; x++ {
				acc = [4]float32{}
				for k, weight := range kernel {
					kx := x + k - half
					if kx < 0 || kx >= w {
						if edge == EdgeDecal {
							continue
						}
						kx = clampIndex(kx, w)
					}
					p := kx * ch
					for c := 0; c < ch; c++ {
						acc[c] += float32(row[p+c]) * weight
					}
				}
				t := (y*w + x) * ch
				copy(temp[t:t+ch], acc[:ch])
			}
		}
	})

	// Pass 2: vertical (temp -> dst).
	parallel.Line(h, func(start, end int) {
		var acc [4]float32
		for y := start; y < end; y++ {
			out := dst[y*dstStride:]
			for x := 0; x < w; x++ {
				acc = [4]float32{}
				for k, weight := range kernel {
					ky := y + k - half
					if ky < 0 || ky >= h {
						if edge == EdgeDecal {
							continue
						}
						ky = clampIndex(ky, h)
					}
					t := (ky*w + x) * ch
					for c := 0; c < ch; c++ {
						acc[c] += temp[t+c] * weight
					}
				}
				p := x * ch
				for c := 0; c < ch; c++ {
					out[p+c] = clampUint8(acc[c])
				}
			}
		}
	})
}

func copyPlane(dst []uint8, dstStride int, src []uint8, srcStride int, rowBytes, h int) {
	for y := 0; y < h; y++ {
		copy(dst[y*dstStride:y*dstStride+rowBytes], src[y*srcStride:y*srcStride+rowBytes])
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() any { return &floatBuffer{} },
}

// getTempBuffer returns a scratch buffer of exactly size elements. Contents
// are unspecified; every element is written before it is read.
func getTempBuffer(size int) []float32 {
	wrapper := tempBufferPool.Get().(*floatBuffer)
	if cap(wrapper.data) < size {
		wrapper.data = make([]float32, size)
	}
	return wrapper.data[:size]
}

// maxPooledFloats keeps pooled scratch buffers under 64MB.
const maxPooledFloats = 16 * 1024 * 1024

func putTempBuffer(buf []float32) {
	if cap(buf) <= maxPooledFloats {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampIndex clamps i to [0, n).
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// clampUint8 clamps a float32 to [0, 255] and rounds to uint8.
func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
