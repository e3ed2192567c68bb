// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// Frame errors.
var (
	// ErrUnsupportedFormat is returned for frames the readback cannot decode.
	ErrUnsupportedFormat = errors.New("capture: unsupported pixel format")

	// ErrEmptyFrame is returned for frames without pixels.
	ErrEmptyFrame = errors.New("capture: empty frame")
)

// Frame is the scratch buffer a window renders a capture into.
//
// Pixels are premultiplied, 4 bytes each, in Format order. The service
// allocates frames as RGBA8; a host that renders natively in BGRA may
// overwrite the pixels and set Format to BGRA8Unorm.
type Frame struct {
	Pix    []byte
	Stride int
	// Rect is the captured pixel rectangle in window device pixels.
	Rect   image.Rectangle
	Scale  float64
	Format gputypes.TextureFormat
}

// NewFrame allocates a transparent RGBA8 frame covering r.
func NewFrame(r image.Rectangle, scale float64) *Frame {
	return &Frame{
		Pix:    make([]byte, 4*r.Dx()*r.Dy()),
		Stride: 4 * r.Dx(),
		Rect:   r,
		Scale:  scale,
		Format: gputypes.TextureFormatRGBA8Unorm,
	}
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.Rect.Dx() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.Rect.Dy() }

// Clear resets every pixel to transparent and the format to RGBA8.
func (f *Frame) Clear() {
	clear(f.Pix)
	f.Format = gputypes.TextureFormatRGBA8Unorm
}

// RGBA returns an image sharing the frame's pixels, for hosts that draw
// with the image/draw packages. Only valid for RGBA8 frames.
func (f *Frame) RGBA() *image.RGBA {
	return &image.RGBA{Pix: f.Pix, Stride: f.Stride, Rect: f.Rect}
}

// Validate reports whether the frame can be read back.
func (f *Frame) Validate() error {
	w, h := f.Width(), f.Height()
	if w <= 0 || h <= 0 {
		return ErrEmptyFrame
	}
	switch f.Format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f.Format)
	}
	if f.Stride < 4*w || len(f.Pix) < f.Stride*(h-1)+4*w {
		return fmt.Errorf("%w: %d bytes for %dx%d at stride %d", ErrEmptyFrame, len(f.Pix), w, h, f.Stride)
	}
	return nil
}

// ReadInto copies the frame into dst as RGBA, swizzling BGRA frames. dst
// must have the frame's size; its origin is set to the frame's.
func (f *Frame) ReadInto(dst *image.RGBA) error {
	if err := f.Validate(); err != nil {
		return err
	}
	w, h := f.Width(), f.Height()
	if dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		return fmt.Errorf("capture: readback size %v, frame %v", dst.Rect.Size(), f.Rect.Size())
	}
	dst.Rect = f.Rect
	bgra := f.Format == gputypes.TextureFormatBGRA8Unorm
	for y := 0; y < h; y++ {
		src := f.Pix[y*f.Stride : y*f.Stride+4*w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
		if !bgra {
			copy(out, src)
			continue
		}
		for i := 0; i < len(src); i += 4 {
			out[i], out[i+1], out[i+2], out[i+3] = src[i+2], src[i+1], src[i], src[i+3]
		}
	}
	return nil
}
