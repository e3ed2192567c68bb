// Package software implements the filter backend on the CPU.
//
// Colour matrices and Gaussian blur run over *image.RGBA with rows spread
// across goroutines; custom programs come from a shader.Registry and are
// evaluated per pixel. The backend registers itself as "software" with the
// backend package on import.
package software

import (
	"image"

	"github.com/anthonynsimon/bild/clone"

	"github.com/gogpu/glass/backend"
	"github.com/gogpu/glass/internal/filter"
	"github.com/gogpu/glass/raster"
	"github.com/gogpu/glass/shader"
)

// init registers the software backend on package import.
func init() {
	backend.Register(backend.BackendSoftware, func() raster.Backend {
		return New()
	})
}

// Option configures a Backend.
type Option func(*Backend)

// WithRegistry sets the program registry. By default every Backend owns a
// registry that compiles the builtin programs with naga.
func WithRegistry(r *shader.Registry) Option {
	return func(b *Backend) { b.programs = r }
}

// Backend is the CPU implementation of raster.Backend.
type Backend struct {
	programs *shader.Registry
}

var _ raster.Backend = (*Backend)(nil)

// New creates a software backend.
func New(opts ...Option) *Backend {
	b := &Backend{}
	for _, opt := range opts {
		opt(b)
	}
	if b.programs == nil {
		b.programs = shader.NewRegistry()
	}
	return b
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return backend.BackendSoftware }

// NewImage allocates a transparent image covering bounds.
func (b *Backend) NewImage(bounds image.Rectangle) *image.RGBA {
	return image.NewRGBA(bounds)
}

// ApplyColorMatrices runs chain over src into dst.
func (b *Backend) ApplyColorMatrices(dst, src *image.RGBA, chain ...raster.ColorMatrix) {
	if !sameSize(dst.Rect, src.Rect) {
		return
	}
	filter.ApplyMatrices(dst, src, chain...)
}

// Blur writes a Gaussian blur of src into dst. dst may be src.
func (b *Backend) Blur(dst, src *image.RGBA, sigma float64, edge raster.EdgeMode) {
	if !sameSize(dst.Rect, src.Rect) {
		return
	}
	if dst == src || (len(dst.Pix) > 0 && &dst.Pix[0] == &src.Pix[0]) {
		src = clone.AsRGBA(src)
	}
	filter.Blur(dst, src, sigma, edge)
}

// BlurMask writes a Gaussian blur of the coverage mask src into dst.
func (b *Backend) BlurMask(dst, src *image.Alpha, sigma float64, edge raster.EdgeMode) {
	if !sameSize(dst.Rect, src.Rect) {
		return
	}
	if dst == src || (len(dst.Pix) > 0 && &dst.Pix[0] == &src.Pix[0]) {
		cp := image.NewAlpha(src.Rect)
		copy(cp.Pix, src.Pix)
		src = cp
	}
	filter.BlurAlpha(dst, src, sigma, edge)
}

// Program returns the named program from the registry.
func (b *Backend) Program(name string) (raster.Program, error) {
	return b.programs.Program(name)
}

func sameSize(a, b image.Rectangle) bool {
	return a.Dx() == b.Dx() && a.Dy() == b.Dy()
}
