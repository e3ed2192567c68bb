// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package composite_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/backend/software"
	"github.com/gogpu/glass/composite"
	"github.com/gogpu/glass/shader"
	"github.com/gogpu/glass/snapshot"
)

var backdrop = color.RGBA{R: 80, G: 120, B: 200, A: 255}

func fakeModule(string) ([]byte, error) { return []byte{0x03, 0x02, 0x23, 0x07}, nil }

func newPipeline() *composite.Pipeline {
	reg := shader.NewRegistry(shader.WithCompiler(fakeModule))
	return composite.New(software.New(software.WithRegistry(reg)))
}

func brokenPipeline() *composite.Pipeline {
	reg := shader.NewRegistry(shader.WithCompiler(func(string) ([]byte, error) {
		return nil, errors.New("compile error")
	}))
	return composite.New(software.New(software.WithRegistry(reg)))
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func clone(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	return out
}

func newSnapshot(t *testing.T, img *image.RGBA) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.New(clone(img), 1)
	require.NoError(t, err)
	return s
}

// target places a 140x140 surface at (30, 30) in a 200x200 window.
func target(dst *image.RGBA) composite.Target {
	return composite.Target{
		Dst:       dst,
		Scale:     1,
		Placement: glass.Translation(glass.Pt(30, 30)),
		Size:      glass.Sz(140, 140),
	}
}

// plain returns parameters whose only effects are the lens and the default
// blur.
func plain() glass.DrawParameters {
	p := glass.DefaultParameters()
	p.Saturation = 1
	p.Highlight.Enabled = false
	p.Shadow.Enabled = false
	return p
}

func assertPixel(t *testing.T, img *image.RGBA, x, y int, want [3]float64, tol float64) {
	t.Helper()
	got := img.RGBAAt(x, y)
	assert.InDelta(t, want[0], float64(got.R), tol, "R at (%d,%d)", x, y)
	assert.InDelta(t, want[1], float64(got.G), tol, "G at (%d,%d)", x, y)
	assert.InDelta(t, want[2], float64(got.B), tol, "B at (%d,%d)", x, y)
}

// documented evaluates the colour chain in closed form: saturation,
// contrast and brightness, then exposure, then gamma.
func documented(c color.RGBA, brightness, contrast, saturation, ev, gamma float64) [3]float64 {
	in := [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
	lum := 0.213*in[0] + 0.715*in[1] + 0.072*in[2]
	var out [3]float64
	for i, v := range in {
		v = lum + saturation*(v-lum)
		v = clamp01(contrast*(v-0.5) + 0.5 + brightness)
		v = clamp01(v * math.Pow(2, ev/2.2))
		out[i] = math.Pow(v, gamma) * 255
	}
	return out
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

func TestComposeBrightnessClosedForm(t *testing.T) {
	bg := solid(200, 200, backdrop)
	dst := clone(bg)
	params := plain()
	params.Brightness = 0.2

	newPipeline().Compose(target(dst), params, newSnapshot(t, bg))

	assertPixel(t, dst, 100, 100, documented(backdrop, 0.2, 1, 1, 0, 1), 3)
	assertPixel(t, dst, 100, 100, [3]float64{131, 171, 251}, 3)
}

func TestComposeColourScenario(t *testing.T) {
	bg := solid(200, 200, backdrop)
	dst := clone(bg)
	params := plain()
	params.Brightness = 0.15
	params.Contrast = 0.9
	params.Saturation = 1.4
	params.ExposureEV = 0.75
	params.GammaPower = 1.2

	newPipeline().Compose(target(dst), params, newSnapshot(t, bg))

	assertPixel(t, dst, 100, 100, documented(backdrop, 0.15, 0.9, 1.4, 0.75, 1.2), 3)
}

func TestComposeCornerLeavesBackdrop(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			bg.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	dst := clone(bg)
	params := glass.DefaultParameters()
	params.Shadow.Enabled = false
	params.CornerRadius = glass.Uniform(64)
	params.SurfaceColor = glass.RGBA{R: 1, G: 1, B: 1, A: 0.5}

	newPipeline().Compose(target(dst), params, newSnapshot(t, bg))

	for _, p := range []image.Point{{33, 33}, {166, 33}, {33, 166}, {166, 166}, {40, 35}} {
		want := bg.RGBAAt(p.X, p.Y)
		got := dst.RGBAAt(p.X, p.Y)
		for i, ch := range [][2]uint8{{got.R, want.R}, {got.G, want.G}, {got.B, want.B}} {
			assert.InDelta(t, float64(ch[1]), float64(ch[0]), 5, "channel %d at %v", i, p)
		}
	}
	// The surface itself is drawn.
	assert.NotEqual(t, bg.RGBAAt(100, 100), dst.RGBAAt(100, 100))
}

func stripes(w, h, period int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(0)
			if (x/(period/2))%2 == 0 {
				v = 255
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func rowContrast(img *image.RGBA, y, x0, x1 int) int {
	lo, hi := 255, 0
	for x := x0; x < x1; x++ {
		v := int(img.RGBAAt(x, y).R)
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return hi - lo
}

func TestProgressiveBlurMonotonic(t *testing.T) {
	bg := stripes(200, 200, 16)
	dst := clone(bg)
	params := plain()
	params.RefractionHeight = 0
	params.BlurRadius = 6
	params.Progressive.Enabled = true
	params.Progressive.Start = 0
	params.Progressive.End = 1

	newPipeline().Lens(target(dst), params, newSnapshot(t, bg))

	top := rowContrast(dst, 35, 50, 150)
	middle := rowContrast(dst, 100, 50, 150)
	bottom := rowContrast(dst, 165, 50, 150)
	assert.Less(t, top, middle)
	assert.Less(t, middle, bottom)
	assert.Less(t, top, bottom/2)
	assert.Greater(t, bottom, 200)
}

func TestProgressiveTint(t *testing.T) {
	bg := solid(200, 200, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	dst := clone(bg)
	params := plain()
	params.Progressive.Enabled = true
	params.Progressive.Start = 0.5
	params.Progressive.End = 1
	params.Progressive.TintColor = glass.RGB(1, 0, 0)
	params.Progressive.TintIntensity = 0.5

	newPipeline().Lens(target(dst), params, newSnapshot(t, bg))

	top := dst.RGBAAt(100, 40)
	bottom := dst.RGBAAt(100, 168)
	assert.Greater(t, int(top.R), 150)
	assert.Less(t, int(top.G), 60)
	assert.InDelta(t, 100, float64(bottom.R), 6)
}

func gradientX() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: 0, B: 0, A: 255})
		}
	}
	return img
}

func TestLensZoomAndOffset(t *testing.T) {
	bg := gradientX()
	params := plain()
	params.RefractionHeight = 0
	params.BlurRadius = 0

	dst := clone(bg)
	newPipeline().Lens(target(dst), params, newSnapshot(t, bg))
	assert.InDelta(t, 140, float64(dst.RGBAAt(140, 100).R), 1)

	params.BackdropZoom = 2
	dst = clone(bg)
	newPipeline().Lens(target(dst), params, newSnapshot(t, bg))
	assert.InDelta(t, 100, float64(dst.RGBAAt(100, 100).R), 1)
	assert.InDelta(t, 120, float64(dst.RGBAAt(140, 100).R), 1)

	params.BackdropZoom = 1
	params.BackdropOffset = glass.Pt(10, 0)
	dst = clone(bg)
	newPipeline().Lens(target(dst), params, newSnapshot(t, bg))
	assert.InDelta(t, 130, float64(dst.RGBAAt(140, 100).R), 1)
}

func TestLensRefractsNearEdge(t *testing.T) {
	bg := gradientX()
	params := plain()
	params.BlurRadius = 0
	params.RefractionHeight = 20
	params.RefractionAmount = 10

	dst := clone(bg)
	newPipeline().Lens(target(dst), params, newSnapshot(t, bg))

	// Deep inside nothing moves; inside the band near the right edge the
	// backdrop is pulled towards the centre.
	assert.InDelta(t, 100, float64(dst.RGBAAt(100, 100).R), 1)
	assert.Less(t, float64(dst.RGBAAt(165, 100).R), 164.0)
}

var placeholder = [3]float64{
	80*223/255.0 + 32,
	120*223/255.0 + 32,
	200*223/255.0 + 32,
}

func TestLensWithoutSnapshotDrawsPlaceholder(t *testing.T) {
	dst := solid(200, 200, backdrop)
	newPipeline().Compose(target(dst), plain(), nil)
	assertPixel(t, dst, 100, 100, placeholder, 2)
}

func TestLensDisposedSnapshotDrawsPlaceholder(t *testing.T) {
	bg := solid(200, 200, backdrop)
	snap := newSnapshot(t, bg)
	snap.RequestDispose()
	require.True(t, snap.Disposed())

	dst := clone(bg)
	newPipeline().Lens(target(dst), plain(), snap)
	assertPixel(t, dst, 100, 100, placeholder, 2)
}

func TestLensCompileFailureDrawsPlaceholder(t *testing.T) {
	bg := solid(200, 200, backdrop)
	dst := clone(bg)
	p := brokenPipeline()

	p.Compose(target(dst), glass.DefaultParameters(), newSnapshot(t, bg))
	assertPixel(t, dst, 100, 100, placeholder, 2)

	// Without refraction the lens program is not needed.
	params := plain()
	params.RefractionHeight = 0
	dst = clone(bg)
	p.Compose(target(dst), params, newSnapshot(t, bg))
	assertPixel(t, dst, 100, 100, [3]float64{80, 120, 200}, 2)
}

func TestLensLeaseAndFilterCache(t *testing.T) {
	bg := solid(200, 200, backdrop)
	snap := newSnapshot(t, bg)
	p := newPipeline()
	params := plain()
	params.Brightness = 0.1

	p.Lens(target(clone(bg)), params, snap)
	p.Lens(target(clone(bg)), params, snap)
	assert.Equal(t, 0, snap.Leases())
	assert.Equal(t, 1, snap.FilteredLen())

	params.Brightness = 0
	params.BlurRadius = 0
	p.Lens(target(clone(bg)), params, snap)
	assert.Equal(t, 1, snap.FilteredLen(), "identity chain samples the snapshot directly")

	snap.RequestDispose()
	assert.True(t, snap.Disposed())
}

func TestOverlays(t *testing.T) {
	grey := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	bg := solid(200, 200, grey)
	params := plain()
	params.RefractionHeight = 0
	params.TintColor = glass.RGBA{R: 1, A: 0.4}

	dst := clone(bg)
	newPipeline().Lens(target(dst), params, newSnapshot(t, bg))
	c := dst.RGBAAt(100, 100)
	assert.Greater(t, int(c.R), 150)
	assert.Less(t, int(c.G), 128)
	assert.InDelta(t, float64(c.G), float64(c.B), 1)

	params.TintColor = glass.RGBA{}
	params.SurfaceColor = glass.RGBA{R: 1, G: 1, B: 1, A: 0.5}
	dst = clone(bg)
	newPipeline().Lens(target(dst), params, newSnapshot(t, bg))
	assertPixel(t, dst, 100, 100, [3]float64{191.5, 191.5, 191.5}, 2)
}

func TestComposeIgnoresDegenerateTarget(t *testing.T) {
	p := newPipeline()
	assert.NotPanics(t, func() {
		p.Compose(composite.Target{}, glass.DefaultParameters(), nil)
		dst := solid(10, 10, backdrop)
		tg := composite.Target{Dst: dst, Scale: 1, Placement: glass.Identity}
		p.Compose(tg, glass.DefaultParameters(), nil)
		assert.Equal(t, backdrop, dst.RGBAAt(5, 5))
	})
}

func TestNewDefaultsToSoftware(t *testing.T) {
	p := composite.New(nil)
	assert.Equal(t, "software", p.Backend().Name())
}

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

// passParams returns parameters with every pass switched off.
func passParams() glass.DrawParameters {
	p := plain()
	p.InnerShadow.Enabled = false
	return p
}

func hardShadow() glass.Shadow {
	return glass.Shadow{
		Enabled: true,
		Radius:  8,
		Offset:  glass.Pt(0, 10),
		Color:   glass.RGBA{A: 1},
		Opacity: 1,
	}
}

func TestShadow(t *testing.T) {
	p := passParams()
	p.Shadow = hardShadow()
	dst := solid(200, 200, white)

	newPipeline().Shadow(target(dst), p)

	assert.Equal(t, white, dst.RGBAAt(100, 100), "interior is punched out")
	assert.Equal(t, white, dst.RGBAAt(100, 168), "interior near the offset edge")
	below := dst.RGBAAt(100, 175).R
	above := dst.RGBAAt(100, 25).R
	assert.Less(t, below, uint8(230), "offset side is darkened")
	assert.Greater(t, above, below, "the side against the offset stays lighter")
	assert.Equal(t, white, dst.RGBAAt(2, 2), "beyond the blur reach")
}

func TestShadowSkipped(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*glass.Shadow)
	}{
		{"disabled", func(s *glass.Shadow) { s.Enabled = false }},
		{"zero opacity", func(s *glass.Shadow) { s.Opacity = 0 }},
		{"transparent colour", func(s *glass.Shadow) { s.Color.A = 0 }},
		{"zero radius", func(s *glass.Shadow) { s.Radius = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := passParams()
			p.Shadow = hardShadow()
			tt.modify(&p.Shadow)
			dst := solid(200, 200, white)

			pipe := newPipeline()
			pipe.Shadow(target(dst), p)
			p.InnerShadow = p.Shadow
			pipe.InnerShadow(target(dst), p)

			assert.Equal(t, solid(200, 200, white).Pix, dst.Pix)
		})
	}
}

func TestInnerShadow(t *testing.T) {
	p := passParams()
	p.InnerShadow = glass.Shadow{
		Enabled: true,
		Radius:  4,
		Offset:  glass.Pt(0, 10),
		Color:   glass.RGBA{A: 1},
		Opacity: 1,
	}
	dst := solid(200, 200, white)

	newPipeline().InnerShadow(target(dst), p)

	assert.Less(t, dst.RGBAAt(100, 33).R, uint8(200), "top band is shaded")
	assert.InDelta(t, 255, float64(dst.RGBAAt(100, 100).R), 1)
	assert.InDelta(t, 255, float64(dst.RGBAAt(100, 166).R), 1, "bottom edge is clear")
	assert.Equal(t, white, dst.RGBAAt(100, 20), "clipped to the surface")
	assert.Equal(t, white, dst.RGBAAt(100, 175))
}

func edgeParams(width float64) glass.DrawParameters {
	p := passParams()
	p.Highlight = glass.Highlight{
		Enabled:      true,
		Width:        width,
		Opacity:      1,
		AngleDegrees: 90,
		Falloff:      1,
	}
	return p
}

func TestEdgeHighlight(t *testing.T) {
	dst := solid(200, 200, black)

	newPipeline().EdgeHighlight(target(dst), edgeParams(0.5))

	assert.Greater(t, dst.RGBAAt(100, 30).R, uint8(100), "top rim is lit")
	assert.Greater(t, dst.RGBAAt(100, 169).R, uint8(100), "bottom rim is lit")
	assert.Equal(t, black, dst.RGBAAt(100, 100), "centre is untouched")
	assert.Equal(t, black, dst.RGBAAt(100, 25), "clipped to the surface")
}

func TestEdgeHighlightZeroWidthKeepsHairline(t *testing.T) {
	dst := solid(200, 200, black)

	newPipeline().EdgeHighlight(target(dst), edgeParams(0))

	assert.Positive(t, dst.RGBAAt(100, 30).R, "half-unit rim at width 0")
	assert.Equal(t, black, dst.RGBAAt(100, 33))
	assert.Equal(t, black, dst.RGBAAt(100, 100))
}

func TestEdgeHighlightSkipped(t *testing.T) {
	p := edgeParams(0.5)
	p.Highlight.Opacity = 0
	dst := solid(200, 200, black)
	newPipeline().EdgeHighlight(target(dst), p)
	assert.Equal(t, solid(200, 200, black).Pix, dst.Pix)

	p = edgeParams(0.5)
	dst = solid(200, 200, black)
	brokenPipeline().EdgeHighlight(target(dst), p)
	assert.Equal(t, solid(200, 200, black).Pix, dst.Pix, "no program, no highlight")
}
