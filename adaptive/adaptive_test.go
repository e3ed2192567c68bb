package adaptive_test

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/adaptive"
	"github.com/gogpu/glass/internal/testhost"
	"github.com/gogpu/glass/snapshot"
)

func fill(r image.Rectangle, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(r)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

func TestMeasure(t *testing.T) {
	r := image.Rect(10, 10, 110, 60)

	l, ok := adaptive.Measure(fill(r, white), r, 16)
	require.True(t, ok)
	assert.InDelta(t, 1, l, 1e-9)

	l, ok = adaptive.Measure(fill(r, black), r, 16)
	require.True(t, ok)
	assert.InDelta(t, 0, l, 1e-9)

	// Translucent white is still white.
	l, ok = adaptive.Measure(fill(r, color.RGBA{R: 128, G: 128, B: 128, A: 128}), r, 16)
	require.True(t, ok)
	assert.InDelta(t, 1, l, 1e-9)

	pure := color.RGBA{G: 255, A: 255}
	l, _ = adaptive.Measure(fill(r, pure), r, 0)
	assert.InDelta(t, 0.7152, l, 1e-9)

	_, ok = adaptive.Measure(fill(r, white), image.Rect(200, 200, 210, 210), 16)
	assert.False(t, ok)
	_, ok = adaptive.Measure(fill(r, color.RGBA{}), r, 16)
	assert.False(t, ok)
	_, ok = adaptive.Measure(nil, r, 16)
	assert.False(t, ok)
}

func TestMeasureDownsamples(t *testing.T) {
	r := image.Rect(0, 0, 200, 100)
	img := fill(r, black)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, white)
		}
	}
	l, ok := adaptive.Measure(img, r, 8)
	require.True(t, ok)
	assert.InDelta(t, 0.5, l, 0.05)

	// Only the region counts.
	l, _ = adaptive.Measure(img, image.Rect(120, 0, 200, 100), 8)
	assert.InDelta(t, 0, l, 1e-9)
}

func snap(t *testing.T, c color.RGBA) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.New(fill(image.Rect(0, 0, 64, 64), c), 1)
	require.NoError(t, err)
	return s
}

func TestTrackerIntervalAndSmoothing(t *testing.T) {
	clock := testhost.NewClock()
	tr := adaptive.New(adaptive.WithClock(clock))
	region := image.Rect(0, 0, 64, 64)

	_, ok := tr.Luminance()
	assert.False(t, ok)

	l, ok := tr.Update(snap(t, black), region)
	require.True(t, ok)
	assert.InDelta(t, 0, l, 1e-9)

	// Too early: the new backdrop is ignored.
	clock.Advance(100 * time.Millisecond)
	l, _ = tr.Update(snap(t, white), region)
	assert.InDelta(t, 0, l, 1e-9)

	clock.Advance(150 * time.Millisecond)
	l, _ = tr.Update(snap(t, white), region)
	assert.InDelta(t, adaptive.DefaultSmoothing, l, 1e-9)

	clock.Advance(adaptive.DefaultInterval)
	l, _ = tr.Update(snap(t, white), region)
	assert.InDelta(t, 0.2+0.2*0.8, l, 1e-9)

	tr.Reset()
	_, ok = tr.Luminance()
	assert.False(t, ok)
}

func TestTrackerReleasesLease(t *testing.T) {
	tr := adaptive.New(adaptive.WithSmoothing(1))
	s := snap(t, white)
	tr.Update(s, image.Rect(0, 0, 64, 64))
	assert.Equal(t, 0, s.Leases())

	s.RequestDispose()
	tr.Reset()
	_, ok := tr.Update(s, image.Rect(0, 0, 64, 64))
	assert.False(t, ok, "disposed snapshot yields no reading")

	_, ok = tr.Update(nil, image.Rect(0, 0, 64, 64))
	assert.False(t, ok)
}

func TestApply(t *testing.T) {
	region := image.Rect(0, 0, 64, 64)
	base := glass.DefaultParameters()

	tr := adaptive.New()
	assert.Equal(t, base, tr.Apply(base), "no reading leaves parameters alone")

	tr.Update(snap(t, white), region)
	bright := tr.Apply(base)
	assert.InDelta(t, -adaptive.DefaultStrength, bright.Brightness, 1e-9)
	assert.Equal(t, 0.0, bright.SurfaceColor.R)
	assert.InDelta(t, 0.3, bright.SurfaceColor.A, 1e-9)

	dark := adaptive.New()
	dark.Update(snap(t, black), region)
	p := dark.Apply(base)
	assert.InDelta(t, adaptive.DefaultStrength, p.Brightness, 1e-9)
	assert.Equal(t, 1.0, p.SurfaceColor.R)

	custom := base
	custom.SurfaceColor = glass.RGBA{B: 1, A: 0.4}
	assert.Equal(t, custom.SurfaceColor, dark.Apply(custom).SurfaceColor)
}
