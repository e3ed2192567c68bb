// Package adaptive tracks how bright the backdrop behind a glass surface is
// and biases the surface's parameters so its content stays legible: a
// bright backdrop darkens the glass, a dark one lightens it.
//
// A Tracker samples the snapshot region behind the surface at most once per
// interval and smooths the readings exponentially, so the look follows the
// scene without flickering as content scrolls underneath.
package adaptive

import (
	"image"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/transform"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/capture"
	"github.com/gogpu/glass/snapshot"
)

// Defaults.
const (
	DefaultInterval   = 250 * time.Millisecond
	DefaultSmoothing  = 0.2
	DefaultSampleSize = 16
	DefaultStrength   = 0.2
)

// surfaceTintAlpha is the largest surface-colour alpha Apply adds at a fully
// black or fully white backdrop.
const surfaceTintAlpha = 0.3

// Rec. 709 luma weights.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithInterval sets the minimum time between samples.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) { t.interval = d }
}

// WithSmoothing sets the weight in (0, 1] of a new reading. 1 disables
// smoothing.
func WithSmoothing(a float64) Option {
	return func(t *Tracker) {
		if a > 0 && a <= 1 {
			t.smoothing = a
		}
	}
}

// WithClock sets the time source.
func WithClock(c capture.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithSampleSize sets the edge length of the grid the region is
// downsampled to before averaging.
func WithSampleSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.sampleSize = n
		}
	}
}

// WithStrength sets how far Apply moves brightness at a fully black or
// fully white backdrop.
func WithStrength(s float64) Option {
	return func(t *Tracker) { t.strength = s }
}

// Tracker holds the smoothed luminance of one surface's backdrop.
// It is safe for concurrent use.
type Tracker struct {
	interval   time.Duration
	smoothing  float64
	sampleSize int
	strength   float64
	clock      capture.Clock

	mu      sync.Mutex
	value   float64
	valid   bool
	sampled time.Time
}

// New creates a tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		interval:   DefaultInterval,
		smoothing:  DefaultSmoothing,
		sampleSize: DefaultSampleSize,
		strength:   DefaultStrength,
		clock:      wallClock{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Luminance returns the smoothed luminance in [0, 1] and whether any sample
// has been taken.
func (t *Tracker) Luminance() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.valid
}

// Reset forgets every reading.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.value, t.valid, t.sampled = 0, false, time.Time{}
	t.mu.Unlock()
}

// Update samples region (window device pixels) of snap if the interval has
// elapsed since the last sample, and returns the smoothed luminance.
// A nil or disposed snapshot, or a region outside it, leaves the value
// unchanged.
func (t *Tracker) Update(snap *snapshot.Snapshot, region image.Rectangle) (float64, bool) {
	now := t.clock.Now()
	t.mu.Lock()
	due := !t.valid || now.Sub(t.sampled) >= t.interval
	t.mu.Unlock()
	if !due || snap == nil {
		return t.Luminance()
	}

	lease, ok := snap.Acquire()
	if !ok {
		return t.Luminance()
	}
	l, ok := Measure(lease.Image(), region, t.sampleSize)
	lease.Release()
	if !ok {
		return t.Luminance()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.valid {
		t.value += t.smoothing * (l - t.value)
	} else {
		t.value, t.valid = l, true
	}
	t.sampled = now
	glass.Logger().Debug("adaptive: luminance sampled", "reading", l, "smoothed", t.value)
	return t.value, true
}

// Apply returns p biased for the current luminance. Brightness moves
// against the backdrop by up to the tracker strength, and when p has no
// surface colour of its own a translucent black or white one is added.
// Without a reading p is returned unchanged.
func (t *Tracker) Apply(p glass.DrawParameters) glass.DrawParameters {
	l, ok := t.Luminance()
	if !ok {
		return p
	}
	bias := 0.5 - l
	p.Brightness += bias * 2 * t.strength
	if p.SurfaceColor.A <= 0 {
		a := math.Abs(bias) * 2 * surfaceTintAlpha
		if bias < 0 {
			p.SurfaceColor = glass.RGBA{A: a}
		} else {
			p.SurfaceColor = glass.RGBA{R: 1, G: 1, B: 1, A: a}
		}
	}
	return p
}

// Measure returns the mean Rec. 709 luma of the part of img inside region,
// weighted by alpha. The region is downsampled to at most size×size pixels
// first. It reports false when nothing of img is covered.
func Measure(img *image.RGBA, region image.Rectangle, size int) (float64, bool) {
	if img == nil {
		return 0, false
	}
	r := region.Intersect(img.Rect)
	if r.Empty() {
		return 0, false
	}
	crop := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(crop, crop.Rect, img, r.Min, draw.Src)

	small := crop
	if size > 0 && (r.Dx() > size || r.Dy() > size) {
		small = transform.Resize(crop, min(size, r.Dx()), min(size, r.Dy()), transform.Linear)
	}

	var sum, weight float64
	for i := 0; i+3 < len(small.Pix); i += 4 {
		a := float64(small.Pix[i+3])
		if a == 0 {
			continue
		}
		// Premultiplied channels divided by alpha; the alpha weight cancels.
		luma := lumaR*float64(small.Pix[i]) + lumaG*float64(small.Pix[i+1]) + lumaB*float64(small.Pix[i+2])
		sum += luma / 255
		weight += a / 255
	}
	if weight == 0 {
		return 0, false
	}
	return math.Min(1, sum/weight), true
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }
