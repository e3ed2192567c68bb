// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package snapshot holds captured backdrop images and their lease-based
// lifetime.
//
// A Snapshot is immutable once published. Readers take a Lease for the
// duration of one draw and release it exactly once; the owner calls
// RequestDispose when the snapshot is replaced, and the pixels are released
// when the last lease goes away. Filtered derivatives (colour chain plus
// blur) are cached on the snapshot and dropped with it.
package snapshot

import (
	"errors"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/internal/cache"
)

// ErrNilImage is returned by New for a missing or empty image.
var ErrNilImage = errors.New("snapshot: nil image")

// FilteredLimit is the soft limit of filtered derivatives kept per snapshot.
const FilteredLimit = 4

// State word layout: the low bits count leases, the top two bits record
// dispose-requested and disposed.
const (
	disposeRequested uint64 = 1 << 62
	disposed         uint64 = 1 << 63
	leaseMask               = disposeRequested - 1
)

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithReleaseHook registers fn to receive the pixel buffer once the
// snapshot is disposed and no lease remains. Owners use it to recycle
// buffers.
func WithReleaseHook(fn func(*image.RGBA)) Option {
	return func(s *Snapshot) { s.onRelease = fn }
}

// Snapshot is an immutable captured image of a window region.
//
// The image bounds are the captured pixel rectangle in window device
// pixels, so Bounds().Min is the origin of the capture.
type Snapshot struct {
	img   *image.RGBA
	rect  image.Rectangle
	scale float64

	state atomic.Uint64

	mu        sync.Mutex
	filtered  *cache.Cache[glass.FilterKey, *image.RGBA]
	onRelease func(*image.RGBA)
}

// New wraps img, captured at the given device scale.
func New(img *image.RGBA, scale float64, opts ...Option) (*Snapshot, error) {
	if img == nil || img.Rect.Empty() {
		return nil, ErrNilImage
	}
	s := &Snapshot{
		img:   img,
		rect:  img.Rect,
		scale: scale,
		filtered: cache.New(FilteredLimit, cache.WithOnEvict(func(k glass.FilterKey, _ *image.RGBA) {
			glass.Logger().Debug("snapshot: filtered image evicted", "key", k)
		})),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Bounds returns the captured rectangle in window device pixels.
func (s *Snapshot) Bounds() image.Rectangle { return s.rect }

// Origin returns the top-left corner of the capture in device pixels.
func (s *Snapshot) Origin() image.Point { return s.rect.Min }

// PixelSize returns the captured size in device pixels.
func (s *Snapshot) PixelSize() image.Point { return s.rect.Size() }

// Scale returns the device scale the snapshot was captured at.
func (s *Snapshot) Scale() float64 { return s.scale }

// Leases returns the number of outstanding leases.
func (s *Snapshot) Leases() int { return int(s.state.Load() & leaseMask) }

// Disposed reports whether the pixels have been released.
func (s *Snapshot) Disposed() bool { return s.state.Load()&disposed != 0 }

// DisposeRequested reports whether the owner has asked for disposal.
func (s *Snapshot) DisposeRequested() bool { return s.state.Load()&disposeRequested != 0 }

// Acquire takes a lease. It fails only once the snapshot is disposed;
// a snapshot that is pending disposal can still be leased by a frame that
// loaded it before it was replaced.
func (s *Snapshot) Acquire() (*Lease, bool) {
	for {
		st := s.state.Load()
		if st&disposed != 0 {
			return nil, false
		}
		if s.state.CompareAndSwap(st, st+1) {
			return &Lease{s: s}, true
		}
	}
}

// RequestDispose marks the snapshot for disposal. The pixels are released
// immediately when no lease is held, otherwise by the last Release.
func (s *Snapshot) RequestDispose() {
	for {
		st := s.state.Load()
		if st&(disposed|disposeRequested) != 0 {
			return
		}
		next := st | disposeRequested
		if st&leaseMask == 0 {
			next |= disposed
		}
		if s.state.CompareAndSwap(st, next) {
			if next&disposed != 0 {
				s.release()
			}
			return
		}
	}
}

func (s *Snapshot) releaseLease() {
	for {
		st := s.state.Load()
		if st&leaseMask == 0 {
			return
		}
		next := st - 1
		if next&leaseMask == 0 && next&disposeRequested != 0 {
			next |= disposed
		}
		if s.state.CompareAndSwap(st, next) {
			if next&disposed != 0 && st&disposed == 0 {
				s.release()
			}
			return
		}
	}
}

func (s *Snapshot) release() {
	s.mu.Lock()
	img := s.img
	s.img = nil
	s.mu.Unlock()

	s.filtered.Clear()
	if s.onRelease != nil && img != nil {
		s.onRelease(img)
	}
	glass.Logger().Debug("snapshot: released", "bounds", s.rect)
}

// Filtered returns the derivative cached under key, building it with build
// on a miss. It must be called while holding a lease.
func (s *Snapshot) Filtered(key glass.FilterKey, build func(src *image.RGBA) *image.RGBA) *image.RGBA {
	s.mu.Lock()
	img := s.img
	s.mu.Unlock()
	if img == nil {
		return nil
	}
	return s.filtered.GetOrCreate(key, func() *image.RGBA { return build(img) })
}

// FilteredLen returns the number of cached derivatives.
func (s *Snapshot) FilteredLen() int { return s.filtered.Len() }

// Lease keeps a snapshot's pixels alive. Release it exactly once, typically
// with defer.
type Lease struct {
	s        *Snapshot
	released atomic.Bool
}

// Snapshot returns the leased snapshot.
func (l *Lease) Snapshot() *Snapshot { return l.s }

// Image returns the snapshot pixels. The image must not be modified and
// must not be used after Release.
func (l *Lease) Image() *image.RGBA {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return l.s.img
}

// Release returns the lease. Calls after the first are no-ops.
func (l *Lease) Release() {
	if l.released.CompareAndSwap(false, true) {
		l.s.releaseLease()
	}
}
