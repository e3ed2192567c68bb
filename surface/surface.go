// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface drives one glass surface frame by frame.
//
// A Surface ties a host node to the capture service and the composite
// pipeline. The host calls Render from its draw callback; the surface makes
// sure a backdrop capture is scheduled, picks up the published snapshot and
// composes the passes into the host's target. Press and drag state comes in
// through SetInteraction.
//
//	svc := capture.NewService(capture.WithDispatcher(ui))
//	pipe := composite.New(nil)
//	s := surface.New(node, svc, pipe, surface.WithParameters(params))
//	defer s.Close()
//
//	// in the node's draw callback
//	s.Render(windowPixels)
package surface

import (
	"image"
	"sync"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/adaptive"
	"github.com/gogpu/glass/capture"
	"github.com/gogpu/glass/composite"
	"github.com/gogpu/glass/snapshot"
)

// Option configures a Surface.
type Option func(*Surface)

// WithParameters sets the initial draw parameters. The default is
// glass.DefaultParameters.
func WithParameters(p glass.DrawParameters) Option {
	return func(s *Surface) { s.params = p }
}

// WithAdaptiveLuminance biases the parameters by the backdrop luminance
// measured by t.
func WithAdaptiveLuminance(t *adaptive.Tracker) Option {
	return func(s *Surface) { s.tracker = t }
}

// Surface is one glass surface attached to a host node.
type Surface struct {
	host     capture.SurfaceHost
	handle   *capture.Surface
	service  *capture.Service
	pipeline *composite.Pipeline
	tracker  *adaptive.Tracker

	mu          sync.Mutex
	params      glass.DrawParameters
	interaction glass.Interaction
}

// New attaches a glass surface to host. The surface subscribes to the
// window's backdrop on its first Render.
func New(host capture.SurfaceHost, svc *capture.Service, pipe *composite.Pipeline, opts ...Option) *Surface {
	s := &Surface{
		host:     host,
		service:  svc,
		pipeline: pipe,
		params:   glass.DefaultParameters(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handle = capture.NewSurface(host, capture.WithParameters(s.Parameters))
	return s
}

// Host returns the host node.
func (s *Surface) Host() capture.SurfaceHost { return s.host }

// Parameters returns the configured draw parameters, without interaction
// state or adaptive bias.
func (s *Surface) Parameters() glass.DrawParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetParameters replaces the draw parameters and asks the host to redraw.
func (s *Surface) SetParameters(p glass.DrawParameters) {
	s.mu.Lock()
	s.params = p
	s.mu.Unlock()
	s.host.Invalidate()
}

// SetInteraction records the press progress in [0, 1] and the pointer
// position in local coordinates, and asks the host to redraw.
func (s *Surface) SetInteraction(progress float64, position glass.Point) {
	s.mu.Lock()
	s.interaction = glass.Interaction{Progress: progress, Position: position}
	s.mu.Unlock()
	s.host.Invalidate()
}

// Interaction returns the last interaction state.
func (s *Surface) Interaction() glass.Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interaction
}

// Close unsubscribes from the backdrop. It is safe to call more than once.
func (s *Surface) Close() {
	s.service.Unsubscribe(s.handle)
}

// frame is the per-frame state shared by the render methods.
type frame struct {
	target composite.Target
	params glass.DrawParameters
	snap   *snapshot.Snapshot
}

// prepare validates the host state and builds the frame. It reports false
// when nothing should be drawn: while a capture is rendering, for a
// detached or hidden node, or for an empty placement.
func (s *Surface) prepare(dst *image.RGBA) (frame, bool) {
	if dst == nil || s.service.IsCapturing() {
		return frame{}, false
	}
	w := s.host.Window()
	if w == nil {
		return frame{}, false
	}
	pl := s.host.Placement()
	if !pl.Visible || pl.Size.Empty() {
		return frame{}, false
	}

	s.mu.Lock()
	params := s.params
	params.Interactive = s.interaction
	s.mu.Unlock()

	return frame{
		target: composite.Target{
			Dst:       dst,
			Scale:     w.Scale(),
			Placement: pl.Transform,
			Size:      pl.Size,
		},
		params: params,
	}, true
}

// backdrop schedules a capture if needed, picks up the published snapshot
// and applies the adaptive bias.
func (s *Surface) backdrop(f *frame) {
	s.service.EnsureSnapshot(s.handle)
	f.snap = s.service.TrySnapshot(s.handle)
	if s.tracker == nil {
		return
	}
	region := glass.SnapToPixels(f.target.Bounds().Transform(f.target.Placement), f.target.Scale)
	s.tracker.Update(f.snap, region)
	f.params = s.tracker.Apply(f.params)
}

// Render draws every pass into dst, which covers the window in device
// pixels. It reports whether anything was drawn.
func (s *Surface) Render(dst *image.RGBA) bool {
	f, ok := s.prepare(dst)
	if !ok {
		return false
	}
	s.pipeline.Shadow(f.target, f.params)
	s.backdrop(&f)
	s.pipeline.Lens(f.target, f.params, f.snap)
	s.pipeline.InteractiveHighlight(f.target, f.params)
	s.pipeline.EdgeHighlight(f.target, f.params)
	s.pipeline.InnerShadow(f.target, f.params)
	return true
}

// RenderBackground draws the passes that belong below the node's own
// content: shadow, lens and interactive highlight.
func (s *Surface) RenderBackground(dst *image.RGBA) bool {
	f, ok := s.prepare(dst)
	if !ok {
		return false
	}
	s.pipeline.Shadow(f.target, f.params)
	s.backdrop(&f)
	s.pipeline.Lens(f.target, f.params, f.snap)
	s.pipeline.InteractiveHighlight(f.target, f.params)
	return true
}

// RenderForeground draws the passes that belong above the node's own
// content: edge highlight and inner shadow.
func (s *Surface) RenderForeground(dst *image.RGBA) bool {
	f, ok := s.prepare(dst)
	if !ok {
		return false
	}
	if s.tracker != nil {
		f.params = s.tracker.Apply(f.params)
	}
	s.pipeline.EdgeHighlight(f.target, f.params)
	s.pipeline.InnerShadow(f.target, f.params)
	return true
}
