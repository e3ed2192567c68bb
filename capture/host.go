// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"sync/atomic"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/glass"
)

// Placement is where a surface currently sits in its window.
type Placement struct {
	// Size is the surface's local size in device-independent units.
	Size glass.Size
	// Transform maps local coordinates to window coordinates.
	Transform f64.Aff3
	Visible   bool
}

// Bounds returns the axis-aligned window rectangle covered by the surface.
func (p Placement) Bounds() glass.Rect {
	return glass.RectFromSize(p.Size).Transform(p.Transform)
}

// SurfaceHost is the host scene-graph node that displays a glass surface.
type SurfaceHost interface {
	// Window returns the root window the node is attached to, or nil.
	Window() Window
	Placement() Placement
	// Invalidate asks the host to redraw the node.
	Invalidate()
}

// ParametersProvider is implemented by hosts whose sampling margin depends
// on their effect parameters. Hosts without it get MinSamplingMargin.
type ParametersProvider interface {
	Parameters() glass.DrawParameters
}

// SceneListener receives the host renderer's scene-changed notifications.
// dirty is the changed window rectangle, or nil when unknown. It may be
// called from any goroutine.
type SceneListener interface {
	SceneChanged(dirty *glass.Rect)
}

// Window is a root window of the host scene graph. Implementations are used
// as map keys and must be comparable, typically pointers.
type Window interface {
	// ClientSize returns the client area in device-independent units.
	ClientSize() glass.Size
	// Scale returns the device pixels per device-independent unit.
	Scale() float64
	Visible() bool

	// Render draws the window's visual tree clipped to clip (window units)
	// into f, skipping the subtrees of every node in exclude. f.Rect is
	// the pixel rectangle of clip at f.Scale.
	Render(f *Frame, clip glass.Rect, exclude []SurfaceHost) error

	AddSceneListener(l SceneListener)
	RemoveSceneListener(l SceneListener)
}

// Surface is a subscriber handle. The service holds it weakly, so a
// surface that is dropped without Close is pruned on the next capture.
type Surface struct {
	host   SurfaceHost
	params func() glass.DrawParameters
	closed atomic.Bool
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithParameters sets the source of the effect parameters used to size the
// capture margin. It takes precedence over a ParametersProvider host.
func WithParameters(fn func() glass.DrawParameters) SurfaceOption {
	return func(s *Surface) { s.params = fn }
}

// NewSurface returns a subscriber handle for host.
func NewSurface(host SurfaceHost, opts ...SurfaceOption) *Surface {
	s := &Surface{host: host}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Host returns the host node.
func (s *Surface) Host() SurfaceHost { return s.host }

// Closed reports whether the surface has been unsubscribed.
func (s *Surface) Closed() bool { return s.closed.Load() }

func (s *Surface) samplingMargin(size glass.Size) float64 {
	if s.params != nil {
		return s.params().SamplingMargin(size)
	}
	if pp, ok := s.host.(ParametersProvider); ok {
		return pp.Parameters().SamplingMargin(size)
	}
	return glass.MinSamplingMargin
}
