// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/snapshot"
)

// MinCaptureInterval is the default spacing of scene-driven captures.
const MinCaptureInterval = 33 * time.Millisecond

// Option configures a Service.
type Option func(*Service)

// WithDispatcher posts captures through d instead of the default Queue.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithClock sets the time source used by the throttle.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithMinInterval sets the capture throttle interval.
func WithMinInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.minInterval = d
		}
	}
}

// WithRegistry makes the service keep its window states in r.
func WithRegistry(r *Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.reg = r
		}
	}
}

// Service is the backdrop capture service.
//
// EnsureSnapshot, Unsubscribe and the posted captures run on the host's UI
// thread. TrySnapshot, IsCapturing and scene notifications are safe from
// any goroutine.
type Service struct {
	mu          sync.Mutex
	reg         *Registry
	dispatcher  Dispatcher
	queue       *Queue
	clock       Clock
	minInterval time.Duration

	depth atomic.Int32
}

// NewService creates a capture service.
func NewService(opts ...Option) *Service {
	q := NewQueue()
	svc := &Service{
		reg:         NewRegistry(),
		dispatcher:  q,
		queue:       q,
		clock:       systemClock{},
		minInterval: MinCaptureInterval,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// IsCapturing reports whether a capture is in progress. Glass surfaces
// skip drawing while it is true so they never appear in a backdrop.
func (svc *Service) IsCapturing() bool { return svc.depth.Load() > 0 }

// RunPending drains the default queue and returns the number of tasks run.
// It does nothing when a custom Dispatcher is installed.
func (svc *Service) RunPending() int {
	if svc.dispatcher != svc.queue {
		return 0
	}
	return svc.queue.Drain()
}

// EnsureSnapshot subscribes s to its window's captures and schedules one
// when the window has no snapshot yet or its scale changed. Repeated calls
// for the same surface are no-ops.
func (svc *Service) EnsureSnapshot(s *Surface) {
	if s == nil || s.Closed() {
		return
	}
	w := s.host.Window()
	if w == nil {
		return
	}
	scale := w.Scale()

	svc.mu.Lock()
	st, _ := svc.reg.getOrCreate(w)
	st.track(s)
	var attach *sceneListener
	if st.listener == nil {
		st.listener = &sceneListener{svc: svc, st: st}
		attach = st.listener
	}
	if st.snap.Load() == nil || st.scale != scale {
		svc.queueLocked(st)
	}
	svc.mu.Unlock()

	if attach != nil {
		w.AddSceneListener(attach)
	}
}

// TrySnapshot returns the snapshot published for s's window, or nil. The
// caller must Acquire a lease before reading it.
func (svc *Service) TrySnapshot(s *Surface) *snapshot.Snapshot {
	if s == nil {
		return nil
	}
	w := s.host.Window()
	if w == nil {
		return nil
	}
	st, ok := svc.reg.lookup(w)
	if !ok {
		return nil
	}
	return st.snap.Load()
}

// Unsubscribe closes s. When it was the last subscriber of its window the
// window state is torn down immediately.
func (svc *Service) Unsubscribe(s *Surface) {
	if s == nil || !s.closed.CompareAndSwap(false, true) {
		return
	}
	w := s.host.Window()
	if w == nil {
		return
	}
	st, ok := svc.reg.lookup(w)
	if !ok {
		return
	}
	svc.mu.Lock()
	var detach *sceneListener
	if len(st.prune()) == 0 {
		detach = svc.teardownLocked(st)
	}
	svc.mu.Unlock()
	svc.detach(st.window, detach)
}

func (svc *Service) queueLocked(st *windowState) {
	if st.queued || st.torn {
		return
	}
	st.queued = true
	svc.dispatcher.Post(func() {
		svc.mu.Lock()
		st.queued = false
		svc.mu.Unlock()
		svc.capture(st)
	})
}

// teardownLocked disposes st's snapshot and buffers, removes it from the
// registry and returns the listener to detach once the lock is released.
func (svc *Service) teardownLocked(st *windowState) *sceneListener {
	if st.torn {
		return nil
	}
	st.torn = true
	if old := st.snap.Swap(nil); old != nil {
		old.RequestDispose()
	}
	st.frame = nil
	st.spare.Store(nil)
	l := st.listener
	st.listener = nil
	svc.reg.removeIfEmpty(st)
	glass.Logger().Debug("capture: window state torn down")
	return l
}

func (svc *Service) detach(w Window, l *sceneListener) {
	if l != nil {
		w.RemoveSceneListener(l)
	}
}

// backdropClip is a capture region in window units and device pixels.
type backdropClip struct {
	dip glass.Rect
	px  image.Rectangle
}

// clipFor returns the pixel-snapped union of the subscribers' sampling
// regions inside the window's client area.
func clipFor(w Window, subs []*Surface, scale float64) (backdropClip, bool) {
	var union glass.Rect
	for _, s := range subs {
		if s.host.Window() != w {
			continue
		}
		p := s.host.Placement()
		if !p.Visible || p.Size.Empty() {
			continue
		}
		margin := s.samplingMargin(p.Size)
		sx, sy := glass.AxisScale(p.Transform)
		b := p.Bounds().Inflate(margin*math.Max(1, sx), margin*math.Max(1, sy))
		union = union.Union(b)
	}
	clip := union.Intersect(glass.RectFromSize(w.ClientSize()))
	if clip.Empty() {
		return backdropClip{}, false
	}
	px := glass.SnapToPixels(clip, scale)
	if px.Empty() {
		return backdropClip{}, false
	}
	return backdropClip{dip: glass.PixelsToRect(px, scale), px: px}, true
}

func validScale(s float64) bool {
	return s > 0 && !math.IsInf(s, 0)
}

func (svc *Service) capture(st *windowState) {
	if svc.IsCapturing() {
		return
	}
	log := glass.Logger()

	svc.mu.Lock()
	if st.torn {
		svc.mu.Unlock()
		return
	}
	subs := st.prune()
	if len(subs) == 0 {
		l := svc.teardownLocked(st)
		svc.mu.Unlock()
		svc.detach(st.window, l)
		return
	}
	svc.mu.Unlock()

	w := st.window
	scale := w.Scale()
	if !validScale(scale) {
		log.Debug("capture: skipped, invalid scale", "scale", scale)
		return
	}
	clip, ok := clipFor(w, subs, scale)
	if !ok {
		log.Debug("capture: skipped, empty clip")
		return
	}

	if svc.render(st, subs, clip, scale) {
		for _, s := range subs {
			s.host.Invalidate()
		}
	}
}

// render captures clip into st's scratch frame and publishes a snapshot
// when the content changed. It reports whether a snapshot was published.
func (svc *Service) render(st *windowState, subs []*Surface, clip backdropClip, scale float64) bool {
	svc.depth.Add(1)
	defer svc.depth.Add(-1)

	log := glass.Logger()
	w := st.window

	svc.mu.Lock()
	st.lastClip = clip.dip
	st.hasLastClip = true
	frame := st.frame
	if frame == nil || frame.Rect.Size() != clip.px.Size() || st.scale != scale {
		frame = NewFrame(clip.px, scale)
	} else {
		frame.Rect = clip.px
		frame.Scale = scale
		frame.Clear()
	}
	st.frame = frame
	st.renders++
	sameConfig := st.snap.Load() != nil && st.scale == scale && st.pixelRect == clip.px
	prevHash := st.hash
	svc.mu.Unlock()

	exclude := make([]SurfaceHost, 0, len(subs))
	for _, s := range subs {
		if s.host.Window() == w && s.host.Placement().Visible {
			exclude = append(exclude, s.host)
		}
	}

	now := svc.clock.Now()
	if err := w.Render(frame, clip.dip, exclude); err != nil {
		log.Warn("capture: render failed", "err", err)
		return false
	}
	if err := frame.Validate(); err != nil {
		log.Warn("capture: readback failed", "err", err)
		return false
	}

	hash := fingerprint(frame)
	if sameConfig && hash == prevHash {
		svc.mu.Lock()
		st.lastCapture = now
		svc.mu.Unlock()
		log.Debug("capture: content unchanged", "rect", clip.px)
		return false
	}

	img := st.takeSpare(clip.px)
	if err := frame.ReadInto(img); err != nil {
		log.Warn("capture: readback failed", "err", err)
		return false
	}
	snap, err := snapshot.New(img, scale, snapshot.WithReleaseHook(st.recycle))
	if err != nil {
		log.Warn("capture: snapshot rejected", "err", err)
		return false
	}

	svc.mu.Lock()
	if st.torn {
		svc.mu.Unlock()
		snap.RequestDispose()
		return false
	}
	st.hash = hash
	st.pixelRect = clip.px
	st.scale = scale
	st.lastCapture = now
	st.publishes++
	old := st.snap.Swap(snap)
	svc.mu.Unlock()

	// The new snapshot is visible before the old one may be released.
	if old != nil {
		old.RequestDispose()
	}
	log.Debug("capture: published", "rect", clip.px, "scale", scale)
	return true
}

func (st *windowState) takeSpare(r image.Rectangle) *image.RGBA {
	if img := st.spare.Swap(nil); img != nil && img.Rect.Size() == r.Size() {
		img.Rect = r
		return img
	}
	return image.NewRGBA(r)
}

func (st *windowState) recycle(img *image.RGBA) {
	st.spare.Store(img)
}

// sceneListener forwards scene notifications of one window to the
// service's UI thread.
type sceneListener struct {
	svc *Service
	st  *windowState
}

func (l *sceneListener) SceneChanged(dirty *glass.Rect) {
	if l.svc.IsCapturing() || !l.st.window.Visible() {
		return
	}
	var d *glass.Rect
	if dirty != nil {
		c := *dirty
		d = &c
	}
	l.svc.dispatcher.Post(func() { l.svc.sceneChanged(l.st, d) })
}

// sceneChanged decides whether a scene change warrants a capture: always
// when a subscriber needs more than the last clip covered, otherwise at
// most once per interval and only when the dirty area touches the clip.
func (svc *Service) sceneChanged(st *windowState, dirty *glass.Rect) {
	w := st.window
	if svc.IsCapturing() || !w.Visible() {
		return
	}
	if cur, ok := svc.reg.lookup(w); !ok || cur != st {
		return
	}

	svc.mu.Lock()
	if st.torn {
		svc.mu.Unlock()
		return
	}
	subs := st.prune()
	if len(subs) == 0 {
		l := svc.teardownLocked(st)
		svc.mu.Unlock()
		svc.detach(w, l)
		return
	}
	lastClip, hasLastClip, lastCapture := st.lastClip, st.hasLastClip, st.lastCapture
	svc.mu.Unlock()

	scale := w.Scale()
	growth := false
	if validScale(scale) {
		if desired, ok := clipFor(w, subs, scale); ok {
			growth = !hasLastClip || !lastClip.Contains(desired.dip)
		}
	}

	if !growth {
		if svc.clock.Now().Sub(lastCapture) < svc.minInterval {
			return
		}
		if dirty != nil && hasLastClip && !dirty.Intersects(lastClip) {
			return
		}
	}

	svc.mu.Lock()
	svc.queueLocked(st)
	svc.mu.Unlock()
}

// Inspection is a read-only view of one window's capture state.
type Inspection struct {
	Subscribers int
	Snapshot    *snapshot.Snapshot
	Hash        uint64
	PixelRect   image.Rectangle
	Scale       float64
	LastCapture time.Time
	LastClip    glass.Rect
	HasLastClip bool
	Queued      bool
	Listening   bool
	// Renders counts capture renders, Publishes the snapshots published.
	Renders   int
	Publishes int
}

// Inspect returns the capture state of w, if any.
func (svc *Service) Inspect(w Window) (Inspection, bool) {
	st, ok := svc.reg.lookup(w)
	if !ok {
		return Inspection{}, false
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	n := 0
	for _, wp := range st.subscribers {
		if s := wp.Value(); s != nil && !s.Closed() {
			n++
		}
	}
	return Inspection{
		Subscribers: n,
		Snapshot:    st.snap.Load(),
		Hash:        st.hash,
		PixelRect:   st.pixelRect,
		Scale:       st.scale,
		LastCapture: st.lastCapture,
		LastClip:    st.lastClip,
		HasLastClip: st.hasLastClip,
		Queued:      st.queued,
		Listening:   st.listener != nil,
		Renders:     st.renders,
		Publishes:   st.publishes,
	}, true
}
