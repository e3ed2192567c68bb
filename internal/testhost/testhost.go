// Package testhost provides an in-memory window, scene graph and clock for
// exercising the capture service and glass surfaces in tests.
package testhost

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/capture"
)

// Node is a solid rectangle in window units. Nodes with an Owner belong to
// that host's subtree and disappear when the host is excluded.
type Node struct {
	Rect  glass.Rect
	Color color.RGBA
	Owner *Host
}

// Window is a fake root window painting a background and a list of nodes.
type Window struct {
	mu         sync.Mutex
	size       glass.Size
	scale      float64
	visible    bool
	background color.RGBA
	nodes      []*Node
	listeners  []capture.SceneListener

	// Format, when set, is the format Render reports; BGRA8 swizzles.
	Format gputypes.TextureFormat
	// Err, when set, is returned by Render.
	Err error
	// OnRender runs at the start of every Render.
	OnRender func()

	renders  int
	excluded [][]capture.SurfaceHost
}

// NewWindow returns a visible window of the given client size and scale.
func NewWindow(size glass.Size, scale float64, background color.RGBA) *Window {
	return &Window{size: size, scale: scale, visible: true, background: background}
}

// ClientSize implements capture.Window.
func (w *Window) ClientSize() glass.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Scale implements capture.Window.
func (w *Window) Scale() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

// Visible implements capture.Window.
func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// SetScale changes the device scale.
func (w *Window) SetScale(s float64) {
	w.mu.Lock()
	w.scale = s
	w.mu.Unlock()
}

// SetVisible shows or hides the window.
func (w *Window) SetVisible(v bool) {
	w.mu.Lock()
	w.visible = v
	w.mu.Unlock()
}

// SetBackground changes the background colour.
func (w *Window) SetBackground(c color.RGBA) {
	w.mu.Lock()
	w.background = c
	w.mu.Unlock()
}

// AddNode appends a node and returns it.
func (w *Window) AddNode(r glass.Rect, c color.RGBA, owner *Host) *Node {
	n := &Node{Rect: r, Color: c, Owner: owner}
	w.mu.Lock()
	w.nodes = append(w.nodes, n)
	w.mu.Unlock()
	return n
}

// SetNodeColor recolours n.
func (w *Window) SetNodeColor(n *Node, c color.RGBA) {
	w.mu.Lock()
	n.Color = c
	w.mu.Unlock()
}

// Render implements capture.Window.
func (w *Window) Render(f *capture.Frame, clip glass.Rect, exclude []capture.SurfaceHost) error {
	if w.OnRender != nil {
		w.OnRender()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.renders++
	w.excluded = append(w.excluded, append([]capture.SurfaceHost(nil), exclude...))
	if w.Err != nil {
		return w.Err
	}

	img := f.RGBA()
	draw.Draw(img, img.Rect, image.NewUniform(w.background), image.Point{}, draw.Src)
	for _, n := range w.nodes {
		if n.Owner != nil && contains(exclude, n.Owner) {
			continue
		}
		r := glass.SnapToPixels(n.Rect.Intersect(clip), f.Scale).Intersect(img.Rect)
		draw.Draw(img, r, image.NewUniform(n.Color), image.Point{}, draw.Src)
	}

	if w.Format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i+3 < len(f.Pix); i += 4 {
			f.Pix[i], f.Pix[i+2] = f.Pix[i+2], f.Pix[i]
		}
	}
	if w.Format != gputypes.TextureFormatUndefined {
		f.Format = w.Format
	}
	return nil
}

func contains(hosts []capture.SurfaceHost, h *Host) bool {
	for _, x := range hosts {
		if x == capture.SurfaceHost(h) {
			return true
		}
	}
	return false
}

// Renders returns the number of Render calls.
func (w *Window) Renders() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renders
}

// LastExcluded returns the exclude list of the most recent Render.
func (w *Window) LastExcluded() []capture.SurfaceHost {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.excluded) == 0 {
		return nil
	}
	return w.excluded[len(w.excluded)-1]
}

// AddSceneListener implements capture.Window.
func (w *Window) AddSceneListener(l capture.SceneListener) {
	w.mu.Lock()
	w.listeners = append(w.listeners, l)
	w.mu.Unlock()
}

// RemoveSceneListener implements capture.Window.
func (w *Window) RemoveSceneListener(l capture.SceneListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, x := range w.listeners {
		if x == l {
			w.listeners = append(w.listeners[:i], w.listeners[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of registered scene listeners.
func (w *Window) Listeners() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners)
}

// Invalidate notifies scene listeners. dirty may be nil.
func (w *Window) Invalidate(dirty *glass.Rect) {
	w.mu.Lock()
	ls := append([]capture.SceneListener(nil), w.listeners...)
	w.mu.Unlock()
	for _, l := range ls {
		l.SceneChanged(dirty)
	}
}

// Host is a fake glass surface node.
type Host struct {
	mu            sync.Mutex
	win           *Window
	placement     capture.Placement
	params        glass.DrawParameters
	invalidations int
}

// NewHost places a visible host of the given bounds in win.
func NewHost(win *Window, bounds glass.Rect) *Host {
	return &Host{
		win: win,
		placement: capture.Placement{
			Size:      bounds.Size(),
			Transform: glass.Translation(bounds.Min),
			Visible:   true,
		},
		params: glass.DefaultParameters(),
	}
}

// Window implements capture.SurfaceHost.
func (h *Host) Window() capture.Window {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.win == nil {
		return nil
	}
	return h.win
}

// Detach removes the host from its window.
func (h *Host) Detach() {
	h.mu.Lock()
	h.win = nil
	h.mu.Unlock()
}

// Placement implements capture.SurfaceHost.
func (h *Host) Placement() capture.Placement {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.placement
}

// SetPlacement replaces the placement.
func (h *Host) SetPlacement(p capture.Placement) {
	h.mu.Lock()
	h.placement = p
	h.mu.Unlock()
}

// Parameters implements capture.ParametersProvider.
func (h *Host) Parameters() glass.DrawParameters {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.params
}

// SetParameters replaces the parameters.
func (h *Host) SetParameters(p glass.DrawParameters) {
	h.mu.Lock()
	h.params = p
	h.mu.Unlock()
}

// Invalidate implements capture.SurfaceHost.
func (h *Host) Invalidate() {
	h.mu.Lock()
	h.invalidations++
	h.mu.Unlock()
}

// Invalidations returns the number of Invalidate calls.
func (h *Host) Invalidations() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.invalidations
}

// Clock is a manually advanced clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock starting at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now implements capture.Clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
