// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

import (
	"image"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/gogpu/glass"
	"github.com/gogpu/glass/snapshot"
)

// windowState is the capture state of one root window. Fields other than
// snap are guarded by the owning Service's mutex.
type windowState struct {
	window Window

	queued bool
	snap   atomic.Pointer[snapshot.Snapshot]

	hash        uint64
	pixelRect   image.Rectangle
	scale       float64
	lastCapture time.Time
	lastClip    glass.Rect
	hasLastClip bool

	subscribers []weak.Pointer[Surface]
	frame       *Frame
	spare       atomic.Pointer[image.RGBA]
	listener    *sceneListener

	renders, publishes int
	torn               bool
}

// Registry maps root windows to their capture state. A Service owns one;
// hosts that manage several services per process may share it through
// WithRegistry.
type Registry struct {
	mu     sync.Mutex
	states map[Window]*windowState
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{states: make(map[Window]*windowState)}
}

// Len returns the number of windows with live state.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func (r *Registry) lookup(w Window) (*windowState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[w]
	return st, ok
}

func (r *Registry) getOrCreate(w Window) (st *windowState, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.states[w]; ok {
		return st, false
	}
	st = &windowState{window: w}
	r.states[w] = st
	return st, true
}

// removeIfEmpty drops st when it is still the registered state for its
// window and has no subscribers left.
func (r *Registry) removeIfEmpty(st *windowState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(st.subscribers) != 0 || r.states[st.window] != st {
		return false
	}
	delete(r.states, st.window)
	return true
}

// track adds s to the subscribers unless present, pruning dead entries.
func (st *windowState) track(s *Surface) {
	found := false
	live := st.subscribers[:0]
	for _, wp := range st.subscribers {
		sub := wp.Value()
		if sub == nil || sub.Closed() {
			continue
		}
		if sub == s {
			found = true
		}
		live = append(live, wp)
	}
	clear(st.subscribers[len(live):])
	st.subscribers = live
	if !found {
		st.subscribers = append(st.subscribers, weak.Make(s))
	}
}

// prune drops collected and closed subscribers and returns the live ones.
func (st *windowState) prune() []*Surface {
	var out []*Surface
	live := st.subscribers[:0]
	for _, wp := range st.subscribers {
		sub := wp.Value()
		if sub == nil || sub.Closed() {
			continue
		}
		live = append(live, wp)
		out = append(out, sub)
	}
	clear(st.subscribers[len(live):])
	st.subscribers = live
	return out
}
