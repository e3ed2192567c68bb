// Package glass provides the shared core of a translucent "glass" surface
// renderer: geometry, per-frame draw parameters, colours and logging.
//
// # Overview
//
// A glass surface refracts, blurs and tints whatever is drawn behind it.
// The work is split into two halves that live in sub-packages:
//
//   - capture: decides when and which region of a window must be
//     re-rasterised into a backdrop snapshot, excluding every glass surface
//     from its own input, and publishes snapshots with lease-based lifetime.
//   - composite: turns a leased snapshot plus a DrawParameters value into
//     pixels through a fixed sequence of passes (shadow, lens, interactive
//     highlight, edge highlight, inner shadow).
//
// The surface package ties both together for hosts that render one frame at a
// time, and the adaptive package tracks backdrop luminance for legibility.
//
// # Quick Start
//
//	svc := capture.NewService(capture.WithDispatcher(ui))
//	pipe := composite.New(software.New())
//	s := surface.New(node, svc, pipe)
//	defer s.Close()
//
//	// once per frame, from the UI thread:
//	s.Render(target)
//
// # Coordinate System
//
// Geometry is expressed in device-independent units (DIP) with the origin at
// the top-left and Y increasing downwards. Snapshots and render targets are
// addressed in device pixels; a scale factor converts between the two.
//
// # Parameters
//
// DrawParameters values are created fresh every frame and are never
// validated on construction. Every consumer calls Clamped first, so invalid
// configuration degrades to the nearest valid value instead of failing.
// Parameter documents can be loaded from YAML with DecodeParameters.
package glass
