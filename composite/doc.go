// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package composite turns a backdrop snapshot and a glass.DrawParameters
// bundle into the pixels of one glass surface.
//
// A frame is drawn by five passes in a fixed order:
//
//   - Shadow: a soft drop shadow outside the rounded rectangle.
//   - Lens: the filtered, zoomed and refracted backdrop with the
//     progressive mask, gamma curve and tint/surface overlays.
//   - InteractiveHighlight: an additive glow under the pointer.
//   - EdgeHighlight: a directional rim light along the outline.
//   - InnerShadow: a soft shadow hugging the inside edge.
//
// Compose runs all of them; each pass is also exported so a host can
// interleave its own content (the interactive highlight sits below the
// surface content, the edge highlight and inner shadow above it).
//
// Passes never fail. A missing snapshot or a program that did not compile
// degrades the lens to a translucent placeholder and skips the highlights.
//
//	p := composite.New(software.New())
//	t := composite.Target{Dst: frame, Scale: 2, Placement: place, Size: size}
//	p.Compose(t, params, snap)
package composite
