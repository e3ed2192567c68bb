// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package capture decides when and what to capture behind glass surfaces
// and publishes the result as snapshots.
//
// A Service keeps one state per root window. Surfaces subscribe through
// EnsureSnapshot, which never captures synchronously: it posts a capture
// to the host's Dispatcher when the window has no snapshot yet or its
// scale changed. A capture renders the union of every subscriber's
// sampling region, minus the subscribers themselves, into a scratch frame
// and publishes a new snapshot unless the content fingerprint is
// unchanged. The host's scene-changed notifications drive further
// captures, throttled to MinCaptureInterval except when a surface needs a
// larger region than the last capture covered.
//
// Basic usage, with hosts draining the default queue once per tick:
//
//	svc := capture.NewService()
//	s := capture.NewSurface(host)
//	svc.EnsureSnapshot(s)
//	svc.RunPending()
//	if snap := svc.TrySnapshot(s); snap != nil {
//		if lease, ok := snap.Acquire(); ok {
//			defer lease.Release()
//			// draw with lease.Image()
//		}
//	}
package capture
