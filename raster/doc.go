// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster defines the narrow boundary between the glass passes and an
// image-filter backend, plus the CPU canvas the passes paint with.
//
// A Backend creates offscreen images, applies colour matrices and Gaussian
// blurs, and hands out named custom Programs. Binding a Program with
// Uniforms and child Shaders yields a Shader that a Canvas evaluates per
// pixel while filling a path through an anti-aliased clip.
//
// All images are *image.RGBA with premultiplied alpha. Canvas coordinates
// are local units mapped to pixels by an affine transform; shaders always
// receive local coordinates.
package raster
