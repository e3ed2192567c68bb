// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package capture

// FNV-1a 64-bit parameters.
const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

const fingerprintSamples = 8

// fingerprint hashes an 8x8 grid of pixels spread evenly over the frame,
// including the last row and column, and folds in the frame size. It is a
// change detector, not a content hash.
func fingerprint(f *Frame) uint64 {
	w, h := f.Width(), f.Height()
	maxX := max(1, w) - 1
	maxY := max(1, h) - 1

	hash := fnvOffset
	for sy := 0; sy < fingerprintSamples; sy++ {
		y := sy * maxY / (fingerprintSamples - 1)
		row := y * f.Stride
		for sx := 0; sx < fingerprintSamples; sx++ {
			x := sx * maxX / (fingerprintSamples - 1)
			off := row + x*4
			for i := 0; i < 4; i++ {
				hash = (hash ^ uint64(f.Pix[off+i])) * fnvPrime
			}
		}
	}
	hash = (hash ^ uint64(w)) * fnvPrime
	hash = (hash ^ uint64(h)) * fnvPrime
	return hash
}
