// Package filter implements the CPU image filters behind the glass backend:
//   - Gaussian blur (separable, clamp or decal edges) for RGBA and alpha
//   - 4x5 colour matrices (saturation, contrast, brightness, exposure, opacity)
//   - colourising blurred coverage masks into shadow layers
//
// All images are *image.RGBA with premultiplied alpha or *image.Alpha masks.
// Filters never change image bounds.
package filter
