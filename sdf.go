package glass

import "math"

// sdfAntialiasWidth controls the smoothstep transition width in device pixels.
// A value of 0.7 produces smooth anti-aliasing at standard DPI.
const sdfAntialiasWidth = 0.7

// CornerRadius holds one radius per corner of a rounded rectangle.
type CornerRadius struct {
	TopLeft     float64 `yaml:"topLeft"`
	TopRight    float64 `yaml:"topRight"`
	BottomRight float64 `yaml:"bottomRight"`
	BottomLeft  float64 `yaml:"bottomLeft"`
}

// Uniform returns a CornerRadius with the same radius on every corner.
func Uniform(r float64) CornerRadius {
	return CornerRadius{TopLeft: r, TopRight: r, BottomRight: r, BottomLeft: r}
}

// Clamp returns the radii clamped to [0, min(w, h)/2] for a rectangle of size s.
// Non-finite radii collapse to 0.
func (c CornerRadius) Clamp(s Size) CornerRadius {
	maxRadius := math.Max(0, s.MinSide()*0.5)
	return CornerRadius{
		TopLeft:     clampRadius(c.TopLeft, maxRadius),
		TopRight:    clampRadius(c.TopRight, maxRadius),
		BottomRight: clampRadius(c.BottomRight, maxRadius),
		BottomLeft:  clampRadius(c.BottomLeft, maxRadius),
	}
}

// Array returns the radii in top-left, top-right, bottom-right, bottom-left order.
func (c CornerRadius) Array() [4]float64 {
	return [4]float64{c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft}
}

// Max returns the largest of the four radii.
func (c CornerRadius) Max() float64 {
	return math.Max(math.Max(c.TopLeft, c.TopRight), math.Max(c.BottomRight, c.BottomLeft))
}

func clampRadius(r, maxRadius float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > maxRadius {
		return maxRadius
	}
	return r
}

// radiusAt picks the corner radius of the quadrant containing the centered point q.
func (c CornerRadius) radiusAt(qx, qy float64) float64 {
	switch {
	case qx < 0 && qy < 0:
		return c.TopLeft
	case qx >= 0 && qy < 0:
		return c.TopRight
	case qx >= 0:
		return c.BottomRight
	default:
		return c.BottomLeft
	}
}

// RoundRectSDF computes the signed distance from p to the rounded rectangle
// occupying (0,0)-(size.W,size.H) with the given (already clamped) radii.
// Negative values are inside, positive values are outside.
func RoundRectSDF(p Point, size Size, radii CornerRadius) float64 {
	halfW, halfH := size.W*0.5, size.H*0.5
	qx, qy := p.X-halfW, p.Y-halfH
	r := radii.radiusAt(qx, qy)

	// Work in the first quadrant using symmetry.
	dx := math.Abs(qx) - halfW + r
	dy := math.Abs(qy) - halfH + r

	outside := math.Hypot(math.Max(dx, 0), math.Max(dy, 0))
	inside := math.Min(math.Max(dx, dy), 0)
	return outside + inside - r
}

// RoundRectNormal returns the unit outward gradient of RoundRectSDF at p.
func RoundRectNormal(p Point, size Size, radii CornerRadius) Point {
	halfW, halfH := size.W*0.5, size.H*0.5
	qx, qy := p.X-halfW, p.Y-halfH
	r := radii.radiusAt(qx, qy)
	sx, sy := sign(qx), sign(qy)

	dx := math.Abs(qx) - halfW + r
	dy := math.Abs(qy) - halfH + r

	if dx > 0 && dy > 0 {
		l := math.Hypot(dx, dy)
		return Point{X: sx * dx / l, Y: sy * dy / l}
	}
	if dx > dy {
		return Point{X: sx}
	}
	return Point{Y: sy}
}

// RoundRectCoverage returns anti-aliased coverage in [0, 1] of the rounded
// rectangle at local point p. scale converts local units to device pixels so
// the transition stays one pixel wide regardless of DPI.
func RoundRectCoverage(p Point, size Size, radii CornerRadius, scale float64) float64 {
	return smoothstepCoverage(RoundRectSDF(p, size, radii) * scale)
}

// smoothstepCoverage converts a signed distance to an anti-aliased coverage
// value using a Hermite smoothstep function.
//
// sdf < -afwidth => 1.0 (fully inside)
// sdf > +afwidth => 0.0 (fully outside)
// Otherwise       => smooth transition
func smoothstepCoverage(sdf float64) float64 {
	if sdf >= sdfAntialiasWidth {
		return 0
	}
	if sdf <= -sdfAntialiasWidth {
		return 1
	}
	t := (sdf + sdfAntialiasWidth) / (2 * sdfAntialiasWidth)
	return 1 - Smoothstep(0, 1, t)
}

// Smoothstep is the Hermite interpolation 3t²-2t³ of x between edge0 and edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge1 == edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
