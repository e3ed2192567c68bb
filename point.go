package glass

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Point represents a 2D point or vector in device-independent units.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Len returns the length of the vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Size is a width/height pair in device-independent units.
type Size struct {
	W, H float64
}

// Sz is a convenience function to create a Size.
func Sz(w, h float64) Size {
	return Size{W: w, H: h}
}

// Empty reports whether the size has no positive area.
func (s Size) Empty() bool {
	return !(s.W > 0 && s.H > 0)
}

// MinSide returns the shorter of the two sides.
func (s Size) MinSide() float64 {
	return math.Min(s.W, s.H)
}

// Rect is an axis-aligned rectangle. Max is exclusive.
type Rect struct {
	Min, Max Point
}

// R creates a rectangle from its origin and size.
func R(x, y, w, h float64) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// RectFromSize creates a rectangle at the origin with the given size.
func RectFromSize(s Size) Rect {
	return Rect{Max: Point{X: s.W, Y: s.H}}
}

// Width returns the rectangle width.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the rectangle height.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Size returns the rectangle size.
func (r Rect) Size() Size { return Size{W: r.Width(), H: r.Height()} }

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool {
	return !(r.Width() > 0 && r.Height() > 0)
}

// Inflate grows the rectangle by dx horizontally and dy vertically on each side.
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - dx, Y: r.Min.Y - dy},
		Max: Point{X: r.Max.X + dx, Y: r.Max.Y + dy},
	}
}

// Translate moves the rectangle by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Union returns the smallest rectangle containing both r and s.
// An empty operand is ignored.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	return Rect{
		Min: Point{X: math.Min(r.Min.X, s.Min.X), Y: math.Min(r.Min.Y, s.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, s.Max.X), Y: math.Max(r.Max.Y, s.Max.Y)},
	}
}

// Intersect returns the intersection of r and s. The result may be empty.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		Min: Point{X: math.Max(r.Min.X, s.Min.X), Y: math.Max(r.Min.Y, s.Min.Y)},
		Max: Point{X: math.Min(r.Max.X, s.Max.X), Y: math.Min(r.Max.Y, s.Max.Y)},
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Intersects reports whether r and s overlap with positive area.
func (r Rect) Intersects(s Rect) bool {
	return !r.Intersect(s).Empty()
}

// Contains reports whether s lies entirely inside r.
func (r Rect) Contains(s Rect) bool {
	return s.Min.X >= r.Min.X && s.Min.Y >= r.Min.Y &&
		s.Max.X <= r.Max.X && s.Max.Y <= r.Max.Y
}

// ContainsPoint reports whether p lies inside r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Transform returns the axis-aligned bounds of r mapped through m.
func (r Rect) Transform(m f64.Aff3) Rect {
	corners := [4]Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
	out := Rect{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, c := range corners {
		x := m[0]*c.X + m[1]*c.Y + m[2]
		y := m[3]*c.X + m[4]*c.Y + m[5]
		out.Min.X = math.Min(out.Min.X, x)
		out.Min.Y = math.Min(out.Min.Y, y)
		out.Max.X = math.Max(out.Max.X, x)
		out.Max.Y = math.Max(out.Max.Y, y)
	}
	return out
}

// Identity is the identity affine transform.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Translation returns the transform moving points by d.
func Translation(d Point) f64.Aff3 {
	return f64.Aff3{1, 0, d.X, 0, 1, d.Y}
}

// AxisScale returns the length of the transformed unit vectors along x and y.
// It is used to scale sampling margins for surfaces under a render transform.
func AxisScale(m f64.Aff3) (sx, sy float64) {
	sx = math.Hypot(m[0], m[3])
	sy = math.Hypot(m[1], m[4])
	return sx, sy
}

// SnapToPixels converts r to device pixels at scale, flooring the top-left and
// ceiling the bottom-right corner.
func SnapToPixels(r Rect, scale float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X*scale)),
		int(math.Floor(r.Min.Y*scale)),
		int(math.Ceil(r.Max.X*scale)),
		int(math.Ceil(r.Max.Y*scale)),
	)
}

// PixelsToRect converts a device pixel rectangle back to device-independent units.
func PixelsToRect(pr image.Rectangle, scale float64) Rect {
	return Rect{
		Min: Point{X: float64(pr.Min.X) / scale, Y: float64(pr.Min.Y) / scale},
		Max: Point{X: float64(pr.Max.X) / scale, Y: float64(pr.Max.Y) / scale},
	}
}
