package glass

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// kappa is the cubic Bézier control distance approximating a quarter circle.
const kappa = 0.5522847498307936

// segment is one piece of a closed contour. Lines leave C1/C2 unused.
type segment struct {
	cubic  bool
	C1, C2 Point
	To     Point
}

// Path is a set of closed contours built from lines and cubic Béziers.
type Path struct {
	contours []contour
}

type contour struct {
	start Point
	segs  []segment
}

// RoundRectPath builds a clockwise rounded-rectangle contour for r. The radii
// are clamped to the rectangle before use.
func RoundRectPath(r Rect, radii CornerRadius) *Path {
	p := &Path{}
	p.AddRoundRect(r, radii)
	return p
}

// AddRoundRect appends a clockwise rounded-rectangle contour.
func (p *Path) AddRoundRect(r Rect, radii CornerRadius) {
	if r.Empty() {
		return
	}
	c := radii.Clamp(r.Size())
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y

	ct := contour{start: Point{X: x0 + c.TopLeft, Y: y0}}
	ct.lineTo(Point{X: x1 - c.TopRight, Y: y0})
	ct.corner(Point{X: x1 - c.TopRight, Y: y0}, Point{X: x1, Y: y0 + c.TopRight}, Point{X: x1, Y: y0})
	ct.lineTo(Point{X: x1, Y: y1 - c.BottomRight})
	ct.corner(Point{X: x1, Y: y1 - c.BottomRight}, Point{X: x1 - c.BottomRight, Y: y1}, Point{X: x1, Y: y1})
	ct.lineTo(Point{X: x0 + c.BottomLeft, Y: y1})
	ct.corner(Point{X: x0 + c.BottomLeft, Y: y1}, Point{X: x0, Y: y1 - c.BottomLeft}, Point{X: x0, Y: y1})
	ct.lineTo(Point{X: x0, Y: y0 + c.TopLeft})
	ct.corner(Point{X: x0, Y: y0 + c.TopLeft}, Point{X: x0 + c.TopLeft, Y: y0}, Point{X: x0, Y: y0})
	p.contours = append(p.contours, ct)
}

// AddReversed appends every contour of q with its direction reversed.
// A reversed inner contour cuts a hole out of an outer one.
func (p *Path) AddReversed(q *Path) {
	for _, ct := range q.contours {
		p.contours = append(p.contours, ct.reversed())
	}
}

func (ct *contour) lineTo(to Point) {
	ct.segs = append(ct.segs, segment{To: to})
}

// corner appends a quarter-ellipse from `from` to `to` bending towards the box corner.
func (ct *contour) corner(from, to, corner Point) {
	if from == to {
		return
	}
	c1 := from.Add(corner.Sub(from).Mul(kappa))
	c2 := to.Add(corner.Sub(to).Mul(kappa))
	ct.segs = append(ct.segs, segment{cubic: true, C1: c1, C2: c2, To: to})
}

func (ct contour) reversed() contour {
	n := len(ct.segs)
	if n == 0 {
		return ct
	}
	out := contour{start: ct.segs[n-1].To}
	for i := n - 1; i >= 0; i-- {
		from := ct.start
		if i > 0 {
			from = ct.segs[i-1].To
		}
		s := ct.segs[i]
		if s.cubic {
			out.segs = append(out.segs, segment{cubic: true, C1: s.C2, C2: s.C1, To: from})
		} else {
			out.segs = append(out.segs, segment{To: from})
		}
	}
	return out
}

// Mask rasterizes the path into an alpha coverage mask of the given pixel size.
// Local coordinates are mapped to pixels by x*scale+offset.X, y*scale+offset.Y.
func (p *Path) Mask(size image.Point, scale float64, offset Point) *image.Alpha {
	return p.Rasterize(image.Rectangle{Max: size}, f64.Aff3{scale, 0, offset.X, 0, scale, offset.Y})
}

// Rasterize fills the path through the affine transform m (local units to
// pixels) into a coverage mask covering bounds. Contours are combined with
// the nonzero winding rule.
func (p *Path) Rasterize(bounds image.Rectangle, m f64.Aff3) *image.Alpha {
	dst := image.NewAlpha(bounds)
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || len(p.contours) == 0 {
		return dst
	}
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	tx := func(q Point) (float32, float32) {
		return float32(m[0]*q.X + m[1]*q.Y + m[2] - ox), float32(m[3]*q.X + m[4]*q.Y + m[5] - oy)
	}
	for _, ct := range p.contours {
		z.MoveTo(tx(ct.start))
		for _, s := range ct.segs {
			if s.cubic {
				bx, by := tx(s.C1)
				cx, cy := tx(s.C2)
				dx, dy := tx(s.To)
				z.CubeTo(bx, by, cx, cy, dx, dy)
			} else {
				z.LineTo(tx(s.To))
			}
		}
		z.ClosePath()
	}
	z.Draw(dst, dst.Bounds(), image.Opaque, bounds.Min)
	return dst
}

// FillMask rasterizes the rounded rectangle r through m into bounds.
func FillMask(r Rect, radii CornerRadius, bounds image.Rectangle, m f64.Aff3) *image.Alpha {
	return RoundRectPath(r, radii).Rasterize(bounds, m)
}

// StrokeMask rasterizes a stroke of width centred on the outline of r.
func StrokeMask(r Rect, radii CornerRadius, width float64, bounds image.Rectangle, m f64.Aff3) *image.Alpha {
	return StrokeRoundRect(r, radii, width).Rasterize(bounds, m)
}

// StrokeRoundRect returns a path covering a stroke of the given width centred
// on the outline of the rounded rectangle r.
func StrokeRoundRect(r Rect, radii CornerRadius, width float64) *Path {
	half := width * 0.5
	radii = radii.Clamp(r.Size())
	outer := RoundRectPath(r.Inflate(half, half), growRadii(radii, half))
	inner := r.Inflate(-half, -half)
	if inner.Empty() {
		return outer
	}
	outer.AddReversed(RoundRectPath(inner, growRadii(radii, -half)))
	return outer
}

func growRadii(c CornerRadius, d float64) CornerRadius {
	grow := func(r float64) float64 {
		if r <= 0 {
			return 0
		}
		if r+d < 0 {
			return 0
		}
		return r + d
	}
	return CornerRadius{
		TopLeft:     grow(c.TopLeft),
		TopRight:    grow(c.TopRight),
		BottomRight: grow(c.BottomRight),
		BottomLeft:  grow(c.BottomLeft),
	}
}

// Bounds returns a conservative bounding box of the path including Bézier
// control points. An empty path has empty bounds.
func (p *Path) Bounds() Rect {
	first := true
	var r Rect
	add := func(q Point) {
		if first {
			r = Rect{Min: q, Max: q}
			first = false
			return
		}
		r.Min.X = math.Min(r.Min.X, q.X)
		r.Min.Y = math.Min(r.Min.Y, q.Y)
		r.Max.X = math.Max(r.Max.X, q.X)
		r.Max.Y = math.Max(r.Max.Y, q.Y)
	}
	for _, ct := range p.contours {
		add(ct.start)
		for _, s := range ct.segs {
			if s.cubic {
				add(s.C1)
				add(s.C2)
			}
			add(s.To)
		}
	}
	return r
}
