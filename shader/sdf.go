package shader

import "github.com/chewxy/math32"

// cornerRadius picks the radius of the quadrant containing centred point q.
// r is top-left, top-right, bottom-right, bottom-left.
func cornerRadius(qx, qy float32, r [4]float32) float32 {
	if qx < 0 {
		if qy < 0 {
			return r[0]
		}
		return r[3]
	}
	if qy < 0 {
		return r[1]
	}
	return r[2]
}

// sdRoundRect is the signed distance from centred point q to a rounded
// rectangle of half size (hw, hh) with corner radius r. Negative inside.
func sdRoundRect(qx, qy, hw, hh, r float32) float32 {
	dx := math32.Abs(qx) - hw + r
	dy := math32.Abs(qy) - hh + r
	outside := math32.Hypot(math32.Max(dx, 0), math32.Max(dy, 0))
	inside := math32.Min(math32.Max(dx, dy), 0)
	return outside + inside - r
}

// gradRoundRect returns the unit outward gradient of sdRoundRect.
func gradRoundRect(qx, qy, hw, hh, r float32) (float32, float32) {
	dx := math32.Abs(qx) - hw + r
	dy := math32.Abs(qy) - hh + r
	sx, sy := float32(1), float32(1)
	if qx < 0 {
		sx = -1
	}
	if qy < 0 {
		sy = -1
	}
	if dx > 0 && dy > 0 {
		l := math32.Hypot(dx, dy)
		return sx * dx / l, sy * dy / l
	}
	if dx > dy {
		return sx, 0
	}
	return 0, sy
}

func smoothstep(e0, e1, x float32) float32 {
	if e1 == e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := (x - e0) / (e1 - e0)
	t = math32.Max(0, math32.Min(1, t))
	return t * t * (3 - 2*t)
}

func circleMap(x float32) float32 {
	return 1 - math32.Sqrt(math32.Max(1-x*x, 0))
}

func normalize(x, y float32) (float32, float32) {
	l := math32.Hypot(x, y)
	if l == 0 {
		return 0, 0
	}
	return x / l, y / l
}
