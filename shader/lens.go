package shader

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/glass/raster"
)

// Lens is the refraction program. Uniforms: size (2), cornerRadii (4),
// refractionHeight, refractionAmount, depthEffect, chromaticAberration.
// Child: content.
const Lens = "lens"

// chromaticSpread is the relative displacement difference between the red
// and blue samples at chromaticAberration 1.
const chromaticSpread = 0.1

type lensProgram struct{}

func (lensProgram) Name() string { return Lens }

func (lensProgram) Uniforms() []raster.UniformDecl {
	return []raster.UniformDecl{
		{Name: "size", Components: 2},
		{Name: "cornerRadii", Components: 4},
		{Name: "refractionHeight", Components: 1},
		{Name: "refractionAmount", Components: 1},
		{Name: "depthEffect", Components: 1},
		{Name: "chromaticAberration", Components: 1},
	}
}

func (lensProgram) Children() []string { return []string{"content"} }

func (p lensProgram) Bind(u raster.Uniforms, children map[string]raster.Shader) (raster.Shader, error) {
	if err := raster.CheckBinding(p, u, children); err != nil {
		return nil, err
	}
	s := &lensShader{
		content: children["content"],
		hw:      u["size"][0] * 0.5,
		hh:      u["size"][1] * 0.5,
		height:  u.Float("refractionHeight"),
		amount:  u.Float("refractionAmount"),
		depth:   u.Float("depthEffect"),
		ca:      u.Float("chromaticAberration"),
	}
	copy(s.radii[:], u["cornerRadii"])
	return s, nil
}

type lensShader struct {
	content raster.Shader
	hw, hh  float32
	radii   [4]float32
	height  float32
	amount  float32
	depth   float32
	ca      float32
}

// Displacement returns the sampling offset applied at local point (x, y).
func (s *lensShader) Displacement(x, y float32) (float32, float32) {
	qx, qy := x-s.hw, y-s.hh
	r := cornerRadius(qx, qy, s.radii)
	depth := -sdRoundRect(qx, qy, s.hw, s.hh, r)
	if s.height <= 0 || depth <= 0 || depth >= s.height {
		return 0, 0
	}
	t := depth / s.height
	d := circleMap(1-t) * smoothstep(0, 0.25, t) * s.amount

	gradR := math32.Min(r*1.5, math32.Min(s.hw, s.hh))
	nx, ny := gradRoundRect(qx, qy, s.hw, s.hh, gradR)
	if s.depth > 0 {
		cx, cy := normalize(qx, qy)
		nx, ny = normalize(nx+s.depth*cx, ny+s.depth*cy)
	}
	return nx * d, ny * d
}

func (s *lensShader) At(x, y float32) raster.Color {
	ox, oy := s.Displacement(x, y)
	g := s.content.At(x+ox, y+oy)
	if s.ca <= 0 || (ox == 0 && oy == 0) {
		return g
	}
	k := chromaticSpread * s.ca
	red := s.content.At(x+ox*(1+k), y+oy*(1+k))
	blue := s.content.At(x+ox*(1-k), y+oy*(1-k))
	return raster.Color{R: min(red.R, g.A), G: g.G, B: min(blue.B, g.A), A: g.A}
}
