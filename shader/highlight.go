package shader

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/glass/raster"
)

// Highlight program names.
const (
	// EdgeHighlight: size (2), cornerRadii (4), color (4), angle, falloff.
	EdgeHighlight = "edge_highlight"
	// InteractiveHighlight: size (2), position (2), color (4), radius.
	InteractiveHighlight = "interactive_highlight"
)

type edgeHighlightProgram struct{}

func (edgeHighlightProgram) Name() string { return EdgeHighlight }

func (edgeHighlightProgram) Uniforms() []raster.UniformDecl {
	return []raster.UniformDecl{
		{Name: "size", Components: 2},
		{Name: "cornerRadii", Components: 4},
		{Name: "color", Components: 4},
		{Name: "angle", Components: 1},
		{Name: "falloff", Components: 1},
	}
}

func (edgeHighlightProgram) Children() []string { return nil }

func (p edgeHighlightProgram) Bind(u raster.Uniforms, children map[string]raster.Shader) (raster.Shader, error) {
	if err := raster.CheckBinding(p, u, children); err != nil {
		return nil, err
	}
	angle := u.Float("angle")
	s := &edgeHighlightShader{
		hw:      u["size"][0] * 0.5,
		hh:      u["size"][1] * 0.5,
		color:   straightColor(u["color"]),
		dirX:    math32.Cos(angle),
		dirY:    math32.Sin(angle),
		falloff: u.Float("falloff"),
	}
	copy(s.radii[:], u["cornerRadii"])
	return s, nil
}

type edgeHighlightShader struct {
	hw, hh     float32
	radii      [4]float32
	color      raster.Color
	dirX, dirY float32
	falloff    float32
}

func (s *edgeHighlightShader) At(x, y float32) raster.Color {
	qx, qy := x-s.hw, y-s.hh
	nx, ny := gradRoundRect(qx, qy, s.hw, s.hh, cornerRadius(qx, qy, s.radii))
	k := math32.Pow(math32.Abs(nx*s.dirX+ny*s.dirY), math32.Max(s.falloff, 0))
	return s.color.Scale(k)
}

type interactiveHighlightProgram struct{}

func (interactiveHighlightProgram) Name() string { return InteractiveHighlight }

func (interactiveHighlightProgram) Uniforms() []raster.UniformDecl {
	return []raster.UniformDecl{
		{Name: "size", Components: 2},
		{Name: "position", Components: 2},
		{Name: "color", Components: 4},
		{Name: "radius", Components: 1},
	}
}

func (interactiveHighlightProgram) Children() []string { return nil }

func (p interactiveHighlightProgram) Bind(u raster.Uniforms, children map[string]raster.Shader) (raster.Shader, error) {
	if err := raster.CheckBinding(p, u, children); err != nil {
		return nil, err
	}
	pos := u["position"]
	color := straightColor(u["color"])
	radius := u.Float("radius")
	return raster.ShaderFunc(func(x, y float32) raster.Color {
		if radius <= 0 {
			return raster.Transparent
		}
		d := math32.Hypot(x-pos[0], y-pos[1])
		k := 1 - smoothstep(0, radius, d)
		return color.Scale(k * k)
	}), nil
}

// straightColor converts a straight-alpha rgba uniform to premultiplied.
func straightColor(v []float32) raster.Color {
	a := math32.Max(0, math32.Min(1, v[3]))
	return raster.Color{R: v[0] * a, G: v[1] * a, B: v[2] * a, A: a}
}
