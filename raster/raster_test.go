// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glass"
)

func fillImage(r image.Rectangle, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(r)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestColorRGBA8(t *testing.T) {
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, Premul(glass.RGB(1, 0, 0)).RGBA8())
	assert.Equal(t, color.RGBA{128, 0, 0, 128}, Premul(glass.RGBA{R: 1, A: 0.5}).RGBA8())
	// Colour never exceeds alpha.
	assert.Equal(t, color.RGBA{10, 10, 10, 10}, Color{R: 1, G: 1, B: 1, A: 10.0 / 255}.RGBA8())
	assert.Equal(t, color.RGBA{}, Color{R: -1, A: -1}.RGBA8())
}

func TestColorLerpScale(t *testing.T) {
	a := Color{R: 0, A: 1}
	b := Color{R: 1, A: 1}
	assert.InDelta(t, 0.25, a.Lerp(b, 0.25).R, 1e-6)
	assert.InDelta(t, 0.5, b.Scale(0.5).A, 1e-6)
	assert.InDelta(t, 1, a.Add(b).R, 1e-6)
}

func TestSampleEdges(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 12, 12))
	img.SetRGBA(10, 10, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(11, 10, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(10, 11, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(11, 11, color.RGBA{255, 255, 255, 255})

	t.Run("pixel centre", func(t *testing.T) {
		got := Sample(img, 10.5, 10.5, EdgeClamp).RGBA8()
		assert.Equal(t, color.RGBA{255, 0, 0, 255}, got)
	})
	t.Run("between pixels", func(t *testing.T) {
		got := Sample(img, 11, 10.5, EdgeClamp).RGBA8()
		assert.InDelta(t, 128, float64(got.R), 1)
		assert.InDelta(t, 128, float64(got.G), 1)
	})
	t.Run("clamp outside", func(t *testing.T) {
		got := Sample(img, 0, 0, EdgeClamp).RGBA8()
		assert.Equal(t, color.RGBA{255, 0, 0, 255}, got)
	})
	t.Run("decal outside", func(t *testing.T) {
		assert.Equal(t, Transparent, Sample(img, 0, 0, EdgeDecal))
	})
	t.Run("non-finite", func(t *testing.T) {
		assert.Equal(t, Transparent, Sample(img, math.Inf(1), 0, EdgeClamp))
	})
}

func TestImageShaderMapping(t *testing.T) {
	img := fillImage(image.Rect(0, 0, 4, 4), color.RGBA{0, 0, 0, 255})
	img.SetRGBA(3, 3, color.RGBA{255, 255, 255, 255})

	// Local units are half pixels.
	s := NewImageShader(img, Scale(2), EdgeClamp)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, s.At(1.75, 1.75).RGBA8())
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, s.At(0.25, 0.25).RGBA8())
}

func TestCanvasFillRect(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	c := NewCanvas(dst, Scale(2))

	c.FillRect(glass.R(1, 1, 2, 2), Paint{Color: Premul(glass.RGB(1, 0, 0))})

	assert.Equal(t, color.RGBA{}, dst.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, dst.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, dst.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(6, 6))
}

func TestCanvasShaderReceivesLocalCoordinates(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 1))
	c := NewCanvas(dst, Translate(2, 0))

	var seen [4]float32
	shader := ShaderFunc(func(x, y float32) Color {
		if x >= -2 && x < 2 {
			seen[int(x+2)] = x
		}
		return Color{A: 1}
	})
	c.FillRect(glass.R(-2, 0, 4, 1), Paint{Shader: shader})

	assert.InDelta(t, -1.5, seen[0], 1e-6)
	assert.InDelta(t, 1.5, seen[3], 1e-6)
	assert.Equal(t, uint8(255), dst.RGBAAt(0, 0).A)
}

func TestCanvasClipRoundRect(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	c := NewCanvas(dst, glass.Identity).Clip(glass.R(0, 0, 100, 100), glass.Uniform(40))

	c.FillRect(glass.R(0, 0, 100, 100), Paint{Color: Color{R: 1, G: 1, B: 1, A: 1}})

	assert.Equal(t, uint8(0), dst.RGBAAt(1, 1).A, "corner outside the rounded rect")
	assert.Equal(t, uint8(255), dst.RGBAAt(50, 50).A)
	assert.Equal(t, uint8(255), dst.RGBAAt(50, 1).A, "straight edge is inside")

	// Nested clips intersect.
	nested := c.Clip(glass.R(50, 0, 50, 100), glass.CornerRadius{})
	require.NotNil(t, nested.ClipMask())
	assert.Equal(t, uint8(0), nested.ClipMask().AlphaAt(25, 50).A)
	assert.Equal(t, uint8(255), nested.ClipMask().AlphaAt(75, 50).A)
}

func TestCanvasLayerPlus(t *testing.T) {
	dst := fillImage(image.Rect(0, 0, 10, 10), color.RGBA{100, 100, 100, 255})
	c := NewCanvas(dst, glass.Identity)

	layer := c.NewLayer(glass.R(2, 2, 4, 4))
	assert.Equal(t, image.Rect(2, 2, 6, 6), layer.Image().Rect)
	layer.FillRect(glass.R(2, 2, 4, 4), Paint{Color: Color{R: 0.2, G: 0.2, B: 0.2, A: 0.2}})
	c.DrawLayer(layer, BlendPlus, 1)

	assert.Equal(t, color.RGBA{151, 151, 151, 255}, dst.RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{100, 100, 100, 255}, dst.RGBAAt(0, 0))
}

func TestCanvasClearMode(t *testing.T) {
	dst := fillImage(image.Rect(0, 0, 4, 4), color.RGBA{0, 0, 0, 255})
	c := NewCanvas(dst, glass.Identity)
	c.FillRect(glass.R(0, 0, 2, 4), Paint{Mode: BlendClear})

	assert.Equal(t, color.RGBA{}, dst.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, dst.RGBAAt(3, 1))
}

func TestInvertConcat(t *testing.T) {
	m := Concat(Scale(2), Translate(3, 4))
	inv, ok := Invert(m)
	require.True(t, ok)
	id := Concat(m, inv)
	for i, want := range glass.Identity {
		assert.InDelta(t, want, id[i], 1e-12)
	}

	_, ok = Invert(Scale(0))
	assert.False(t, ok)
}

type fakeProgram struct{}

func (fakeProgram) Name() string { return "fake" }
func (fakeProgram) Uniforms() []UniformDecl {
	return []UniformDecl{{Name: "size", Components: 2}, {Name: "amount", Components: 1}}
}
func (fakeProgram) Children() []string { return []string{"content"} }
func (p fakeProgram) Bind(u Uniforms, children map[string]Shader) (Shader, error) {
	if err := CheckBinding(p, u, children); err != nil {
		return nil, err
	}
	return Solid{A: u.Float("amount")}, nil
}

func TestCheckBinding(t *testing.T) {
	p := fakeProgram{}
	content := map[string]Shader{"content": Solid{}}

	_, err := p.Bind(Uniforms{}.Set("size", 1, 2), content)
	assert.True(t, errors.Is(err, ErrMissingUniform))

	_, err = p.Bind(Uniforms{}.Set("size", 1, 2).Set("amount", 1), nil)
	assert.True(t, errors.Is(err, ErrMissingChild))

	s, err := p.Bind(Uniforms{}.Set("size", 1, 2).Set("amount", 0.5), content)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.At(0, 0).A, 1e-6)
}
