package glass

import "math"

// ProgressiveBlur fades the blurred lens output into the sharp backdrop
// along the vertical axis.
type ProgressiveBlur struct {
	Enabled bool `yaml:"enabled"`
	// Start and End are fractions of the surface height. Above Start the
	// blur is fully visible, below End it has faded out.
	Start         float64 `yaml:"start"`
	End           float64 `yaml:"end"`
	TintColor     RGBA    `yaml:"tintColor"`
	TintIntensity float64 `yaml:"tintIntensity"`
}

// Highlight configures the directional rim light drawn along the outline.
type Highlight struct {
	Enabled      bool    `yaml:"enabled"`
	Width        float64 `yaml:"width"`
	BlurRadius   float64 `yaml:"blurRadius"`
	Opacity      float64 `yaml:"opacity"`
	AngleDegrees float64 `yaml:"angle"`
	Falloff      float64 `yaml:"falloff"`
}

// Shadow configures the outer drop shadow or the inner shadow.
type Shadow struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float64 `yaml:"radius"`
	Offset  Point   `yaml:"offset"`
	Color   RGBA    `yaml:"color"`
	Opacity float64 `yaml:"opacity"`
}

// Interaction is the press/drag state driven by the host once per frame.
// Progress is 0 when released and 1 when fully pressed. Position is local.
type Interaction struct {
	Progress float64 `yaml:"progress"`
	Position Point   `yaml:"position"`
}

// DrawParameters is the per-frame configuration of one glass surface.
//
// Values are stored exactly as configured. Out-of-range or non-finite values
// are never rejected; they are clamped when consumed, see Clamped.
type DrawParameters struct {
	CornerRadius CornerRadius `yaml:"cornerRadius"`

	BackdropZoom   float64 `yaml:"backdropZoom"`
	BackdropOffset Point   `yaml:"backdropOffset"`

	RefractionHeight    float64 `yaml:"refractionHeight"`
	RefractionAmount    float64 `yaml:"refractionAmount"`
	DepthEffect         bool    `yaml:"depthEffect"`
	ChromaticAberration bool    `yaml:"chromaticAberration"`

	BlurRadius      float64 `yaml:"blurRadius"`
	Saturation      float64 `yaml:"saturation"`
	Brightness      float64 `yaml:"brightness"`
	Contrast        float64 `yaml:"contrast"`
	ExposureEV      float64 `yaml:"exposureEv"`
	GammaPower      float64 `yaml:"gammaPower"`
	BackdropOpacity float64 `yaml:"backdropOpacity"`

	TintColor    RGBA `yaml:"tintColor"`
	SurfaceColor RGBA `yaml:"surfaceColor"`

	Progressive ProgressiveBlur `yaml:"progressiveBlur"`
	Highlight   Highlight       `yaml:"highlight"`
	Shadow      Shadow          `yaml:"shadow"`
	InnerShadow Shadow          `yaml:"innerShadow"`
	Interactive Interaction     `yaml:"-"`
}

// DefaultParameters returns the stock glass look.
func DefaultParameters() DrawParameters {
	return DrawParameters{
		BackdropZoom:     1,
		RefractionHeight: 12,
		RefractionAmount: 24,
		BlurRadius:       2,
		Saturation:       1.5,
		Contrast:         1,
		GammaPower:       1,
		BackdropOpacity:  1,
		Progressive: ProgressiveBlur{
			Start:         0.5,
			End:           1,
			TintIntensity: 0.8,
		},
		Highlight: Highlight{
			Enabled:      true,
			Width:        0.5,
			BlurRadius:   0.25,
			Opacity:      0.5,
			AngleDegrees: 45,
			Falloff:      1,
		},
		Shadow: Shadow{
			Enabled: true,
			Radius:  24,
			Offset:  Point{Y: 4},
			Color:   RGBA8(0, 0, 0, 0x1A),
			Opacity: 1,
		},
		InnerShadow: Shadow{
			Radius:  24,
			Offset:  Point{Y: 24},
			Color:   RGBA8(0, 0, 0, 0x26),
			Opacity: 1,
		},
	}
}

// Zoom limits.
const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

// Clamped returns a copy of p with every numeric field inside its documented
// range for a surface of the given size. Non-finite values take the default.
func (p DrawParameters) Clamped(size Size) DrawParameters {
	d := DefaultParameters()
	c := p

	c.CornerRadius = p.CornerRadius.Clamp(size)
	c.BackdropZoom = ClampZoom(p.BackdropZoom)
	c.BackdropOffset = Point{X: finite(p.BackdropOffset.X, 0), Y: finite(p.BackdropOffset.Y, 0)}

	c.RefractionHeight = clampRange(p.RefractionHeight, d.RefractionHeight, 0, math.Max(0, size.MinSide()*0.5))
	c.RefractionAmount = finite(p.RefractionAmount, d.RefractionAmount)

	c.BlurRadius = clampRange(p.BlurRadius, d.BlurRadius, 0, 100)
	c.Saturation = clampRange(p.Saturation, d.Saturation, 0, 3)
	c.Brightness = clampRange(p.Brightness, d.Brightness, -1, 1)
	c.Contrast = clampRange(p.Contrast, d.Contrast, 0, 4)
	c.ExposureEV = clampRange(p.ExposureEV, d.ExposureEV, -8, 8)
	c.GammaPower = clampRange(p.GammaPower, d.GammaPower, 0.1, 8)
	c.BackdropOpacity = clampRange(p.BackdropOpacity, d.BackdropOpacity, 0, 1)

	c.TintColor = p.TintColor.Clamped()
	c.SurfaceColor = p.SurfaceColor.Clamped()

	c.Progressive.Start = clampRange(p.Progressive.Start, d.Progressive.Start, 0, 1)
	c.Progressive.End = clampRange(p.Progressive.End, d.Progressive.End, 0, 1)
	c.Progressive.TintColor = p.Progressive.TintColor.Clamped()
	c.Progressive.TintIntensity = clampRange(p.Progressive.TintIntensity, d.Progressive.TintIntensity, 0, 1)

	c.Highlight.Width = clampRange(p.Highlight.Width, d.Highlight.Width, 0, 100)
	c.Highlight.BlurRadius = clampRange(p.Highlight.BlurRadius, d.Highlight.BlurRadius, 0, 20)
	c.Highlight.Opacity = clampRange(p.Highlight.Opacity, d.Highlight.Opacity, 0, 1)
	c.Highlight.AngleDegrees = finite(p.Highlight.AngleDegrees, d.Highlight.AngleDegrees)
	c.Highlight.Falloff = clampRange(p.Highlight.Falloff, d.Highlight.Falloff, 0, 8)

	c.Shadow = p.Shadow.clamped(d.Shadow)
	c.InnerShadow = p.InnerShadow.clamped(d.InnerShadow)

	c.Interactive.Progress = clampRange(p.Interactive.Progress, 0, 0, 1)
	c.Interactive.Position = Point{
		X: clampRange(p.Interactive.Position.X, 0, 0, math.Max(0, size.W)),
		Y: clampRange(p.Interactive.Position.Y, 0, 0, math.Max(0, size.H)),
	}
	return c
}

func (s Shadow) clamped(d Shadow) Shadow {
	return Shadow{
		Enabled: s.Enabled,
		Radius:  clampRange(s.Radius, d.Radius, 0, 512),
		Offset:  Point{X: finite(s.Offset.X, 0), Y: finite(s.Offset.Y, 0)},
		Color:   s.Color.Clamped(),
		Opacity: clampRange(s.Opacity, d.Opacity, 0, 1),
	}
}

// Visible reports whether a clamped shadow would paint anything.
func (s Shadow) Visible() bool {
	return s.Enabled && s.Opacity > 0 && s.Color.A > 0 && s.Radius > 0
}

// ClampZoom maps a configured zoom into [MinZoom, MaxZoom]. Values at or
// below 0.0005 and non-finite values mean "no zoom".
func ClampZoom(z float64) float64 {
	if z <= 0.0005 || math.IsNaN(z) || math.IsInf(z, 0) {
		return 1
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// MinSamplingMargin is the smallest inflation applied around a surface when
// computing the capture clip.
const MinSamplingMargin = 32.0

// SamplingMargin returns how far outside its own bounds a surface of the
// given size may sample the backdrop, in device-independent units.
func (p DrawParameters) SamplingMargin(size Size) float64 {
	c := p.Clamped(size)
	refraction := math.Abs(c.RefractionAmount)
	if c.ChromaticAberration {
		refraction *= 2
	}
	zoom := c.BackdropZoom
	offset := math.Max(math.Abs(c.BackdropOffset.X), math.Abs(c.BackdropOffset.Y)) / zoom
	zoomOut := 0.0
	if zoom < 1 {
		zoomOut = (1/zoom - 1) * math.Max(size.W, size.H) * 0.5
	}
	return math.Max(MinSamplingMargin, refraction+c.BlurRadius*3+6+offset+zoomOut)
}

// FilterKey identifies a filtered derivative of a snapshot. Colour terms are
// quantised to 1/1000 and the blur sigma (device pixels) to 1/100.
type FilterKey struct {
	Brightness int32
	Contrast   int32
	Saturation int32
	Exposure   int32
	Opacity    int32
	Sigma      int32
}

var identityFilterKey = FilterKey{Contrast: 1000, Saturation: 1000, Opacity: 1000}

// FilterKey returns the cache key of the colour/blur chain for a snapshot
// captured at scale.
func (p DrawParameters) FilterKey(scale float64) FilterKey {
	c := p.Clamped(Size{})
	return FilterKey{
		Brightness: quantize(c.Brightness, 1000),
		Contrast:   quantize(c.Contrast, 1000),
		Saturation: quantize(c.Saturation, 1000),
		Exposure:   quantize(c.ExposureEV, 1000),
		Opacity:    quantize(c.BackdropOpacity, 1000),
		Sigma:      quantize(c.BlurRadius*finite(scale, 1), 100),
	}
}

// IsIdentity reports whether the key describes a no-op filter chain.
func (k FilterKey) IsIdentity() bool { return k == identityFilterKey }

// IsIdentityFilter reports whether the raw snapshot can be sampled directly.
func (p DrawParameters) IsIdentityFilter(scale float64) bool {
	return p.FilterKey(scale).IsIdentity()
}

// BlurSigma returns the quantised sigma in device pixels.
func (k FilterKey) BlurSigma() float64 { return float64(k.Sigma) / 100 }

func quantize(v, steps float64) int32 {
	return int32(math.Round(v * steps))
}

func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func clampRange(v, fallback, lo, hi float64) float64 {
	v = finite(v, fallback)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 0, 1)
}
