package blend

import (
	"math"
	"testing"
)

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestHueKeepsBackdropSatAndLum(t *testing.T) {
	tests := []struct {
		name     string
		src, dst rgb
		keepSat  bool
	}{
		{"red over grey", rgb{1, 0, 0}, rgb{0.5, 0.5, 0.5}, true},
		{"green over muted purple", rgb{0, 1, 0}, rgb{0.5, 0.2, 0.6}, true},
		// Clipping into range trades saturation for luminosity.
		{"blue over yellow", rgb{0, 0, 1}, rgb{1, 1, 0}, false},
		// A grey source has no hue to carry.
		{"grey over teal", rgb{0.3, 0.3, 0.3}, rgb{0.1, 0.6, 0.6}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hue(tt.src, tt.dst)
			for i, v := range got {
				if v < -1e-6 || v > 1+1e-6 {
					t.Fatalf("channel %d = %v out of range", i, v)
				}
			}
			if !near(got.lum(), tt.dst.lum(), 0.01) {
				t.Errorf("lum = %v, want %v", got.lum(), tt.dst.lum())
			}
			if tt.keepSat && !near(got.sat(), tt.dst.sat(), 0.01) {
				t.Errorf("sat = %v, want %v", got.sat(), tt.dst.sat())
			}
		})
	}
}

func TestHueTakesSourceHue(t *testing.T) {
	got := hue(rgb{1, 0, 0}, rgb{0.2, 0.4, 0.6})
	if !(got[0] > got[1] && near(got[1], got[2], 1e-5)) {
		t.Errorf("hue(red, blue-ish) = %v, want a red-dominant colour", got)
	}
}

func TestBlendHuePixels(t *testing.T) {
	t.Run("grey backdrop collapses to grey", func(t *testing.T) {
		r, g, b, a := blendHue(255, 0, 0, 255, 128, 128, 128, 255)
		if a != 255 || r != 128 || g != 128 || b != 128 {
			t.Errorf("blendHue(red, grey) = (%d, %d, %d, %d), want (128, 128, 128, 255)", r, g, b, a)
		}
	})

	t.Run("transparent source keeps destination", func(t *testing.T) {
		r, g, b, a := blendHue(0, 0, 0, 0, 10, 20, 30, 40)
		if r != 10 || g != 20 || b != 30 || a != 40 {
			t.Errorf("blendHue = (%d, %d, %d, %d)", r, g, b, a)
		}
	})

	t.Run("transparent destination takes source", func(t *testing.T) {
		r, g, b, a := blendHue(100, 50, 0, 200, 0, 0, 0, 0)
		if r != 100 || g != 50 || b != 0 || a != 200 {
			t.Errorf("blendHue = (%d, %d, %d, %d)", r, g, b, a)
		}
	})

	t.Run("half transparent source", func(t *testing.T) {
		_, _, _, a := blendHue(128, 0, 0, 128, 0, 128, 0, 128)
		if a < 190 || a > 193 {
			t.Errorf("alpha = %d, want about 192", a)
		}
	})
}
