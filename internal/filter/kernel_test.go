package filter

import (
	"math"
	"testing"
)

func TestGaussianKernelIdentity(t *testing.T) {
	for _, sigma := range []float64{0, -5, math.NaN()} {
		kernel := GaussianKernel(sigma)
		if len(kernel) != 1 || kernel[0] != 1.0 {
			t.Errorf("GaussianKernel(%v) = %v, want [1]", sigma, kernel)
		}
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, sigma := range []float64{0.25, 1, 2, 3, 5, 10, 20} {
		var sum float32
		for _, v := range GaussianKernel(sigma) {
			sum += v
		}
		if math.Abs(float64(sum)-1.0) > 0.001 {
			t.Errorf("GaussianKernel(%v) sum = %v, want ~1.0", sigma, sum)
		}
	}
}

func TestGaussianKernelSymmetric(t *testing.T) {
	kernel := GaussianKernel(5)
	n := len(kernel)
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if math.Abs(float64(kernel[i]-kernel[j])) > 0.0001 {
			t.Errorf("kernel[%d] = %v != kernel[%d] = %v", i, kernel[i], j, kernel[j])
		}
	}
}

func TestGaussianKernelSize(t *testing.T) {
	tests := []struct {
		sigma    float64
		wantSize int
	}{
		{0.5, 5},   // ceil(1.5)*2+1
		{1.0, 7},   // ceil(3)*2+1
		{2.0, 13},  // ceil(6)*2+1
		{5.0, 31},  // ceil(15)*2+1
		{10.0, 61}, // ceil(30)*2+1
	}
	for _, tt := range tests {
		if got := len(GaussianKernel(tt.sigma)); got != tt.wantSize {
			t.Errorf("GaussianKernel(%v) len = %d, want %d", tt.sigma, got, tt.wantSize)
		}
		if got := KernelRadius(tt.sigma)*2 + 1; got != tt.wantSize {
			t.Errorf("KernelRadius(%v)*2+1 = %d, want %d", tt.sigma, got, tt.wantSize)
		}
	}
}

func TestCachedGaussianKernelShared(t *testing.T) {
	a := CachedGaussianKernel(3.001)
	b := CachedGaussianKernel(3.0)
	if &a[0] != &b[0] {
		t.Error("sigmas within 0.01 should share a kernel")
	}
	if len(a) != len(GaussianKernel(3)) {
		t.Errorf("cached kernel len = %d", len(a))
	}
}
