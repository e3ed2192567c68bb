package filter

import (
	"math"

	"github.com/gogpu/glass/internal/cache"
)

// GaussianKernel generates a normalized 1D Gaussian kernel for sigma.
//
// The kernel size is 2*ceil(3*sigma)+1, which covers 99.7% of the
// distribution. For sigma <= 0 it returns the identity kernel [1].
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 || math.IsNaN(sigma) {
		return []float32{1.0}
	}

	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1
	kernel := make([]float32, size)

	// G(x) = exp(-x²/(2σ²)); the constant factor cancels in normalization.
	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	invSum := float32(1.0 / sum)
	for i := range kernel {
		kernel[i] *= invSum
	}
	return kernel
}

// kernelCacheSize bounds the number of distinct sigmas kept.
const kernelCacheSize = 64

// Keyed by sigma quantized to 0.01.
var kernels = cache.New[int, []float32](kernelCacheSize)

// CachedGaussianKernel returns a shared Gaussian kernel for sigma quantized
// to 0.01. Callers must not modify the returned slice.
func CachedGaussianKernel(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))
	return kernels.GetOrCreate(key, func() []float32 {
		return GaussianKernel(float64(key) / 100)
	})
}

// KernelRadius returns the half-width in pixels of the kernel for sigma.
func KernelRadius(sigma float64) int {
	if sigma <= 0 || math.IsNaN(sigma) {
		return 0
	}
	return int(math.Ceil(sigma * 3))
}
