package filters

import "pixelstream/internal/window"

// Kernel is a 3x3 integer coefficient matrix indexed [row][col].
type Kernel [window.Size][window.Size]int

var (
	SobelX = Kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	SobelY = Kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	// GaussianKernel sums to 16.
	GaussianKernel = Kernel{
		{1, 2, 1},
		{2, 4, 2},
		{1, 2, 1},
	}

	// SharpenKernel sums to 1, so flat regions pass through unchanged.
	SharpenKernel = Kernel{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	}
)

// gaussianShift divides a Gaussian sum by the kernel weight (16).
const gaussianShift = 4

// Convolve returns the weighted sum of w under k. The largest magnitude any
// of the fixed kernels can reach is 255*16, well inside int.
func Convolve(w window.Grid, k Kernel) int {
	sum := 0
	for i := 0; i < window.Size; i++ {
		for j := 0; j < window.Size; j++ {
			sum += int(w[i][j]) * k[i][j]
		}
	}
	return sum
}

// Sum returns the sum of all coefficients.
func (k Kernel) Sum() int {
	sum := 0
	for _, row := range k {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}
