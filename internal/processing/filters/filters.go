// Package filters holds the per-sample compute kernels of the engine and
// the dispatcher that selects between them.
package filters

import (
	"pixelstream/internal/stream"
	"pixelstream/internal/window"
)

// Sobel approximates the gradient magnitude as |gx| + |gy|, saturated to
// 8 bits.
func Sobel(w window.Grid) stream.Sample {
	gx := Convolve(w, SobelX)
	gy := Convolve(w, SobelY)
	return saturate(abs(gx) + abs(gy))
}

// Gaussian is a 3x3 binomial blur. The shift floors; the kernel is
// normalised so the result always fits in a sample.
func Gaussian(w window.Grid) stream.Sample {
	return stream.Sample(Convolve(w, GaussianKernel) >> gaussianShift)
}

// Sharpen applies the Laplacian sharpening kernel, clamped to [0, 255].
func Sharpen(w window.Grid) stream.Sample {
	return saturate(Convolve(w, SharpenKernel))
}

// Threshold binarises s: 255 when strictly above t, otherwise 0.
func Threshold(s, t stream.Sample) stream.Sample {
	if s > t {
		return 255
	}
	return 0
}

// Negative inverts s.
func Negative(s stream.Sample) stream.Sample {
	return 255 - s
}

func saturate(v int) stream.Sample {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return stream.Sample(v)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
