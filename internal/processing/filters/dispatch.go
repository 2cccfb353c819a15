package filters

import (
	"pixelstream/internal/stream"
	"pixelstream/internal/window"
)

// Dispatch computes the output for current under mode. valid is the window
// completeness flag; only the stencil modes consult it.
//
// Near the border Sobel outputs black while Gaussian and Sharpen pass the
// raw sample through. Unknown modes pass through.
func Dispatch(mode FilterMode, threshold, current stream.Sample, w window.Grid, valid bool) stream.Sample {
	switch mode {
	case ModeBypass, ModeGrayscale:
		return current
	case ModeSobel:
		if !valid {
			return 0
		}
		return Sobel(w)
	case ModeThreshold:
		return Threshold(current, threshold)
	case ModeGaussian:
		if !valid {
			return current
		}
		return Gaussian(w)
	case ModeNegative:
		return Negative(current)
	case ModeSharpen:
		if !valid {
			return current
		}
		return Sharpen(w)
	default:
		return current
	}
}
