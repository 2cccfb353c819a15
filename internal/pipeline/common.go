package pipeline

import (
	"image"

	"pixelstream/internal/stream"
)

// Pixels returns the samples of img in raster order, without stride
// padding.
func Pixels(img *image.Gray) []stream.Sample {
	b := img.Bounds()
	out := make([]stream.Sample, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[off:off+b.Dx()]...)
	}
	return out
}

// FromPixels wraps a raster of width*height samples as an image.
func FromPixels(pixels []stream.Sample, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return img
}
