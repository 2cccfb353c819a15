package pipeline

import (
	"context"
	"image"

	"pixelstream/internal/engine"
	"pixelstream/internal/stream"
)

// FrameRunner executes one frame with the given parameters over a pair of
// streams.
type FrameRunner interface {
	RunFrame(ctx context.Context, cfg engine.Config, src stream.Source, dst stream.Sink) (engine.FrameReport, error)
}

// ImageData is a single-channel image together with where it came from.
type ImageData struct {
	Image  *image.Gray
	Width  int
	Height int
	Format string
	Path   string
}

func newImageData(img *image.Gray, format, path string) *ImageData {
	b := img.Bounds()
	return &ImageData{
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
		Path:   path,
	}
}
