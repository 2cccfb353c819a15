package pipeline

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"pixelstream/internal/logger"
	"pixelstream/internal/pipeline/pgm"
)

type Saver struct {
	logger      logger.Logger
	jpegQuality int
	pgmEncoding pgm.Encoding
}

func NewSaver(log logger.Logger) *Saver {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &Saver{logger: log, jpegQuality: 95, pgmEncoding: pgm.Plain}
}

// SetPGMEncoding selects plain (P2) or raw (P5) output for pgm files.
func (s *Saver) SetPGMEncoding(enc pgm.Encoding) {
	s.pgmEncoding = enc
}

// SaveToPath writes img, choosing the format from the file extension.
func (s *Saver) SaveToPath(path string, img *image.Gray) error {
	format := FormatFromPath(path)
	if format == "" {
		return fmt.Errorf("cannot infer image format from %q", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := s.SaveToWriter(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"path":   path,
		"format": format,
	})
	return nil
}

func (s *Saver) SaveToWriter(w io.Writer, img *image.Gray, format string) error {
	if img == nil {
		return fmt.Errorf("no image data to save")
	}

	b := img.Bounds()
	s.logger.Debug("ImageSaver", "saving image", map[string]interface{}{
		"format": format,
		"width":  b.Dx(),
		"height": b.Dy(),
	})

	var err error
	switch format {
	case "pgm":
		err = pgm.Encode(w, img, s.pgmEncoding)
	case "png":
		err = png.Encode(w, img)
	case "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: s.jpegQuality})
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
	if err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{"format": format})
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}
