package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"pixelstream/internal/logger"
	_ "pixelstream/internal/pipeline/pgm"
)

type Loader struct {
	logger logger.Logger
}

func NewLoader(log logger.Logger) *Loader {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &Loader{logger: log}
}

func (l *Loader) LoadFromPath(path string) (*ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	data, err := l.LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	data.Path = path
	return data, nil
}

func (l *Loader) LoadFromReader(r io.Reader) (*ImageData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	l.logger.Debug("ImageLoader", "image data read", map[string]interface{}{
		"size_bytes": len(raw),
	})

	return l.LoadFromBytes(raw)
}

// LoadFromBytes decodes any registered format and reduces it to a single
// 8-bit channel.
func (l *Loader) LoadFromBytes(raw []byte) (*ImageData, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	gray := ToGray(img)
	data := newImageData(gray, format, "")

	l.logger.Info("ImageLoader", "image loaded", map[string]interface{}{
		"width":  data.Width,
		"height": data.Height,
		"format": format,
	})
	return data, nil
}

// ToGray converts img to *image.Gray with its origin at (0, 0). Images that
// already are gray are returned as-is when they start at the origin.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// FormatFromPath maps a file extension to a format name understood by the
// saver.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pgm", ".pnm":
		return "pgm"
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return ""
	}
}
