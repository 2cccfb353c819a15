package opencv

import (
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"strings"

	"gocv.io/x/gocv"

	"pixelstream/internal/logger"
	"pixelstream/internal/pipeline"
)

const component = "OpenCVCodec"

// Codec reads and writes grayscale images through OpenCV's imgcodecs.
type Codec struct {
	logger logger.Logger
}

func NewCodec(log logger.Logger) *Codec {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &Codec{logger: log}
}

// Decode implements pipeline.Decoder.
func (c *Codec) Decode(path string) (*pipeline.ImageData, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer mat.Close()

	if err := ValidateMatForOperation(mat, "IMRead"); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	gray, err := MatToGray(mat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	c.logger.Info(component, "image loaded", map[string]interface{}{
		"path":   path,
		"width":  mat.Cols(),
		"height": mat.Rows(),
	})

	return &pipeline.ImageData{
		Image:  gray,
		Width:  mat.Cols(),
		Height: mat.Rows(),
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Path:   path,
	}, nil
}

// Encode implements pipeline.Encoder. The format follows the extension, as
// OpenCV decides it.
func (c *Codec) Encode(path string, img *image.Gray) error {
	mat, err := GrayToMat(img)
	if err != nil {
		return err
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("OpenCV could not write %s", path)
	}

	c.logger.Info(component, "image saved", map[string]interface{}{
		"path": path,
	})
	return nil
}

// MatToGray copies a single-channel 8-bit Mat, or converts a BGR/BGRA Mat,
// into an *image.Gray.
func MatToGray(mat gocv.Mat) (*image.Gray, error) {
	if err := ValidateMatForOperation(mat, "Mat to gray conversion"); err != nil {
		return nil, err
	}

	src := mat
	switch mat.Channels() {
	case 1:
	case 3, 4:
		code := gocv.ColorBGRToGray
		if mat.Channels() == 4 {
			code = gocv.ColorBGRAToGray
		}
		converted := gocv.NewMat()
		defer converted.Close()
		gocv.CvtColor(mat, &converted, code)
		src = converted
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", mat.Channels())
	}

	if err := ValidateMatType(src.Type(), "Mat to gray conversion"); err != nil {
		return nil, err
	}

	rows, cols := src.Rows(), src.Cols()
	data := src.ToBytes()
	if len(data) < rows*cols {
		return nil, fmt.Errorf("Mat holds %d bytes, need %d", len(data), rows*cols)
	}

	gray := image.NewGray(image.Rect(0, 0, cols, rows))
	copy(gray.Pix, data[:rows*cols])
	return gray, nil
}

// GrayToMat builds a CV_8UC1 Mat holding a copy of img. The caller closes
// the result.
func GrayToMat(img *image.Gray) (gocv.Mat, error) {
	if img == nil {
		return gocv.Mat{}, fmt.Errorf("input image is nil")
	}

	b := img.Bounds()
	if err := ValidateDimensions(b.Dx(), b.Dy(), "gray to Mat conversion"); err != nil {
		return gocv.Mat{}, err
	}

	pixels := pipeline.Pixels(img)
	view, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1, pixels)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("Mat creation failed: %w", err)
	}
	defer view.Close()

	// view borrows pixels; the clone owns its buffer.
	mat := view.Clone()
	runtime.KeepAlive(pixels)
	return mat, nil
}
