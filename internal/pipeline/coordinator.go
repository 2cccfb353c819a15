package pipeline

import (
	"context"
	"fmt"
	"image"
	"sync"

	"pixelstream/internal/engine"
	"pixelstream/internal/logger"
	"pixelstream/internal/processing/chain"
	"pixelstream/internal/processing/filters"
	"pixelstream/internal/stream"
)

// Decoder reads a grayscale image from a file.
type Decoder interface {
	Decode(path string) (*ImageData, error)
}

// Encoder writes a grayscale image to a file.
type Encoder interface {
	Encode(path string, img *image.Gray) error
}

// Decode implements Decoder.
func (l *Loader) Decode(path string) (*ImageData, error) {
	return l.LoadFromPath(path)
}

// Encode implements Encoder.
func (s *Saver) Encode(path string, img *image.Gray) error {
	return s.SaveToPath(path, img)
}

// Coordinator holds the original and the most recent filtered image and
// moves them between the codec and the runner.
type Coordinator struct {
	mu             sync.RWMutex
	originalImage  *ImageData
	processedImage *ImageData
	lastReport     engine.FrameReport
	decoder        Decoder
	encoder        Encoder
	runner         *Runner
	logger         logger.Logger
}

func NewCoordinator(dec Decoder, enc Encoder, runner *Runner, log logger.Logger) *Coordinator {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &Coordinator{
		decoder: dec,
		encoder: enc,
		runner:  runner,
		logger:  log,
	}
}

func (c *Coordinator) LoadImage(path string) (*ImageData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.decoder.Decode(path)
	if err != nil {
		return nil, err
	}

	c.originalImage = data
	c.processedImage = nil
	return data, nil
}

// SetImage installs an in-memory image as the original.
func (c *Coordinator) SetImage(img *image.Gray, format string) *ImageData {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.originalImage = newImageData(img, format, "")
	c.processedImage = nil
	return c.originalImage
}

func (c *Coordinator) ProcessImage(ctx context.Context, mode filters.FilterMode, threshold stream.Sample) (*ImageData, error) {
	return c.ProcessChain(ctx, chain.NewProcessingChain([]chain.Step{{Mode: mode, Threshold: threshold}}))
}

// ProcessChain runs every step of pc over the original image, each pass
// consuming the previous pass's output.
func (c *Coordinator) ProcessChain(ctx context.Context, pc *chain.ProcessingChain) (*ImageData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.originalImage == nil {
		return nil, fmt.Errorf("no image loaded")
	}

	out, reports, err := pc.Execute(ctx, c.runner, c.originalImage.Image)
	if err != nil {
		return nil, err
	}

	c.processedImage = newImageData(out, c.originalImage.Format, "")
	c.lastReport = reports[len(reports)-1]

	c.logger.Debug("Coordinator", "chain completed", map[string]interface{}{
		"steps":  pc.String(),
		"passes": len(reports),
	})
	return c.processedImage, nil
}

func (c *Coordinator) SaveImage(path string) error {
	c.mu.RLock()
	processed := c.processedImage
	c.mu.RUnlock()

	if processed == nil {
		return fmt.Errorf("no processed image to save")
	}
	return c.encoder.Encode(path, processed.Image)
}

func (c *Coordinator) GetOriginalImage() *ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.originalImage
}

func (c *Coordinator) GetProcessedImage() *ImageData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.processedImage
}

func (c *Coordinator) LastReport() engine.FrameReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastReport
}

// CalculatePSNR compares the processed image with the original.
func (c *Coordinator) CalculatePSNR() (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.originalImage == nil || c.processedImage == nil {
		return 0, fmt.Errorf("both original and processed images are required")
	}
	return PSNR(c.originalImage.Image, c.processedImage.Image)
}
