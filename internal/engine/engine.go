// Package engine runs the single-pass 3x3 filter over a raster sample
// stream.
//
// A frame is processed in strict raster order: every sample read produces
// exactly one sample written, whatever the filter mode. The only state kept
// between samples is two line buffers of the configured width and the 3x3
// window, both owned by the running frame and dropped when it returns.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pixelstream/internal/logger"
	"pixelstream/internal/processing/filters"
	"pixelstream/internal/stream"
	"pixelstream/internal/window"
)

const component = "Engine"

// ErrTrailingData is returned by Process when more samples were supplied
// than the frame holds.
var ErrTrailingData = errors.New("samples left over after the frame was complete")

// FrameReport summarises one completed (or failed) frame.
type FrameReport struct {
	TraceID  string
	Config   Config
	Samples  int
	Duration time.Duration
}

// Engine is the reusable filter core. Configure it, then run frames one at
// a time; at most one frame may be active per Engine.
type Engine struct {
	logger logger.Logger
	limits Limits

	mu         sync.Mutex
	cfg        Config
	configured bool

	running atomic.Bool
}

type Option func(*Engine)

func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLimits overrides the maximum frame dimensions.
func WithLimits(l Limits) Option {
	return func(e *Engine) {
		e.limits = l
	}
}

func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: logger.NoOpLogger{},
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.limits.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) Limits() Limits {
	return e.limits
}

// Configure validates and stores the parameters for subsequent frames. An
// invalid configuration is rejected and the previous one is kept.
func (e *Engine) Configure(cfg Config) error {
	if err := e.limits.Validate(cfg); err != nil {
		e.logger.Warning(component, "configuration rejected", map[string]interface{}{
			"config": cfg.String(),
			"error":  err.Error(),
		})
		return err
	}
	if !cfg.Filter.Valid() {
		e.logger.Warning(component, "unknown filter mode, samples will pass through", map[string]interface{}{
			"filter": uint8(cfg.Filter),
		})
	}

	e.mu.Lock()
	e.cfg = cfg
	e.configured = true
	e.mu.Unlock()
	return nil
}

// Config returns the stored configuration.
func (e *Engine) Config() (Config, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg, e.configured
}

// IsProcessing reports whether a frame is in flight.
func (e *Engine) IsProcessing() bool {
	return e.running.Load()
}

// RunFrame reads exactly width*height samples from src and writes the same
// number to dst. Reads and writes block as the streams do; cancelling ctx
// aborts the frame and discards its line history.
func (e *Engine) RunFrame(ctx context.Context, src stream.Source, dst stream.Sink) (FrameReport, error) {
	if !e.running.CompareAndSwap(false, true) {
		return FrameReport{}, ErrBusy
	}
	defer e.running.Store(false)

	cfg, ok := e.Config()
	if !ok {
		return FrameReport{}, ErrNotConfigured
	}

	report := FrameReport{
		TraceID: uuid.NewString(),
		Config:  cfg,
	}
	start := time.Now()

	e.logger.Debug(component, "frame started", map[string]interface{}{
		"trace_id":  report.TraceID,
		"filter":    cfg.Filter.String(),
		"threshold": cfg.Threshold,
		"width":     cfg.Width,
		"height":    cfg.Height,
	})

	err := e.run(ctx, cfg, src, dst, &report)
	report.Duration = time.Since(start)

	if err != nil {
		e.logger.Error(component, err, map[string]interface{}{
			"trace_id": report.TraceID,
			"samples":  report.Samples,
		})
		return report, err
	}

	e.logger.Debug(component, "frame completed", map[string]interface{}{
		"trace_id": report.TraceID,
		"samples":  report.Samples,
		"duration": report.Duration.String(),
	})
	return report, nil
}

func (e *Engine) run(ctx context.Context, cfg Config, src stream.Source, dst stream.Sink, report *FrameReport) error {
	asm, err := window.New(cfg.Width)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for row := 0; row < cfg.Height; row++ {
		for col := 0; col < cfg.Width; col++ {
			in, err := src.Read(ctx)
			if err != nil {
				if stream.IsEOF(err) {
					err = ErrStreamUnderrun
				}
				return &StreamError{Row: row, Col: col, Err: err}
			}
			if err := in.Validate(); err != nil {
				return &StreamError{Row: row, Col: col, Err: fmt.Errorf("%w: %v", ErrMalformedSample, err)}
			}

			asm.Push(col, in.Data)
			out := filters.Dispatch(cfg.Filter, cfg.Threshold, in.Data, asm.Window(), window.Complete(row, col))

			if err := dst.Write(ctx, propagate(in, out, col, cfg.Width)); err != nil {
				return &StreamError{Row: row, Col: col, Err: err}
			}
			report.Samples++
		}
	}
	return nil
}

// Process configures the engine with cfg and filters a whole raster held in
// memory. len(pixels) must equal cfg.Width*cfg.Height.
func (e *Engine) Process(ctx context.Context, cfg Config, pixels []stream.Sample) ([]stream.Sample, error) {
	if err := e.Configure(cfg); err != nil {
		return nil, err
	}

	src := stream.NewSliceSource(stream.Tag(pixels, cfg.Width))
	dst := stream.NewCollector(cfg.Samples())
	if _, err := e.RunFrame(ctx, src, dst); err != nil {
		return nil, err
	}
	if n := src.Remaining(); n > 0 {
		return nil, fmt.Errorf("%d extra samples: %w", n, ErrTrailingData)
	}
	return dst.Data(), nil
}
