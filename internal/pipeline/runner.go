package pipeline

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"pixelstream/internal/control"
	"pixelstream/internal/engine"
	"pixelstream/internal/logger"
	"pixelstream/internal/processing/filters"
	"pixelstream/internal/stream"
)

// EngineRunner drives an engine directly.
type EngineRunner struct {
	Engine *engine.Engine
}

func (r EngineRunner) RunFrame(ctx context.Context, cfg engine.Config, src stream.Source, dst stream.Sink) (engine.FrameReport, error) {
	if err := r.Engine.Configure(cfg); err != nil {
		return engine.FrameReport{}, err
	}
	return r.Engine.RunFrame(ctx, src, dst)
}

// ControllerRunner drives a frame through the register handshake: write the
// parameter registers, start, wait for done.
type ControllerRunner struct {
	Controller *control.Controller
}

func (r ControllerRunner) RunFrame(ctx context.Context, cfg engine.Config, src stream.Source, dst stream.Sink) (engine.FrameReport, error) {
	r.Controller.Configure(cfg)
	if err := r.Controller.Start(ctx, src, dst); err != nil {
		return engine.FrameReport{}, err
	}
	report, err := r.Controller.Wait(ctx)
	if err != nil && ctx.Err() != nil {
		r.Controller.Abort()
	}
	return report, err
}

// Runner streams an in-memory image through a FrameRunner. A feeder, the
// frame and a drainer run as separate goroutines joined by channels of
// the configured capacity, so the frame sees a real blocking stream.
type Runner struct {
	frames FrameRunner
	logger logger.Logger
	buffer int
}

func NewRunner(frames FrameRunner, log logger.Logger, buffer int) *Runner {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Runner{frames: frames, logger: log, buffer: buffer}
}

// Run filters img with mode and threshold. The frame size is taken from
// the image.
func (r *Runner) Run(ctx context.Context, mode filters.FilterMode, threshold stream.Sample, img *image.Gray) (*image.Gray, engine.FrameReport, error) {
	b := img.Bounds()
	cfg := engine.Config{
		Filter:    mode,
		Threshold: threshold,
		Width:     b.Dx(),
		Height:    b.Dy(),
	}
	input := stream.Tag(Pixels(img), cfg.Width)
	output := make([]stream.Sample, 0, len(input))

	in := make(chan stream.TaggedSample, r.buffer)
	out := make(chan stream.TaggedSample, r.buffer)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(in)
		sink := stream.NewChanSink(in)
		for _, s := range input {
			if err := sink.Write(gctx, s); err != nil {
				return err
			}
		}
		return nil
	})

	var report engine.FrameReport
	g.Go(func() error {
		defer close(out)
		var err error
		report, err = r.frames.RunFrame(gctx, cfg, stream.NewChanSource(in), stream.NewChanSink(out))
		return err
	})

	g.Go(func() error {
		for s := range out {
			output = append(output, s.Data)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, report, fmt.Errorf("frame %s failed: %w", cfg, err)
	}
	if len(output) != cfg.Samples() {
		return nil, report, fmt.Errorf("frame %s produced %d samples: %w", cfg, len(output), engine.ErrStreamUnderrun)
	}

	r.logger.Info("Runner", "frame processed", map[string]interface{}{
		"trace_id": report.TraceID,
		"filter":   mode.String(),
		"size":     fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"duration": report.Duration.String(),
	})
	return FromPixels(output, cfg.Width, cfg.Height), report, nil
}
