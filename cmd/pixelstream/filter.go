package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pixelstream/internal/config"
	"pixelstream/internal/control"
	"pixelstream/internal/opencv"
	"pixelstream/internal/pipeline"
	"pixelstream/internal/pipeline/pgm"
	"pixelstream/internal/processing/chain"
	"pixelstream/internal/shutdown"
)

type filterOptions struct {
	in, out    string
	mode       string
	threshold  int
	decoder    string
	buffer     int
	controller bool
	rawPGM     bool
}

func newFilterCommand(app *application) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter one image file",
		Example: `  pixelstream filter --in photo.png --out edges.pgm --mode sobel
  pixelstream filter --in scan.tiff --out bw.png --mode threshold --threshold 100
  pixelstream filter --in photo.png --out soft-edges.png --mode gaussian,sobel`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.apply(cmd, app.cfg); err != nil {
				return err
			}
			return runFilter(cmd, app, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.in, "in", "i", "", "input image")
	f.StringVarP(&opts.out, "out", "o", "", "output image, format from extension")
	f.StringVarP(&opts.mode, "mode", "m", "", "filter mode, or a comma-separated chain such as gaussian,sobel")
	f.IntVarP(&opts.threshold, "threshold", "t", 0, "threshold for the threshold mode")
	f.StringVar(&opts.decoder, "decoder", "", "image codec: go or opencv")
	f.IntVar(&opts.buffer, "buffer", 0, "stream channel capacity")
	f.BoolVar(&opts.controller, "controller", false, "drive the frame through the register handshake")
	f.BoolVar(&opts.rawPGM, "raw-pgm", false, "write binary (P5) instead of plain (P2) pgm")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// apply folds explicitly set flags into cfg.
func (o *filterOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("mode") {
		pc, err := chain.Parse(o.mode, 0)
		if err != nil {
			return err
		}
		cfg.Filter = pc.Steps()[0].Mode
	}
	if f.Changed("threshold") {
		cfg.Threshold = o.threshold
	}
	if f.Changed("decoder") {
		cfg.Decoder = o.decoder
	}
	if f.Changed("buffer") {
		cfg.Buffer = o.buffer
	}
	return cfg.Validate()
}

func runFilter(cmd *cobra.Command, app *application, opts *filterOptions) error {
	cfg := app.cfg
	ctx := app.shutdown.Context()

	e, err := app.newEngine()
	if err != nil {
		return err
	}

	var frames pipeline.FrameRunner = pipeline.EngineRunner{Engine: e}
	if opts.controller {
		ctrl := control.New(e, app.logger)
		app.shutdown.Register("controller", shutdown.Func(ctrl.Abort))
		frames = pipeline.ControllerRunner{Controller: ctrl}
	}

	var (
		dec pipeline.Decoder
		enc pipeline.Encoder
	)
	switch cfg.Decoder {
	case config.DecoderOpenCV:
		codec := opencv.NewCodec(app.logger)
		dec, enc = codec, codec
	default:
		saver := pipeline.NewSaver(app.logger)
		if opts.rawPGM {
			saver.SetPGMEncoding(pgm.Raw)
		}
		dec, enc = pipeline.NewLoader(app.logger), saver
	}

	coord := pipeline.NewCoordinator(dec, enc, pipeline.NewRunner(frames, app.logger, cfg.Buffer), app.logger)

	original, err := coord.LoadImage(opts.in)
	if err != nil {
		return err
	}
	want := cfg.EngineConfig(original.Width, original.Height)
	if want.Width != original.Width || want.Height != original.Height {
		return fmt.Errorf("%s is %dx%d but the configuration pins %dx%d",
			opts.in, original.Width, original.Height, want.Width, want.Height)
	}

	pc := chain.NewProcessingChain([]chain.Step{{Mode: want.Filter, Threshold: want.Threshold}})
	if opts.mode != "" {
		if pc, err = chain.Parse(opts.mode, want.Threshold); err != nil {
			return err
		}
	}

	processed, err := coord.ProcessChain(ctx, pc)
	if err != nil {
		return err
	}
	if err := coord.SaveImage(opts.out); err != nil {
		return err
	}

	report := coord.LastReport()
	stats := pipeline.CalculateStats(processed.Image)
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s  [%s]  %s  %s  %s\n",
		opts.in, opts.out, pc, report.Config, stats, report.Duration)
	return nil
}
