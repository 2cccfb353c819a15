package pipeline

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"pixelstream/internal/logger"
	"pixelstream/internal/processing/filters"
	"pixelstream/internal/stream"
)

// BenchCase is one filter run of the test bench.
type BenchCase struct {
	Mode      filters.FilterMode
	Threshold stream.Sample
}

// DefaultBenchCases runs every mode at threshold 128, except Threshold
// which uses 100.
func DefaultBenchCases() []BenchCase {
	modes := filters.Modes()
	cases := make([]BenchCase, 0, len(modes))
	for _, m := range modes {
		t := stream.Sample(128)
		if m == filters.ModeThreshold {
			t = 100
		}
		cases = append(cases, BenchCase{Mode: m, Threshold: t})
	}
	return cases
}

// BenchResult is the outcome of one BenchCase.
type BenchResult struct {
	Case    BenchCase
	Output  *image.Gray
	Stats   Stats
	TraceID string
	// Errors counts pixels that violate the property checked for the mode.
	Errors int
	Err    error
}

type BenchReport struct {
	Width, Height int
	Input         *image.Gray
	Results       []BenchResult
}

// Failures sums pixel errors and counts failed runs.
func (r BenchReport) Failures() int {
	n := 0
	for _, res := range r.Results {
		n += res.Errors
		if res.Err != nil {
			n++
		}
	}
	return n
}

func (r BenchReport) Passed() bool {
	return r.Failures() == 0
}

// Bench runs the reference test pattern through a Runner once per case and
// checks the mode properties that have an exact expected output.
type Bench struct {
	runner *Runner
	saver  *Saver
	logger logger.Logger
	outDir string
}

func NewBench(runner *Runner, log logger.Logger) *Bench {
	if log == nil {
		log = logger.NoOpLogger{}
	}
	return &Bench{runner: runner, saver: NewSaver(log), logger: log}
}

// WriteTo makes the bench save input.pgm and output_<mode>.pgm into dir.
func (b *Bench) WriteTo(dir string) {
	b.outDir = dir
}

func (b *Bench) Run(ctx context.Context, width, height int, cases []BenchCase) (BenchReport, error) {
	input := TestPattern(width, height)
	report := BenchReport{Width: width, Height: height, Input: input}

	if err := b.save("input.pgm", input); err != nil {
		return report, err
	}

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := BenchResult{Case: c}
		out, frame, err := b.runner.Run(ctx, c.Mode, c.Threshold, input)
		if err != nil {
			res.Err = err
			b.logger.Error("Bench", err, map[string]interface{}{"filter": c.Mode.String()})
			report.Results = append(report.Results, res)
			continue
		}

		res.Output = out
		res.Stats = CalculateStats(out)
		res.TraceID = frame.TraceID
		res.Errors = verify(c, input, out)

		b.logger.Info("Bench", "filter checked", map[string]interface{}{
			"filter":    c.Mode.String(),
			"threshold": int(c.Threshold),
			"min":       int(res.Stats.Min),
			"max":       int(res.Stats.Max),
			"avg":       res.Stats.Mean,
			"errors":    res.Errors,
		})

		if err := b.save(fmt.Sprintf("output_%s.pgm", c.Mode), out); err != nil {
			return report, err
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func (b *Bench) save(name string, img *image.Gray) error {
	if b.outDir == "" {
		return nil
	}
	return b.saver.SaveToPath(filepath.Join(b.outDir, name), img)
}

func verify(c BenchCase, input, output *image.Gray) int {
	in, out := Pixels(input), Pixels(output)
	bad := 0
	switch c.Mode {
	case filters.ModeBypass, filters.ModeGrayscale:
		for i := range in {
			if in[i] != out[i] {
				bad++
			}
		}
	case filters.ModeThreshold:
		for i := range out {
			want := stream.Sample(0)
			if in[i] > c.Threshold {
				want = 255
			}
			if out[i] != want {
				bad++
			}
		}
	case filters.ModeNegative:
		for i := range in {
			if out[i] != 255-in[i] {
				bad++
			}
		}
	}
	return bad
}
