package chain

import (
	"context"
	"fmt"
	"image"
	"strings"

	"pixelstream/internal/engine"
	"pixelstream/internal/processing/filters"
	"pixelstream/internal/stream"
)

// Step is one filter pass.
type Step struct {
	Mode      filters.FilterMode
	Threshold stream.Sample
}

func (s Step) Name() string {
	if s.Mode == filters.ModeThreshold {
		return fmt.Sprintf("%s(%d)", s.Mode, s.Threshold)
	}
	return s.Mode.String()
}

// Pass streams a whole image through the engine once.
type Pass interface {
	Run(ctx context.Context, mode filters.FilterMode, threshold stream.Sample, img *image.Gray) (*image.Gray, engine.FrameReport, error)
}

// ProcessingChain feeds each step's output frame into the next step.
type ProcessingChain struct {
	steps []Step
}

func NewProcessingChain(steps []Step) *ProcessingChain {
	return &ProcessingChain{
		steps: steps,
	}
}

// Parse reads a comma-separated list of modes, such as "gaussian,sobel".
// Every step uses threshold.
func Parse(s string, threshold stream.Sample) (*ProcessingChain, error) {
	var steps []Step
	for _, field := range strings.Split(s, ",") {
		mode, err := filters.ParseFilterMode(field)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Mode: mode, Threshold: threshold})
	}
	return NewProcessingChain(steps), nil
}

func (pc *ProcessingChain) Execute(ctx context.Context, pass Pass, input *image.Gray) (*image.Gray, []engine.FrameReport, error) {
	if len(pc.steps) == 0 {
		return nil, nil, fmt.Errorf("processing chain has no steps")
	}

	current := input
	reports := make([]engine.FrameReport, 0, len(pc.steps))

	for i, step := range pc.steps {
		select {
		case <-ctx.Done():
			return nil, reports, ctx.Err()
		default:
		}

		result, report, err := pass.Run(ctx, step.Mode, step.Threshold, current)
		if err != nil {
			return nil, reports, fmt.Errorf("step %d (%s) failed: %w", i, step.Name(), err)
		}

		reports = append(reports, report)
		current = result
	}

	return current, reports, nil
}

func (pc *ProcessingChain) AddStep(step Step) {
	pc.steps = append(pc.steps, step)
}

func (pc *ProcessingChain) InsertStep(index int, step Step) error {
	if index < 0 || index > len(pc.steps) {
		return fmt.Errorf("index out of range: %d", index)
	}

	pc.steps = append(pc.steps[:index], append([]Step{step}, pc.steps[index:]...)...)
	return nil
}

func (pc *ProcessingChain) RemoveStep(index int) error {
	if index < 0 || index >= len(pc.steps) {
		return fmt.Errorf("index out of range: %d", index)
	}

	pc.steps = append(pc.steps[:index], pc.steps[index+1:]...)
	return nil
}

func (pc *ProcessingChain) Steps() []Step {
	return append([]Step(nil), pc.steps...)
}

func (pc *ProcessingChain) StepCount() int {
	return len(pc.steps)
}

func (pc *ProcessingChain) GetStepNames() []string {
	names := make([]string, len(pc.steps))
	for i, step := range pc.steps {
		names[i] = step.Name()
	}
	return names
}

func (pc *ProcessingChain) String() string {
	return strings.Join(pc.GetStepNames(), " -> ")
}
